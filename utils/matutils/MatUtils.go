// Package matutils implements utility function for working with mat.Matrix
// structs
package matutils

import (
	"gonum.org/v1/gonum/mat"
)

// Flatten returns the elements of a matrix in row major order. The
// returned slice never shares memory with the matrix.
func Flatten(x *mat.Dense) []float64 {
	rows, cols := x.Dims()
	data := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		data = append(data, x.RawRowView(i)...)
	}
	return data
}
