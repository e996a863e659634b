package intutils

// Prod returns the product of a list of integers, for example the
// number of elements in a tensor with shape ints. The product of an
// empty list is 1, the size of a scalar.
func Prod(ints ...int) int {
	p := 1
	for _, val := range ints {
		p *= val
	}
	return p
}
