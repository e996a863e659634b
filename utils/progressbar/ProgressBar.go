// Package progressbar implements functionality of printing a progress
// bar to a terminal window
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ProgressBar implements a progress bar that must be manually managed.
// That is, Display must be called whenever an updated progress bar
// should be written.
//
// ProgressBar does not use concurrency and is not safe for concurrent
// use.
type ProgressBar struct {
	w               io.Writer
	width           float64
	maxProgress     float64
	currentProgress float64
	bar             strings.Builder
	startTime       time.Time

	// Suffix is written after the bar on each Display
	Suffix string
}

// New returns a new ProgressBar that is width characters wide, writes
// to w, and reaches 100% after max calls to Increment
func New(w io.Writer, width, max int) *ProgressBar {
	if max < 1 {
		max = 1
	}
	return &ProgressBar{
		w:           w,
		width:       float64(width),
		maxProgress: float64(max),
		startTime:   time.Now(),
	}
}

// Increment increments the interal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ProgressBar) Increment() {
	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}
}

// Progress returns the fraction of progress made, in [0, 1]
func (p *ProgressBar) Progress() float64 {
	return p.currentProgress / p.maxProgress
}

// Display overwrites the current line with the progress bar
func (p *ProgressBar) Display() {
	fmt.Fprintf(p.w, "\r\033[K%v", p.String())
}

// Finish displays the progress bar and moves to the next line
func (p *ProgressBar) Finish() {
	p.Display()
	fmt.Fprintln(p.w)
}

// String implements the fmt.Stringer interface
func (p *ProgressBar) String() string {
	p.bar.Reset()
	p.bar.WriteString("|")

	currentProg := p.Progress() * p.width
	for i := 0.0; i < currentProg; i++ {
		p.bar.WriteString("█")
	}
	for i := currentProg; i < p.width; i++ {
		p.bar.WriteString(" ")
	}
	fmt.Fprintf(&p.bar, "| [%.2f%% | elapsed: %v]", p.Progress()*100,
		time.Since(p.startTime).Truncate(time.Second))

	if p.Suffix != "" {
		p.bar.WriteString(" ")
		p.bar.WriteString(p.Suffix)
	}
	return p.bar.String()
}
