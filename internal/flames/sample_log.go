package flames

import (
	"fmt"
	"strings"
)

// Outcome is what happened to one sample offered to a histogram.
type Outcome uint8

const (
	Landed    Outcome = iota // accumulated into a cell
	OutOfGrid                // finite, but outside the viewport
	NonFinite                // diverged point or color
	numOutcomes
)

var outcomeNames = [...]string{"landed", "out_of_grid", "non_finite"}

func (o Outcome) String() string {
	if o < numOutcomes {
		return outcomeNames[o]
	}
	return fmt.Sprintf("outcome(%d)", o)
}

// SampleLog counts samples per outcome. Each histogram owns one, so workers never share it.
type SampleLog [numOutcomes]int64

func (l *SampleLog) log(o Outcome) { l[o]++ }

func (l *SampleLog) merge(o *SampleLog) {
	for i := range l {
		l[i] += o[i]
	}
}

// Total is the number of samples offered.
func (l *SampleLog) Total() int64 {
	var n int64
	for _, v := range l {
		n += v
	}
	return n
}

func (l SampleLog) String() string {
	parts := make([]string, 0, len(l))
	for i, v := range l {
		parts = append(parts, fmt.Sprintf("%s=%d", Outcome(i), v))
	}
	return strings.Join(parts, " ")
}
