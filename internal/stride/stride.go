// Package stride resolves the arithmetic progression of indices a scan
// visits over a fixed-length domain.
package stride

import "errors"

var (
	ErrZero   = errors.New("stride is zero")
	ErrOffset = errors.New("offset out of range")
)

// Progression visits Offset, Offset+Step, Offset+2*Step, ... for at most N
// steps while the index stays within [0, N).
type Progression struct {
	N      int
	Offset int
	Step   int
}

// Default returns the starting offset used when only a step is known: the
// first index for forward traversal and the last for backward traversal.
func Default(n, step int) int {
	if step < 0 && n > 0 {
		return n - 1
	}
	return 0
}

// Resolve validates step and offset against a domain of n elements. A nil
// offset is defaulted from the sign of step.
func Resolve(n int, offset *int, step int) (Progression, error) {
	if step == 0 {
		return Progression{}, ErrZero
	}

	o := Default(n, step)
	if offset != nil {
		o = *offset
	}

	if n > 0 && (o < 0 || o >= n) {
		return Progression{}, ErrOffset
	}

	return Progression{N: n, Offset: o, Step: step}, nil
}

// Steps returns the number of indices the progression visits.
func (p Progression) Steps() int {
	if p.N == 0 {
		return 0
	}

	var remaining int
	if p.Step > 0 {
		remaining = (p.N - 1 - p.Offset) / p.Step
	} else {
		remaining = p.Offset / -p.Step
	}

	return min(remaining+1, p.N)
}

// Last returns the final index visited, or -1 for an empty domain.
func (p Progression) Last() int {
	steps := p.Steps()
	if steps == 0 {
		return -1
	}
	return p.Offset + (steps-1)*p.Step
}
