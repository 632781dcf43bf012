// Package cunone cumulatively tests whether no element of a sequence
// satisfies a predicate.
//
// For every index i visited, the result holds true iff the predicate
// returned false for every element visited up to and including i. Once an
// element satisfies the predicate every later position in traversal order is
// false and the predicate is not invoked again.
package cunone

import (
	"errors"
	"fmt"

	"github.com/vasilisp/cunone/internal/stride"
	"github.com/vasilisp/cunone/internal/util"
)

// Predicate tests the element v read at index i of x.
type Predicate[T any] func(v T, i int, x Array[T]) bool

// ContextPredicate is a Predicate that receives a caller-owned context as its
// first argument. The context is handed over as is on every invocation, so
// state the predicate needs to keep across calls should live behind a
// pointer.
type ContextPredicate[C, T any] func(ctx C, v T, i int, x Array[T]) bool

// By scans x from the first to the last element.
func By[T any](x Array[T], predicate Predicate[T]) ([]bool, error) {
	return Scan(x, predicate)
}

// ByContext scans x from the first to the last element, passing ctx to every
// predicate invocation.
func ByContext[C, T any](x Array[T], predicate ContextPredicate[C, T], ctx C) ([]bool, error) {
	return ScanContext(x, predicate, ctx)
}

// ByOffset scans x forward starting at offset.
func ByOffset[T any](x Array[T], predicate Predicate[T], offset int) ([]bool, error) {
	return Scan(x, predicate, WithOffset(offset))
}

// ByStrided scans x starting at offset and moving stride indices per step.
// A negative stride walks backward.
func ByStrided[T any](x Array[T], predicate Predicate[T], offset, stride int) ([]bool, error) {
	return Scan(x, predicate, WithOffset(offset), WithStride(stride))
}

// Scan is the option-driven form of By.
func Scan[T any](x Array[T], predicate Predicate[T], opts ...Option) ([]bool, error) {
	p, err := validate(x, predicate == nil, opts)
	if err != nil {
		return nil, err
	}

	return run(x, p, func(v T, i int) bool {
		return predicate(v, i, x)
	}), nil
}

// ScanContext is the option-driven form of ByContext.
func ScanContext[C, T any](x Array[T], predicate ContextPredicate[C, T], ctx C, opts ...Option) ([]bool, error) {
	p, err := validate(x, predicate == nil, opts)
	if err != nil {
		return nil, err
	}

	return run(x, p, func(v T, i int) bool {
		return predicate(ctx, v, i, x)
	}), nil
}

func validate[T any](x Array[T], nilPredicate bool, opts []Option) (stride.Progression, error) {
	if x.kind == KindInvalid || (x.kind == KindAccessor && x.acc == nil) {
		return stride.Progression{}, fmt.Errorf("%w: %s", ErrInvalidArray, x.kind)
	}

	if nilPredicate {
		return stride.Progression{}, fmt.Errorf("%w: nil function", ErrInvalidPredicate)
	}

	o := newOptions(opts)
	n := x.Len()

	p, err := stride.Resolve(n, o.offset, o.stride)
	switch {
	case errors.Is(err, stride.ErrZero):
		return stride.Progression{}, fmt.Errorf("%w: must be non-zero", ErrInvalidStride)
	case errors.Is(err, stride.ErrOffset):
		return stride.Progression{}, fmt.Errorf("%w: %d outside [0, %d)", ErrInvalidOffset, *o.offset, n)
	case err != nil:
		return stride.Progression{}, err
	}

	return p, nil
}

func run[T any](x Array[T], p stride.Progression, test func(T, int) bool) []bool {
	if x.kind == KindAccessor {
		return traverse[T](accessed[T]{acc: x.acc}, p, test)
	}
	return traverse[T](indexed[T](x.data), p, test)
}

func traverse[T any, R reader[T]](r R, p stride.Progression, test func(T, int) bool) []bool {
	out := make([]bool, p.N)

	steps := p.Steps()
	if steps == 0 {
		return out
	}

	last := p.Last()
	util.Assert(last >= 0 && last < p.N, "progression leaves [0, %d) at %d", p.N, last)

	none := true
	i := p.Offset
	for range steps {
		if none {
			none = !test(r.read(i), i)
		}
		out[i] = none
		i += p.Step
	}

	return out
}
