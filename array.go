package cunone

import "fmt"

// Kind identifies how the elements of an Array are read.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindGeneric
	KindNumeric
	KindAccessor
)

func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindNumeric:
		return "numeric"
	case KindAccessor:
		return "accessor"
	default:
		return "invalid"
	}
}

// Number is the set of fixed-width numeric element types a numeric buffer
// may hold.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint |
		~float32 | ~float64
}

// Accessor is a container whose elements are read and written through
// explicit methods rather than indexing.
type Accessor[T any] interface {
	Len() int
	Get(i int) T
	Set(i int, v T)
}

// Array is a read-only, fixed-length view over one of the supported
// backings. The zero Array is invalid.
type Array[T any] struct {
	kind Kind
	data []T
	acc  Accessor[T]
}

// FromSlice wraps a plain slice.
func FromSlice[T any](xs []T) Array[T] {
	return Array[T]{kind: KindGeneric, data: xs}
}

// FromNumbers wraps a numeric buffer.
func FromNumbers[N Number](xs []N) Array[N] {
	return Array[N]{kind: KindNumeric, data: xs}
}

// FromAccessor wraps an accessor-based container. A nil accessor yields an
// invalid Array.
func FromAccessor[T any](a Accessor[T]) Array[T] {
	if a == nil {
		return Array[T]{}
	}
	return Array[T]{kind: KindAccessor, acc: a}
}

// Of inspects x and picks the read strategy for it: anything exposing
// Get/Set is accessor-based, numeric slices are numeric buffers and any
// other []T is generic.
func Of[T any](x any) (Array[T], error) {
	switch v := x.(type) {
	case Array[T]:
		if v.kind == KindInvalid {
			return Array[T]{}, fmt.Errorf("%w: zero Array", ErrInvalidArray)
		}
		return v, nil
	case Accessor[T]:
		return FromAccessor(v), nil
	case []T:
		if isNumeric(v) {
			return Array[T]{kind: KindNumeric, data: v}, nil
		}
		return FromSlice(v), nil
	case nil:
		return Array[T]{}, fmt.Errorf("%w: nil", ErrInvalidArray)
	default:
		return Array[T]{}, fmt.Errorf("%w: unsupported %T", ErrInvalidArray, x)
	}
}

func isNumeric[T any](xs []T) bool {
	switch any(xs).(type) {
	case []int8, []int16, []int32, []int64, []int,
		[]uint8, []uint16, []uint32, []uint64, []uint,
		[]float32, []float64:
		return true
	}
	return false
}

// Kind reports the read strategy of x.
func (x Array[T]) Kind() Kind {
	return x.kind
}

// Len returns the number of elements.
func (x Array[T]) Len() int {
	if x.kind == KindAccessor {
		return x.acc.Len()
	}
	return len(x.data)
}

// At returns the element at index i using the Array's read strategy.
func (x Array[T]) At(i int) T {
	if x.kind == KindAccessor {
		return x.acc.Get(i)
	}
	return x.data[i]
}

// reader is the element read strategy, resolved once per scan.
type reader[T any] interface {
	read(i int) T
}

type indexed[T any] []T

func (s indexed[T]) read(i int) T {
	return s[i]
}

type accessed[T any] struct {
	acc Accessor[T]
}

func (s accessed[T]) read(i int) T {
	return s.acc.Get(i)
}
