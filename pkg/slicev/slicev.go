package slicev

// RO provides read-only access to a slice of type T
type RO[T any] interface {
	// Len returns the number of elements in the slice
	Len() int
	// Get returns the element at index i
	Get(i int) T
	// CopyTo copies elements to the destination slice
	CopyTo(dst []T) int
	// Iterator returns an iterator visiting offset, offset+stride, ... while
	// the index stays within the slice
	Iterator(offset, stride int) Iterator[T]
	seal()
}

// RW adds element writes to RO. It satisfies cunone.Accessor.
type RW[T any] interface {
	RO[T]
	// Set stores v at index i
	Set(i int, v T)
}

type view[T any] struct {
	slice []T
}

// NewRO creates a new read-only wrapper around a slice
func NewRO[T any](slice []T) RO[T] {
	return &view[T]{slice: slice}
}

// NewRW creates an accessor wrapper around a slice. Writes go to the
// wrapped slice.
func NewRW[T any](slice []T) RW[T] {
	return &view[T]{slice: slice}
}

func (v *view[T]) Len() int {
	return len(v.slice)
}

func (v *view[T]) Get(i int) T {
	return v.slice[i]
}

func (v *view[T]) Set(i int, x T) {
	v.slice[i] = x
}

func (v *view[T]) CopyTo(dst []T) int {
	return copy(dst, v.slice)
}

func (v *view[T]) Iterator(offset, stride int) Iterator[T] {
	if stride == 0 {
		panic("slicev: zero stride")
	}
	return &iterator[T]{
		slice:  v.slice,
		next:   offset,
		stride: stride,
	}
}

func (v *view[T]) seal() {}

// Iterator provides iteration over elements
type Iterator[T any] interface {
	// Next advances to the next element and returns true if there is one
	Next() bool
	// Value returns the current element
	Value() T
	// Index returns the index of the current element
	Index() int
	seal()
}

type iterator[T any] struct {
	slice   []T
	next    int
	current int
	stride  int
}

func (it *iterator[T]) Next() bool {
	if it.next < 0 || it.next >= len(it.slice) {
		return false
	}
	it.current = it.next
	it.next += it.stride
	return true
}

func (it *iterator[T]) Value() T {
	return it.slice[it.current]
}

func (it *iterator[T]) Index() int {
	return it.current
}

func (it *iterator[T]) seal() {}
