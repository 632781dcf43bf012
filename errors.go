package cunone

import "errors"

var (
	ErrInvalidArray     = errors.New("invalid array")
	ErrInvalidPredicate = errors.New("invalid predicate")
	ErrInvalidStride    = errors.New("invalid stride")
	ErrInvalidOffset    = errors.New("invalid offset")
)
