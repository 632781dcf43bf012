package cunone

// Option configures the traversal order of a scan.
type Option interface {
	do(*options)
}

type optionFunc func(*options)

func (f optionFunc) do(o *options) {
	f(o)
}

type options struct {
	offset *int
	stride int
}

// WithOffset sets the first visited index. Without it the offset is 0 for a
// positive stride and the last index for a negative one.
func WithOffset(offset int) Option {
	return optionFunc(func(o *options) {
		o.offset = &offset
	})
}

// WithStride sets the distance between visited indices. It must not be 0.
func WithStride(stride int) Option {
	return optionFunc(func(o *options) {
		o.stride = stride
	})
}

func newOptions(opts []Option) options {
	o := options{stride: 1}
	for _, opt := range opts {
		opt.do(&o)
	}
	return o
}
