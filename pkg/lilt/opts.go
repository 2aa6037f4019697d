package lilt

// CompressOpts holds optional encoder settings.
type CompressOpts struct {
	BitsPerSample *int
	BlockSize     *int
}

type CompressOpt func(opts *CompressOpts)

// WithBitsPerSample sets the residual quantizer depth in bits (2..16).
func WithBitsPerSample(v int) CompressOpt {
	return func(opts *CompressOpts) { opts.BitsPerSample = &v }
}

// WithBlockSize sets the number of samples per analysis block (64..65535).
func WithBlockSize(v int) CompressOpt {
	return func(opts *CompressOpts) { opts.BlockSize = &v }
}

func buildOpts(opts ...CompressOpt) CompressOpts {
	var o CompressOpts
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
