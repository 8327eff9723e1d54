package stash

import "github.com/ipfs/go-pngfiles/carrier"

// Options holds the configured options after applying a number of Option
// funcs.
//
// This type should not be used directly by end users; it's only exposed as a
// side effect of Option.
type Options struct {
	FragmentSize int
	Metrics      *Metrics
}

// Option describes an option which affects how images are read and written.
type Option func(*Options)

// ApplyOptions applies opts and returns the resulting Options.
func ApplyOptions(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	// Set defaults for zero valued fields.
	if o.FragmentSize == 0 {
		o.FragmentSize = carrier.DefaultFragmentSize
	}
	if o.Metrics == nil {
		o.Metrics = DefaultMetrics()
	}
	return o
}

// WithFragmentSize sets the largest number of payload bytes Encode puts in
// a single carrier chunk. Larger files are split over several chunks.
//
// Defaults to carrier.DefaultFragmentSize.
func WithFragmentSize(size int) Option {
	return func(o *Options) {
		o.FragmentSize = size
	}
}

// WithMetrics records chunk and operation metrics into m instead of the
// collectors registered with the default prometheus registry.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}
