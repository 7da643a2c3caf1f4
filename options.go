package khorgosh

import (
	"github.com/TamimEhsan/khorgosh/distance"
	"github.com/TamimEhsan/khorgosh/persistence"
)

type options struct {
	bits          int
	metric        distance.Metric
	seed          int64
	denseRotation bool
	compression   persistence.CompressionType
	logger        *Logger

	// batch encoding
	maxWorkers    int64
	encodesPerSec float64
}

// Option configures Codec construction.
type Option func(*options)

// WithBits sets the per-dimension bit width. Widths 1..8 are supported;
// 1 gives 32x compression over float32, 8 gives 4x. Default is 4.
func WithBits(bits int) Option {
	return func(o *options) {
		o.bits = bits
	}
}

// WithMetric sets the distance metric used by Rank. Default is MetricL2.
// MetricCosine expects pre-normalized inputs.
func WithMetric(m distance.Metric) Option {
	return func(o *options) {
		o.metric = m
	}
}

// WithSeed fixes the rotation seed. Two codecs built with the same
// (dim, bits, seed) encode identically, which matters when packed codes
// are produced and consumed by different processes. Default is 0.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithMatrixRotator selects the dense-matrix rotation strategy instead of
// the structured FhtKac transform. Rotation cost grows to O(d^2), which
// only makes sense at small dimensions.
func WithMatrixRotator() Option {
	return func(o *options) {
		o.denseRotation = true
	}
}

// WithCompression sets the payload compression for SaveToFile.
// Default is LZ4.
func WithCompression(ct persistence.CompressionType) Option {
	return func(o *options) {
		o.compression = ct
	}
}

// WithLogger sets the structured logger. Default discards all output.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxEncodeWorkers bounds EncodeBatch concurrency.
// Default is the number of CPUs.
func WithMaxEncodeWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxWorkers = int64(n)
		}
	}
}

// WithEncodeRateLimit throttles EncodeBatch to n encodes per second.
// Zero (the default) means unlimited.
func WithEncodeRateLimit(n float64) Option {
	return func(o *options) {
		if n > 0 {
			o.encodesPerSec = n
		}
	}
}
