package khorgosh

import (
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/time/rate"

	"github.com/TamimEhsan/khorgosh/distance"
	"github.com/TamimEhsan/khorgosh/internal/simd"
	"github.com/TamimEhsan/khorgosh/model"
	"github.com/TamimEhsan/khorgosh/persistence"
	"github.com/TamimEhsan/khorgosh/quantization"
	"github.com/TamimEhsan/khorgosh/rotator"
	"github.com/TamimEhsan/khorgosh/searcher"
)

// Codec encodes float vectors into packed quantized codes and scores them
// against full-precision queries. It is immutable after construction and
// safe for concurrent use.
type Codec struct {
	dim    int
	padded int
	bits   int
	metric distance.Metric

	rot    rotator.Rotator
	kernel distance.PackedKernel

	compression persistence.CompressionType
	logger      *Logger

	maxWorkers int64
	limiter    *rate.Limiter

	rotatedPool sync.Pool // *[]float32 of length padded
	codePool    sync.Pool // *[]uint8 of length padded
}

// EncodedVector is the quantized form of one input vector: the packed code
// plus the affine reconstruction parameters and the vector's squared norm.
// Treated as immutable; re-encoding replaces it.
type EncodedVector struct {
	Packed []byte
	Params quantization.Params
	Norm2  float32
}

// Query is the prepared query-side state: the rotated query and the
// precomputed terms the distance estimators need. Reusable across many
// EncodedVectors; safe for concurrent use.
type Query struct {
	rotated []float32
	sum     float32
	norm2   float32
}

// New constructs a codec for a fixed dimension. See Options for knobs;
// the defaults are 4 bits, squared L2, seed 0 and the FhtKac rotation.
func New(dim int, opts ...Option) (*Codec, error) {
	if dim <= 0 {
		return nil, &ErrInvalidDimension{Dimension: dim}
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.bits < quantization.MinBits || o.bits > quantization.MaxBits {
		return nil, fmt.Errorf("bits %d: %w", o.bits, quantization.ErrInvalidBits)
	}
	if _, err := distance.Provider(o.metric); err != nil {
		return nil, err
	}

	var rot rotator.Rotator
	var err error
	if o.denseRotation {
		rot, err = rotator.NewMatrixRotator(dim, o.seed)
	} else {
		rot, err = rotator.NewFhtKacRotator(dim, o.seed)
	}
	if err != nil {
		return nil, err
	}

	return newCodec(rot, o)
}

func newCodec(rot rotator.Rotator, o *options) (*Codec, error) {
	c := &Codec{
		dim:         rot.Dim(),
		padded:      rot.Size(),
		bits:        o.bits,
		metric:      o.metric,
		rot:         rot,
		kernel:      distance.SelectPackedKernel(o.bits),
		compression: o.compression,
		logger:      o.logger,
		maxWorkers:  o.maxWorkers,
	}
	if o.encodesPerSec > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(o.encodesPerSec), int(o.encodesPerSec))
	}

	padded := c.padded
	c.rotatedPool.New = func() any {
		buf := make([]float32, padded)
		return &buf
	}
	c.codePool.New = func() any {
		buf := make([]uint8, padded)
		return &buf
	}

	c.logger.Debug("codec ready",
		"dim", c.dim,
		"padded_dim", c.padded,
		"bits", c.bits,
		"metric", c.metric.String(),
		"packed_bytes", quantization.PackedSize(c.padded, c.bits),
	)
	return c, nil
}

func defaultOptions() *options {
	return &options{
		bits:        4,
		metric:      distance.MetricL2,
		compression: persistence.CompressionLZ4,
		logger:      NoopLogger(),
		maxWorkers:  int64(runtime.NumCPU()),
	}
}

// Dim returns the logical input dimension.
func (c *Codec) Dim() int { return c.dim }

// PaddedDim returns the rotated/encoded dimension, a multiple of 64.
func (c *Codec) PaddedDim() int { return c.padded }

// Bits returns the per-dimension bit width.
func (c *Codec) Bits() int { return c.bits }

// Metric returns the configured distance metric.
func (c *Codec) Metric() distance.Metric { return c.metric }

// Rotator exposes the rotation for callers that persist it separately.
func (c *Codec) Rotator() rotator.Rotator { return c.rot }

// PackedSize returns the byte length of one encoded vector's packed code.
func (c *Codec) PackedSize() int {
	return quantization.PackedSize(c.padded, c.bits)
}

func (c *Codec) checkDim(vec []float32) error {
	if len(vec) == 0 {
		return ErrNilVector
	}
	if len(vec) != c.dim {
		return &ErrDimensionMismatch{Expected: c.dim, Actual: len(vec)}
	}
	return nil
}

// Encode quantizes one vector: rotate, scalar-quantize, pack.
func (c *Codec) Encode(vec []float32) (*EncodedVector, error) {
	if err := c.checkDim(vec); err != nil {
		return nil, err
	}

	rotated := c.rotatedPool.Get().(*[]float32)
	defer c.rotatedPool.Put(rotated)
	if err := c.rot.Rotate(vec, *rotated); err != nil {
		return nil, err
	}

	code := c.codePool.Get().(*[]uint8)
	defer c.codePool.Put(code)
	params, err := quantization.QuantizeScalar(*rotated, c.bits, *code)
	if err != nil {
		return nil, err
	}

	packed := make([]byte, c.PackedSize())
	if err := quantization.Pack(*code, c.bits, packed); err != nil {
		return nil, err
	}

	return &EncodedVector{
		Packed: packed,
		Params: params,
		Norm2:  distance.Dot(vec, vec),
	}, nil
}

// EncodeQuery prepares a query for scoring against encoded vectors.
func (c *Codec) EncodeQuery(query []float32) (*Query, error) {
	if err := c.checkDim(query); err != nil {
		return nil, err
	}

	rotated := make([]float32, c.padded)
	if err := c.rot.Rotate(query, rotated); err != nil {
		return nil, err
	}

	return &Query{
		rotated: rotated,
		sum:     simd.Sum(rotated),
		norm2:   distance.Dot(query, query),
	}, nil
}

// EstimateDot estimates the inner product between the original query and
// the original encoded vector. Rotation preserves inner products, so with
// reconstruction r[i] ~ vl + code[i]*delta the estimate decomposes into
// vl*sum(q) + delta*<q, code>, with the second term computed by the packed
// kernel without unpacking.
func (c *Codec) EstimateDot(q *Query, ev *EncodedVector) float32 {
	raw := c.kernel(q.rotated, ev.Packed, c.padded)
	return ev.Params.Lower*q.sum + ev.Params.Delta*raw
}

// EstimateSquaredL2 estimates the squared Euclidean distance between the
// original query and the original encoded vector using the stored norm.
func (c *Codec) EstimateSquaredL2(q *Query, ev *EncodedVector) float32 {
	return q.norm2 + ev.Norm2 - 2*c.EstimateDot(q, ev)
}

// score maps an estimate to a "smaller is better" distance per the metric.
func (c *Codec) score(q *Query, ev *EncodedVector) float32 {
	switch c.metric {
	case distance.MetricL2:
		return c.EstimateSquaredL2(q, ev)
	default: // Dot, Cosine: larger similarity = smaller distance
		return -c.EstimateDot(q, ev)
	}
}

// Rank scores every encoded vector against the query and returns the k
// best candidates ordered by distance ascending. Candidate IDs are the
// indexes into encoded.
func (c *Codec) Rank(q *Query, encoded []*EncodedVector, k int) ([]model.AnnCandidate, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}

	sel := searcher.NewTopK(k)
	for i, ev := range encoded {
		sel.Push(model.AnnCandidate{
			ID:       uint64(i),
			Distance: c.score(q, ev),
		})
	}
	return sel.Results(), nil
}
