package khorgosh

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TamimEhsan/khorgosh/distance"
	"github.com/TamimEhsan/khorgosh/persistence"
	"github.com/TamimEhsan/khorgosh/quantization"
	"github.com/TamimEhsan/khorgosh/testutil"
)

func TestNewValidation(t *testing.T) {
	_, err := New(0)
	var invDim *ErrInvalidDimension
	assert.ErrorAs(t, err, &invDim)

	_, err = New(128, WithBits(9))
	assert.ErrorIs(t, err, quantization.ErrInvalidBits)

	_, err = New(128, WithMetric(distance.Metric(99)))
	assert.ErrorIs(t, err, distance.ErrUnsupportedMetric)
}

func TestEncodeValidation(t *testing.T) {
	c, err := New(128)
	require.NoError(t, err)

	_, err = c.Encode(nil)
	assert.ErrorIs(t, err, ErrNilVector)

	_, err = c.Encode(make([]float32, 64))
	var mismatch *ErrDimensionMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 128, mismatch.Expected)
	assert.Equal(t, 64, mismatch.Actual)
}

func TestEncodeShape(t *testing.T) {
	rng := testutil.NewRNG(1)

	for _, dim := range []int{64, 100, 128} {
		for _, bits := range []int{1, 3, 4, 8} {
			c, err := New(dim, WithBits(bits))
			require.NoError(t, err)

			vec := make([]float32, dim)
			rng.FillUniformRange(vec, -1, 1)

			ev, err := c.Encode(vec)
			require.NoError(t, err)
			assert.Len(t, ev.Packed, c.PackedSize(), "dim=%d bits=%d", dim, bits)
			assert.Positive(t, ev.Params.Delta)
			assert.InDelta(t, distance.Dot(vec, vec), ev.Norm2, 1e-3)
		}
	}
}

func TestEncodeDeterministicAcrossInstances(t *testing.T) {
	rng := testutil.NewRNG(2)
	vec := make([]float32, 128)
	rng.FillUniformRange(vec, -1, 1)

	c1, err := New(128, WithBits(4), WithSeed(77))
	require.NoError(t, err)
	c2, err := New(128, WithBits(4), WithSeed(77))
	require.NoError(t, err)

	ev1, err := c1.Encode(vec)
	require.NoError(t, err)
	ev2, err := c2.Encode(vec)
	require.NoError(t, err)

	assert.Equal(t, ev1.Packed, ev2.Packed)
	assert.Equal(t, ev1.Params, ev2.Params)
}

func TestEstimateAccuracy(t *testing.T) {
	rng := testutil.NewRNG(3)
	dim := 128
	n := 100

	vectors := rng.UniformRangeVectors(n, dim)
	query := make([]float32, dim)
	rng.FillUniformRange(query, -1, 1)

	for _, tt := range []struct {
		bits   int
		relErr float64
	}{
		{8, 0.02},
		{4, 0.15},
	} {
		c, err := New(dim, WithBits(tt.bits))
		require.NoError(t, err)

		q, err := c.EncodeQuery(query)
		require.NoError(t, err)

		var absErrSum, trueSum float64
		for _, vec := range vectors {
			ev, err := c.Encode(vec)
			require.NoError(t, err)

			var trueDot float64
			for i := range vec {
				trueDot += float64(query[i]) * float64(vec[i])
			}
			trueL2 := float64(distance.SquaredL2(query, vec))

			gotDot := float64(c.EstimateDot(q, ev))
			gotL2 := float64(c.EstimateSquaredL2(q, ev))

			// the two estimators must agree through the norm identity
			assert.InDelta(t, gotL2, float64(q.norm2+ev.Norm2)-2*gotDot, 1e-2)

			absErrSum += math.Abs(gotL2 - trueL2)
			trueSum += trueL2
		}

		meanRel := absErrSum / trueSum
		assert.Less(t, meanRel, tt.relErr, "bits=%d: mean relative L2 error %f", tt.bits, meanRel)
	}
}

func TestRankRecall(t *testing.T) {
	rng := testutil.NewRNG(4)
	dim := 64
	n := 500
	k := 10

	vectors := rng.UniformRangeVectors(n, dim)
	query := make([]float32, dim)
	rng.FillUniformRange(query, -1, 1)

	c, err := New(dim, WithBits(8))
	require.NoError(t, err)

	encoded := make([]*EncodedVector, n)
	for i, vec := range vectors {
		encoded[i], err = c.Encode(vec)
		require.NoError(t, err)
	}

	q, err := c.EncodeQuery(query)
	require.NoError(t, err)

	approx, err := c.Rank(q, encoded, k)
	require.NoError(t, err)
	require.Len(t, approx, k)

	for i := 1; i < len(approx); i++ {
		assert.LessOrEqual(t, approx[i-1].Distance, approx[i].Distance)
	}

	exact := testutil.BruteForceSearch(vectors, query, k)
	recall := testutil.ComputeRecall(exact, approx)
	assert.GreaterOrEqual(t, recall, 0.8, "recall@%d", k)
}

func TestRankInvalidK(t *testing.T) {
	c, err := New(64)
	require.NoError(t, err)
	q, err := c.EncodeQuery(make([]float32, 64))
	require.NoError(t, err)

	_, err = c.Rank(q, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidK)
}

func TestDotMetricRanking(t *testing.T) {
	dim := 64
	c, err := New(dim, WithBits(8), WithMetric(distance.MetricDot))
	require.NoError(t, err)

	// two vectors with clearly different inner products against the query
	query := make([]float32, dim)
	aligned := make([]float32, dim)
	opposed := make([]float32, dim)
	for i := range query {
		query[i] = 1
		aligned[i] = 1
		opposed[i] = -1
	}

	evA, err := c.Encode(aligned)
	require.NoError(t, err)
	evO, err := c.Encode(opposed)
	require.NoError(t, err)

	q, err := c.EncodeQuery(query)
	require.NoError(t, err)

	got, err := c.Rank(q, []*EncodedVector{evO, evA}, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got[0].ID, "aligned vector must rank first under Dot")
}

func TestZeroVectorEncode(t *testing.T) {
	c, err := New(128, WithBits(4))
	require.NoError(t, err)

	ev, err := c.Encode(make([]float32, 128))
	require.NoError(t, err)
	assert.Positive(t, ev.Params.Delta)
	assert.Zero(t, ev.Norm2)

	q, err := c.EncodeQuery(make([]float32, 128))
	require.NoError(t, err)
	assert.InDelta(t, 0, c.EstimateDot(q, ev), 1e-3)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	rng := testutil.NewRNG(5)
	dim := 100

	orig, err := New(dim, WithBits(3), WithSeed(123), WithMetric(distance.MetricDot))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, orig.Save(&buf))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, orig.Dim(), loaded.Dim())
	assert.Equal(t, orig.Bits(), loaded.Bits())
	assert.Equal(t, orig.Metric(), loaded.Metric())

	vec := make([]float32, dim)
	rng.FillUniformRange(vec, -1, 1)

	ev1, err := orig.Encode(vec)
	require.NoError(t, err)
	ev2, err := loaded.Encode(vec)
	require.NoError(t, err)
	assert.Equal(t, ev1.Packed, ev2.Packed)
	assert.Equal(t, ev1.Params, ev2.Params)
}

func TestSaveLoadFile(t *testing.T) {
	path := t.TempDir() + "/codec.khg"

	orig, err := New(64, WithBits(4), WithSeed(9))
	require.NoError(t, err)
	require.NoError(t, orig.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 64, loaded.Dim())
	assert.Equal(t, 4, loaded.Bits())
}

func TestFromBytesCorrupt(t *testing.T) {
	orig, err := New(64)
	require.NoError(t, err)

	blob, err := orig.Bytes()
	require.NoError(t, err)

	blob[len(blob)-1] ^= 0xFF
	_, err = FromBytes(blob)
	assert.ErrorIs(t, err, persistence.ErrChecksum)

	_, err = FromBytes([]byte{1, 2, 3})
	require.Error(t, err)
}
