package distance

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TamimEhsan/khorgosh/quantization"
)

func TestDot(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 32},
		{"Zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"Mixed", []float32{1, -1, 2}, []float32{1, 1, -2}, -4},
		{"Empty", []float32{}, []float32{}, 0},
		{"Single", []float32{2}, []float32{3}, 6},
		// Large vector to trigger the unrolled kernel
		{"Large", make([]float32, 1024), make([]float32, 1024), 0},
	}

	for i := range tests[5].a {
		tests[5].a[i] = 1
		tests[5].b[i] = 1
	}
	tests[5].expected = 1024

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dot(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-5)
		})
	}
}

func TestSquaredL2(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 27},
		{"Zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"Identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 0},
		{"Mixed", []float32{1, -1}, []float32{-1, 1}, 8},
		{"Empty", []float32{}, []float32{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SquaredL2(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-5)
		})
	}
}

func TestNormalizeL2(t *testing.T) {
	t.Run("InPlace", func(t *testing.T) {
		v := []float32{3, 4}
		ok := NormalizeL2InPlace(v)
		assert.True(t, ok)
		assert.InDelta(t, float32(0.6), v[0], 1e-5)
		assert.InDelta(t, float32(0.8), v[1], 1e-5)
		assert.InDelta(t, float32(1.0), float32(math.Sqrt(float64(v[0]*v[0]+v[1]*v[1]))), 1e-5)

		ok = NormalizeL2InPlace([]float32{0, 0})
		assert.False(t, ok)

		ok = NormalizeL2InPlace([]float32{})
		assert.False(t, ok)
	})

	t.Run("Copy", func(t *testing.T) {
		v := []float32{1, 0}
		dst, ok := NormalizeL2Copy(v)
		assert.True(t, ok)
		assert.Equal(t, float32(1), dst[0])
		assert.NotSame(t, &v[0], &dst[0])

		dst, ok = NormalizeL2Copy([]float32{0, 0})
		assert.False(t, ok)
		assert.Nil(t, dst)
	})
}

func TestMetric(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "L2", MetricL2.String())
		assert.Equal(t, "Cosine", MetricCosine.String())
		assert.Equal(t, "Dot", MetricDot.String())
		assert.Equal(t, "Unknown(99)", Metric(99).String())
	})

	t.Run("Provider", func(t *testing.T) {
		f, err := Provider(MetricL2)
		require.NoError(t, err)
		assert.InDelta(t, float32(27), f([]float32{1, 2, 3}, []float32{4, 5, 6}), 1e-5)

		f, err = Provider(MetricDot)
		require.NoError(t, err)
		assert.NotNil(t, f)

		// Cosine maps to Dot: callers are expected to normalize up front.
		f, err = Provider(MetricCosine)
		require.NoError(t, err)
		assert.NotNil(t, f)

		_, err = Provider(Metric(99))
		assert.ErrorIs(t, err, ErrUnsupportedMetric)
	})
}

func TestPackedDot(t *testing.T) {
	rnd := rand.New(rand.NewSource(17))
	dim := 128

	vec := make([]float32, dim)
	query := make([]float32, dim)
	for i := range vec {
		vec[i] = rnd.Float32()*2 - 1
		query[i] = rnd.Float32()*2 - 1
	}

	code := make([]uint8, dim)
	_, err := quantization.QuantizeScalar(vec, 4, code)
	require.NoError(t, err)

	packed := make([]byte, quantization.PackedSize(dim, 4))
	require.NoError(t, quantization.Pack(code, 4, packed))

	got, err := PackedDot(query, packed, dim, 4)
	require.NoError(t, err)

	var want float64
	for i := range query {
		want += float64(query[i]) * float64(code[i])
	}
	assert.InDelta(t, want, float64(got), 0.1)

	t.Run("Validation", func(t *testing.T) {
		_, err := PackedDot(query, packed, 0, 4)
		assert.ErrorIs(t, err, ErrInvalidArgument)

		_, err = PackedDot(query, packed, 100, 3) // not 64-aligned
		assert.ErrorIs(t, err, ErrInvalidArgument)

		_, err = PackedDot(query[:64], packed, dim, 4)
		assert.ErrorIs(t, err, ErrInvalidArgument)

		_, err = PackedDot(query, packed[:10], dim, 4)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
}

func TestSelectPackedKernelTotal(t *testing.T) {
	for bits := 1; bits <= 16; bits++ {
		assert.NotNil(t, SelectPackedKernel(bits), "bits=%d", bits)
	}
}
