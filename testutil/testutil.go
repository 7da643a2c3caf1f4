package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/TamimEhsan/khorgosh/distance"
	"github.com/TamimEhsan/khorgosh/model"
	"github.com/TamimEhsan/khorgosh/searcher"
)

// RNG encapsulates a seeded random number generator.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Int63 returns a non-negative pseudo-random int64.
func (r *RNG) Int63() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Int63()
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// FillUniform fills dst with random values in range [0, 1).
// Locks only once per call (preferred over calling Float32 in a loop).
func (r *RNG) FillUniform(dst []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = r.rand.Float32()
	}
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float32, minVal, maxVal float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float32()*span
	}
}

// UniformRangeVectors generates random vectors with values in range [-1, 1).
// Uses a single backing array for efficiency.
func (r *RNG) UniformRangeVectors(num int, dimensions int) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, num*dimensions)
	vectors := make([][]float32, num)

	for i := 0; i < num; i++ {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.Float32()*2 - 1
		}
		vectors[i] = vec
	}

	return vectors
}

// GaussianVectors generates random vectors with values from a standard normal distribution.
func (r *RNG) GaussianVectors(num int, dimensions int) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, num*dimensions)
	vectors := make([][]float32, num)

	for i := 0; i < num; i++ {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = float32(r.rand.NormFloat64())
		}
		vectors[i] = vec
	}

	return vectors
}

// UnitVector generates a single L2-normalized random vector.
// Uses Gaussian sampling for uniform distribution on the hypersphere.
func (r *RNG) UnitVector(dimensions int) []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	vec := make([]float32, dimensions)
	var norm2 float64
	for i := range vec {
		v := r.rand.NormFloat64()
		vec[i] = float32(v)
		norm2 += v * v
	}
	inv := float32(1 / math.Sqrt(norm2))
	for i := range vec {
		vec[i] *= inv
	}
	return vec
}

// BruteForceSearch performs exact squared-L2 search for ground truth.
func BruteForceSearch(vectors [][]float32, query []float32, k int) []model.AnnCandidate {
	sel := searcher.NewTopK(k)
	for i, vec := range vectors {
		sel.Push(model.AnnCandidate{
			ID:       uint64(i),
			Distance: distance.SquaredL2(query, vec),
		})
	}
	return sel.Results()
}

// ComputeRecall computes recall@k of approximate results against ground truth.
func ComputeRecall(groundTruth, approximate []model.AnnCandidate) float64 {
	if len(groundTruth) == 0 {
		return 1.0
	}

	truth := make(map[uint64]struct{}, len(groundTruth))
	for _, c := range groundTruth {
		truth[c.ID] = struct{}{}
	}

	hits := 0
	for _, c := range approximate {
		if _, ok := truth[c.ID]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(groundTruth))
}
