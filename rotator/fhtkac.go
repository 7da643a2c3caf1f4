package rotator

import (
	"fmt"
	"io"
	"math"
	"math/bits"
	"math/rand"
)

// fhtRounds is the number of flip+transform+walk rounds. Four rounds give
// mixing indistinguishable from a dense random rotation for quantization
// purposes while staying O(d log d).
const fhtRounds = 4

// kacStep is one Givens rotation of the Kac walk: lanes i and j are mixed
// by angle theta, with cos/sin precomputed.
type kacStep struct {
	i, j     int32
	cos, sin float32
}

// FhtKacRotator is the default rotation strategy: per round it flips signs
// from a random bitmask, runs a fast Walsh-Hadamard transform over each
// 64-lane block, and applies a sequence of random pairwise Givens rotations
// across the whole padded vector. Every stage is orthogonal, so the
// composite transform preserves norms exactly.
//
// All parameters are derived from the construction seed, so two rotators
// built with the same (dim, seed) are interchangeable.
type FhtKacRotator struct {
	dim    int
	padded int
	seed   int64
	rounds int

	signs [][]uint64 // per round: padded/64 sign words, bit l of word w flips lane w*64+l
	walks [][]kacStep
}

// NewFhtKacRotator constructs the transform for a dimension, sampling all
// random parameters from the seed.
func NewFhtKacRotator(dim int, seed int64) (*FhtKacRotator, error) {
	return newFhtKacRotator(dim, seed, fhtRounds)
}

func newFhtKacRotator(dim int, seed int64, rounds int) (*FhtKacRotator, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDimension, dim)
	}
	if rounds <= 0 {
		return nil, fmt.Errorf("%w: %d rounds", ErrFormat, rounds)
	}

	r := &FhtKacRotator{
		dim:    dim,
		padded: paddedDim(dim),
		seed:   seed,
		rounds: rounds,
	}

	// math/rand's generator output is stable across releases, so loading a
	// saved seed reproduces these parameters exactly.
	rnd := rand.New(rand.NewSource(seed))
	words := r.padded / 64
	for round := 0; round < rounds; round++ {
		signs := make([]uint64, words)
		for w := range signs {
			signs[w] = rnd.Uint64()
		}
		r.signs = append(r.signs, signs)

		walk := make([]kacStep, r.padded)
		for s := range walk {
			i := rnd.Intn(r.padded)
			j := rnd.Intn(r.padded - 1)
			if j >= i {
				j++
			}
			theta := rnd.Float64() * 2 * math.Pi
			walk[s] = kacStep{
				i:   int32(i),
				j:   int32(j),
				cos: float32(math.Cos(theta)),
				sin: float32(math.Sin(theta)),
			}
		}
		r.walks = append(r.walks, walk)
	}
	return r, nil
}

// Dim returns the logical input dimension.
func (r *FhtKacRotator) Dim() int { return r.dim }

// Size returns the padded output dimension.
func (r *FhtKacRotator) Size() int { return r.padded }

// Seed returns the construction seed.
func (r *FhtKacRotator) Seed() int64 { return r.seed }

// Rotate transforms in into out. out doubles as the working buffer, so no
// allocation happens per call.
func (r *FhtKacRotator) Rotate(in, out []float32) error {
	if err := checkRotateBuffers(r, in, out); err != nil {
		return err
	}

	copy(out, in)
	clear(out[r.dim:])

	for round := 0; round < r.rounds; round++ {
		flipSigns(r.signs[round], out)
		for blk := 0; blk < r.padded; blk += 64 {
			fht64(out[blk : blk+64])
		}
		for _, s := range r.walks[round] {
			xi, xj := out[s.i], out[s.j]
			out[s.i] = xi*s.cos + xj*s.sin
			out[s.j] = xj*s.cos - xi*s.sin
		}
	}
	return nil
}

func flipSigns(signs []uint64, x []float32) {
	for w, word := range signs {
		base := w * 64
		for word != 0 {
			l := bits.TrailingZeros64(word)
			x[base+l] = -x[base+l]
			word &= word - 1
		}
	}
}

// fht64 runs an in-place fast Walsh-Hadamard transform over 64 lanes,
// normalized by 1/sqrt(64) so the transform is orthonormal.
func fht64(x []float32) {
	_ = x[63]
	for h := 1; h < 64; h <<= 1 {
		for i := 0; i < 64; i += h << 1 {
			for j := i; j < i+h; j++ {
				a, b := x[j], x[j+h]
				x[j] = a + b
				x[j+h] = a - b
			}
		}
	}
	for i := range x {
		x[i] *= 0.125
	}
}

// DumpBytes returns the serialized size: the fixed header only, since all
// parameters re-derive from the seed.
func (r *FhtKacRotator) DumpBytes() int { return headerSize }

// MarshalBinary serializes the rotator state.
func (r *FhtKacRotator) MarshalBinary() ([]byte, error) {
	return marshalHeader(kindFhtKac, r.dim, r.padded, r.rounds, r.seed), nil
}

// Save writes the serialized state to w.
func (r *FhtKacRotator) Save(w io.Writer) error {
	data, _ := r.MarshalBinary()
	_, err := w.Write(data)
	return err
}
