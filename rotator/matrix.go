package rotator

import (
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/TamimEhsan/khorgosh/internal/simd"
)

// MatrixRotator rotates with an explicit dense orthogonal matrix, sampled
// as seeded Gaussian rows and orthonormalized with modified Gram-Schmidt.
// Rotation costs O(d^2), so it only pays off at small dimensions; the
// upside is textbook-exact orthogonality with no structured pattern.
type MatrixRotator struct {
	dim    int
	padded int
	seed   int64

	// row-major padded x padded orthogonal matrix
	mat []float32
}

// NewMatrixRotator constructs a dense rotator for a dimension, sampling
// the matrix from the seed.
func NewMatrixRotator(dim int, seed int64) (*MatrixRotator, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDimension, dim)
	}

	r := &MatrixRotator{
		dim:    dim,
		padded: paddedDim(dim),
		seed:   seed,
	}

	n := r.padded
	rnd := rand.New(rand.NewSource(seed))

	// Gram-Schmidt in float64 keeps the float32 matrix orthogonal to well
	// under 1e-6 per entry even at a few thousand dimensions.
	rows := make([][]float64, n)
	for i := range rows {
		row := make([]float64, n)
		for j := range row {
			row[j] = rnd.NormFloat64()
		}
		rows[i] = row
	}
	for i := 0; i < n; i++ {
		for k := 0; k < i; k++ {
			var dot float64
			for j := 0; j < n; j++ {
				dot += rows[i][j] * rows[k][j]
			}
			for j := 0; j < n; j++ {
				rows[i][j] -= dot * rows[k][j]
			}
		}
		var norm float64
		for j := 0; j < n; j++ {
			norm += rows[i][j] * rows[i][j]
		}
		norm = math.Sqrt(norm)
		for j := 0; j < n; j++ {
			rows[i][j] /= norm
		}
	}

	r.mat = make([]float32, n*n)
	for i, row := range rows {
		for j, v := range row {
			r.mat[i*n+j] = float32(v)
		}
	}
	return r, nil
}

// Dim returns the logical input dimension.
func (r *MatrixRotator) Dim() int { return r.dim }

// Size returns the padded output dimension.
func (r *MatrixRotator) Size() int { return r.padded }

// Seed returns the construction seed.
func (r *MatrixRotator) Seed() int64 { return r.seed }

// Rotate computes the matrix-vector product row by row.
func (r *MatrixRotator) Rotate(in, out []float32) error {
	if err := checkRotateBuffers(r, in, out); err != nil {
		return err
	}

	n := r.padded
	padded := make([]float32, n)
	copy(padded, in)

	for i := 0; i < n; i++ {
		out[i] = simd.Dot(r.mat[i*n:i*n+n], padded)
	}
	return nil
}

// DumpBytes returns the serialized size: the fixed header only, since the
// matrix re-derives from the seed.
func (r *MatrixRotator) DumpBytes() int { return headerSize }

// MarshalBinary serializes the rotator state.
func (r *MatrixRotator) MarshalBinary() ([]byte, error) {
	return marshalHeader(kindMatrix, r.dim, r.padded, 0, r.seed), nil
}

// Save writes the serialized state to w.
func (r *MatrixRotator) Save(w io.Writer) error {
	data, _ := r.MarshalBinary()
	_, err := w.Write(data)
	return err
}
