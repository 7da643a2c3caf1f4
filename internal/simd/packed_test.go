package simd

import (
	"math"
	"math/rand"
	"testing"
)

// packRef packs codes per the documented v1 layout. It is the test-side
// reference for the packer/kernel agreement contract.
func packRef(code []uint8, bits int) []byte {
	dim := len(code)
	out := make([]byte, PackedSize(dim, bits))

	switch bits {
	case 1:
		for i, c := range code {
			out[i/8] |= (c & 1) << (i % 8)
		}
	case 4:
		for i, c := range code {
			if i%2 == 0 {
				out[i/2] |= c & 0x0F
			} else {
				out[i/2] |= c << 4
			}
		}
	case 8:
		copy(out, code)
	default:
		blockBytes := 8 * bits
		for i, c := range code {
			blk := i / 64
			lane := i % 64
			base := blk * blockBytes
			for p := 0; p < bits; p++ {
				if c>>p&1 != 0 {
					out[base+8*p+lane/8] |= 1 << (lane % 8)
				}
			}
		}
	}
	return out
}

func naiveDot(query []float32, code []uint8) (sum, mass float64) {
	for i := range code {
		p := float64(query[i]) * float64(code[i])
		sum += p
		mass += math.Abs(p)
	}
	return sum, mass
}

func TestPackedDotAllWidths(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	for bits := 1; bits <= 8; bits++ {
		for _, dim := range []int{64, 128, 768, 3072} {
			query := make([]float32, dim)
			code := make([]uint8, dim)
			for i := 0; i < dim; i++ {
				query[i] = rnd.Float32()*2000 - 1000
				code[i] = uint8(rnd.Intn(1 << bits))
			}

			packed := packRef(code, bits)
			want, mass := naiveDot(query, code)
			got := float64(PackedDot(query, packed, dim, bits))

			// float32 rounding error grows with the absolute mass of the
			// sum, not with the (possibly cancelled) result
			tol := 0.1 + 1e-6*mass
			if math.Abs(got-want) > tol {
				t.Errorf("PackedDot(bits=%d, dim=%d) = %f, want %f (tol %f)",
					bits, dim, got, want, tol)
			}
		}
	}
}

func TestPackedDotFallbackWidths(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))

	for _, bits := range []int{9, 10, 12} {
		dim := 128
		query := make([]float32, dim)
		code := make([]uint8, dim)
		for i := 0; i < dim; i++ {
			query[i] = rnd.Float32()*20 - 10
			code[i] = uint8(rnd.Intn(256))
		}

		packed := packRef(code, bits)
		want, mass := naiveDot(query, code)
		got := float64(PackedDot(query, packed, dim, bits))

		tol := 0.1 + 1e-6*mass
		if math.Abs(got-want) > tol {
			t.Errorf("fallback PackedDot(bits=%d) = %f, want %f", bits, got, want)
		}
	}
}

func TestSelectPackedDotTotal(t *testing.T) {
	for bits := 1; bits <= 32; bits++ {
		if SelectPackedDot(bits) == nil {
			t.Errorf("SelectPackedDot(%d) returned nil", bits)
		}
	}
}

func TestPackedDotZeroQuery(t *testing.T) {
	dim := 256
	query := make([]float32, dim)
	code := make([]uint8, dim)
	for i := range code {
		code[i] = uint8(i % 16)
	}

	for bits := 1; bits <= 8; bits++ {
		packed := packRef(code, bits)
		if got := PackedDot(query, packed, dim, bits); got != 0 {
			t.Errorf("PackedDot(bits=%d) with zero query = %f, want 0", bits, got)
		}
	}
}

func TestBlockLanes(t *testing.T) {
	for bits, want := range map[int]int{
		1: 16, 2: 64, 3: 64, 4: 16, 5: 64, 6: 64, 7: 64, 8: 16, 9: 64,
	} {
		if got := BlockLanes(bits); got != want {
			t.Errorf("BlockLanes(%d) = %d, want %d", bits, got, want)
		}
	}
}

func TestPackedSize(t *testing.T) {
	cases := []struct {
		dim, bits, want int
	}{
		{64, 1, 8},
		{64, 2, 16},
		{64, 3, 24},
		{128, 4, 64},
		{128, 8, 128},
		{3072, 7, 2688},
	}
	for _, tc := range cases {
		if got := PackedSize(tc.dim, tc.bits); got != tc.want {
			t.Errorf("PackedSize(%d, %d) = %d, want %d", tc.dim, tc.bits, got, tc.want)
		}
	}
}
