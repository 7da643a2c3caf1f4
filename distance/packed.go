package distance

import (
	"fmt"

	"github.com/TamimEhsan/khorgosh/internal/simd"
)

// PackedDot computes sum_i query[i]*code[i] against a packed code buffer,
// fusing unpacking with multiply-accumulate. This validating form is meant
// for one-shot callers; hot query loops should resolve the kernel once
// with SelectPackedKernel and validate sizes at encode time instead.
func PackedDot(query []float32, packed []byte, dim, bits int) (float32, error) {
	if dim <= 0 || bits <= 0 {
		return 0, fmt.Errorf("%w: dim %d, bits %d", ErrInvalidArgument, dim, bits)
	}
	if dim%simd.BlockLanes(bits) != 0 {
		return 0, fmt.Errorf("%w: dim %d not aligned to %d-lane blocks", ErrInvalidArgument, dim, simd.BlockLanes(bits))
	}
	if len(query) != dim {
		return 0, fmt.Errorf("%w: query %d floats, want %d", ErrInvalidArgument, len(query), dim)
	}
	if want := simd.PackedSize(dim, bits); len(packed) != want {
		return 0, fmt.Errorf("%w: packed %d bytes, want %d", ErrInvalidArgument, len(packed), want)
	}
	return simd.PackedDot(query, packed, dim, bits), nil
}

// PackedKernel computes sum_i query[i]*code[i] over a packed code buffer.
type PackedKernel func(query []float32, packed []byte, dim int) float32

// SelectPackedKernel resolves the inner-product kernel for a bit width.
// The function is total for positive widths: 1..8 get specialized kernels,
// anything else a generic fallback. The returned kernel skips validation
// and assumes the caller checked dimensions and buffer sizes up front.
func SelectPackedKernel(bits int) PackedKernel {
	return PackedKernel(simd.SelectPackedDot(bits))
}
