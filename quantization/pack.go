package quantization

import (
	"errors"
	"fmt"

	"github.com/TamimEhsan/khorgosh/internal/simd"
)

// Packed code layout, version 1 (see also internal/simd/layout.go; the
// packer and the kernels pin this contract together).
//
// Codes are grouped into lane blocks sized to hardware vector registers:
//
//   - bits 1, 4, 8 use 16-lane blocks. 1-bit: lane l occupies bit l%8 of
//     byte l/8. 4-bit: even lanes in low nibbles, odd lanes in high nibbles.
//     8-bit: one byte per lane.
//   - bits 2, 3, 5, 6, 7 use 64-lane blocks of 8*bits bytes in bit-plane
//     order: plane p is a little-endian uint64 at block offset 8*p, and bit
//     l of plane p is (code[l]>>p)&1.
//
// Packing is a pure function of (code, bits); unpacking and reapplying the
// affine reconstruction reproduces the original integer values exactly.

// ErrBlockAlignment is returned when the code length is not a multiple of
// the bit width's lane-block granularity.
var ErrBlockAlignment = errors.New("dimension not aligned to kernel block")

// PackedSize returns the exact byte length of the packed buffer for a given
// dimension and bit width: dim*bits/8.
func PackedSize(dim, bits int) int {
	return simd.PackedSize(dim, bits)
}

// BlockLanes returns the lane-block granularity the packed layout uses for
// a bit width (16 or 64).
func BlockLanes(bits int) int {
	return simd.BlockLanes(bits)
}

// Pack packs a bits-wide integer code into out, which must hold exactly
// PackedSize(len(code), bits) bytes. Code values must fit in bits; higher
// bits are ignored.
func Pack(code []uint8, bits int, out []byte) error {
	if bits < MinBits || bits > MaxBits {
		return fmt.Errorf("%w: %d (supported range [%d, %d])", ErrInvalidBits, bits, MinBits, MaxBits)
	}
	if len(code)%BlockLanes(bits) != 0 {
		return fmt.Errorf("%w: dim %d, block %d lanes", ErrBlockAlignment, len(code), BlockLanes(bits))
	}
	if len(out) != PackedSize(len(code), bits) {
		return fmt.Errorf("%w: out %d bytes, want %d", ErrDimensionMismatch, len(out), PackedSize(len(code), bits))
	}

	clear(out)

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
				out[i/2] |= (c & 0x0F) << 4
			}
		}
	case 8:
		copy(out, code)
	default:
		packPlanes(code, bits, out)
	}
	return nil
}

// Unpack is the documented inverse of Pack. The kernels never call it (they
// fuse extraction with accumulation); it exists for reconstruction paths
// and for verifying the layout contract.
func Unpack(packed []byte, bits int, code []uint8) error {
	if bits < MinBits || bits > MaxBits {
		return fmt.Errorf("%w: %d (supported range [%d, %d])", ErrInvalidBits, bits, MinBits, MaxBits)
	}
	if len(code)%BlockLanes(bits) != 0 {
		return fmt.Errorf("%w: dim %d, block %d lanes", ErrBlockAlignment, len(code), BlockLanes(bits))
	}
	if len(packed) != PackedSize(len(code), bits) {
		return fmt.Errorf("%w: packed %d bytes, want %d", ErrDimensionMismatch, len(packed), PackedSize(len(code), bits))
	}

	switch bits {
	case 1:
		for i := range code {
			code[i] = packed[i/8] >> (i % 8) & 1
		}
	case 4:
		for i := range code {
			if i%2 == 0 {
				code[i] = packed[i/2] & 0x0F
			} else {
				code[i] = packed[i/2] >> 4
			}
		}
	case 8:
		copy(code, packed)
	default:
		unpackPlanes(packed, bits, code)
	}
	return nil
}

func packPlanes(code []uint8, bits int, out []byte) {
	blockBytes := 8 * bits
	for i, c := range code {
		base := i / 64 * blockBytes
		lane := i % 64
		for p := 0; p < bits; p++ {
			if c>>p&1 != 0 {
				out[base+8*p+lane/8] |= 1 << (lane % 8)
			}
		}
	}
}

func unpackPlanes(packed []byte, bits int, code []uint8) {
	blockBytes := 8 * bits
	for i := range code {
		base := i / 64 * blockBytes
		lane := i % 64
		var v uint8
		for p := 0; p < bits; p++ {
			v |= (packed[base+8*p+lane/8] >> (lane % 8) & 1) << p
		}
		code[i] = v
	}
}
