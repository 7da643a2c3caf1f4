package simd

// Packed code layout, version 1.
//
// Codes are grouped into fixed-size lane blocks sized to hardware vector
// registers. Bit widths that align to nibble or byte boundaries (1, 4, 8)
// use 16-lane blocks; the remaining widths use 64-lane blocks with a
// bit-plane layout.
//
//	bits=1: 2-byte block; lane l -> bit (l%8) of byte (l/8)
//	bits=4: 8-byte block; even lane -> low nibble, odd lane -> high nibble
//	bits=8: 16-byte block; lane l -> byte l
//	bits=2,3,5,6,7: 8*bits-byte block; plane p is a little-endian uint64 at
//	  block offset 8*p, and bit l of plane p is (code[l]>>p)&1
//
// Any width outside 1..8 falls back to the generalized 64-lane bit-plane
// layout. This layout is a binary-compatibility contract: the packer
// (quantization package) and the kernels below must agree on it exactly.

// BlockLanes returns the lane-block granularity for a bit width. Packed
// buffers cover whole blocks, so dim must be a multiple of this.
func BlockLanes(bits int) int {
	switch bits {
	case 1, 4, 8:
		return 16
	default:
		return 64
	}
}

// PackedSize returns the exact byte length of a packed code buffer for the
// given dimension and bit width. dim must be a multiple of BlockLanes(bits);
// every supported dim is already padded to a multiple of 64 by the rotator.
func PackedSize(dim, bits int) int {
	return dim * bits / 8
}
