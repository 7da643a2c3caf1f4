package simd

import "encoding/binary"

// PackedDotFunc computes sum_i query[i]*code[i] directly from a packed code
// buffer, fusing sub-field extraction with multiply-accumulate so the
// integer codes are never materialized.
//
// SAFETY: dim must be a multiple of BlockLanes(bits), len(query) >= dim and
// len(packed) >= PackedSize(dim, bits). The kernels do not re-validate.
type PackedDotFunc func(query []float32, packed []byte, dim int) float32

// packedDotKernels is the dispatch table for bit widths 1..8, built once at
// package init and immutable afterwards. Index 0 is unused.
var packedDotKernels = [9]PackedDotFunc{
	nil,
	packedDot16u1,
	packedDot64u2,
	packedDot64u3,
	packedDot16u4,
	packedDot64u5,
	packedDot64u6,
	packedDot64u7,
	packedDot16u8,
}

// SelectPackedDot returns the kernel for a bit width. Total for any positive
// width: widths outside 1..8 resolve to the generalized bit-plane fallback.
func SelectPackedDot(bits int) PackedDotFunc {
	if bits >= 1 && bits <= 8 {
		return packedDotKernels[bits]
	}
	return func(query []float32, packed []byte, dim int) float32 {
		return packedDotPlanes(query, packed, dim, bits)
	}
}

// PackedDot computes the packed inner product for the given bit width.
// SAFETY: same caller obligations as PackedDotFunc.
func PackedDot(query []float32, packed []byte, dim, bits int) float32 {
	return SelectPackedDot(bits)(query, packed, dim)
}

// 1-bit codes, 16-lane blocks of 2 bytes.
func packedDot16u1(query []float32, packed []byte, dim int) float32 {
	var total float64
	for base := 0; base < dim; base += 16 {
		q := query[base : base+16]
		b0 := packed[base/8]
		b1 := packed[base/8+1]
		var acc float32
		for j := 0; j < 8; j++ {
			acc += q[j] * float32((b0>>j)&1)
			acc += q[8+j] * float32((b1>>j)&1)
		}
		total += float64(acc)
	}
	return float32(total)
}

// 4-bit codes, 16-lane blocks of 8 bytes; even lane in the low nibble.
func packedDot16u4(query []float32, packed []byte, dim int) float32 {
	var total float64
	for base := 0; base < dim; base += 16 {
		q := query[base : base+16]
		p := packed[base/2 : base/2+8]
		var acc float32
		for j := 0; j < 8; j++ {
			v := p[j]
			acc += q[2*j] * float32(v&0x0F)
			acc += q[2*j+1] * float32(v>>4)
		}
		total += float64(acc)
	}
	return float32(total)
}

// 8-bit codes, 16-lane blocks, one byte per lane.
func packedDot16u8(query []float32, packed []byte, dim int) float32 {
	var total float64
	for base := 0; base < dim; base += 16 {
		q := query[base : base+16]
		p := packed[base : base+16]
		var acc float32
		for j := 0; j < 16; j += 4 {
			acc += q[j]*float32(p[j]) +
				q[j+1]*float32(p[j+1]) +
				q[j+2]*float32(p[j+2]) +
				q[j+3]*float32(p[j+3])
		}
		total += float64(acc)
	}
	return float32(total)
}

// 2-bit codes, 64-lane bit-plane blocks of 16 bytes.
func packedDot64u2(query []float32, packed []byte, dim int) float32 {
	var total float64
	for blk := 0; blk < dim/64; blk++ {
		base := blk * 16
		w0 := binary.LittleEndian.Uint64(packed[base:])
		w1 := binary.LittleEndian.Uint64(packed[base+8:])
		q := query[blk*64 : blk*64+64]
		var acc float32
		for l := 0; l < 64; l++ {
			v := (w0>>l)&1 | ((w1>>l)&1)<<1
			acc += q[l] * float32(v)
		}
		total += float64(acc)
	}
	return float32(total)
}

// 3-bit codes, 64-lane bit-plane blocks of 24 bytes.
func packedDot64u3(query []float32, packed []byte, dim int) float32 {
	var total float64
	for blk := 0; blk < dim/64; blk++ {
		base := blk * 24
		w0 := binary.LittleEndian.Uint64(packed[base:])
		w1 := binary.LittleEndian.Uint64(packed[base+8:])
		w2 := binary.LittleEndian.Uint64(packed[base+16:])
		q := query[blk*64 : blk*64+64]
		var acc float32
		for l := 0; l < 64; l++ {
			v := (w0>>l)&1 | ((w1>>l)&1)<<1 | ((w2>>l)&1)<<2
			acc += q[l] * float32(v)
		}
		total += float64(acc)
	}
	return float32(total)
}

// 5-bit codes, 64-lane bit-plane blocks of 40 bytes.
func packedDot64u5(query []float32, packed []byte, dim int) float32 {
	var total float64
	for blk := 0; blk < dim/64; blk++ {
		base := blk * 40
		w0 := binary.LittleEndian.Uint64(packed[base:])
		w1 := binary.LittleEndian.Uint64(packed[base+8:])
		w2 := binary.LittleEndian.Uint64(packed[base+16:])
		w3 := binary.LittleEndian.Uint64(packed[base+24:])
		w4 := binary.LittleEndian.Uint64(packed[base+32:])
		q := query[blk*64 : blk*64+64]
		var acc float32
		for l := 0; l < 64; l++ {
			v := (w0>>l)&1 | ((w1>>l)&1)<<1 | ((w2>>l)&1)<<2 |
				((w3>>l)&1)<<3 | ((w4>>l)&1)<<4
			acc += q[l] * float32(v)
		}
		total += float64(acc)
	}
	return float32(total)
}

// 6-bit codes, 64-lane bit-plane blocks of 48 bytes.
func packedDot64u6(query []float32, packed []byte, dim int) float32 {
	var total float64
	for blk := 0; blk < dim/64; blk++ {
		base := blk * 48
		w0 := binary.LittleEndian.Uint64(packed[base:])
		w1 := binary.LittleEndian.Uint64(packed[base+8:])
		w2 := binary.LittleEndian.Uint64(packed[base+16:])
		w3 := binary.LittleEndian.Uint64(packed[base+24:])
		w4 := binary.LittleEndian.Uint64(packed[base+32:])
		w5 := binary.LittleEndian.Uint64(packed[base+40:])
		q := query[blk*64 : blk*64+64]
		var acc float32
		for l := 0; l < 64; l++ {
			v := (w0>>l)&1 | ((w1>>l)&1)<<1 | ((w2>>l)&1)<<2 |
				((w3>>l)&1)<<3 | ((w4>>l)&1)<<4 | ((w5>>l)&1)<<5
			acc += q[l] * float32(v)
		}
		total += float64(acc)
	}
	return float32(total)
}

// 7-bit codes, 64-lane bit-plane blocks of 56 bytes.
func packedDot64u7(query []float32, packed []byte, dim int) float32 {
	var total float64
	for blk := 0; blk < dim/64; blk++ {
		base := blk * 56
		w0 := binary.LittleEndian.Uint64(packed[base:])
		w1 := binary.LittleEndian.Uint64(packed[base+8:])
		w2 := binary.LittleEndian.Uint64(packed[base+16:])
		w3 := binary.LittleEndian.Uint64(packed[base+24:])
		w4 := binary.LittleEndian.Uint64(packed[base+32:])
		w5 := binary.LittleEndian.Uint64(packed[base+40:])
		w6 := binary.LittleEndian.Uint64(packed[base+48:])
		q := query[blk*64 : blk*64+64]
		var acc float32
		for l := 0; l < 64; l++ {
			v := (w0>>l)&1 | ((w1>>l)&1)<<1 | ((w2>>l)&1)<<2 |
				((w3>>l)&1)<<3 | ((w4>>l)&1)<<4 | ((w5>>l)&1)<<5 |
				((w6>>l)&1)<<6
			acc += q[l] * float32(v)
		}
		total += float64(acc)
	}
	return float32(total)
}

// packedDotPlanes is the slow generalized bit-plane kernel used for widths
// outside 1..8. One 64-lane block spans 8*bits bytes.
func packedDotPlanes(query []float32, packed []byte, dim, bits int) float32 {
	blockBytes := 8 * bits
	var total float64
	for blk := 0; blk < dim/64; blk++ {
		base := blk * blockBytes
		q := query[blk*64 : blk*64+64]
		var acc float32
		for l := 0; l < 64; l++ {
			var v uint64
			for p := 0; p < bits; p++ {
				w := binary.LittleEndian.Uint64(packed[base+8*p:])
				v |= (w >> l & 1) << p
			}
			acc += q[l] * float32(v)
		}
		total += float64(acc)
	}
	return float32(total)
}
