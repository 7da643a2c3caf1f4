// Package quantization implements the multi-bit scalar quantizer and the
// bit-exact code packer of the codec.
//
// A rotated vector is mapped to a bits-wide integer code plus affine
// reconstruction parameters, so that value ≈ vl + code*delta:
//
//	params, err := quantization.QuantizeScalar(rotated, 4, code)
//	quantization.Reconstruct(code, params, out)
//
// Codes are then packed into the minimal kernel-compatible byte layout:
//
//	packed := make([]byte, quantization.PackedSize(len(code), 4))
//	err = quantization.Pack(code, 4, packed)
//
// The packed layout is pinned per bit width (see pack.go); the distance
// kernels consume it directly without materializing the integer codes.
//
// Compression at 4 bits is 8x versus float32 (0.5 bytes/dim); at 1 bit it is
// 32x. Quantization and packing are pure functions: identical inputs always
// produce identical outputs.
package quantization
