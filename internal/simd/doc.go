// Package simd provides the compute kernels behind the codec: dense float32
// vector operations and fused unpack-and-accumulate inner products over
// packed sub-byte codes.
//
// All entry points dispatch through function pointers that are fixed at
// package init. The defaults are portable Go loops written so the compiler
// can auto-vectorize them; platform-specific init functions may override
// individual kernels with hand-tuned implementations without touching
// dispatch or callers.
//
// Runtime CPU feature detection selects the active ISA. Set KHORGOSH_SIMD
// (generic, neon, avx2, avx512) to override the selection.
//
// The packed inner-product kernels assume pre-validated inputs: dim must be a
// multiple of the bit width's block granularity and the packed buffer must
// hold PackedSize(dim, bits) bytes. Use the distance package for the
// validated entry points.
package simd
