// Package rotator applies fixed, reproducible (near-)orthogonal transforms
// to float vectors before quantization. Rotation decorrelates vector
// components so that per-dimension scalar quantization error stays bounded.
//
// Two strategies are provided:
//
//   - FhtKacRotator (default): sign flips, fast Walsh-Hadamard mixing per
//     64-lane block, and a randomized pairwise "Kac walk" across the whole
//     vector. Exactly orthogonal, O(d log d) per rotation. This is the hot
//     path: rotation runs on every indexed and every queried vector.
//   - MatrixRotator: an explicit dense orthogonal matrix (seeded Gaussian
//     sampling plus modified Gram-Schmidt). O(d^2) per rotation, useful for
//     small dimensions or as a reference.
//
// Output length is the input dimension rounded up to the next multiple of
// 64 (the kernel block granularity); padded lanes carry zeros on input and
// are fully mixed on output.
//
// All randomness is derived from an explicit seed at construction. A
// constructed or loaded rotator is immutable and safe for concurrent use.
package rotator
