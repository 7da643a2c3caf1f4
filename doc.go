// Package khorgosh implements a vector quantization codec for approximate
// nearest neighbor search: rotate, quantize, pack, and score without
// dequantizing.
//
// A Codec owns a fixed (dim, bits, metric) configuration plus an
// orthogonal rotation. Encoding a vector yields a compact packed code with
// affine reconstruction parameters; at query time the packed code is
// scored directly against a full-precision query through bit-width
// specialized inner-product kernels.
//
//   - rotator: orthogonal transforms with dimension padding
//   - quantization: scalar quantization and bit-exact code packing
//   - distance: metrics and packed scoring entry points
//   - searcher/model: top-k selection over scored candidates
//   - persistence: versioned, checksummed state files
//
// # Quick Start
//
//	codec, err := khorgosh.New(128, khorgosh.WithBits(4))
//	if err != nil {
//	    panic(err)
//	}
//
//	ev, err := codec.Encode(vec)       // 8x smaller than float32 at 4 bits
//	q, err := codec.EncodeQuery(query)
//	dist := codec.EstimateSquaredL2(q, ev)
//
// Batch encoding with bounded concurrency:
//
//	evs, err := codec.EncodeBatch(ctx, vecs)
//
// A codec is immutable after construction and safe for concurrent use.
package khorgosh
