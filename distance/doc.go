// Package distance provides vector similarity scoring: full-precision dot
// product and squared L2, plus the packed asymmetric form that scores a
// float query directly against a packed quantized code without
// dequantizing it first. All functions dispatch to internal/simd.
//
// # Supported Metrics
//
//   - MetricL2: Squared Euclidean distance (default)
//   - MetricCosine: Cosine similarity (normalized dot product)
//   - MetricDot: Dot product (inner product)
//
// # Usage
//
//	dist := distance.SquaredL2(a, b)
//	sim := distance.Dot(a, b)
//	raw, err := distance.PackedDot(query, packed, dim, bits)
package distance
