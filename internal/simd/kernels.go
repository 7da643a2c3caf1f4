package simd

// Kernel function pointers - set once at init, zero runtime overhead.
// Portable implementations are the default; initKernels swaps in wider
// unrolled bodies when the active ISA has the registers to profit from them,
// and platform-specific init() functions may override further.
var (
	kernelDot       = dotGeneric
	kernelSquaredL2 = squaredL2Generic
	kernelScale     = scaleGeneric
	kernelSum       = sumGeneric
)

// initKernels selects kernel bodies for the active ISA. Called once from
// initCapabilities after CPU detection.
func initKernels() {
	if activeISA >= AVX2 {
		kernelDot = dotUnrolled8
		kernelSquaredL2 = squaredL2Unrolled8
	}
}

// ============================================================================
// Public API - Zero-overhead dispatch through function pointers
// ============================================================================

// Dot calculates the dot product of two vectors.
//
// SAFETY: Assumes len(a) == len(b). Caller MUST ensure lengths match.
func Dot(a, b []float32) float32 {
	return kernelDot(a, b)
}

// SquaredL2 calculates the squared L2 distance.
//
// SAFETY: Assumes len(a) == len(b). Caller MUST ensure lengths match.
func SquaredL2(a, b []float32) float32 {
	return kernelSquaredL2(a, b)
}

// ScaleInPlace multiplies all elements of a by scalar.
func ScaleInPlace(a []float32, scalar float32) {
	kernelScale(a, scalar)
}

// Sum returns the sum of all elements of a.
func Sum(a []float32) float32 {
	return kernelSum(a)
}

// ============================================================================
// Generic implementations (pure Go fallbacks)
// ============================================================================

func dotGeneric(a, b []float32) float32 {
	var ret float32
	for i := range a {
		ret += a[i] * b[i]
	}
	return ret
}

func squaredL2Generic(a, b []float32) float32 {
	var distance float32
	for i := range a {
		d := a[i] - b[i]
		distance += d * d
	}
	return distance
}

func scaleGeneric(a []float32, scalar float32) {
	for i := range a {
		a[i] *= scalar
	}
}

func sumGeneric(a []float32) float32 {
	var ret float32
	for i := range a {
		ret += a[i]
	}
	return ret
}

// ============================================================================
// Unrolled implementations (8 independent accumulators for ILP; the
// compiler vectorizes these on AVX-capable targets)
// ============================================================================

func dotUnrolled8(a, b []float32) float32 {
	var s0, s1, s2, s3, s4, s5, s6, s7 float32
	n := len(a)
	i := 0
	for ; i+8 <= n; i += 8 {
		s0 += a[i] * b[i]
		s1 += a[i+1] * b[i+1]
		s2 += a[i+2] * b[i+2]
		s3 += a[i+3] * b[i+3]
		s4 += a[i+4] * b[i+4]
		s5 += a[i+5] * b[i+5]
		s6 += a[i+6] * b[i+6]
		s7 += a[i+7] * b[i+7]
	}
	ret := (s0 + s4) + (s1 + s5) + (s2 + s6) + (s3 + s7)
	for ; i < n; i++ {
		ret += a[i] * b[i]
	}
	return ret
}

func squaredL2Unrolled8(a, b []float32) float32 {
	var s0, s1, s2, s3, s4, s5, s6, s7 float32
	n := len(a)
	i := 0
	for ; i+8 <= n; i += 8 {
		d0 := a[i] - b[i]
		d1 := a[i+1] - b[i+1]
		d2 := a[i+2] - b[i+2]
		d3 := a[i+3] - b[i+3]
		d4 := a[i+4] - b[i+4]
		d5 := a[i+5] - b[i+5]
		d6 := a[i+6] - b[i+6]
		d7 := a[i+7] - b[i+7]
		s0 += d0 * d0
		s1 += d1 * d1
		s2 += d2 * d2
		s3 += d3 * d3
		s4 += d4 * d4
		s5 += d5 * d5
		s6 += d6 * d6
		s7 += d7 * d7
	}
	ret := (s0 + s4) + (s1 + s5) + (s2 + s6) + (s3 + s7)
	for ; i < n; i++ {
		d := a[i] - b[i]
		ret += d * d
	}
	return ret
}
