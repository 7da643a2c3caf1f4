package quantization

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	// MinBits and MaxBits bound the supported code widths.
	MinBits = 1
	MaxBits = 8

	// deltaEpsilon is the floor applied to delta for degenerate
	// (constant or all-zero) input, keeping reconstruction well defined.
	// Small enough that a collapsed code level reconstructs to within
	// 1e-4 of the input at every supported bit width.
	deltaEpsilon = 1e-6
)

var (
	// ErrInvalidBits is returned for bit widths outside [MinBits, MaxBits].
	ErrInvalidBits = errors.New("invalid bit width")
	// ErrDimensionMismatch is returned when buffer lengths disagree.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// Params holds the affine reconstruction parameters produced by
// quantization: value ≈ Lower + code*Delta. Immutable once produced.
type Params struct {
	Delta float32 // quantization step, always > 0
	Lower float32 // value of code level 0 (vl)
	Bits  uint8   // code width in bits
}

// Levels returns the number of quantization levels, 2^Bits.
func (p Params) Levels() int {
	return 1 << p.Bits
}

// MaxCode returns the largest representable code value, 2^Bits - 1.
func (p Params) MaxCode() uint8 {
	return uint8(1<<p.Bits - 1)
}

// MarshalBinary implements encoding.BinaryMarshaler.
// Format (little-endian): [delta:float32][lower:float32][bits:uint8]
func (p Params) MarshalBinary() ([]byte, error) {
	b := make([]byte, 9)
	binary.LittleEndian.PutUint32(b[0:4], math.Float32bits(p.Delta))
	binary.LittleEndian.PutUint32(b[4:8], math.Float32bits(p.Lower))
	b[8] = p.Bits
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (p *Params) UnmarshalBinary(data []byte) error {
	if len(data) != 9 {
		return errors.New("invalid quantization params binary length")
	}
	p.Delta = math.Float32frombits(binary.LittleEndian.Uint32(data[0:4]))
	p.Lower = math.Float32frombits(binary.LittleEndian.Uint32(data[4:8]))
	p.Bits = data[8]
	return nil
}

// QuantizeScalar maps a rotated vector to a bits-wide integer code with
// zero-centered affine reconstruction parameters.
//
// The value range is taken symmetric around zero (rotation leaves components
// approximately zero-centered): with M = max|v[i]|,
//
//	delta = 2M / (2^bits - 1)
//	vl    = -delta * (2^bits - 1) / 2   (= -M)
//	code[i] = clamp(round((v[i] - vl) / delta), 0, 2^bits-1)
//
// Rounding is nearest-integer with ties away from zero (math.Round). For
// constant or all-zero input delta falls back to a small positive epsilon
// and every code collapses to the middle level; this is handled internally
// and never surfaced as an error.
//
// Deterministic: identical (rotated, bits) always yields identical results.
func QuantizeScalar(rotated []float32, bits int, code []uint8) (Params, error) {
	if bits < MinBits || bits > MaxBits {
		return Params{}, fmt.Errorf("%w: %d (supported range [%d, %d])", ErrInvalidBits, bits, MinBits, MaxBits)
	}
	if len(code) != len(rotated) {
		return Params{}, fmt.Errorf("%w: code %d, vector %d", ErrDimensionMismatch, len(code), len(rotated))
	}

	var maxAbs float32
	for _, v := range rotated {
		a := v
		if a < 0 {
			a = -a
		}
		if a > maxAbs {
			maxAbs = a
		}
	}

	maxCode := float32(uint32(1)<<bits - 1)
	delta := 2 * maxAbs / maxCode
	if delta < deltaEpsilon {
		delta = deltaEpsilon
	}
	vl := -delta * maxCode / 2

	quantizeInto(rotated, delta, vl, maxCode, code)

	return Params{Delta: delta, Lower: vl, Bits: uint8(bits)}, nil
}

// QuantizeScalarMinMax is the asymmetric-range variant: the reconstruction
// interval is [min(v), max(v)] instead of a zero-centered one. It trades the
// fixed vl/delta relationship for a tighter fit on skewed inputs.
func QuantizeScalarMinMax(rotated []float32, bits int, code []uint8) (Params, error) {
	if bits < MinBits || bits > MaxBits {
		return Params{}, fmt.Errorf("%w: %d (supported range [%d, %d])", ErrInvalidBits, bits, MinBits, MaxBits)
	}
	if len(code) != len(rotated) {
		return Params{}, fmt.Errorf("%w: code %d, vector %d", ErrDimensionMismatch, len(code), len(rotated))
	}
	if len(rotated) == 0 {
		return Params{}, fmt.Errorf("%w: empty vector", ErrDimensionMismatch)
	}

	lo, hi := rotated[0], rotated[0]
	for _, v := range rotated[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	maxCode := float32(uint32(1)<<bits - 1)
	delta := (hi - lo) / maxCode
	if delta < deltaEpsilon {
		delta = deltaEpsilon
	}

	quantizeInto(rotated, delta, lo, maxCode, code)

	return Params{Delta: delta, Lower: lo, Bits: uint8(bits)}, nil
}

func quantizeInto(v []float32, delta, vl, maxCode float32, code []uint8) {
	for i, x := range v {
		c := float32(math.Round(float64((x - vl) / delta)))
		if c < 0 {
			c = 0
		} else if c > maxCode {
			c = maxCode
		}
		code[i] = uint8(c)
	}
}

// Reconstruct applies the affine reconstruction out[i] = vl + code[i]*delta.
func Reconstruct(code []uint8, params Params, out []float32) error {
	if len(out) != len(code) {
		return fmt.Errorf("%w: out %d, code %d", ErrDimensionMismatch, len(out), len(code))
	}
	for i, c := range code {
		out[i] = params.Lower + float32(c)*params.Delta
	}
	return nil
}
