package rotator

import (
	"encoding"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrInvalidDimension is returned for a zero or negative vector dimension.
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrBufferSize is returned when a caller-supplied buffer has the wrong length.
	ErrBufferSize = errors.New("buffer size mismatch")
	// ErrFormat is returned when serialized rotator state is corrupt or
	// written by an incompatible version.
	ErrFormat = errors.New("invalid rotator format")
)

// Rotator applies a fixed orthogonal transform with dimension padding.
// Implementations are immutable after construction and safe for concurrent
// read-only use.
type Rotator interface {
	encoding.BinaryMarshaler

	// Dim returns the logical input dimension.
	Dim() int

	// Size returns the padded output dimension: a multiple of 64, at least
	// Dim() and less than Dim()+64.
	Size() int

	// Rotate transforms in (length Dim) into out (length Size). The same
	// instance always produces identical output for identical input.
	Rotate(in, out []float32) error

	// DumpBytes returns the exact serialized size in bytes.
	DumpBytes() int

	// Save writes the serialized state to w. The blob is identical to the
	// one MarshalBinary returns.
	Save(w io.Writer) error
}

// New returns the default rotator for a dimension: the FhtKac transform.
func New(dim int, seed int64) (Rotator, error) {
	return NewFhtKacRotator(dim, seed)
}

// paddedDim rounds dim up to the kernel block granularity.
func paddedDim(dim int) int {
	return (dim + 63) / 64 * 64
}

func checkRotateBuffers(r Rotator, in, out []float32) error {
	if len(in) != r.Dim() {
		return fmt.Errorf("%w: input %d, want %d", ErrBufferSize, len(in), r.Dim())
	}
	if len(out) != r.Size() {
		return fmt.Errorf("%w: output %d, want %d", ErrBufferSize, len(out), r.Size())
	}
	return nil
}
