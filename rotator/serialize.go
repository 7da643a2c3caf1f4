package rotator

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
)

// Serialized rotator blob, version 1. All fields little-endian:
//
//	offset  size  field
//	0       4     magic "KHGR"
//	4       4     format version
//	8       1     kind (1=FhtKac, 2=Matrix)
//	9       3     reserved, zero
//	12      4     dim
//	16      4     padded dim
//	20      4     rounds (FhtKac only, zero otherwise)
//	24      8     seed
//	32      4     CRC32 (IEEE) of bytes 0..31
//
// The blob stores only the seed; transform parameters are re-derived on
// load, which keeps the format independent of dimension.
const (
	rotatorMagic   = 0x4B484752 // "KHGR"
	rotatorVersion = 1

	kindFhtKac = 1
	kindMatrix = 2

	headerSize = 36
)

func marshalHeader(kind uint8, dim, padded, rounds int, seed int64) []byte {
	buf := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(buf[0:], rotatorMagic)
	binary.LittleEndian.PutUint32(buf[4:], rotatorVersion)
	buf[8] = kind
	binary.LittleEndian.PutUint32(buf[12:], uint32(dim))
	binary.LittleEndian.PutUint32(buf[16:], uint32(padded))
	binary.LittleEndian.PutUint32(buf[20:], uint32(rounds))
	binary.LittleEndian.PutUint64(buf[24:], uint64(seed))
	binary.LittleEndian.PutUint32(buf[32:], crc32.ChecksumIEEE(buf[:32]))
	return buf
}

// FromBytes reconstructs a rotator from a serialized blob. Loading the
// stream form and the buffer form of the same saved state yields rotators
// with identical Rotate output.
func FromBytes(data []byte) (Rotator, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: blob truncated at %d bytes", ErrFormat, len(data))
	}
	if magic := binary.LittleEndian.Uint32(data[0:]); magic != rotatorMagic {
		return nil, fmt.Errorf("%w: bad magic 0x%08x", ErrFormat, magic)
	}
	if version := binary.LittleEndian.Uint32(data[4:]); version != rotatorVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, version)
	}
	want := binary.LittleEndian.Uint32(data[32:])
	if got := crc32.ChecksumIEEE(data[:32]); got != want {
		return nil, fmt.Errorf("%w: checksum mismatch (got 0x%08x, want 0x%08x)", ErrFormat, got, want)
	}

	kind := data[8]
	dim := int(binary.LittleEndian.Uint32(data[12:]))
	padded := int(binary.LittleEndian.Uint32(data[16:]))
	rounds := int(binary.LittleEndian.Uint32(data[20:]))
	seed := int64(binary.LittleEndian.Uint64(data[24:]))

	if dim <= 0 || padded != paddedDim(dim) {
		return nil, fmt.Errorf("%w: inconsistent dimensions %d/%d", ErrFormat, dim, padded)
	}

	switch kind {
	case kindFhtKac:
		return newFhtKacRotator(dim, seed, rounds)
	case kindMatrix:
		return NewMatrixRotator(dim, seed)
	default:
		return nil, fmt.Errorf("%w: unknown kind %d", ErrFormat, kind)
	}
}

// Load reads a serialized rotator from a stream. The stream and buffer
// encodings are identical, so Load(bytes.NewReader(blob)) and
// FromBytes(blob) are interchangeable.
func Load(r io.Reader) (Rotator, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("read rotator state: %w", err)
	}
	return FromBytes(buf)
}
