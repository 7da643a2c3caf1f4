package persistence

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	// MagicNumber identifies codec state files (ASCII: "KHG0").
	MagicNumber = 0x4B484730
	// Version is the current file format version.
	Version = 0x00010000

	// Payload kinds.
	KindRotator = 1
	KindCodec   = 2
)

var (
	ErrInvalidMagic   = errors.New("invalid magic number")
	ErrInvalidVersion = errors.New("unsupported version")
	ErrInvalidKind    = errors.New("invalid payload kind")
	ErrChecksum       = errors.New("checksum mismatch")
)

// FileHeader is the 32-byte header at the start of every state file.
// All fields little-endian.
type FileHeader struct {
	Magic       uint32
	Version     uint32
	Kind        uint8
	Compression uint8 // CompressionType of the payload
	Padding     [2]byte
	PayloadSize uint64 // payload length after decompression
	StoredSize  uint64 // payload length as stored on disk
	Checksum    uint32 // CRC32 (IEEE) of the stored payload bytes
}

const headerSize = 32

// WriteHeader writes the header to w, filling in magic and version.
func WriteHeader(w io.Writer, h *FileHeader) error {
	h.Magic = MagicNumber
	h.Version = Version

	buf := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(buf[0:], h.Magic)
	binary.LittleEndian.PutUint32(buf[4:], h.Version)
	buf[8] = h.Kind
	buf[9] = h.Compression
	binary.LittleEndian.PutUint64(buf[12:], h.PayloadSize)
	binary.LittleEndian.PutUint64(buf[20:], h.StoredSize)
	binary.LittleEndian.PutUint32(buf[28:], h.Checksum)

	_, err := w.Write(buf)
	return err
}

// ReadHeader reads and validates a header from r.
func ReadHeader(r io.Reader) (*FileHeader, error) {
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	h := &FileHeader{
		Magic:       binary.LittleEndian.Uint32(buf[0:]),
		Version:     binary.LittleEndian.Uint32(buf[4:]),
		Kind:        buf[8],
		Compression: buf[9],
		PayloadSize: binary.LittleEndian.Uint64(buf[12:]),
		StoredSize:  binary.LittleEndian.Uint64(buf[20:]),
		Checksum:    binary.LittleEndian.Uint32(buf[28:]),
	}

	if h.Magic != MagicNumber {
		return nil, fmt.Errorf("%w: 0x%08x", ErrInvalidMagic, h.Magic)
	}
	if h.Version != Version {
		return nil, fmt.Errorf("%w: 0x%08x", ErrInvalidVersion, h.Version)
	}
	return h, nil
}

// WritePayload writes a header plus payload to w, compressing with the
// given algorithm and recording size and checksum for load-time checks.
func WritePayload(w io.Writer, kind uint8, compression CompressionType, payload []byte) error {
	stored, err := CompressBlock(payload, compression)
	if err != nil {
		return fmt.Errorf("compress payload: %w", err)
	}

	h := &FileHeader{
		Kind:        kind,
		Compression: uint8(compression),
		PayloadSize: uint64(len(payload)),
		StoredSize:  uint64(len(stored)),
		Checksum:    Checksum(stored),
	}
	if err := WriteHeader(w, h); err != nil {
		return err
	}
	_, err = w.Write(stored)
	return err
}

// ReadPayload reads a header plus payload from r, verifying kind, checksum
// and decompressed size.
func ReadPayload(r io.Reader, kind uint8) ([]byte, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	if h.Kind != kind {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKind, h.Kind, kind)
	}

	stored := make([]byte, h.StoredSize)
	if _, err := io.ReadFull(r, stored); err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	if got := Checksum(stored); got != h.Checksum {
		return nil, fmt.Errorf("%w: expected 0x%08x, got 0x%08x", ErrChecksum, h.Checksum, got)
	}

	payload, err := DecompressBlock(stored, CompressionType(h.Compression))
	if err != nil {
		return nil, fmt.Errorf("decompress payload: %w", err)
	}
	if uint64(len(payload)) != h.PayloadSize {
		return nil, fmt.Errorf("%w: payload %d bytes, header says %d", ErrChecksum, len(payload), h.PayloadSize)
	}
	return payload, nil
}
