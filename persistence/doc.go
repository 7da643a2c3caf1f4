// Package persistence provides binary serialization helpers for codec
// state: a versioned file header with CRC32 integrity, checksumming
// reader/writer wrappers, atomic file replacement, and an optional
// LZ4/ZSTD compressed payload container.
//
// The on-disk layout is a fixed header followed by an (optionally
// compressed) payload. The header records the payload's length and CRC32,
// so a load detects truncation and corruption before handing bytes to the
// caller.
package persistence
