package khorgosh

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/TamimEhsan/khorgosh/distance"
	"github.com/TamimEhsan/khorgosh/persistence"
	"github.com/TamimEhsan/khorgosh/quantization"
	"github.com/TamimEhsan/khorgosh/rotator"
)

// Codec state payload, behind the persistence file header:
//
//	offset  size  field
//	0       4     dim (uint32 LE)
//	4       1     bits
//	5       1     metric
//	6       2     reserved, zero
//	8       ...   serialized rotator
const codecPayloadPrefix = 8

// Save writes the codec configuration and rotation state to w inside a
// checksummed, compressed container.
func (c *Codec) Save(w io.Writer) error {
	rotBlob, err := c.rot.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal rotator: %w", err)
	}

	payload := make([]byte, codecPayloadPrefix+len(rotBlob))
	binary.LittleEndian.PutUint32(payload[0:], uint32(c.dim))
	payload[4] = uint8(c.bits)
	payload[5] = uint8(c.metric)
	copy(payload[codecPayloadPrefix:], rotBlob)

	return persistence.WritePayload(w, persistence.KindCodec, c.compression, payload)
}

// SaveToFile atomically writes the codec state to path.
func (c *Codec) SaveToFile(path string) error {
	err := persistence.SaveToFile(path, c.Save)
	if err != nil {
		return err
	}
	c.logger.Info("codec saved", "path", path, "bits", c.bits, "dim", c.dim)
	return nil
}

// Load reads codec state written by Save. Options only affect runtime
// behavior (logger, batch limits, compression of future saves); dimension,
// bit width, metric and rotation come from the stored state.
func Load(r io.Reader, opts ...Option) (*Codec, error) {
	payload, err := persistence.ReadPayload(r, persistence.KindCodec)
	if err != nil {
		return nil, err
	}
	if len(payload) < codecPayloadPrefix {
		return nil, fmt.Errorf("%w: codec payload truncated at %d bytes", persistence.ErrChecksum, len(payload))
	}

	dim := int(binary.LittleEndian.Uint32(payload[0:]))
	bits := int(payload[4])
	metric := distance.Metric(payload[5])

	rot, err := rotator.FromBytes(payload[codecPayloadPrefix:])
	if err != nil {
		return nil, fmt.Errorf("load rotator: %w", err)
	}
	if rot.Dim() != dim {
		return nil, fmt.Errorf("%w: codec dim %d, rotator dim %d", rotator.ErrFormat, dim, rot.Dim())
	}
	if bits < quantization.MinBits || bits > quantization.MaxBits {
		return nil, fmt.Errorf("stored bits %d: %w", bits, quantization.ErrInvalidBits)
	}
	if _, err := distance.Provider(metric); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	o.bits = bits
	o.metric = metric

	return newCodec(rot, o)
}

// LoadFromFile reads codec state from a file written by SaveToFile.
func LoadFromFile(path string, opts ...Option) (*Codec, error) {
	var c *Codec
	err := persistence.LoadFromFile(path, func(r io.Reader) error {
		var err error
		c, err = Load(r, opts...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Bytes serializes the codec state to a byte slice, the buffer twin of Save.
func (c *Codec) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromBytes reconstructs a codec from a Bytes blob.
func FromBytes(data []byte, opts ...Option) (*Codec, error) {
	return Load(bytes.NewReader(data), opts...)
}
