package tripack

import (
	"encoding/binary"
	"io"
)

// DataInput is a sequential, big-endian byte stream.
type DataInput interface {
	// ReadByte reads a single byte.
	ReadByte() (byte, error)
	// ReadBytes fills p entirely.
	ReadBytes(p []byte) error
	// ReadUint16 reads a big-endian unsigned 16-bit integer.
	ReadUint16() (uint16, error)
}

// NewDataInput wraps a reader. Short reads are reported as io.EOF or
// io.ErrUnexpectedEOF.
func NewDataInput(r io.Reader) DataInput {
	return &dataInput{r: r}
}

type dataInput struct {
	r   io.Reader
	tmp [2]byte
}

func (d *dataInput) ReadByte() (byte, error) {
	if br, ok := d.r.(io.ByteReader); ok {
		return br.ReadByte()
	}
	if _, err := io.ReadFull(d.r, d.tmp[:1]); err != nil {
		return 0, err
	}
	return d.tmp[0], nil
}

func (d *dataInput) ReadBytes(p []byte) error {
	_, err := io.ReadFull(d.r, p)
	return err
}

func (d *dataInput) ReadUint16() (uint16, error) {
	if _, err := io.ReadFull(d.r, d.tmp[:2]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(d.tmp[:2]), nil
}
