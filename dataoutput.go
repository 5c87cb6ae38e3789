package tripack

import (
	"encoding/binary"
	"io"
)

// DataOutput is a sequential, big-endian byte sink.
type DataOutput interface {
	WriteByte(c byte) error
	WriteBytes(p []byte) error
	WriteUint16(v uint16) error
}

// NewDataOutput wraps a writer.
func NewDataOutput(w io.Writer) DataOutput {
	return &dataOutput{w: w}
}

type dataOutput struct {
	w   io.Writer
	tmp [2]byte
}

func (d *dataOutput) WriteByte(c byte) error {
	d.tmp[0] = c
	return d.WriteBytes(d.tmp[:1])
}

func (d *dataOutput) WriteBytes(p []byte) error {
	_, err := d.w.Write(p)
	return err
}

func (d *dataOutput) WriteUint16(v uint16) error {
	binary.BigEndian.PutUint16(d.tmp[:2], v)
	return d.WriteBytes(d.tmp[:2])
}
