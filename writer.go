package tripack

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// WriterOptions define writer specific options.
type WriterOptions struct {
	// BlockSize is the minimum uncompressed size in bytes of each table block.
	// Default: 4KiB.
	BlockSize int

	// The compression codec to use.
	// Default: SnappyCompression.
	Compression Compression

	// LongAligned stores arrays using VersionStart, which pads every
	// array to a multiple of 8 bytes, for readers of the legacy format.
	// Default: false.
	LongAligned bool

	version int
}

func (o *WriterOptions) norm() *WriterOptions {
	var oo WriterOptions
	if o != nil {
		oo = *o
	}

	if oo.BlockSize < 1 {
		oo.BlockSize = 1 << 12
	}
	if !oo.Compression.isValid() {
		oo.Compression = SnappyCompression
	}
	oo.version = VersionCurrent
	if oo.LongAligned {
		oo.version = VersionStart
	}

	return &oo
}

// Writer instances can write a table of packed arrays.
type Writer struct {
	w io.Writer
	o *WriterOptions

	block blockInfo // the current block info
	blen  int       // the number of entries in the current block

	buf bytes.Buffer // plain buffer
	out DataOutput   // writes to buf
	cmp []byte       // compression buffer
	tmp []byte       // scratch buffer

	index []blockInfo
}

// NewWriter wraps a writer and returns a Writer.
func NewWriter(w io.Writer, o *WriterOptions) *Writer {
	wr := &Writer{
		w:   w,
		o:   o.norm(),
		tmp: make([]byte, 2*binary.MaxVarintLen64),
	}
	wr.out = NewDataOutput(&wr.buf)
	return wr
}

// Append appends an array to the table. Keys must be appended in
// strictly increasing order.
func (w *Writer) Append(key uint64, m Mutable) error {
	if w.tmp == nil {
		return errClosed
	}

	if key <= w.block.MaxKey && (w.blen != 0 || len(w.index) != 0) {
		return fmt.Errorf("tripack: attempted an out-of-order append, %v must be > %v", key, w.block.MaxKey)
	}

	bpv := m.BitsPerValue()
	if bpv != 24 && bpv != 48 {
		return fmt.Errorf("%w: %d", ErrUnsupportedWidth, bpv)
	}

	size := FormatPacked.ByteCount(w.o.version, m.Len(), bpv)
	if w.buf.Len() != 0 && int64(w.buf.Len())+size+2*binary.MaxVarintLen64+1 > int64(w.o.BlockSize) {
		if err := w.flush(); err != nil {
			return err
		}
	}

	skey := key
	if w.blen != 0 {
		skey -= w.block.MaxKey // apply delta-encoding
	}

	n := binary.PutUvarint(w.tmp[0:], skey)
	w.buf.Write(w.tmp[:n])
	w.buf.WriteByte(byte(bpv))
	n = binary.PutUvarint(w.tmp[0:], uint64(m.Len()))
	w.buf.Write(w.tmp[:n])

	if err := m.Save(w.out, w.o.version); err != nil {
		return err
	}

	w.blen++
	w.block.MaxKey = key

	return nil
}

// Close closes the writer
func (w *Writer) Close() error {
	if w.tmp == nil {
		return errClosed
	}
	if err := w.flush(); err != nil {
		return err
	}

	indexOffset := w.block.Offset
	if err := w.writeIndex(); err != nil {
		return err
	}

	if err := w.writeFooter(indexOffset); err != nil {
		return err
	}
	w.tmp = nil
	return nil
}

func (w *Writer) writeIndex() error {
	var prev blockInfo

	for i, ent := range w.index {
		key := ent.MaxKey
		off := ent.Offset
		if i != 0 { // delta-encode
			key -= prev.MaxKey
			off -= prev.Offset
		}
		prev = ent

		n := binary.PutUvarint(w.tmp[0:], key)
		n += binary.PutUvarint(w.tmp[n:], uint64(off))

		if err := w.writeRaw(w.tmp[:n]); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeFooter(indexOffset int64) error {
	binary.LittleEndian.PutUint64(w.tmp[0:], uint64(indexOffset))
	binary.LittleEndian.PutUint32(w.tmp[8:], uint32(w.o.version))
	if err := w.writeRaw(w.tmp[:12]); err != nil {
		return err
	}
	return w.writeRaw(magic)
}

func (w *Writer) writeRaw(p []byte) error {
	n, err := w.w.Write(p)
	w.block.Offset += int64(n)
	return err
}

func (w *Writer) flush() error {
	if w.buf.Len() == 0 {
		return nil
	}

	payload, codec := compressBlock(w.cmp, w.buf.Bytes(), w.o.Compression)
	if codec != blockNoCompression {
		w.cmp = payload
	}

	w.index = append(w.index, w.block)
	if err := w.writeRaw(payload); err != nil {
		return err
	}
	if err := w.writeRaw(appendChecksum(w.tmp[:0], payload)); err != nil {
		return err
	}
	w.tmp[0] = codec
	if err := w.writeRaw(w.tmp[:1]); err != nil {
		return err
	}

	w.buf.Reset()
	w.blen = 0
	return nil
}
