package tripack

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"
	"sync"
)

const (
	footerSize   = 20
	checksumSize = 8
)

// Reader instances can seek and iterate across arrays in tables.
type Reader struct {
	r io.ReaderAt

	index     []blockInfo
	maxOffset int64
	version   int
}

// NewReader opens a reader.
func NewReader(r io.ReaderAt, size int64) (*Reader, error) {
	tmp := make([]byte, footerSize+binary.MaxVarintLen64)

	// read footer
	footerOffset := size - footerSize
	if footerOffset < 0 {
		return nil, errBadMagic
	}
	if _, err := r.ReadAt(tmp[:footerSize], footerOffset); err != nil {
		return nil, err
	}

	// parse footer
	if !bytes.Equal(tmp[12:footerSize], magic) {
		return nil, errBadMagic
	}
	indexOffset := int64(binary.LittleEndian.Uint64(tmp[:8]))
	version := int(binary.LittleEndian.Uint32(tmp[8:12]))
	if err := CheckVersion(version); err != nil {
		return nil, err
	}
	if indexOffset < 0 || indexOffset > footerOffset {
		return nil, errBadIndex
	}

	// read index
	var index []blockInfo
	var info blockInfo

	for pos := indexOffset; pos < footerOffset; {
		tmp = tmp[:2*binary.MaxVarintLen64]
		if x := footerOffset - pos; x < int64(len(tmp)) {
			tmp = tmp[:int(x)]
		}

		_, err := r.ReadAt(tmp, pos)
		if err != nil {
			return nil, err
		}

		u1, n1 := binary.Uvarint(tmp[0:])
		if n1 <= 0 {
			return nil, errBadIndex
		}
		u2, n2 := binary.Uvarint(tmp[n1:])
		if n2 <= 0 {
			return nil, errBadIndex
		}
		pos += int64(n1 + n2)

		info.MaxKey += u1
		info.Offset += int64(u2)
		index = append(index, info)
	}

	return &Reader{
		r: r,

		index:     index, // block offsets
		maxOffset: indexOffset,
		version:   version,
	}, nil
}

// NumBlocks returns the number of stored blocks.
func (r *Reader) NumBlocks() int {
	return len(r.index)
}

// FormatVersion returns the format version the arrays were stored with.
func (r *Reader) FormatVersion() int {
	return r.version
}

// Get retrieves the array stored for a key.
// It may return an ErrNotFound error.
func (r *Reader) Get(key uint64) (Mutable, error) {
	iter, err := r.Seek(key)
	if err != nil {
		return nil, err
	}
	defer iter.Release()

	if !iter.Next() {
		if err := iter.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	if iter.Key() != key {
		return nil, ErrNotFound
	}
	return iter.Values()
}

// Seek returns an iterator starting at the position >= key.
func (r *Reader) Seek(key uint64) (*Iterator, error) {
	b, err := r.SeekBlock(key)
	if err != nil {
		return nil, err
	}

	b.Seek(key)
	return &Iterator{r: r, b: b}, nil
}

// GetBlock returns a reader for the n-th block.
func (r *Reader) GetBlock(bpos int) (*BlockReader, error) {
	if len(r.index) == 0 {
		return &BlockReader{}, nil
	}
	if bpos < 0 {
		bpos = 0
	}
	if bpos >= len(r.index) {
		return &BlockReader{
			bpos: len(r.index),
		}, nil
	}
	return r.readBlock(bpos)
}

// SeekBlock seeks the block containing the key.
func (r *Reader) SeekBlock(key uint64) (*BlockReader, error) {
	bpos := sort.Search(len(r.index), func(i int) bool {
		return r.index[i].MaxKey >= key
	})
	return r.GetBlock(bpos)
}

func (r *Reader) readBlock(bpos int) (*BlockReader, error) {
	min := r.index[bpos].Offset
	max := r.maxOffset
	if next := bpos + 1; next < len(r.index) {
		max = r.index[next].Offset
	}
	if max-min < checksumSize+1 {
		return nil, errBadChecksum
	}

	raw := fetchBuffer(int(max - min))
	if _, err := r.r.ReadAt(raw, min); err != nil {
		releaseBuffer(raw)
		return nil, err
	}

	codecPos := len(raw) - 1
	payload := raw[:codecPos-checksumSize]
	if !verifyChecksum(payload, raw[codecPos-checksumSize:codecPos]) {
		releaseBuffer(raw)
		return nil, errBadChecksum
	}

	block, err := decompressBlock(payload, raw[codecPos])
	if raw[codecPos] != blockNoCompression {
		releaseBuffer(raw)
	}
	if err != nil {
		return nil, err
	}

	return &BlockReader{
		block:   block,
		bpos:    bpos,
		version: r.version,
	}, nil
}

// --------------------------------------------------------------------

// BlockReader reads the arrays of a single block.
type BlockReader struct {
	block   []byte
	bpos    int // the current block position
	version int

	read int    // bytes read
	key  uint64 // current key
	bpv  int    // current bits per value
	cnt  int    // current value count
	val  []byte // current payload
}

// Pos returns the index position the current block within the table.
func (r *BlockReader) Pos() int { return r.bpos }

// Key returns the key of the current entry.
func (r *BlockReader) Key() uint64 { return r.key }

// BitsPerValue returns the width of the current array.
func (r *BlockReader) BitsPerValue() int { return r.bpv }

// Len returns the number of values in the current array.
func (r *BlockReader) Len() int { return r.cnt }

// Values decodes the current array.
func (r *BlockReader) Values() (Mutable, error) {
	return ReadMutable(NewDataInput(bytes.NewReader(r.val)), r.version, r.cnt, r.bpv)
}

// More returns true if more data can be read in the block.
func (r *BlockReader) More() bool { return r.read < len(r.block) }

// Next advances the cursor to the next entry within the block and
// returns true if successful.
func (r *BlockReader) Next() bool {
	if !r.More() {
		return false
	}

	inc, n := binary.Uvarint(r.block[r.read:])
	if r.read == 0 {
		r.key = inc
	} else {
		r.key += inc
	}
	r.read += n

	r.bpv = int(r.block[r.read])
	r.read++

	cnt, n := binary.Uvarint(r.block[r.read:])
	r.cnt = int(cnt)
	r.read += n

	size := int(FormatPacked.ByteCount(r.version, r.cnt, r.bpv))
	r.val = r.block[r.read : r.read+size]
	r.read += size
	return true
}

// Seek positions the cursor before the first entry with a key >= key.
func (r *BlockReader) Seek(key uint64) bool {
	for r.More() {
		read, prev := r.read, r.key
		if r.Next(); r.key >= key {
			r.read, r.key = read, prev
			return true
		}
	}
	return false
}

// Release releases the block reader and frees up resources. The reader must not be used
// after this method is called.
func (r *BlockReader) Release() { releaseBuffer(r.block) }

// --------------------------------------------------------------------

// Iterator is a convenience wrapper around BlockReader which can
// (forward-) iterate over keys across block boundaries.
type Iterator struct {
	r *Reader
	b *BlockReader

	err error
}

// Key returns the key if the current entry.
func (i *Iterator) Key() uint64 { return i.b.Key() }

// Values decodes the array of the current entry.
func (i *Iterator) Values() (Mutable, error) { return i.b.Values() }

// More returns true if more data can be read.
func (i *Iterator) More() bool {
	if i.err != nil {
		return false
	}

	return i.b.More() || i.b.Pos()+1 < i.r.NumBlocks()
}

// Next advances the cursor to the next entry and returns true if successful.
func (i *Iterator) Next() bool {
	if i.err != nil {
		return false
	}

	// more entries in the block
	if i.b.More() {
		return i.b.Next()
	}

	// more blocks
	if n := i.b.Pos() + 1; n < i.r.NumBlocks() {
		b, err := i.r.GetBlock(n)
		if err != nil {
			i.err = err
			return false
		}
		i.b.Release()
		i.b = b
		return i.b.Next()
	}

	return false
}

// Err exposes iterator errors, if any.
func (i *Iterator) Err() error {
	return i.err
}

// Release releases the iterator and frees up resources. The iterator must not be used
// after this method is called.
func (i *Iterator) Release() {
	i.b.Release()
	i.err = errReleased
}

// --------------------------------------------------------------------

var bufPool sync.Pool

func fetchBuffer(sz int) []byte {
	if v := bufPool.Get(); v != nil {
		if p := v.([]byte); sz <= cap(p) {
			return p[:sz]
		}
	}
	return make([]byte, sz)
}

func releaseBuffer(p []byte) {
	if cap(p) != 0 {
		bufPool.Put(p)
	}
}
