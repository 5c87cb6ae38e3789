package tripack

import (
	"fmt"
	"math"
	"unsafe"
)

// MaxSize is the maximum number of values an Array can hold, so that
// the number of blocks never exceeds math.MaxInt32.
const MaxSize = math.MaxInt32 / 3

// Block is the storage element of an Array.
type Block interface {
	uint8 | uint16
}

// Array stores unsigned integers of 3*W bits, where W is the width of
// the block type, by splitting each value across three consecutive blocks.
// The high W bits are stored first.
//
// Arrays are not safe for concurrent mutation.
type Array[T Block] struct {
	blocks     []T
	valueCount int
}

// Array24 holds 24-bit values in byte blocks.
type Array24 = Array[uint8]

// Array48 holds 48-bit values in 16-bit blocks.
type Array48 = Array[uint16]

// New allocates a zero-filled array of valueCount values.
func New[T Block](valueCount int) (*Array[T], error) {
	if err := checkValueCount(valueCount); err != nil {
		return nil, err
	}
	return &Array[T]{
		blocks:     make([]T, 3*valueCount),
		valueCount: valueCount,
	}, nil
}

// Read reads valueCount values from in, as written by Save under the
// given format version. A nil byteCount defaults to FormatPacked.ByteCount.
// Errors returned by in are passed through unchanged.
func Read[T Block](in DataInput, version, valueCount int, byteCount ByteCounter) (*Array[T], error) {
	a, err := New[T](valueCount)
	if err != nil {
		return nil, err
	}
	if byteCount == nil {
		byteCount = FormatPacked.ByteCount
	}

	switch blocks := any(a.blocks).(type) {
	case []uint8:
		if err := in.ReadBytes(blocks); err != nil {
			return nil, err
		}
	default:
		for i := range a.blocks {
			v, err := in.ReadUint16()
			if err != nil {
				return nil, err
			}
			a.blocks[i] = T(v)
		}
	}

	// packed runs have not always been byte-aligned
	remaining := byteCount(version, valueCount, a.BitsPerValue()) - int64(len(a.blocks))*int64(blockBytes[T]())
	for i := int64(0); i < remaining; i++ {
		if _, err := in.ReadByte(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func checkValueCount(valueCount int) error {
	if valueCount < 0 {
		return fmt.Errorf("%w: %d is negative", ErrValueCount, valueCount)
	}
	if valueCount > MaxSize {
		return fmt.Errorf("%w: MaxSize exceeded (%d > %d)", ErrValueCount, valueCount, MaxSize)
	}
	return nil
}

func blockBytes[T Block]() int {
	var t T
	return int(unsafe.Sizeof(t))
}

func blockBits[T Block]() uint {
	return uint(blockBytes[T]()) * 8
}

// Len returns the number of values.
func (a *Array[T]) Len() int { return a.valueCount }

// BitsPerValue returns the width of a single value, 24 or 48.
func (a *Array[T]) BitsPerValue() int { return 3 * int(blockBits[T]()) }

// Get returns the value at index.
func (a *Array[T]) Get(index int) uint64 {
	w := blockBits[T]()
	o := index * 3
	return uint64(a.blocks[o])<<(2*w) | uint64(a.blocks[o+1])<<w | uint64(a.blocks[o+2])
}

// GetBulk reads up to len(dst) values starting at index into dst and
// returns the number of values read, which is less than len(dst) when
// the end of the array is reached.
func (a *Array[T]) GetBulk(index int, dst []uint64) int {
	assertBulk(index, len(dst), a.valueCount)

	n := min(a.valueCount-index, len(dst))
	w := blockBits[T]()
	blocks := a.blocks[index*3 : (index+n)*3]
	for i := range dst[:n] {
		o := i * 3
		dst[i] = uint64(blocks[o])<<(2*w) | uint64(blocks[o+1])<<w | uint64(blocks[o+2])
	}
	return n
}

// Set stores value at index. Bits above BitsPerValue are discarded.
func (a *Array[T]) Set(index int, value uint64) {
	w := blockBits[T]()
	o := index * 3
	a.blocks[o] = T(value >> (2 * w))
	a.blocks[o+1] = T(value >> w)
	a.blocks[o+2] = T(value)
}

// SetBulk writes up to len(src) values starting at index and returns
// the number of values written.
func (a *Array[T]) SetBulk(index int, src []uint64) int {
	assertBulk(index, len(src), a.valueCount)

	n := min(a.valueCount-index, len(src))
	w := blockBits[T]()
	blocks := a.blocks[index*3 : (index+n)*3]
	for i, value := range src[:n] {
		o := i * 3
		blocks[o] = T(value >> (2 * w))
		blocks[o+1] = T(value >> w)
		blocks[o+2] = T(value)
	}
	return n
}

// Fill sets all values in [from, to) to value.
func (a *Array[T]) Fill(from, to int, value uint64) {
	w := blockBits[T]()
	b0, b1, b2 := T(value>>(2*w)), T(value>>w), T(value)
	blocks := a.blocks[from*3 : to*3]
	for o := 0; o < len(blocks); o += 3 {
		blocks[o] = b0
		blocks[o+1] = b1
		blocks[o+2] = b2
	}
}

// Clear resets all values to zero.
func (a *Array[T]) Clear() { clear(a.blocks) }

// Save writes the blocks to out, followed by the padding the format
// version requires.
func (a *Array[T]) Save(out DataOutput, version int) error {
	switch blocks := any(a.blocks).(type) {
	case []uint8:
		if err := out.WriteBytes(blocks); err != nil {
			return err
		}
	default:
		for _, b := range a.blocks {
			if err := out.WriteUint16(uint16(b)); err != nil {
				return err
			}
		}
	}

	remaining := FormatPacked.ByteCount(version, a.valueCount, a.BitsPerValue()) - int64(len(a.blocks))*int64(blockBytes[T]())
	for i := int64(0); i < remaining; i++ {
		if err := out.WriteByte(0); err != nil {
			return err
		}
	}
	return nil
}

// RamBytesUsed returns the estimated memory footprint in bytes.
func (a *Array[T]) RamBytesUsed() int64 {
	return alignObjectSize(
		numBytesObjectHeader +
			2*numBytesInt32 +
			numBytesObjectRef +
			sizeOfSlice(len(a.blocks), blockBytes[T]()))
}

// String returns a debug representation.
func (a *Array[T]) String() string {
	return fmt.Sprintf("Array%d(bitsPerValue=%d, size=%d, blocks=%d)", a.BitsPerValue(), a.BitsPerValue(), a.valueCount, len(a.blocks))
}
