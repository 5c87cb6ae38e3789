package tripack

import "fmt"

// Format versions of packed integer runs.
const (
	// VersionStart marks runs that were padded to 8-byte (long) alignment.
	VersionStart = 0
	// VersionByteAligned marks runs that are padded to byte alignment only.
	VersionByteAligned = 1
	// VersionCurrent is the version written by default.
	VersionCurrent = VersionByteAligned
)

// CheckVersion returns an error wrapping ErrVersion if version is unknown.
func CheckVersion(version int) error {
	if version < VersionStart {
		return fmt.Errorf("%w: too old, should be at least %d (got %d)", ErrVersion, VersionStart, version)
	} else if version > VersionCurrent {
		return fmt.Errorf("%w: too new, should be at most %d (got %d)", ErrVersion, VersionCurrent, version)
	}
	return nil
}

// ByteCounter returns the number of bytes a run of valueCount values of
// bitsPerValue bits occupies on disk under a given format version.
type ByteCounter func(version, valueCount, bitsPerValue int) int64

// Format is the layout of a packed integer run.
type Format byte

// Supported formats.
const (
	// FormatPacked stores values contiguously, without gaps between values.
	FormatPacked Format = iota
	// FormatPackedSingleBlock stores as many values as fit in a 64-bit
	// block and never lets a value span two blocks.
	FormatPackedSingleBlock
)

var singleBlockBits = [...]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 12, 16, 21, 32}

// ID returns the persisted identifier of the format.
func (f Format) ID() int { return int(f) }

// String implements fmt.Stringer.
func (f Format) String() string {
	switch f {
	case FormatPacked:
		return "packed"
	case FormatPackedSingleBlock:
		return "packed_single_block"
	}
	return fmt.Sprintf("Format(%d)", byte(f))
}

// ByteCount returns the number of bytes required to store valueCount values
// of bitsPerValue bits using the given format version.
func (f Format) ByteCount(version, valueCount, bitsPerValue int) int64 {
	if f == FormatPacked {
		bits := int64(valueCount) * int64(bitsPerValue)
		if version < VersionByteAligned {
			return 8 * ceilDiv(bits, 64)
		}
		return ceilDiv(bits, 8)
	}
	return 8 * int64(f.LongCount(version, valueCount, bitsPerValue))
}

// LongCount returns the number of 64-bit blocks required to store
// valueCount values of bitsPerValue bits.
func (f Format) LongCount(version, valueCount, bitsPerValue int) int {
	if f == FormatPackedSingleBlock {
		return ceilDiv(valueCount, 64/bitsPerValue)
	}
	return int(ceilDiv(f.ByteCount(version, valueCount, bitsPerValue), 8))
}

// IsSupported returns true if the format can store values of bitsPerValue bits.
func (f Format) IsSupported(bitsPerValue int) bool {
	if f == FormatPackedSingleBlock {
		for _, n := range singleBlockBits {
			if n == bitsPerValue {
				return true
			}
		}
		return false
	}
	return bitsPerValue >= 1 && bitsPerValue <= 64
}

// OverheadPerValue returns the number of wasted bits per value.
func (f Format) OverheadPerValue(bitsPerValue int) float32 {
	if f == FormatPackedSingleBlock {
		valuesPerBlock := 64 / bitsPerValue
		overhead := 64 % bitsPerValue
		return float32(overhead) / float32(valuesPerBlock)
	}
	return 0
}

// OverheadRatio returns OverheadPerValue divided by bitsPerValue.
func (f Format) OverheadRatio(bitsPerValue int) float32 {
	return f.OverheadPerValue(bitsPerValue) / float32(bitsPerValue)
}
