package tripack

import "fmt"

// Values is a read-only view of fixed-width unsigned integers.
type Values interface {
	// Get returns the value at index.
	Get(index int) uint64
	// GetBulk reads at most len(dst) values starting at index and
	// returns the number of values read.
	GetBulk(index int, dst []uint64) int
	// Len returns the number of values.
	Len() int
	// BitsPerValue returns the number of bits used to store each value.
	BitsPerValue() int
	// RamBytesUsed returns the estimated memory footprint in bytes.
	RamBytesUsed() int64
}

// Mutable is a modifiable Values.
type Mutable interface {
	Values

	// Set stores value at index.
	Set(index int, value uint64)
	// SetBulk writes at most len(src) values starting at index and
	// returns the number of values written.
	SetBulk(index int, src []uint64) int
	// Fill sets all values in [from, to) to value.
	Fill(from, to int, value uint64)
	// Clear resets all values to zero.
	Clear()
	// Save writes the values, without a header, to out.
	Save(out DataOutput, version int) error
}

var (
	_ Mutable = (*Array24)(nil)
	_ Mutable = (*Array48)(nil)
)

// NewMutable allocates the smallest three-block array able to hold values
// of bitsPerValue bits.
func NewMutable(valueCount, bitsPerValue int) (Mutable, error) {
	switch {
	case bitsPerValue >= 1 && bitsPerValue <= 24:
		return asMutable[uint8](New[uint8](valueCount))
	case bitsPerValue > 24 && bitsPerValue <= 48:
		return asMutable[uint16](New[uint16](valueCount))
	}
	return nil, fmt.Errorf("%w: %d", ErrUnsupportedWidth, bitsPerValue)
}

// ReadMutable restores an array of valueCount values of bitsPerValue bits,
// which must be 24 or 48, from a FormatPacked run.
func ReadMutable(in DataInput, version, valueCount, bitsPerValue int) (Mutable, error) {
	if err := CheckVersion(version); err != nil {
		return nil, err
	}

	switch bitsPerValue {
	case 24:
		return asMutable[uint8](Read[uint8](in, version, valueCount, nil))
	case 48:
		return asMutable[uint16](Read[uint16](in, version, valueCount, nil))
	}
	return nil, fmt.Errorf("%w: %d", ErrUnsupportedWidth, bitsPerValue)
}

// asMutable avoids returning a typed nil inside a non-nil interface.
func asMutable[T Block](a *Array[T], err error) (Mutable, error) {
	if err != nil {
		return nil, err
	}
	return a, nil
}
