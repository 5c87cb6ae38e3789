package tripack

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// BitsRequired returns how many bits are required to hold values up
// to and including maxValue. The result is at least 1.
func BitsRequired(maxValue uint64) int {
	if maxValue == 0 {
		return 1
	}
	return bits.Len64(maxValue)
}

// MaxValue returns the maximum value that can be stored with
// bitsPerValue bits.
func MaxValue(bitsPerValue int) uint64 {
	if bitsPerValue >= 64 {
		return ^uint64(0)
	}
	return ^(^uint64(0) << uint(bitsPerValue))
}

func ceilDiv[T constraints.Integer](n, d T) T {
	if n%d == 0 {
		return n / d
	}
	return n/d + 1
}
