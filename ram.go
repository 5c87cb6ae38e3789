package tripack

import "golang.org/x/exp/constraints"

// Size estimates, in bytes, of the building blocks of an in-memory array.
const (
	numBytesObjectRef    = 8
	numBytesObjectHeader = 16
	numBytesArrayHeader  = 24 // pointer, length, capacity
	numBytesInt32        = 4
	numBytesObjectAlign  = 8
)

// alignObjectSize rounds size up to the object alignment.
func alignObjectSize[T constraints.Integer](size T) T {
	size += numBytesObjectAlign - 1
	return size - size%numBytesObjectAlign
}

func sizeOfSlice(n, elemSize int) int64 {
	return alignObjectSize(int64(numBytesArrayHeader) + int64(n)*int64(elemSize))
}
