//go:build tripack_debug

package tripack

import "fmt"

const assertionsEnabled = true

func assertBulk(index, n, valueCount int) {
	if n <= 0 {
		panic(fmt.Sprintf("tripack: len must be > 0 (got %d)", n))
	}
	if index < 0 || index >= valueCount {
		panic(fmt.Sprintf("tripack: index %d out of range [0, %d)", index, valueCount))
	}
}
