//go:build !tripack_debug

package tripack

const assertionsEnabled = false

func assertBulk(index, n, valueCount int) {}
