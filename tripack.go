package tripack

import "errors"

var magic = []byte{84, 114, 105, 80, 97, 99, 107, 51}

const (
	blockNoCompression     = 0
	blockSnappyCompression = 1
	blockZstdCompression   = 2
)

// ErrNotFound is returned by the reader when a key cannot be found.
var ErrNotFound = errors.New("tripack: not found")

// ErrValueCount is returned when an array cannot hold the requested number of values.
var ErrValueCount = errors.New("tripack: invalid value count")

// ErrUnsupportedWidth is returned for bit widths without a three-block representation.
var ErrUnsupportedWidth = errors.New("tripack: unsupported bits per value")

// ErrVersion is returned for unknown format versions.
var ErrVersion = errors.New("tripack: unsupported format version")

var (
	errClosed         = errors.New("tripack: is closed")
	errBadMagic       = errors.New("tripack: bad magic byte sequence")
	errBadCompression = errors.New("tripack: bad compression codec")
	errBadChecksum    = errors.New("tripack: block checksum mismatch")
	errBadIndex       = errors.New("tripack: bad block index")
	errReleased       = errors.New("tripack: iterator was released")
)

type blockInfo struct {
	MaxKey uint64 // maximum key in the block
	Offset int64  // block offset position
}

// --------------------------------------------------------------------

// Compression is the compression codec
type Compression byte

func (c Compression) isValid() bool {
	return c >= SnappyCompression && c < unknownCompression
}

// Supported compression codecs
const (
	SnappyCompression Compression = iota
	NoCompression
	ZstdCompression
	unknownCompression
)
