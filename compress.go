package tripack

import (
	"encoding/binary"

	"github.com/dchest/siphash"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

const (
	checksumK0 = 0x5472695061636b30
	checksumK1 = 0x426c6f636b53756d
)

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	if zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1)); err != nil {
		panic(err)
	}
	if zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1)); err != nil {
		panic(err)
	}
}

// compressBlock compresses plain with the codec and returns the encoded
// payload plus the codec byte. Compressed output is only kept if it
// saves at least a quarter of the plain size.
func compressBlock(dst, plain []byte, c Compression) ([]byte, byte) {
	switch c {
	case SnappyCompression:
		dst = snappy.Encode(dst[:cap(dst)], plain)
		if len(dst) < len(plain)-len(plain)/4 {
			return dst, blockSnappyCompression
		}
	case ZstdCompression:
		dst = zstdEncoder.EncodeAll(plain, dst[:0])
		if len(dst) < len(plain)-len(plain)/4 {
			return dst, blockZstdCompression
		}
	}
	return plain, blockNoCompression
}

// decompressBlock decodes payload according to the codec byte.
func decompressBlock(payload []byte, codec byte) ([]byte, error) {
	switch codec {
	case blockNoCompression:
		return payload, nil
	case blockSnappyCompression:
		sz, err := snappy.DecodedLen(payload)
		if err != nil {
			return nil, err
		}
		plain := fetchBuffer(sz)
		block, err := snappy.Decode(plain, payload)
		if err != nil {
			releaseBuffer(plain)
			return nil, err
		}
		return block, nil
	case blockZstdCompression:
		plain := fetchBuffer(0)
		block, err := zstdDecoder.DecodeAll(payload, plain)
		if err != nil {
			releaseBuffer(plain)
			return nil, err
		}
		return block, nil
	}
	return nil, errBadCompression
}

func appendChecksum(dst, payload []byte) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], siphash.Hash(checksumK0, checksumK1, payload))
	return append(dst, tmp[:]...)
}

func verifyChecksum(payload, sum []byte) bool {
	return binary.LittleEndian.Uint64(sum) == siphash.Hash(checksumK0, checksumK1, payload)
}
