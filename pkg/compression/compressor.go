// Package compression compresses serialized tuple streams before they
// leave the kernel, for spill files and network shipment of value
// batches.
//
// The package provides:
//   - Multiple algorithms (Snappy, LZ4, Zstd, S2) behind one interface
//   - In-memory Compress/Decompress over serialized streams
//   - Stateless compressors safe for concurrent use
//
// Algorithm selection: Snappy/S2 and LZ4 favor speed, Zstd favors
// ratio. Serialized value streams are length-prefixed and highly
// repetitive, so even the fast algorithms compress them well.
package compression

import (
	"fmt"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Algorithm represents a compression algorithm.
type Algorithm string

const (
	// None passes streams through unchanged
	None Algorithm = "none"
	// Snappy represents snappy compression
	Snappy Algorithm = "snappy"
	// LZ4 represents lz4 block compression
	LZ4 Algorithm = "lz4"
	// Zstd represents zstandard compression
	Zstd Algorithm = "zstd"
	// S2 represents s2 compression (Snappy compatible)
	S2 Algorithm = "s2"
)

// Compressor compresses and decompresses serialized tuple streams.
// All implementations are safe for concurrent use.
type Compressor interface {
	// Algorithm returns the algorithm this compressor implements.
	Algorithm() Algorithm

	// Compress compresses data and returns the compressed bytes.
	// The input is not modified.
	Compress(data []byte) ([]byte, error)

	// Decompress decompresses data and returns the original bytes.
	// The input is not modified.
	Decompress(data []byte) ([]byte, error)
}

// NewCompressor returns a compressor for the named algorithm.
func NewCompressor(algorithm Algorithm) (Compressor, error) {
	switch algorithm {
	case None, "":
		return noneCompressor{}, nil
	case Snappy:
		return snappyCompressor{}, nil
	case LZ4:
		return lz4Compressor{}, nil
	case Zstd:
		return newZstdCompressor()
	case S2:
		return s2Compressor{}, nil
	default:
		return nil, fmt.Errorf("unknown compression algorithm %q", algorithm)
	}
}

type noneCompressor struct{}

func (noneCompressor) Algorithm() Algorithm { return None }

func (noneCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func (noneCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

type snappyCompressor struct{}

func (snappyCompressor) Algorithm() Algorithm { return Snappy }

func (snappyCompressor) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (snappyCompressor) Decompress(data []byte) ([]byte, error) {
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("snappy decompress: %w", err)
	}
	return out, nil
}

type s2Compressor struct{}

func (s2Compressor) Algorithm() Algorithm { return S2 }

func (s2Compressor) Compress(data []byte) ([]byte, error) {
	return s2.Encode(nil, data), nil
}

func (s2Compressor) Decompress(data []byte) ([]byte, error) {
	out, err := s2.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompress: %w", err)
	}
	return out, nil
}

// lz4Compressor uses lz4 block compression behind a small header: a
// flag byte (raw or compressed) and a u32 size so decompression can
// size its output exactly. Incompressible input is stored raw; the
// block encoder signals that case by returning zero bytes.
type lz4Compressor struct{}

const (
	lz4Raw   = 0
	lz4Block = 1
)

func (lz4Compressor) Algorithm() Algorithm { return LZ4 }

func (lz4Compressor) Compress(data []byte) ([]byte, error) {
	dst := make([]byte, 5+lz4.CompressBlockBound(len(data)))
	dst[0] = lz4Block
	dst[1] = byte(len(data))
	dst[2] = byte(len(data) >> 8)
	dst[3] = byte(len(data) >> 16)
	dst[4] = byte(len(data) >> 24)
	var c lz4.Compressor
	n, err := c.CompressBlock(data, dst[5:])
	if err != nil {
		return nil, fmt.Errorf("lz4 compress: %w", err)
	}
	if n == 0 {
		dst[0] = lz4Raw
		return append(dst[:5], data...), nil
	}
	return dst[:5+n], nil
}

func (lz4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) < 5 {
		return nil, fmt.Errorf("lz4 decompress: truncated input")
	}
	size := int(data[1]) | int(data[2])<<8 | int(data[3])<<16 | int(data[4])<<24
	if data[0] == lz4Raw {
		if len(data)-5 != size {
			return nil, fmt.Errorf("lz4 decompress: corrupt raw header")
		}
		out := make([]byte, size)
		copy(out, data[5:])
		return out, nil
	}
	out := make([]byte, size)
	n, err := lz4.UncompressBlock(data[5:], out)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompress: %w", err)
	}
	return out[:n], nil
}

// zstdCompressor reuses one encoder and one decoder; both are safe for
// concurrent use with EncodeAll/DecodeAll.
type zstdCompressor struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newZstdCompressor() (Compressor, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	return &zstdCompressor{enc: enc, dec: dec}, nil
}

func (c *zstdCompressor) Algorithm() Algorithm { return Zstd }

func (c *zstdCompressor) Compress(data []byte) ([]byte, error) {
	return c.enc.EncodeAll(data, nil), nil
}

func (c *zstdCompressor) Decompress(data []byte) ([]byte, error) {
	out, err := c.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return out, nil
}
