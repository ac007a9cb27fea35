package snapshot

import (
	"encoding/binary"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionType defines the compression algorithm used for the amplitude
// payload.
type CompressionType uint8

const (
	// CompressionNone indicates no compression.
	CompressionNone CompressionType = 0
	// CompressionLZ4 indicates LZ4 block compression (fast, good for frequent checkpoints).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD indicates ZSTD block compression (better ratio, good for archival).
	CompressionZSTD CompressionType = 2
)

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// Block format: [UncompressedSize uint32][CompressedSize uint32][Data...]
// If CompressedSize == 0, the block is stored uncompressed.
const blockHeaderSize = 8

// blockSize is the uncompressed payload chunk size, 64Ki amplitudes.
const blockSize = 1 << 20

// compressPayload splits data into fixed-size blocks and compresses each
// independently. Blocks that do not compress well (ratio above 0.9) are
// stored raw behind the same header.
func compressPayload(data []byte, compressionType CompressionType) ([]byte, error) {
	out := make([]byte, 0, len(data)/2+blockHeaderSize)

	for len(data) > 0 {
		n := len(data)
		if n > blockSize {
			n = blockSize
		}
		block := data[:n]
		data = data[n:]

		var compressed []byte
		var err error

		switch compressionType {
		case CompressionLZ4:
			compressed, err = compressBlockLZ4(block)
		case CompressionZSTD:
			enc := getZstdEncoder()
			compressed = enc.EncodeAll(block, nil)
			putZstdEncoder(enc)
		}
		if err != nil {
			return nil, err
		}

		var hdr [blockHeaderSize]byte
		binary.LittleEndian.PutUint32(hdr[0:], uint32(n))

		if len(compressed) == 0 || float64(len(compressed)) > float64(n)*0.9 {
			binary.LittleEndian.PutUint32(hdr[4:], 0)
			out = append(out, hdr[:]...)
			out = append(out, block...)
			continue
		}

		binary.LittleEndian.PutUint32(hdr[4:], uint32(len(compressed)))
		out = append(out, hdr[:]...)
		out = append(out, compressed...)
	}

	return out, nil
}

func compressBlockLZ4(data []byte) ([]byte, error) {
	compressed := make([]byte, lz4.CompressBlockBound(len(data)))

	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // Incompressible
	}
	return compressed[:n], nil
}

// decompressPayload reverses compressPayload. expectedSize bounds the
// output; a payload that decodes to a different size is corrupt.
func decompressPayload(data []byte, compressionType CompressionType, expectedSize int) ([]byte, error) {
	out := make([]byte, 0, expectedSize)

	for len(data) > 0 {
		if len(data) < blockHeaderSize {
			return nil, &ErrCorrupt{Reason: "truncated block header"}
		}

		uncompressedSize := int(binary.LittleEndian.Uint32(data[0:]))
		compressedSize := int(binary.LittleEndian.Uint32(data[4:]))
		data = data[blockHeaderSize:]

		if compressedSize == 0 {
			if len(data) < uncompressedSize {
				return nil, &ErrCorrupt{Reason: "truncated raw block"}
			}
			out = append(out, data[:uncompressedSize]...)
			data = data[uncompressedSize:]
			continue
		}

		if len(data) < compressedSize {
			return nil, &ErrCorrupt{Reason: "truncated compressed block"}
		}
		block := data[:compressedSize]
		data = data[compressedSize:]

		switch compressionType {
		case CompressionZSTD:
			dec := getZstdDecoder()
			decoded, err := dec.DecodeAll(block, nil)
			putZstdDecoder(dec)
			if err != nil {
				return nil, err
			}
			if len(decoded) != uncompressedSize {
				return nil, &ErrCorrupt{Reason: "decompressed size mismatch"}
			}
			out = append(out, decoded...)

		default: // LZ4 or unknown, LZ4 framing is the historical default
			decoded := make([]byte, uncompressedSize)
			n, err := lz4.UncompressBlock(block, decoded)
			if err != nil {
				return nil, err
			}
			if n != uncompressedSize {
				return nil, &ErrCorrupt{Reason: "decompressed size mismatch"}
			}
			out = append(out, decoded...)
		}

		if len(out) > expectedSize {
			return nil, &ErrCorrupt{Reason: "payload larger than header size"}
		}
	}

	if len(out) != expectedSize {
		return nil, &ErrCorrupt{Reason: "payload smaller than header size"}
	}

	return out, nil
}
