//go:build cgo && cgo_zstd

package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/valyala/gozstd"
)

// artifactWriterParams matches the pure-Go encoder's default level.
var artifactWriterParams = gozstd.WriterParams{
	CompressionLevel: gozstd.DefaultCompressionLevel,
}

// Compress streams data through a libzstd writer and returns the finished frame.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(data) / 2)

	zw := gozstd.NewWriterParams(&buf, &artifactWriterParams)
	defer zw.Release()

	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("zstd compression failed: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zstd compression failed: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress reads every zstd frame in data through libzstd.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	zr := gozstd.NewReader(bytes.NewReader(data))
	defer zr.Release()

	decompressed, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return decompressed, nil
}
