package compress

import (
	"bytes"
	"io"

	"github.com/ulikunitz/xz"
)

// XZCompressor writes the xz container format.
//
// It compresses far slower than the other codecs and is meant for archiving
// recovery artifacts next to the evidence file.
type XZCompressor struct{}

var _ Codec = (*XZCompressor)(nil)

// NewXZCompressor creates a new xz compressor.
func NewXZCompressor() XZCompressor {
	return XZCompressor{}
}

// Compress compresses the input data into an xz stream.
func (c XZCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(data); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress decompresses an xz stream.
func (c XZCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	return io.ReadAll(r)
}
