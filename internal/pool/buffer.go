// Package pool provides pooled byte buffers for rendering report artifacts.
package pool

import (
	"io"
	"sync"
)

const (
	ReportBufferDefaultSize  = 1024 * 64        // 64KiB
	ReportBufferMaxThreshold = 1024 * 1024 * 16 // 16MiB
)

// Buffer is an append-only byte buffer.
type Buffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewBuffer creates a Buffer with the specified default capacity.
func NewBuffer(defaultSize int) *Buffer {
	return &Buffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (b *Buffer) Bytes() []byte {
	return b.B
}

// Reset empties the buffer but keeps its memory.
func (b *Buffer) Reset() {
	b.B = b.B[:0]
}

// Len returns the length of the buffer.
func (b *Buffer) Len() int {
	return len(b.B)
}

// Write appends data to the buffer. It never fails.
func (b *Buffer) Write(data []byte) (int, error) {
	b.B = append(b.B, data...)
	return len(data), nil
}

// WriteString appends s to the buffer. It never fails.
func (b *Buffer) WriteString(s string) (int, error) {
	b.B = append(b.B, s...)
	return len(s), nil
}

// WriteByte appends c to the buffer. It never fails.
func (b *Buffer) WriteByte(c byte) error {
	b.B = append(b.B, c)
	return nil
}

// WriteTo writes the contents of the buffer to w.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.B)
	return int64(n), err
}

// BufferPool is a sync.Pool of Buffers that drops buffers grown past a threshold.
type BufferPool struct {
	pool         sync.Pool
	maxThreshold int // buffers with a larger capacity are not retained
}

// NewBufferPool creates a BufferPool with buffers of the specified default size.
func NewBufferPool(defaultSize int, maxThreshold int) *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty Buffer from the pool.
func (p *BufferPool) Get() *Buffer {
	b, _ := p.pool.Get().(*Buffer)
	return b
}

// Put returns a Buffer to the pool for reuse.
func (p *BufferPool) Put(b *Buffer) {
	if b == nil {
		return
	}

	if p.maxThreshold > 0 && cap(b.B) > p.maxThreshold {
		// Discard overly large buffers to prevent memory bloat
		return
	}

	b.Reset()
	p.pool.Put(b)
}

var reportPool = NewBufferPool(ReportBufferDefaultSize, ReportBufferMaxThreshold)

// GetReportBuffer retrieves a Buffer sized for a whole artifact.
func GetReportBuffer() *Buffer {
	return reportPool.Get()
}

// PutReportBuffer returns a Buffer obtained with GetReportBuffer.
func PutReportBuffer(b *Buffer) {
	reportPool.Put(b)
}
