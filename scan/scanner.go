// Package scan finds tagged objects by searching the raw file for the object marker.
//
// The scan ignores the tree structure entirely, so it also finds objects that
// no root references anymore. Comparing its hits with the offsets visited by
// the root walks singles out unreferenced records worth a forensic look.
package scan

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/arloliu/realmrecover/internal/options"
	"github.com/arloliu/realmrecover/internal/tracker"
	"github.com/arloliu/realmrecover/object"
	"github.com/arloliu/realmrecover/section"
	"github.com/arloliu/realmrecover/view"
)

// DefaultChunkSize is the number of bytes searched per read.
const DefaultChunkSize = 1 << 20

// Record is one decoded scan hit.
type Record struct {
	Offset uint64
	Tag    uint16
	Count  uint16
	Value  object.Value
}

// String renders the record in the scan dump line format.
func (r Record) String() string {
	return fmt.Sprintf("Offset: 0x%x, Type: 0x%x, Count: %d, Object: %s", r.Offset, r.Tag, r.Count, r.Value)
}

// Result holds the scan output.
type Result struct {
	All    []Record // every decodable leaf object, in file order
	Unused []Record // the subset of All whose offset no walk visited
	Hits   int      // marker occurrences found
}

// Scanner searches a view for the object marker.
type Scanner struct {
	v         *view.View
	chunkSize int
	logger    *slog.Logger
}

// ScannerOption represents a functional option for configuring the Scanner.
type ScannerOption = options.Option[*Scanner]

// WithChunkSize sets how many bytes are searched per read.
func WithChunkSize(size int) ScannerOption {
	return options.New(func(s *Scanner) error {
		if size < section.MarkerSize {
			return fmt.Errorf("chunk size must be at least %d, got %d", section.MarkerSize, size)
		}
		s.chunkSize = size

		return nil
	})
}

// WithLogger sets the scanner logger.
func WithLogger(logger *slog.Logger) ScannerOption {
	return options.NoError(func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	})
}

// NewScanner creates a Scanner over the view.
func NewScanner(v *view.View, opts ...ScannerOption) (*Scanner, error) {
	s := &Scanner{
		v:         v,
		chunkSize: DefaultChunkSize,
		logger:    slog.New(slog.DiscardHandler),
	}

	if err := options.Apply(s, opts...); err != nil {
		return nil, err
	}

	return s, nil
}

// Offsets returns every offset where the marker starts, in ascending order.
// Matches may overlap: after a hit the search resumes one byte past its start.
func (s *Scanner) Offsets(ctx context.Context) ([]uint64, error) {
	marker := []byte(section.Marker)
	size := s.v.Size()
	chunk := uint64(s.chunkSize) //nolint:gosec
	overlap := uint64(len(marker) - 1)

	var out []uint64
	for start := uint64(0); start < size; start += chunk {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n := min(chunk+overlap, size-start)
		data, err := s.v.ReadAt(start, int(n)) //nolint:gosec
		if err != nil {
			return nil, err
		}

		for i := 0; i < len(data); {
			j := bytes.Index(data[i:], marker)
			if j < 0 {
				break
			}

			pos := i + j
			if uint64(pos) >= chunk { //nolint:gosec
				// owned by the next chunk
				break
			}
			out = append(out, start+uint64(pos)) //nolint:gosec
			i = pos + 1
		}
	}

	return out, nil
}

// Scan decodes every marker hit without nested resolution.
//
// Offset-list objects, objects that fail to decode and objects with a zero
// count are skipped. Every other hit goes to All, and also to Unused when its
// offset is not in used.
//
// Parameters:
//   - ctx: Checked once per chunk and once per hit
//   - used: Union of the offsets visited by the root walks
//
// Returns:
//   - *Result: Decoded hits
//   - error: ctx.Err() or a read failure of the view itself
func (s *Scanner) Scan(ctx context.Context, used tracker.Set) (*Result, error) {
	offsets, err := s.Offsets(ctx)
	if err != nil {
		return nil, err
	}

	dec, err := object.NewDecoder(s.v)
	if err != nil {
		return nil, err
	}

	res := &Result{Hits: len(offsets)}
	skipped := 0
	for _, off := range offsets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		obj, err := dec.Decode(off, false)
		if err != nil || obj.Kind.IsOffsetList() || obj.Count == 0 {
			skipped++
			continue
		}

		rec := Record{Offset: off, Tag: obj.Tag, Count: obj.Count, Value: obj.Value}
		res.All = append(res.All, rec)
		if !used.Contains(off) {
			res.Unused = append(res.Unused, rec)
		}
	}

	s.logger.Debug("scan finished",
		"hits", res.Hits,
		"decoded", len(res.All),
		"unused", len(res.Unused),
		"skipped", skipped,
	)

	return res, nil
}
