package report

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/arloliu/realmrecover"
	"github.com/arloliu/realmrecover/compress"
	"github.com/arloliu/realmrecover/format"
	"github.com/arloliu/realmrecover/internal/options"
	"github.com/arloliu/realmrecover/internal/pool"
)

// Artifact describes one file written by a Writer.
type Artifact struct {
	Name           string `yaml:"name"`
	Path           string `yaml:"path"`
	Compression    string `yaml:"compression"`
	Size           int64  `yaml:"size"`
	CompressedSize int64  `yaml:"compressed_size"`
}

// Writer writes artifacts into a directory, compressing them on the way.
type Writer struct {
	dir         string
	compression format.CompressionType
	logger      *slog.Logger
}

// WriterOption represents a functional option for configuring the Writer.
type WriterOption = options.Option[*Writer]

// WithCompression selects the artifact compression. The default is none.
func WithCompression(ct format.CompressionType) WriterOption {
	return options.New(func(w *Writer) error {
		if _, err := compress.CreateCodec(ct, "report artifacts"); err != nil {
			return err
		}
		w.compression = ct

		return nil
	})
}

// WithLogger sets the logger that records written artifacts.
func WithLogger(logger *slog.Logger) WriterOption {
	return options.NoError(func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	})
}

// NewWriter creates a Writer for dir, creating the directory if needed.
//
// Parameters:
//   - dir: Output directory
//   - opts: Optional configuration (WithCompression, WithLogger)
//
// Returns:
//   - *Writer: New writer
//   - error: Invalid option or directory creation failure
func NewWriter(dir string, opts ...WriterOption) (*Writer, error) {
	w := &Writer{
		dir:         dir,
		compression: format.CompressionNone,
		logger:      slog.New(slog.DiscardHandler),
	}

	if err := options.Apply(w, opts...); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return w, nil
}

// Write renders an artifact into memory, compresses it and writes it to the
// output directory. The compression extension is appended to name.
func (w *Writer) Write(name string, render func(io.Writer) error) (Artifact, error) {
	return w.write(name, w.compression, render)
}

// WriteRaw is Write without compression.
func (w *Writer) WriteRaw(name string, render func(io.Writer) error) (Artifact, error) {
	return w.write(name, format.CompressionNone, render)
}

func (w *Writer) write(name string, ct format.CompressionType, render func(io.Writer) error) (Artifact, error) {
	buf := pool.GetReportBuffer()
	defer pool.PutReportBuffer(buf)

	if err := render(buf); err != nil {
		return Artifact{}, fmt.Errorf("failed to render %s: %w", name, err)
	}

	out, stats, err := compress.CompressWithStats(ct, buf.Bytes())
	if err != nil {
		return Artifact{}, err
	}

	path := filepath.Join(w.dir, name+ct.Extension())
	if err := os.WriteFile(path, out, 0o644); err != nil { //nolint:gosec
		return Artifact{}, fmt.Errorf("failed to write %s: %w", path, err)
	}

	w.logger.Debug("artifact written", "path", path, "bytes", stats.CompressedSize,
		"compression", ct.String(), "ratio", stats.CompressionRatio())

	return Artifact{
		Name:           name,
		Path:           path,
		Compression:    ct.String(),
		Size:           stats.OriginalSize,
		CompressedSize: stats.CompressedSize,
	}, nil
}

// WriteAll writes the four text artifacts and the manifest of a run.
//
// Parameters:
//   - w: Artifact writer
//   - res: Recovery result
//   - source: Input path recorded in the manifest
//
// Returns:
//   - []Artifact: Written artifacts, manifest last
//   - error: First render or write failure
func WriteAll(w *Writer, res *realmrecover.Result, source string) ([]Artifact, error) {
	steps := []struct {
		name   string
		render func(io.Writer) error
	}{
		{CompareFile, func(out io.Writer) error { return WriteComparison(out, res) }},
		{DataStorageFile, func(out io.Writer) error {
			return WriteDataStorages(out, res.Walks[0].Snapshot, res.Walks[1].Snapshot)
		}},
		{ScanAllFile, func(out io.Writer) error { return WriteScan(out, res.Scan.All) }},
		{ScanUnusedFile, func(out io.Writer) error { return WriteScan(out, res.Scan.Unused) }},
	}

	artifacts := make([]Artifact, 0, len(steps)+1)
	for _, step := range steps {
		a, err := w.Write(step.name, step.render)
		if err != nil {
			return artifacts, err
		}
		artifacts = append(artifacts, a)
	}

	manifest := NewManifest(res, source, artifacts)
	a, err := w.WriteRaw(ManifestFile, manifest.Encode)
	if err != nil {
		return artifacts, err
	}

	return append(artifacts, a), nil
}
