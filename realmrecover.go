// Package realmrecover recovers table data from database files that keep two
// alternate root trees, and finds records that neither tree references anymore.
//
// A recovery run has three stages:
//
//  1. Walk: both roots named by the file header are walked independently,
//     each rebuilding a Snapshot of its tables and a tracker of every offset
//     it visited (see package recovery).
//  2. Compare: the two snapshots are compared table by table (see package diff).
//  3. Scan: the whole file is searched for object markers; decodable objects
//     outside the union of both trackers are reported as unused, which is
//     where deleted or overwritten records surface (see package scan).
//
// # Basic Usage
//
//	res, err := realmrecover.RecoverFile(ctx, "default.realm")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Diff.Match(), len(res.Scan.Unused))
//
// The file is never written. A failure on a required object of either root
// aborts the run; failures on auxiliary objects are kept as diagnostics on the
// walk results.
package realmrecover

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arloliu/realmrecover/diff"
	"github.com/arloliu/realmrecover/internal/hash"
	"github.com/arloliu/realmrecover/internal/options"
	"github.com/arloliu/realmrecover/internal/tracker"
	"github.com/arloliu/realmrecover/object"
	"github.com/arloliu/realmrecover/recovery"
	"github.com/arloliu/realmrecover/scan"
	"github.com/arloliu/realmrecover/section"
	"github.com/arloliu/realmrecover/view"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Root labels, in header order.
const (
	RootA = "A"
	RootB = "B"
)

// Config holds the settings of a recovery run.
type Config struct {
	MaxDepth  int
	ChunkSize int
	Logger    *slog.Logger
}

// Option represents a functional option for configuring a recovery run.
type Option = options.Option[*Config]

// WithMaxDepth limits nested offset resolution depth.
func WithMaxDepth(depth int) Option {
	return options.New(func(c *Config) error {
		if depth < 1 {
			return fmt.Errorf("max depth must be positive, got %d", depth)
		}
		c.MaxDepth = depth

		return nil
	})
}

// WithChunkSize sets the signature scan read size.
func WithChunkSize(size int) Option {
	return options.New(func(c *Config) error {
		if size < section.MarkerSize {
			return fmt.Errorf("chunk size must be at least %d, got %d", section.MarkerSize, size)
		}
		c.ChunkSize = size

		return nil
	})
}

// WithLogger sets the logger passed down to every stage.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	})
}

// Result is the outcome of a recovery run.
type Result struct {
	RunID     uuid.UUID
	StartedAt time.Time
	Size      uint64
	Digest    string // hex BLAKE3-256 of the input file
	Header    section.FileHeader
	Walks     [2]*recovery.WalkResult // indexed like Header.Roots()
	Used      tracker.Set             // union of both walks' trackers
	Diff      *diff.Report
	Scan      *scan.Result
}

// RootLabel returns the label of the root at index i of Header.Roots().
func RootLabel(i int) string {
	if i == 0 {
		return RootA
	}

	return RootB
}

// Diagnostics returns the number of swallowed failures across both walks.
func (r *Result) Diagnostics() int {
	n := 0
	for _, w := range r.Walks {
		if w != nil {
			n += len(w.Diagnostics)
		}
	}

	return n
}

// DataFingerprint returns the xxHash64 fingerprint of one table's data in one walk.
func (r *Result) DataFingerprint(walk, table int) uint64 {
	var v object.Value
	if w := r.Walks[walk]; w != nil && table < len(w.Snapshot.Tables) {
		v = w.Snapshot.Tables[table].DataStorage
	}

	return hash.Value(v)
}

// Recover runs the full recovery over v.
//
// Parameters:
//   - ctx: Cancels the walks and the scan
//   - v: View over the database file; it is only read
//   - opts: Optional configuration (WithMaxDepth, WithChunkSize, WithLogger)
//
// Returns:
//   - *Result: Walk results, comparison and scan output
//   - error: Header errors, the first required-object failure of either walk, or ctx.Err()
func Recover(ctx context.Context, v *view.View, opts ...Option) (*Result, error) {
	cfg := &Config{
		MaxDepth:  object.DefaultMaxDepth,
		ChunkSize: scan.DefaultChunkSize,
		Logger:    slog.New(slog.DiscardHandler),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	res := &Result{
		RunID:     uuid.New(),
		StartedAt: time.Now().UTC(),
		Size:      v.Size(),
	}
	logger := cfg.Logger.With("run_id", res.RunID.String())

	header, err := section.ParseFileHeader(v)
	if err != nil {
		return nil, fmt.Errorf("invalid file header: %w", err)
	}
	res.Header = header

	digest, err := hash.FileDigest(v.SectionReader())
	if err != nil {
		return nil, fmt.Errorf("failed to digest input: %w", err)
	}
	res.Digest = digest

	engine, err := recovery.NewEngine(v, recovery.WithLogger(logger), recovery.WithMaxDepth(cfg.MaxDepth))
	if err != nil {
		return nil, err
	}

	// each walk owns its decoder and tracker; trackers are merged only after both finish
	g, gctx := errgroup.WithContext(ctx)
	for i, root := range header.Roots() {
		g.Go(func() error {
			w, err := engine.Walk(gctx, root)
			if err != nil {
				return fmt.Errorf("walk of root %s at 0x%x failed: %w", RootLabel(i), root, err)
			}
			res.Walks[i] = w

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, w := range res.Walks {
		logger.Debug("walk done",
			"label", RootLabel(i),
			"root", w.Snapshot.RootOffset,
			"tables", len(w.Snapshot.Tables),
			"visited", w.Tracker.Len(),
			"diagnostics", len(w.Diagnostics),
		)
	}

	res.Used = tracker.Union(res.Walks[0].Tracker, res.Walks[1].Tracker)
	res.Diff = diff.Compare(res.Walks[0].Snapshot, res.Walks[1].Snapshot)

	scanner, err := scan.NewScanner(v, scan.WithChunkSize(cfg.ChunkSize), scan.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	res.Scan, err = scanner.Scan(ctx, res.Used)
	if err != nil {
		return nil, fmt.Errorf("signature scan failed: %w", err)
	}

	return res, nil
}

// RecoverFile memory-maps the file at path and runs Recover over it.
func RecoverFile(ctx context.Context, path string, opts ...Option) (*Result, error) {
	v, err := view.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = v.Close() }()

	return Recover(ctx, v, opts...)
}
