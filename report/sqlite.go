package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/arloliu/realmrecover"
	"github.com/arloliu/realmrecover/internal/tracker"
	"github.com/arloliu/realmrecover/scan"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id     TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	size       INTEGER NOT NULL,
	blake3     TEXT NOT NULL,
	root_a     INTEGER NOT NULL,
	root_b     INTEGER NOT NULL,
	root_flag  INTEGER NOT NULL,
	matched    INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS tables (
	run_id      TEXT NOT NULL,
	root        TEXT NOT NULL,
	table_index INTEGER NOT NULL,
	file_offset INTEGER NOT NULL,
	schema      TEXT NOT NULL,
	data        TEXT NOT NULL,
	fingerprint TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS diagnostics (
	run_id      TEXT NOT NULL,
	root        TEXT NOT NULL,
	file_offset INTEGER NOT NULL,
	stage       TEXT NOT NULL,
	error       TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS visited_offsets (
	run_id      TEXT NOT NULL,
	root        TEXT NOT NULL,
	file_offset INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS scan_objects (
	run_id      TEXT NOT NULL,
	file_offset INTEGER NOT NULL,
	tag         INTEGER NOT NULL,
	count       INTEGER NOT NULL,
	value       TEXT NOT NULL,
	unused      INTEGER NOT NULL
);
`

// ExportSQLite writes a run into the SQLite database at path, creating the
// tables on first use. Several runs may share one database; rows are keyed by
// run id. All rows of a run are written in a single transaction.
//
// The driver is modernc.org/sqlite, or github.com/mattn/go-sqlite3 when built
// with the cgo_sqlite tag.
func ExportSQLite(ctx context.Context, path string, res *realmrecover.Result) error {
	db, err := sql.Open(sqliteDriver, path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := exportRun(ctx, tx, res); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func exportRun(ctx context.Context, tx *sql.Tx, res *realmrecover.Result) error {
	id := res.RunID.String()
	roots := res.Header.Roots()

	_, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at, size, blake3, root_a, root_b, root_flag, matched) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, res.StartedAt.UTC().Format(time.RFC3339), int64(res.Size), res.Digest, //nolint:gosec
		int64(roots[0]), int64(roots[1]), int(res.Header.RootFlag()), res.Diff.Match(), //nolint:gosec
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, w := range res.Walks {
		label := realmrecover.RootLabel(i)
		for j, t := range w.Snapshot.Tables {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO tables (run_id, root, table_index, file_offset, schema, data, fingerprint) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				id, label, j+1, int64(t.Offset), t.Schema.String(), valueString(t.DataStorage), //nolint:gosec
				fmt.Sprintf("%016x", res.DataFingerprint(i, j)),
			)
			if err != nil {
				return fmt.Errorf("failed to insert table %d of root %s: %w", j+1, label, err)
			}
		}

		if err := exportVisited(ctx, tx, id, label, w.Tracker.Offsets()); err != nil {
			return err
		}

		for _, d := range w.Diagnostics {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO diagnostics (run_id, root, file_offset, stage, error) VALUES (?, ?, ?, ?, ?)`,
				id, label, int64(d.Offset), d.Stage, d.Err.Error(), //nolint:gosec
			)
			if err != nil {
				return fmt.Errorf("failed to insert diagnostic: %w", err)
			}
		}
	}

	return exportScan(ctx, tx, id, res.Scan, res.Used)
}

func exportVisited(ctx context.Context, tx *sql.Tx, id, label string, offsets []uint64) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO visited_offsets (run_id, root, file_offset) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, off := range offsets {
		if _, err := stmt.ExecContext(ctx, id, label, int64(off)); err != nil { //nolint:gosec
			return fmt.Errorf("failed to insert visited offset 0x%x of root %s: %w", off, label, err)
		}
	}

	return nil
}

func exportScan(ctx context.Context, tx *sql.Tx, id string, result *scan.Result, used tracker.Set) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO scan_objects (run_id, file_offset, tag, count, value, unused) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range result.All {
		_, err := stmt.ExecContext(ctx, id, int64(rec.Offset), int(rec.Tag), int(rec.Count), //nolint:gosec
			valueString(rec.Value), !used.Contains(rec.Offset))
		if err != nil {
			return fmt.Errorf("failed to insert scan object at 0x%x: %w", rec.Offset, err)
		}
	}

	return nil
}
