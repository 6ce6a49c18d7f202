package recovery

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arloliu/realmrecover/errs"
	"github.com/arloliu/realmrecover/internal/options"
	"github.com/arloliu/realmrecover/internal/tracker"
	"github.com/arloliu/realmrecover/object"
	"github.com/arloliu/realmrecover/view"
)

const (
	minRootEntries       = 3
	tableInfoMetaEntries = 2
	tableArrayAuxEntries = 2
	tableEntryLength     = 2
)

// Engine walks root trees and rebuilds snapshots from them.
//
// An Engine holds only configuration; every Walk creates its own decoder and
// tracker, so one Engine may run several walks concurrently.
type Engine struct {
	v        *view.View
	maxDepth int
	logger   *slog.Logger
}

// EngineOption represents a functional option for configuring the Engine.
type EngineOption = options.Option[*Engine]

// WithLogger sets the logger used for walk progress and swallowed failures.
func WithLogger(logger *slog.Logger) EngineOption {
	return options.NoError(func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	})
}

// WithMaxDepth sets the nested resolution depth limit.
func WithMaxDepth(depth int) EngineOption {
	return options.New(func(e *Engine) error {
		if depth < 1 {
			return fmt.Errorf("max depth must be positive, got %d", depth)
		}
		e.maxDepth = depth

		return nil
	})
}

// NewEngine creates an Engine over the view.
//
// Parameters:
//   - v: View over the database file
//   - opts: Optional configuration (WithLogger, WithMaxDepth)
//
// Returns:
//   - *Engine: New engine
//   - error: Invalid option value
func NewEngine(v *view.View, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		v:        v,
		maxDepth: object.DefaultMaxDepth,
		logger:   slog.New(slog.DiscardHandler),
	}

	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	return e, nil
}

// walk carries the per-walk state: decoder, tracker and collected diagnostics.
type walk struct {
	dec         *object.Decoder
	tracker     *tracker.Tracker
	stage       string
	diagnostics []Diagnostic
	logger      *slog.Logger
}

func (w *walk) nestedError(offset uint64, err error) {
	w.diagnostics = append(w.diagnostics, Diagnostic{Offset: offset, Stage: w.stage, Err: err})
	w.logger.Debug("swallowed nested failure", "stage", w.stage, "offset", offset, "error", err)
}

// resolve decodes offsets for reachability only, under the given stage label.
func (w *walk) resolve(stage string, offsets []uint64) {
	w.stage = stage
	w.dec.ResolveAll(offsets)
}

func (w *walk) offsets(stage string, offset uint64) ([]uint64, error) {
	w.stage = stage
	offs, err := w.dec.DecodeOffsets(offset)

	return offs, errs.NewObject(stage, offset, err)
}

// Walk rebuilds the snapshot stored under one root offset.
//
// Failures on required objects (root, table info, table array, table entries,
// schemas and column codecs) abort the walk and no snapshot is returned.
// Failures while resolving auxiliary or nested offsets, including a table's
// data object, are recorded as Diagnostics and the walk continues; a table
// whose data object fails keeps a nil DataStorage. A table information
// object that decodes to a scalar becomes a one-element list. Every offset visited, including
// auxiliary ones, ends up in the result's Tracker.
//
// Parameters:
//   - ctx: Checked between tables
//   - rootOffset: Offset of the root object, usually from the file header
//
// Returns:
//   - *WalkResult: Snapshot, tracker and diagnostics
//   - error: *errs.ObjectError wrapping the failure of a required object, or ctx.Err()
func (e *Engine) Walk(ctx context.Context, rootOffset uint64) (*WalkResult, error) {
	w := &walk{
		tracker: tracker.New(),
		logger:  e.logger.With("root", rootOffset),
	}

	dec, err := object.NewDecoder(e.v,
		object.WithVisitor(w.tracker),
		object.WithNestedErrorHandler(w.nestedError),
		object.WithMaxDepth(e.maxDepth),
	)
	if err != nil {
		return nil, err
	}
	w.dec = dec

	root, err := w.offsets(StageRoot, rootOffset)
	if err != nil {
		return nil, err
	}

	if len(root) < minRootEntries {
		return nil, errs.NewObject(StageRoot, rootOffset,
			fmt.Errorf("%w: %d entries, expected at least %d", errs.ErrInvalidRootObject, len(root), minRootEntries))
	}
	tableInfoOffset, tableArrayOffset, extra := root[0], root[1], root[2:]

	w.stage = StageTableInfo
	info, err := dec.Decode(tableInfoOffset, false)
	if err != nil {
		return nil, errs.NewObject(StageTableInfo, tableInfoOffset, err)
	}

	tableArray, err := w.offsets(StageTableArray, tableArrayOffset)
	if err != nil {
		return nil, err
	}

	if len(tableArray) < tableArrayAuxEntries {
		return nil, errs.NewObject(StageTableArray, tableArrayOffset,
			fmt.Errorf("%w: %d entries, expected at least %d", errs.ErrInvalidRootObject, len(tableArray), tableArrayAuxEntries))
	}

	w.resolve(StageRootExtra, extra)
	w.resolve(StageAux, tableArray[:tableArrayAuxEntries])

	snap := &Snapshot{
		RootOffset:       rootOffset,
		TableInformation: tableInformation(info.Value),
		Tables:           make([]Table, 0, len(tableArray)-tableArrayAuxEntries),
	}

	for _, entry := range tableArray[tableArrayAuxEntries:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		table, err := w.table(entry)
		if err != nil {
			return nil, err
		}
		snap.Tables = append(snap.Tables, table)
	}

	w.logger.Debug("walk finished",
		"tables", len(snap.Tables),
		"visited", w.tracker.Len(),
		"diagnostics", len(w.diagnostics),
	)

	return &WalkResult{
		Snapshot:    snap,
		Tracker:     w.tracker,
		Diagnostics: w.diagnostics,
	}, nil
}

func (w *walk) table(entryOffset uint64) (Table, error) {
	entry, err := w.offsets(StageTable, entryOffset)
	if err != nil {
		return Table{}, err
	}

	if len(entry) != tableEntryLength {
		return Table{}, errs.NewObject(StageTable, entryOffset,
			&errs.InvalidTableShapeError{Offset: entryOffset, Length: len(entry)})
	}
	schemaOffset, dataOffset := entry[0], entry[1]

	schema, err := w.schema(schemaOffset)
	if err != nil {
		return Table{}, err
	}

	table := Table{Offset: entryOffset, Schema: schema}

	w.stage = StageData
	data, err := w.dec.Decode(dataOffset, true)
	if err != nil {
		// the table is kept with nil data
		w.nestedError(dataOffset, err)
		return table, nil
	}
	table.DataStorage = data.Value

	return table, nil
}

func (w *walk) schema(offset uint64) (TableSchema, error) {
	fields, err := w.offsets(StageSchema, offset)
	if err != nil {
		return TableSchema{}, err
	}

	if len(fields) < 2 {
		return TableSchema{}, errs.NewObject(StageSchema, offset,
			fmt.Errorf("%w: %d entries, expected at least 2", errs.ErrUnexpectedValue, len(fields)))
	}

	w.stage = StageColumnTypes
	types, err := w.dec.DecodeColumnTypes(fields[0])
	if err != nil {
		return TableSchema{}, errs.NewObject(StageColumnTypes, fields[0], err)
	}

	w.stage = StageColumnNames
	names, err := w.dec.DecodeColumnNames(fields[1])
	if err != nil {
		return TableSchema{}, errs.NewObject(StageColumnNames, fields[1], err)
	}

	w.resolve(StageSchemaExtra, fields[2:])

	return TableSchema{ColumnTypes: types, ColumnNames: names}, nil
}

// tableInformation removes the leading primary-key and metadata entries of
// the table information list. A scalar has no such entries and is returned
// as a one-element list.
func tableInformation(info object.Value) object.List {
	list, ok := info.(object.List)
	if !ok {
		return object.List{info}
	}

	if len(list) <= tableInfoMetaEntries {
		return object.List{}
	}

	return list[tableInfoMetaEntries:]
}
