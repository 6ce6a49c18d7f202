package recovery

import (
	"context"
	"errors"
	"testing"

	"github.com/arloliu/realmrecover/errs"
	"github.com/arloliu/realmrecover/format"
	"github.com/arloliu/realmrecover/internal/testfile"
	"github.com/arloliu/realmrecover/object"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, b *testfile.Builder, opts ...EngineOption) *Engine {
	t.Helper()

	e, err := NewEngine(b.View(), opts...)
	require.NoError(t, err)

	return e
}

func TestNewEngine_InvalidMaxDepth(t *testing.T) {
	_, err := NewEngine(testfile.New().View(), WithMaxDepth(-1))
	require.Error(t, err)
}

func TestEngine_Walk(t *testing.T) {
	b := testfile.New()
	ids := b.Ints(format.TagInt64, 1, 2)
	names := b.Strings("alice", "bob")
	infoEntry := b.Strings("people")
	root := b.Database([]uint64{infoEntry}, testfile.Table{
		Types:   []format.ColumnType{format.ColumnTypeInteger, format.ColumnTypeString},
		Names:   []string{"id", "name"},
		Columns: []uint64{ids, names},
	})
	b.Header(root, root, 0)

	e := newTestEngine(t, b)
	res, err := e.Walk(context.Background(), root)
	require.NoError(t, err)
	require.Empty(t, res.Diagnostics)

	snap := res.Snapshot
	require.Equal(t, root, snap.RootOffset)
	require.Equal(t, object.List{object.Int(infoEntry)}, snap.TableInformation)
	require.Len(t, snap.Tables, 1)

	table := snap.Tables[0]
	require.Equal(t, []format.ColumnType{format.ColumnTypeInteger, format.ColumnTypeString}, table.Schema.ColumnTypes)
	require.Equal(t, []string{"id", "name"}, table.Schema.ColumnNames)
	require.Equal(t, object.List{
		object.List{object.Int(1), object.Int(2)},
		object.List{object.Text("alice"), object.Text("bob")},
	}, table.DataStorage)

	t.Run("tracker holds every visited offset", func(t *testing.T) {
		for _, off := range []uint64{root, ids, names} {
			require.True(t, res.Tracker.Contains(off), "offset 0x%x", off)
		}
		require.False(t, res.Tracker.Contains(infoEntry), "table info entries are not resolved")
	})
}

func TestEngine_Walk_AuxiliaryTracking(t *testing.T) {
	b := testfile.New()
	leaf := b.Ints(format.TagInt8, 5)
	deep := b.Offsets32(leaf)

	meta1 := b.Ints(format.TagInt64, 1)
	meta2 := b.Ints(format.TagInt64, 2)
	tableInfo := b.Offsets32(meta1, meta2)
	aux1 := b.Offsets32(deep)
	aux2 := b.Raw([]byte("junk"))
	tableArray := b.Offsets32(aux1, aux2)
	extra := b.Strings("extra")
	root := b.Offsets32(tableInfo, tableArray, extra)

	e := newTestEngine(t, b)
	res, err := e.Walk(context.Background(), root)
	require.NoError(t, err)
	require.Empty(t, res.Snapshot.Tables)
	require.Empty(t, res.Snapshot.TableInformation)

	for _, off := range []uint64{root, tableInfo, tableArray, aux1, aux2, deep, leaf, extra} {
		require.True(t, res.Tracker.Contains(off), "offset 0x%x", off)
	}
	require.False(t, res.Tracker.Contains(meta1))

	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, aux2, res.Diagnostics[0].Offset)
	require.Equal(t, StageAux, res.Diagnostics[0].Stage)
	require.ErrorIs(t, res.Diagnostics[0].Err, errs.ErrSignatureMismatch)
}

func TestEngine_Walk_NestedFailureInData(t *testing.T) {
	b := testfile.New()
	good := b.Ints(format.TagInt16, 7)
	bad := b.Object(0x77, 1, []byte{0, 0, 0, 0})
	root := b.Database(nil, testfile.Table{
		Types:   []format.ColumnType{format.ColumnTypeBool},
		Names:   []string{"flag"},
		Columns: []uint64{good, bad},
	})

	res, err := newTestEngine(t, b).Walk(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, object.List{object.List{object.Int(7)}}, res.Snapshot.Tables[0].DataStorage)
	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, StageData, res.Diagnostics[0].Stage)
	require.ErrorIs(t, res.Diagnostics[0].Err, errs.ErrUnknownObjectType)
	require.True(t, res.Tracker.Contains(bad))
}

func TestEngine_Walk_DataFailureKeepsTable(t *testing.T) {
	b := testfile.New()
	junk := b.Raw([]byte("junkjunk"))
	flag := b.Ints(format.TagInt8, 1)
	types := b.ColumnTypes(format.ColumnTypeBool)
	names := b.Strings("flag")
	schema := b.Offsets32(types, names)
	goodData := b.Offsets32(flag)
	broken := b.Offsets32(schema, junk)
	intact := b.Offsets32(schema, goodData)
	aux := b.Ints(format.TagInt8, 9)
	info := b.Offsets32(aux, aux)
	tableArray := b.Offsets32(aux, aux, broken, intact)
	root := b.Offsets32(info, tableArray, aux)

	res, err := newTestEngine(t, b).Walk(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, res.Snapshot.Tables, 2)

	first := res.Snapshot.Tables[0]
	require.Equal(t, broken, first.Offset)
	require.Equal(t, []string{"flag"}, first.Schema.ColumnNames)
	require.Nil(t, first.DataStorage)

	second := res.Snapshot.Tables[1]
	require.Equal(t, object.List{object.List{object.Int(1)}}, second.DataStorage)

	require.Len(t, res.Diagnostics, 1)
	require.Equal(t, StageData, res.Diagnostics[0].Stage)
	require.Equal(t, junk, res.Diagnostics[0].Offset)
	require.ErrorIs(t, res.Diagnostics[0].Err, errs.ErrSignatureMismatch)
	require.True(t, res.Tracker.Contains(junk))
}

func TestEngine_Walk_ScalarTableInformation(t *testing.T) {
	b := testfile.New()
	col := b.Strings("x")
	types := b.ColumnTypes(format.ColumnTypeString)
	names := b.Strings("n")
	schema := b.Offsets32(types, names)
	data := b.Offsets32(col)
	entry := b.Offsets32(schema, data)
	aux := b.Ints(format.TagInt8, 9)
	info := b.Object(format.TagBlob, 8, []byte("hello\x00\x00\x00"))
	tableArray := b.Offsets32(aux, aux, entry)
	root := b.Offsets32(info, tableArray, aux)

	res, err := newTestEngine(t, b).Walk(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, object.List{object.Text("hello")}, res.Snapshot.TableInformation)
	require.Len(t, res.Snapshot.Tables, 1)
	require.Empty(t, res.Diagnostics)
}

func TestEngine_Walk_Cycle(t *testing.T) {
	b := testfile.New()
	loop := b.Offset()
	b.Offsets32(loop)
	root := b.Database(nil, testfile.Table{
		Types:   []format.ColumnType{format.ColumnTypeLink},
		Names:   []string{"self"},
		Columns: []uint64{loop},
	})

	res, err := newTestEngine(t, b).Walk(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, object.List{object.List{}}, res.Snapshot.Tables[0].DataStorage)
	require.Len(t, res.Diagnostics, 1)
	require.ErrorIs(t, res.Diagnostics[0].Err, errs.ErrCyclicReference)
}

func TestEngine_Walk_RequiredFailures(t *testing.T) {
	t.Run("root is not an object", func(t *testing.T) {
		b := testfile.New()
		b.Raw([]byte("garbage!"))

		_, err := newTestEngine(t, b).Walk(context.Background(), 24)
		require.ErrorIs(t, err, errs.ErrSignatureMismatch)

		var objErr *errs.ObjectError
		require.True(t, errors.As(err, &objErr))
		require.Equal(t, StageRoot, objErr.Stage)
		require.Equal(t, uint64(24), objErr.Offset)
	})

	t.Run("root too short", func(t *testing.T) {
		b := testfile.New()
		a := b.Ints(format.TagInt8, 1)
		root := b.Offsets32(a, a)

		_, err := newTestEngine(t, b).Walk(context.Background(), root)
		require.ErrorIs(t, err, errs.ErrInvalidRootObject)
	})

	t.Run("table array too short", func(t *testing.T) {
		b := testfile.New()
		info := b.Offsets32()
		arr := b.Offsets32(info)
		root := b.Offsets32(info, arr, info)

		_, err := newTestEngine(t, b).Walk(context.Background(), root)
		require.ErrorIs(t, err, errs.ErrInvalidRootObject)
	})

	t.Run("table entry shape", func(t *testing.T) {
		b := testfile.New()
		x := b.Ints(format.TagInt8, 1)
		info := b.Offsets32(x, x)
		entry := b.Offsets32(x, x, x)
		arr := b.Offsets32(x, x, entry)
		root := b.Offsets32(info, arr, x)

		res, err := newTestEngine(t, b).Walk(context.Background(), root)
		require.Nil(t, res)
		require.ErrorIs(t, err, errs.ErrInvalidTableShape)

		var shapeErr *errs.InvalidTableShapeError
		require.True(t, errors.As(err, &shapeErr))
		require.Equal(t, 3, shapeErr.Length)
		require.Equal(t, entry, shapeErr.Offset)
	})

	t.Run("column types missing", func(t *testing.T) {
		b := testfile.New()
		x := b.Ints(format.TagInt8, 1)
		names := b.Strings("a")
		schema := b.Offsets32(3, names)
		data := b.Offsets32(x)
		entry := b.Offsets32(schema, data)
		info := b.Offsets32(x, x)
		arr := b.Offsets32(x, x, entry)
		root := b.Offsets32(info, arr, x)

		_, err := newTestEngine(t, b).Walk(context.Background(), root)
		require.ErrorIs(t, err, errs.ErrSignatureMismatch)

		var objErr *errs.ObjectError
		require.True(t, errors.As(err, &objErr))
		require.Equal(t, StageColumnTypes, objErr.Stage)
	})
}

func TestEngine_Walk_Canceled(t *testing.T) {
	b := testfile.New()
	col := b.Ints(format.TagInt8, 1)
	root := b.Database(nil, testfile.Table{
		Types:   []format.ColumnType{format.ColumnTypeInteger},
		Names:   []string{"n"},
		Columns: []uint64{col},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEngine(t, b).Walk(ctx, root)
	require.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Walk_Deterministic(t *testing.T) {
	b := testfile.New()
	col := b.Strings("x")
	root := b.Database(nil, testfile.Table{
		Types:   []format.ColumnType{format.ColumnTypeString},
		Names:   []string{"s"},
		Columns: []uint64{col},
	})
	e := newTestEngine(t, b)

	first, err := e.Walk(context.Background(), root)
	require.NoError(t, err)
	second, err := e.Walk(context.Background(), root)
	require.NoError(t, err)

	require.Equal(t, first.Snapshot, second.Snapshot)
	require.Equal(t, first.Tracker.Offsets(), second.Tracker.Offsets())
}

func TestTableSchema_String(t *testing.T) {
	s := TableSchema{
		ColumnTypes: []format.ColumnType{format.ColumnTypeBool, format.ColumnTypeString},
		ColumnNames: []string{"done", "title"},
	}

	require.Equal(t, `[[Bool, String], ["done", "title"]]`, s.String())
}
