package realmrecover

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arloliu/realmrecover/errs"
	"github.com/arloliu/realmrecover/format"
	"github.com/arloliu/realmrecover/internal/testfile"
	"github.com/arloliu/realmrecover/object"
	"github.com/arloliu/realmrecover/section"
	"github.com/stretchr/testify/require"
)

// twoRootImage builds a file whose roots share a schema but differ in one name.
// It returns the builder and the offset of an orphaned string object.
func twoRootImage(t *testing.T) (*testfile.Builder, uint64) {
	t.Helper()

	b := testfile.New()
	ids := b.Ints(format.TagInt32, 1, 2)
	oldNames := b.Strings("alice", "bob")
	newNames := b.Strings("alice", "carol")
	orphan := b.Strings("mallory")

	types := []format.ColumnType{format.ColumnTypeInteger, format.ColumnTypeString}
	rootA := b.Database(nil, testfile.Table{Types: types, Names: []string{"id", "name"}, Columns: []uint64{ids, oldNames}})
	rootB := b.Database(nil, testfile.Table{Types: types, Names: []string{"id", "name"}, Columns: []uint64{ids, newNames}})
	b.Header(rootA, rootB, section.RootFlagB)

	return b, orphan
}

func TestRecover(t *testing.T) {
	b, orphan := twoRootImage(t)

	res, err := Recover(context.Background(), b.View())
	require.NoError(t, err)

	require.NotEmpty(t, res.RunID.String())
	require.Len(t, res.Digest, 64)
	require.Equal(t, uint64(len(b.Bytes())), res.Size)
	require.Equal(t, res.Header.RootOffsetB, res.Header.ActiveRootOffset())
	require.Zero(t, res.Diagnostics())

	require.False(t, res.Diff.Match())
	require.True(t, res.Diff.TableCountEqual())
	require.Len(t, res.Diff.Tables, 1)
	require.True(t, res.Diff.Tables[0].SchemaEqual)
	require.Equal(t, object.List{object.List{object.Text("bob")}}, res.Diff.Tables[0].Entries[0].OnlyA)
	require.Equal(t, object.List{object.List{object.Text("carol")}}, res.Diff.Tables[0].Entries[0].OnlyB)
	require.NotEqual(t, res.DataFingerprint(0, 0), res.DataFingerprint(1, 0))

	t.Run("used is the union of both walks", func(t *testing.T) {
		for _, w := range res.Walks {
			for _, off := range w.Tracker.Offsets() {
				require.True(t, res.Used.Contains(off))
			}
		}
	})

	t.Run("orphan surfaces as unused", func(t *testing.T) {
		var found bool
		for _, rec := range res.Scan.Unused {
			require.False(t, res.Used.Contains(rec.Offset))
			if rec.Offset == orphan {
				found = true
				require.Equal(t, object.List{object.Text("mallory")}, rec.Value)
			}
		}
		require.True(t, found)
	})
}

func TestRecover_Self(t *testing.T) {
	b := testfile.New()
	col := b.Ints(format.TagInt64, 42)
	root := b.Database(nil, testfile.Table{
		Types:   []format.ColumnType{format.ColumnTypeInteger},
		Names:   []string{"answer"},
		Columns: []uint64{col},
	})
	b.Header(root, root, section.RootFlagA)

	res, err := Recover(context.Background(), b.View())
	require.NoError(t, err)
	require.True(t, res.Diff.Match())
	require.NotEmpty(t, res.Scan.All)
	require.Equal(t, res.DataFingerprint(0, 0), res.DataFingerprint(1, 0))
}

func TestRecover_CorruptDataInOneRoot(t *testing.T) {
	b := testfile.New()
	col := b.Strings("alice")
	types := []format.ColumnType{format.ColumnTypeString}
	rootA := b.Database(nil, testfile.Table{Types: types, Names: []string{"name"}, Columns: []uint64{col}})

	// root B: same schema, data offset points at raw bytes
	junk := b.Raw([]byte("junkjunk"))
	schema := b.Offsets32(b.ColumnTypes(types...), b.Strings("name"))
	entry := b.Offsets32(schema, junk)
	aux := b.Ints(format.TagInt8, 9)
	info := b.Offsets32(aux, aux)
	rootB := b.Offsets32(info, b.Offsets32(aux, aux, entry), aux)
	b.Header(rootA, rootB, section.RootFlagB)

	res, err := Recover(context.Background(), b.View())
	require.NoError(t, err)
	require.Equal(t, 1, res.Diagnostics())
	require.True(t, res.Diff.TableCountEqual())
	require.True(t, res.Diff.Tables[0].SchemaEqual)
	require.False(t, res.Diff.Tables[0].DataEqual)
	require.Nil(t, res.Walks[1].Snapshot.Tables[0].DataStorage)
	require.NotEqual(t, res.DataFingerprint(0, 0), res.DataFingerprint(1, 0))
}

func TestRecover_Errors(t *testing.T) {
	t.Run("bad magic", func(t *testing.T) {
		b, _ := twoRootImage(t)
		b.Patch(section.OffsetMagic, []byte("SQLite"))

		_, err := Recover(context.Background(), b.View())
		require.ErrorIs(t, err, errs.ErrMagicMismatch)
	})

	t.Run("bad flag", func(t *testing.T) {
		b, _ := twoRootImage(t)
		b.Patch(section.OffsetMagic+section.RootFlagIndex, []byte{0x09})

		_, err := Recover(context.Background(), b.View())
		require.ErrorIs(t, err, errs.ErrInvalidRootFlag)
	})

	t.Run("one broken root aborts the run", func(t *testing.T) {
		b, _ := twoRootImage(t)
		h, err := section.ParseFileHeader(b.View())
		require.NoError(t, err)
		b.Header(h.RootOffsetA, 3, section.RootFlagA)

		res, err := Recover(context.Background(), b.View())
		require.Nil(t, res)
		require.ErrorIs(t, err, errs.ErrSignatureMismatch)
		require.Contains(t, err.Error(), "root B")
	})

	t.Run("invalid option", func(t *testing.T) {
		b, _ := twoRootImage(t)

		_, err := Recover(context.Background(), b.View(), WithChunkSize(1))
		require.Error(t, err)
	})
}

func TestRecoverFile(t *testing.T) {
	b, _ := twoRootImage(t)
	path := filepath.Join(t.TempDir(), "default.realm")
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0o600))

	res, err := RecoverFile(context.Background(), path, WithMaxDepth(64), WithChunkSize(16))
	require.NoError(t, err)
	require.Len(t, res.Diff.Tables, 1)

	_, err = RecoverFile(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}
