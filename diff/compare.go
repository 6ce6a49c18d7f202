// Package diff compares the snapshots recovered from the two root trees.
//
// The two roots of a database file are alternate versions of the same data.
// Differences between them point at records changed or removed by the most
// recent commit, which is what a forensic comparison is after.
package diff

import (
	"github.com/arloliu/realmrecover/object"
	"github.com/arloliu/realmrecover/recovery"
)

// EntryDiff is the difference between the top-level data entries at one index.
type EntryDiff struct {
	Index int         // zero-based index into the table's data list
	OnlyA object.List // values present in A but not matched in B
	OnlyB object.List // values present in B but not matched in A
}

// TableReport is the comparison of the tables at one index.
type TableReport struct {
	Index       int // one-based table number
	SchemaA     recovery.TableSchema
	SchemaB     recovery.TableSchema
	SchemaEqual bool
	DataA       object.Value
	DataB       object.Value
	DataEqual   bool
	Entries     []EntryDiff // empty when DataEqual
}

// Report is the comparison of two snapshots.
type Report struct {
	InfoA       object.List
	InfoB       object.List
	InfoEqual   bool
	TableCountA int
	TableCountB int
	Tables      []TableReport // one per index present in both snapshots
}

// TableCountEqual reports whether both snapshots have the same number of tables.
func (r *Report) TableCountEqual() bool {
	return r.TableCountA == r.TableCountB
}

// Match reports whether the snapshots are identical.
func (r *Report) Match() bool {
	if !r.InfoEqual || !r.TableCountEqual() {
		return false
	}

	for _, t := range r.Tables {
		if !t.SchemaEqual || !t.DataEqual {
			return false
		}
	}

	return true
}

// Compare compares two snapshots.
//
// Table information and table counts are compared first. Tables are then
// paired by index; a count mismatch never fails, the extra tables are simply
// not paired. For each pair whose data differs, the top-level data entries are
// paired by index and each differing pair yields one EntryDiff computed with
// OrderedDifference. A data entry without a counterpart yields an EntryDiff
// holding it on its own side.
//
// Parameters:
//   - a: Snapshot of the first root
//   - b: Snapshot of the second root
//
// Returns:
//   - *Report: Comparison result, never nil
func Compare(a, b *recovery.Snapshot) *Report {
	r := &Report{
		InfoA:       a.TableInformation,
		InfoB:       b.TableInformation,
		InfoEqual:   Equal(a.TableInformation, b.TableInformation),
		TableCountA: len(a.Tables),
		TableCountB: len(b.Tables),
	}

	common := min(len(a.Tables), len(b.Tables))
	r.Tables = make([]TableReport, 0, common)
	for i := range common {
		r.Tables = append(r.Tables, compareTable(i+1, a.Tables[i], b.Tables[i]))
	}

	return r
}

func compareTable(index int, a, b recovery.Table) TableReport {
	tr := TableReport{
		Index:       index,
		SchemaA:     a.Schema,
		SchemaB:     b.Schema,
		SchemaEqual: Equal(a.Schema, b.Schema),
		DataA:       a.DataStorage,
		DataB:       b.DataStorage,
		DataEqual:   Equal(a.DataStorage, b.DataStorage),
	}

	if !tr.DataEqual {
		tr.Entries = entryDiffs(a.DataStorage, b.DataStorage)
	}

	return tr
}

func entryDiffs(a, b object.Value) []EntryDiff {
	la, aIsList := a.(object.List)
	lb, bIsList := b.(object.List)
	if !aIsList || !bIsList {
		onlyA, onlyB := OrderedDifference(a, b)
		return []EntryDiff{{Index: 0, OnlyA: onlyA, OnlyB: onlyB}}
	}

	var out []EntryDiff
	for i := range max(len(la), len(lb)) {
		var ea, eb object.Value
		switch {
		case i >= len(la):
			out = append(out, EntryDiff{Index: i, OnlyA: object.List{}, OnlyB: object.List{lb[i]}})
			continue
		case i >= len(lb):
			out = append(out, EntryDiff{Index: i, OnlyA: object.List{la[i]}, OnlyB: object.List{}})
			continue
		default:
			ea, eb = la[i], lb[i]
		}

		onlyA, onlyB := OrderedDifference(ea, eb)
		if len(onlyA) > 0 || len(onlyB) > 0 {
			out = append(out, EntryDiff{Index: i, OnlyA: onlyA, OnlyB: onlyB})
		}
	}

	return out
}
