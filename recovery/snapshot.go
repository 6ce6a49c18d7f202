package recovery

import (
	"fmt"
	"strings"

	"github.com/arloliu/realmrecover/format"
	"github.com/arloliu/realmrecover/internal/tracker"
	"github.com/arloliu/realmrecover/object"
)

// Walk stages, used to label required-path errors and diagnostics.
const (
	StageRoot        = "root"
	StageTableInfo   = "table-info"
	StageTableArray  = "table-array"
	StageRootExtra   = "root-extra"
	StageAux         = "table-array-aux"
	StageTable       = "table"
	StageSchema      = "schema"
	StageColumnTypes = "column-types"
	StageColumnNames = "column-names"
	StageSchemaExtra = "schema-extra"
	StageData        = "data"
)

// TableSchema is the decoded column layout of one table.
type TableSchema struct {
	ColumnTypes []format.ColumnType
	ColumnNames []string
}

// String renders the schema as [[types...], [names...]].
func (s TableSchema) String() string {
	types := make([]string, len(s.ColumnTypes))
	for i, t := range s.ColumnTypes {
		types[i] = t.String()
	}

	names := make(object.List, len(s.ColumnNames))
	for i, n := range s.ColumnNames {
		names[i] = object.Text(n)
	}

	return fmt.Sprintf("[[%s], %s]", strings.Join(types, ", "), names)
}

// Table is one table recovered from a root tree.
type Table struct {
	Offset      uint64       // offset of the [schema, data] entry
	Schema      TableSchema  // decoded column layout
	DataStorage object.Value // fully resolved data tree
}

// Snapshot is the table information and tables recovered from one root.
// It is not modified after Walk returns.
type Snapshot struct {
	RootOffset       uint64
	TableInformation object.List
	Tables           []Table
}

// Diagnostic is one auxiliary or nested failure that the walk swallowed.
type Diagnostic struct {
	Offset uint64 // offset that failed to decode
	Stage  string // walk stage the failure occurred under
	Err    error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: 0x%x: %v", d.Stage, d.Offset, d.Err)
}

// WalkResult pairs a snapshot with the offsets visited while building it.
type WalkResult struct {
	Snapshot    *Snapshot
	Tracker     *tracker.Tracker
	Diagnostics []Diagnostic
}
