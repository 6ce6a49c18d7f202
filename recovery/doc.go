// Package recovery rebuilds table snapshots by walking a root tree.
//
// A database file stores two root offsets in its header. Each root references
// a tree of offset lists:
//
//	root         -> [tableInfo, tableArray, extra...]
//	tableInfo    -> [pk, metadata, info...]
//	tableArray   -> [aux1, aux2, entry...]
//	entry        -> [schema, data]
//	schema       -> [columnTypes, columnNames, extra...]
//
// Engine.Walk follows that tree for one root and returns the Snapshot together
// with the tracker of every offset it visited. The tracker feeds the signature
// scanner, which treats unvisited objects as candidates for deleted data.
package recovery
