// Package report renders the artifacts of a recovery run.
//
// Four text artifacts are produced, named after the files the forensic
// workflow expects:
//
//	compare_objects.txt      comparison of the two root snapshots
//	data_storages.txt        data of every table under both roots
//	scan_all_objects.txt     every decodable leaf object found by the scan
//	scan_unused_objects.txt  the scan hits no root walk visited
//
// Scan dumps hold one record per line:
//
//	Offset: 0x1a0, Type: 0xd, Count: 1, Object: ["deleted row"]
//
// Artifacts may be compressed (see package compress). A manifest.yaml records
// the run id, input digest and the artifacts written. ExportSQLite writes the
// same data into a queryable SQLite database.
package report
