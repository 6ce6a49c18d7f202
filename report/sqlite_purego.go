//go:build !cgo_sqlite

package report

import _ "modernc.org/sqlite"

const sqliteDriver = "sqlite"
