//go:build cgo_sqlite

// CGO SQLite driver using mattn/go-sqlite3.
//
// Build with: go build -tags cgo_sqlite
// Requires: CGO_ENABLED=1
package sqlitesink

import (
	_ "github.com/mattn/go-sqlite3" // CGO driver
)

const (
	driverName = "sqlite3"
	driverType = "cgo"
)
