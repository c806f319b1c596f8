//go:build !cgo_sqlite

package sqlitesink

import (
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

const (
	driverName = "sqlite"
	driverType = "purego"
)
