// Package store persists catalog products locally.
//
// Two backends implement domain.ProductStore: an SQLite table (the default)
// and a BoltDB bucket, which also offers a memory-only mode.
package store

import (
	"fmt"
	"path/filepath"

	"github.com/mmcdole/shelf/internal/domain"
)

// Driver names accepted by Open
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
	DriverMemory = "memory"
)

// Open creates the store for driver rooted in dir.
// The memory driver ignores dir.
func Open(driver, dir string) (domain.ProductStore, error) {
	switch driver {
	case DriverSQLite, "":
		return NewSQLiteStore(filepath.Join(dir, "shelf.db"))
	case DriverBolt:
		return NewBoltStore(filepath.Join(dir, "shelf.bolt"))
	case DriverMemory:
		return NewBoltStore("")
	default:
		return nil, fmt.Errorf("unknown store driver: %s", driver)
	}
}
