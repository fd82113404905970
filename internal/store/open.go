package store

import "fmt"

// Backend names accepted by Open.
const (
	BackendFiles  = "files"
	BackendSQLite = "sqlite"
)

// Open returns the store for backend: a FileStore over dir, or a SQLiteStore
// at sqlitePath.
func Open(backend, dir, sqlitePath string) (Store, error) {
	switch backend {
	case "", BackendFiles:
		return NewFileStore(dir), nil
	case BackendSQLite:
		return NewSQLiteStore(sqlitePath)
	}
	return nil, fmt.Errorf("unknown storage backend %q", backend)
}
