// Package vault provides the storage capability behind the persisted JSON
// files. The ingestion core never touches a filesystem directly; it is handed
// a Store so that tests and alternate backends can be substituted.
package vault

import "context"

// Store reads and writes vault files by name. Writes are full-file
// overwrites; there is no locking, the design assumes at most one ingestion
// process per file at a time.
type Store interface {
	// Read returns the contents of the named file. A missing file yields an
	// error for which errors.Is(err, errors.ErrNotFound) reports true.
	Read(ctx context.Context, name string) ([]byte, error)

	// Write replaces the named file with data.
	Write(ctx context.Context, name string, data []byte) error
}
