package blobstore

import (
	"context"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store is an abstraction for storing immutable named blobs, such as
// register snapshots. Snapshots are written and read whole; none of the
// backends needs partial-object access.
type Store interface {
	// Put writes a blob atomically. An existing blob with the same name is
	// replaced.
	Put(ctx context.Context, name string, data []byte) error

	// Get reads a blob in full. Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, name string) ([]byte, error)

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all blobs with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}
