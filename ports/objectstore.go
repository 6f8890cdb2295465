// Package ports defines the interfaces the core depends on. Adapters under
// adapters/ provide the concrete implementations.
package ports

import (
	"context"
)

// ObjectStore is the object-storage surface the dataset builder and the
// ingestion stager need. Implementations must be safe for concurrent use.
type ObjectStore interface {
	// List returns every object key beneath the prefix. Ordering is
	// storage-defined; callers needing determinism must sort.
	List(ctx context.Context, prefix string) ([]string, error)

	// Get reads one object in full.
	Get(ctx context.Context, key string) ([]byte, error)

	// Exists reports whether an object is present at the key without
	// reading it.
	Exists(ctx context.Context, key string) (bool, error)

	// Put writes an object at the key, overwriting any existing one.
	// Callers wanting skip-on-exists semantics check Exists first.
	Put(ctx context.Context, key string, body []byte) error
}
