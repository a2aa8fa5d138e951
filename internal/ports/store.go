package ports

import "context"

// Key addresses a stored value: Kind namespaces entity types and ID is the
// entity identity rendered as a string.
type Key struct {
	Kind string
	ID   string
}

// String implements fmt.Stringer ("account/1b4e28ba-...").
func (k Key) String() string {
	return k.Kind + "/" + k.ID
}

// Store is the key-value-by-identity backing store repositories delegate to.
// Implementations must enforce identity uniqueness atomically in Create and
// provide read-after-write consistency for the same key.
//
// Errors are plain Go errors: domain.ErrConflict, domain.ErrNotFound, or an
// infrastructure error that callers normalize to domain.ErrUnavailable.
type Store interface {
	// Create stores value under key. Returns domain.ErrConflict if key exists.
	Create(ctx context.Context, key Key, value []byte) error

	// Read returns the value stored under key. Returns domain.ErrNotFound if absent.
	Read(ctx context.Context, key Key) ([]byte, error)

	// Replace overwrites the value under an existing key.
	// Returns domain.ErrNotFound if absent.
	Replace(ctx context.Context, key Key, value []byte) error

	// Delete removes key. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, key Key) error
}
