package domain

import "fmt"

// ID is the constraint on entity identities. Identities must be comparable
// so stores can key on them, and must render to a stable string.
type ID interface {
	comparable
	fmt.Stringer
}

// Entity is a domain object with a persistent identity and self-contained
// validation invariants.
type Entity[K ID] interface {
	// Identity returns the entity's unique identifier.
	Identity() K

	// Validate checks the entity's invariants. Returns a *ValidationError
	// (wrapping ErrValidation) or nil.
	Validate() error
}
