package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/go-accounts-service/internal/domain"
	"github.com/jsamuelsen11/go-accounts-service/internal/domain/account"
	"github.com/jsamuelsen11/go-accounts-service/internal/domain/result"
)

// Repository is the generic identity-keyed persistence contract. Handler code
// written against it works unchanged for any entity type and any backing
// store.
type Repository[T domain.Entity[K], K domain.ID] interface {
	// Get returns the entity with the given identity.
	// Fails with domain.ErrNotFound if none exists.
	Get(ctx context.Context, id K) result.Result[T]

	// Add persists a new entity and returns its identity.
	// Fails with domain.ErrConflict if the identity is already taken; the
	// stored entity is left untouched.
	Add(ctx context.Context, entity T) result.Result[K]

	// Update overwrites an existing entity.
	// Fails with domain.ErrNotFound if the identity does not exist.
	Update(ctx context.Context, entity T) result.Result[result.Empty]

	// Remove deletes the entity with the given identity. Removal is not
	// idempotent: removing an absent identity fails with domain.ErrNotFound.
	Remove(ctx context.Context, id K) result.Result[result.Empty]
}

// AccountRepository fixes the repository contract to accounts.
type AccountRepository interface {
	Repository[account.Account, uuid.UUID]
}
