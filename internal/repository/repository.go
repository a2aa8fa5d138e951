// Package repository implements the generic repository contract over a
// ports.Store. A repository owns no entities; it encodes them as JSON and
// delegates persistence to the store under keys namespaced by kind.
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jsamuelsen11/go-accounts-service/internal/domain"
	"github.com/jsamuelsen11/go-accounts-service/internal/domain/result"
	"github.com/jsamuelsen11/go-accounts-service/internal/ports"
)

// Generic is a ports.Repository for any entity type.
type Generic[T domain.Entity[K], K domain.ID] struct {
	store ports.Store
	kind  string
}

// New returns a repository storing entities of the given kind in store.
func New[T domain.Entity[K], K domain.ID](store ports.Store, kind string) *Generic[T, K] {
	return &Generic[T, K]{store: store, kind: kind}
}

// Get implements ports.Repository.
func (r *Generic[T, K]) Get(ctx context.Context, id K) result.Result[T] {
	key, err := r.key(id)
	if err != nil {
		return result.Failure[T](err)
	}

	raw, err := r.store.Read(ctx, key)
	if err != nil {
		return result.Failure[T](err)
	}

	var entity T
	if err := json.Unmarshal(raw, &entity); err != nil {
		return result.Failure[T](fmt.Errorf("decoding %s: %w", key, err))
	}
	return result.Success(entity)
}

// Add implements ports.Repository. The store's atomic create guarantees that
// of several concurrent adds for one identity exactly one succeeds.
func (r *Generic[T, K]) Add(ctx context.Context, entity T) result.Result[K] {
	id := entity.Identity()
	key, raw, err := r.encode(entity)
	if err != nil {
		return result.Failure[K](err)
	}

	if err := r.store.Create(ctx, key, raw); err != nil {
		return result.Failure[K](err)
	}
	return result.Success(id)
}

// Update implements ports.Repository. The stored entity is overwritten
// without comparing versions.
func (r *Generic[T, K]) Update(ctx context.Context, entity T) result.Result[result.Empty] {
	key, raw, err := r.encode(entity)
	if err != nil {
		return result.Failure[result.Empty](err)
	}

	if err := r.store.Replace(ctx, key, raw); err != nil {
		return result.Failure[result.Empty](err)
	}
	return result.Done()
}

// Remove implements ports.Repository.
func (r *Generic[T, K]) Remove(ctx context.Context, id K) result.Result[result.Empty] {
	key, err := r.key(id)
	if err != nil {
		return result.Failure[result.Empty](err)
	}

	if err := r.store.Delete(ctx, key); err != nil {
		return result.Failure[result.Empty](err)
	}
	return result.Done()
}

// Kind returns the key namespace for this repository's entities.
func (r *Generic[T, K]) Kind() string {
	return r.kind
}

func (r *Generic[T, K]) key(id K) (ports.Key, error) {
	var zero K
	if id == zero {
		return ports.Key{}, domain.NewValidationError("id", domain.MsgRequired)
	}
	return ports.Key{Kind: r.kind, ID: id.String()}, nil
}

func (r *Generic[T, K]) encode(entity T) (ports.Key, []byte, error) {
	key, err := r.key(entity.Identity())
	if err != nil {
		return ports.Key{}, nil, err
	}
	raw, err := json.Marshal(entity)
	if err != nil {
		return ports.Key{}, nil, fmt.Errorf("encoding %s: %w", key, err)
	}
	return key, raw, nil
}
