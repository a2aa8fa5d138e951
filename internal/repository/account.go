package repository

import (
	"github.com/google/uuid"

	"github.com/jsamuelsen11/go-accounts-service/internal/domain/account"
	"github.com/jsamuelsen11/go-accounts-service/internal/ports"
)

// AccountKind is the store namespace for accounts.
const AccountKind = "account"

// AccountRepository persists accounts.
type AccountRepository struct {
	*Generic[account.Account, uuid.UUID]
}

var _ ports.AccountRepository = (*AccountRepository)(nil)

// NewAccountRepository returns an AccountRepository backed by store.
func NewAccountRepository(store ports.Store) *AccountRepository {
	return &AccountRepository{Generic: New[account.Account, uuid.UUID](store, AccountKind)}
}
