// Package accounts implements the account use cases as commands and queries
// routed through the application dispatcher.
//
// Requests are immutable values validated by their constructors:
//
//	cmd, err := accounts.NewCreateAccount(uuid.Nil, "Alice")
//	res := runtime.Execute[uuid.UUID](ctx, dispatcher, cmd)
package accounts

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/go-accounts-service/internal/domain"
	"github.com/jsamuelsen11/go-accounts-service/internal/domain/account"
	"github.com/jsamuelsen11/go-accounts-service/internal/ports"
)

// MaxBatchSize is the largest number of identities a GetAccounts query may carry.
const MaxBatchSize = 100

// Compile-time checks that every request satisfies ports.Request.
var (
	_ ports.Request = CreateAccount{}
	_ ports.Request = RenameAccount{}
	_ ports.Request = DeleteAccount{}
	_ ports.Request = GetAccount{}
	_ ports.Request = GetAccounts{}
)

// CreateAccount asks for a new account with the given identity and name.
type CreateAccount struct {
	id   uuid.UUID
	name string
}

// NewCreateAccount builds a CreateAccount. A nil id is replaced with a fresh
// random identity so callers may either assign or delegate identity.
func NewCreateAccount(id uuid.UUID, name string) (CreateAccount, error) {
	if id == uuid.Nil {
		id = uuid.New()
	}
	cmd := CreateAccount{id: id, name: name}
	if err := cmd.validate(); err != nil {
		return CreateAccount{}, err
	}
	return cmd, nil
}

func (c CreateAccount) ID() uuid.UUID { return c.id }
func (c CreateAccount) Name() string { return c.name }
func (c CreateAccount) RequestName() string { return "accounts.CreateAccount" }

func (c CreateAccount) validate() error {
	return fieldsError(account.ValidateFields(c.id, c.name))
}

// RenameAccount asks for an existing account to take a new name.
type RenameAccount struct {
	id   uuid.UUID
	name string
}

// NewRenameAccount builds a validated RenameAccount.
func NewRenameAccount(id uuid.UUID, name string) (RenameAccount, error) {
	cmd := RenameAccount{id: id, name: name}
	if err := cmd.validate(); err != nil {
		return RenameAccount{}, err
	}
	return cmd, nil
}

func (c RenameAccount) ID() uuid.UUID { return c.id }
func (c RenameAccount) Name() string { return c.name }
func (c RenameAccount) RequestName() string { return "accounts.RenameAccount" }

func (c RenameAccount) validate() error {
	return fieldsError(account.ValidateFields(c.id, c.name))
}

// DeleteAccount asks for an account to be removed.
type DeleteAccount struct {
	id uuid.UUID
}

// NewDeleteAccount builds a validated DeleteAccount.
func NewDeleteAccount(id uuid.UUID) (DeleteAccount, error) {
	cmd := DeleteAccount{id: id}
	if err := cmd.validate(); err != nil {
		return DeleteAccount{}, err
	}
	return cmd, nil
}

func (c DeleteAccount) ID() uuid.UUID { return c.id }
func (c DeleteAccount) RequestName() string { return "accounts.DeleteAccount" }

func (c DeleteAccount) validate() error {
	return account.ValidateID(c.id)
}

// GetAccount reads one account.
type GetAccount struct {
	id uuid.UUID
}

// NewGetAccount builds a validated GetAccount.
func NewGetAccount(id uuid.UUID) (GetAccount, error) {
	q := GetAccount{id: id}
	if err := q.validate(); err != nil {
		return GetAccount{}, err
	}
	return q, nil
}

func (q GetAccount) ID() uuid.UUID { return q.id }
func (q GetAccount) RequestName() string { return "accounts.GetAccount" }

func (q GetAccount) validate() error {
	return account.ValidateID(q.id)
}

// GetAccounts reads several accounts at once. Identities are deduplicated,
// keeping first occurrences in order.
type GetAccounts struct {
	ids []uuid.UUID
}

// NewGetAccounts builds a validated GetAccounts.
func NewGetAccounts(ids []uuid.UUID) (GetAccounts, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	q := GetAccounts{ids: unique}
	if err := q.validate(); err != nil {
		return GetAccounts{}, err
	}
	return q, nil
}

// IDs returns a copy of the requested identities.
func (q GetAccounts) IDs() []uuid.UUID { return slices.Clone(q.ids) }
func (q GetAccounts) RequestName() string { return "accounts.GetAccounts" }

func (q GetAccounts) validate() error {
	switch {
	case len(q.ids) == 0:
		return domain.NewValidationError("ids", domain.MsgRequired)
	case len(q.ids) > MaxBatchSize:
		return domain.NewValidationError("ids", fmt.Sprintf("must contain at most %d identities", MaxBatchSize))
	case slices.Contains(q.ids, uuid.Nil):
		return domain.NewValidationError("ids", "must not contain the nil identity")
	}
	return nil
}

func fieldsError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &domain.ValidationError{Fields: fields}
}
