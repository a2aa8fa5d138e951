// Package account defines the Account entity.
package account

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/go-accounts-service/internal/domain"
)

// MaxNameLength is the longest account name accepted, in characters.
const MaxNameLength = 200

// Compile-time check that Account satisfies the repository entity contract.
var _ domain.Entity[uuid.UUID] = Account{}

// Account is a named customer account identified by a UUID.
type Account struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New constructs a validated Account stamped with the given time.
func New(id uuid.UUID, name string, now time.Time) (Account, error) {
	a := Account{
		ID:        id,
		Name:      strings.TrimSpace(name),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	if err := a.Validate(); err != nil {
		return Account{}, err
	}
	return a, nil
}

// Identity implements domain.Entity.
func (a Account) Identity() uuid.UUID {
	return a.ID
}

// Validate checks business rules for the Account entity.
// Returns a *domain.ValidationError (wrapping domain.ErrValidation) with per-field details,
// or nil if all rules pass.
func (a Account) Validate() error {
	fields := ValidateFields(a.ID, a.Name)
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Renamed returns a copy of the account with a new name and update time.
func (a Account) Renamed(name string, now time.Time) (Account, error) {
	a.Name = strings.TrimSpace(name)
	a.UpdatedAt = now.UTC()
	if err := a.Validate(); err != nil {
		return Account{}, err
	}
	return a, nil
}

// ValidateFields checks an identity and name pair and returns per-field
// messages; an empty map means both are valid. Shared by the entity and the
// commands that carry the same fields.
func ValidateFields(id uuid.UUID, name string) map[string]string {
	fields := make(map[string]string)
	if msg := validateID(id); msg != "" {
		fields["id"] = msg
	}
	if msg := ValidateName(name); msg != "" {
		fields["name"] = msg
	}
	return fields
}

// ValidateName returns a validation message for an invalid name, or "".
func ValidateName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return domain.MsgRequired
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLength {
		return fmt.Sprintf("must be at most %d characters", MaxNameLength)
	}
	return ""
}

func validateID(id uuid.UUID) string {
	if id == uuid.Nil {
		return domain.MsgRequired
	}
	return ""
}

// ValidateID returns a *domain.ValidationError when id is the nil UUID.
func ValidateID(id uuid.UUID) error {
	if msg := validateID(id); msg != "" {
		return domain.NewValidationError("id", msg)
	}
	return nil
}
