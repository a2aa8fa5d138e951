package dto

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/go-accounts-service/internal/domain"
	"github.com/jsamuelsen11/go-accounts-service/internal/domain/account"
)

// CreateAccountRequest represents the JSON body for creating an account.
// ID is optional; when empty the service assigns one.
type CreateAccountRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Validate checks that required fields are present and well formed.
// Returns a *domain.ValidationError if any checks fail.
func (r *CreateAccountRequest) Validate() error {
	fields := make(map[string]string)

	if r.ID != "" {
		if _, err := uuid.Parse(r.ID); err != nil {
			fields["id"] = "must be a valid UUID"
		}
	}
	if msg := account.ValidateName(r.Name); msg != "" {
		fields["name"] = msg
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Identity returns the requested identity, or uuid.Nil when none was given.
// Call only after Validate succeeds.
func (r *CreateAccountRequest) Identity() uuid.UUID {
	if r.ID == "" {
		return uuid.Nil
	}
	return uuid.MustParse(r.ID)
}

// RenameAccountRequest represents the JSON body for renaming an account.
type RenameAccountRequest struct {
	Name string `json:"name"`
}

// Validate checks the new name.
func (r *RenameAccountRequest) Validate() error {
	if msg := account.ValidateName(r.Name); msg != "" {
		return domain.NewValidationError("name", msg)
	}
	return nil
}

// ParseBatchQuery reads the repeated "id" query parameter of a batch lookup.
// Size limits are enforced by the query itself.
func ParseBatchQuery(values url.Values) ([]uuid.UUID, error) {
	raw := values["id"]
	if len(raw) == 0 {
		return nil, domain.NewValidationError("id", domain.MsgRequired)
	}

	ids := make([]uuid.UUID, 0, len(raw))
	var bad []string
	for i, v := range raw {
		id, err := uuid.Parse(strings.TrimSpace(v))
		if err != nil {
			bad = append(bad, strconv.Itoa(i))
			continue
		}
		ids = append(ids, id)
	}
	if len(bad) > 0 {
		return nil, domain.NewValidationError("id",
			"entries must be valid UUIDs, invalid at index "+strings.Join(bad, ", "))
	}
	return ids, nil
}
