// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/go-accounts-service/internal/domain/account"
)

// AccountResponse represents a single account in HTTP responses.
type AccountResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ToAccountResponse converts a domain Account to an HTTP response DTO.
func ToAccountResponse(a *account.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID.String(),
		Name:      a.Name,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
	}
}

// CreatedResponse is returned by account creation: the assigned identity.
type CreatedResponse struct {
	ID string `json:"id"`
}

// AccountBatchResponse represents the result of a batch lookup. Missing
// lists requested identities that have no account.
type AccountBatchResponse struct {
	Accounts []AccountResponse `json:"accounts"`
	Missing  []string          `json:"missing"`
	Count    int               `json:"count"`
}

// ToAccountBatchResponse converts found accounts and missing identities to
// an HTTP response DTO.
func ToAccountBatchResponse(accounts []account.Account, missing []uuid.UUID) AccountBatchResponse {
	items := make([]AccountResponse, len(accounts))
	for i := range accounts {
		items[i] = ToAccountResponse(&accounts[i])
	}

	ids := make([]string, len(missing))
	for i, id := range missing {
		ids[i] = id.String()
	}

	return AccountBatchResponse{
		Accounts: items,
		Missing:  ids,
		Count:    len(items),
	}
}
