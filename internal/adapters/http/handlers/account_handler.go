// Package handlers turns HTTP requests into dispatcher requests and their
// results back into JSON or problem responses.
package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/go-accounts-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-accounts-service/internal/app/accounts"
	"github.com/jsamuelsen11/go-accounts-service/internal/app/runtime"
	"github.com/jsamuelsen11/go-accounts-service/internal/domain/account"
	"github.com/jsamuelsen11/go-accounts-service/internal/domain/result"
	"github.com/jsamuelsen11/go-accounts-service/internal/ports"
)

// AccountHandler serves /api/v1/accounts. Each operation is one dispatcher
// call, except create which reads the new account back.
type AccountHandler struct {
	dispatcher ports.Dispatcher
}

func NewAccountHandler(dispatcher ports.Dispatcher) *AccountHandler {
	return &AccountHandler{dispatcher: dispatcher}
}

func accountBody(a account.Account) any { return dto.ToAccountResponse(&a) }

// CreateAccount handles POST /api/v1/accounts. The response carries a
// Location header and the stored account; if the read-back fails the body
// falls back to the bare identity.
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if !bind(w, r, &req) {
		return
	}

	cmd, err := accounts.NewCreateAccount(req.Identity(), req.Name)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	id, err := runtime.Execute[uuid.UUID](r.Context(), h.dispatcher, cmd).Get()
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/accounts/"+id.String())

	if created, err := h.get(r, id).Get(); err == nil {
		respond(w, r, http.StatusCreated, accountBody(created))
		return
	}
	respond(w, r, http.StatusCreated, dto.CreatedResponse{ID: id.String()})
}

// GetAccount handles GET /api/v1/accounts/{id}.
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	reply(w, r, http.StatusOK, h.get(r, id), accountBody)
}

// RenameAccount handles PATCH /api/v1/accounts/{id}.
func (h *AccountHandler) RenameAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.RenameAccountRequest
	if !bind(w, r, &req) {
		return
	}

	cmd, err := accounts.NewRenameAccount(id, req.Name)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	reply(w, r, http.StatusOK, runtime.Execute[account.Account](r.Context(), h.dispatcher, cmd), accountBody)
}

// DeleteAccount handles DELETE /api/v1/accounts/{id} and answers 204.
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	cmd, err := accounts.NewDeleteAccount(id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	if _, err := runtime.Execute[result.Empty](r.Context(), h.dispatcher, cmd).Get(); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetAccounts handles GET /api/v1/accounts?id=...&id=... Identities that
// do not resolve are listed under "missing" rather than failing the batch.
func (h *AccountHandler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	ids, err := dto.ParseBatchQuery(r.URL.Query())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	q, err := accounts.NewGetAccounts(ids)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	reply(w, r, http.StatusOK, runtime.Execute[accounts.Batch](r.Context(), h.dispatcher, q),
		func(b accounts.Batch) any { return dto.ToAccountBatchResponse(b.Accounts, b.Missing) })
}

func (h *AccountHandler) get(r *http.Request, id uuid.UUID) result.Result[account.Account] {
	q, err := accounts.NewGetAccount(id)
	if err != nil {
		return result.Failure[account.Account](err)
	}
	return runtime.Execute[account.Account](r.Context(), h.dispatcher, q)
}
