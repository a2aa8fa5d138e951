package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jsamuelsen11/go-accounts-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-accounts-service/internal/domain"
	"github.com/jsamuelsen11/go-accounts-service/internal/domain/result"
	"github.com/jsamuelsen11/go-accounts-service/internal/platform/logging"
)

// maxBodyBytes caps JSON request bodies at 1 MiB.
const maxBodyBytes = 1 << 20

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, domain.NewValidationError("id", "must be a valid UUID")
	}
	return id, nil
}

// respond writes v as a JSON body with status.
func respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "encoding response",
			slog.Int("status", status),
			slog.Any("error", err),
		)
	}
}

// reply writes the payload of a successful res through render, or the
// failure as a problem response.
func reply[T any](w http.ResponseWriter, r *http.Request, status int, res result.Result[T], render func(T) any) {
	payload, err := res.Get()
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	respond(w, r, status, render(payload))
}

// bind decodes the JSON body into dst and runs its Validate. On failure the
// problem response is already written and bind reports false.
func bind[T interface{ Validate() error }](w http.ResponseWriter, r *http.Request, dst T) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil {
		err = dst.Validate()
	} else {
		err = bodyError(err)
	}
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return false
	}
	return true
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return domain.NewValidationError("body", fmt.Sprintf("must not exceed %d bytes", tooLarge.Limit))
	}
	return domain.NewValidationError("body", "invalid JSON")
}
