package dto

import (
	"encoding/json"
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"slices"

	"github.com/jsamuelsen11/go-accounts-service/internal/domain"
	"github.com/jsamuelsen11/go-accounts-service/internal/platform/logging"
)

// ProblemContentType is the media type of every error body.
const ProblemContentType = "application/problem+json"

// kindStatus is the HTTP status for each taxonomy kind. Anything else is 500.
var kindStatus = map[domain.Kind]int{
	domain.KindValidation:           http.StatusBadRequest,
	domain.KindNotFound:             http.StatusNotFound,
	domain.KindConflict:             http.StatusConflict,
	domain.KindUnsupportedOperation: http.StatusNotImplemented,
	domain.KindCanceled:             http.StatusGatewayTimeout,
	domain.KindUnavailable:          http.StatusServiceUnavailable,
}

// ErrorResponse is an RFC 9457 problem document. Kind and Errors are
// extension members: the taxonomy name and, for VALIDATION, one entry per
// rejected field.
type ErrorResponse struct {
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Status   int          `json:"status"`
	Kind     string       `json:"kind,omitempty"`
	Detail   string       `json:"detail,omitempty"`
	Instance string       `json:"instance,omitempty"`
	Errors   []FieldError `json:"errors,omitempty"`
}

// FieldError names one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// KindToStatus returns the HTTP status for kind.
func KindToStatus(kind domain.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NewErrorResponse describes err as a problem for the request r.
func NewErrorResponse(r *http.Request, err error) ErrorResponse {
	kind, _ := domain.KindOf(err)
	status := KindToStatus(kind)

	resp := ErrorResponse{
		Type:     "about:blank",
		Title:    http.StatusText(status),
		Status:   status,
		Kind:     kind.String(),
		Detail:   err.Error(),
		Instance: r.RequestURI,
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		for _, field := range slices.Sorted(maps.Keys(verr.Fields)) {
			resp.Errors = append(resp.Errors, FieldError{Field: field, Message: verr.Fields[field]})
		}
	}
	return resp
}

// WriteErrorResponse writes err as a problem+json response.
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	resp := NewErrorResponse(r, err)

	w.Header().Set("Content-Type", ProblemContentType)
	w.WriteHeader(resp.Status)

	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "encoding problem response",
			slog.Int("status", resp.Status),
			slog.Any("error", encErr),
		)
	}
}
