package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/messagely/messagely/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *HTTPServer) writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(ctx, "response encoding failed", "error", err.Error())
	}
}

// writeError maps error kinds to status codes. Anything unrecognized is a
// 500 with a generic body; the real error goes to the log only.
func (s *HTTPServer) writeError(ctx context.Context, w http.ResponseWriter, err error) {

	var status int

	switch {
	case errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrorInvalidCredentials),
		errors.Is(err, common.ErrorAlreadyExists):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrorInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrorInvalidAuthHeaderFormat):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		status = http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		status = http.StatusNotFound
	default:
		s.logger.Error(ctx, "request failed", "error", err.Error())
		s.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: common.ErrorInternal.Error()})
		return
	}

	s.writeJSON(ctx, w, status, errorResponse{Error: err.Error()})
}
