package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/messagely/messagely/internal/common"
	"github.com/messagely/messagely/internal/server/auth"
)

type ctxKey string

const usernameKey ctxKey = "username"

// requestLogMiddleware tags every request with a generated id and logs the
// method and path on the way in.
func (s *HTTPServer) requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := s.logger.With("request_id", uuid.NewString())
		log.Info(r.Context(), "request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// bearerAuthMiddleware verifies the Authorization header and stores the
// token's username claim in the request context.
func (s *HTTPServer) bearerAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		header := r.Header.Get(common.AuthorizationHeaderName)
		if header == "" {
			s.writeError(r.Context(), w, common.ErrorUnauthorized)
			return
		}

		if !strings.HasPrefix(header, common.BearerPrefix) {
			s.writeError(r.Context(), w, common.ErrorInvalidAuthHeaderFormat)
			return
		}

		username, err := auth.GetUsernameFromToken(strings.TrimPrefix(header, common.BearerPrefix), s.jwtSecret)
		if err != nil {
			s.writeError(r.Context(), w, err)
			return
		}

		ctx := context.WithValue(r.Context(), usernameKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireSameUser admits the request only when the {username} path variable
// matches the authenticated caller.
func (s *HTTPServer) requireSameUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if mux.Vars(r)["username"] != callerUsername(r) {
			s.writeError(r.Context(), w, common.ErrorForbidden)
			return
		}
		next(w, r)
	}
}

// callerUsername returns the authenticated identity placed in the context by
// bearerAuthMiddleware. Empty outside authenticated routes.
func callerUsername(r *http.Request) string {
	username, _ := r.Context().Value(usernameKey).(string)
	return username
}
