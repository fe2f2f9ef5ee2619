// Package httpapi exposes the messagely operations over HTTP/JSON: token
// issuance, the user directory, and message access. It owns request
// decoding, the authorization rules tied to the caller identity, and the
// error-kind to status-code mapping.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/messagely/messagely/internal/logging"
	"github.com/messagely/messagely/internal/server/models"
	"github.com/messagely/messagely/internal/server/services"
)

// UserService is the user directory surface the handlers need.
type UserService interface {
	Register(ctx context.Context, p services.RegisterParams) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	All(ctx context.Context) ([]models.UserSummary, error)
	Get(ctx context.Context, username string) (*models.User, error)
}

// MessageService is the message access surface the handlers need.
type MessageService interface {
	Send(ctx context.Context, fromUsername, toUsername, body string) (*models.Message, error)
	Get(ctx context.Context, id int64) (*models.MessageDetail, error)
	MarkRead(ctx context.Context, id int64) (*models.ReadReceipt, error)
	Inbox(ctx context.Context, username string) ([]models.InboxMessage, error)
	Outbox(ctx context.Context, username string) ([]models.OutboxMessage, error)
}

type HTTPServer struct {
	address   string
	logger    logging.Logger
	users     UserService
	messages  MessageService
	jwtSecret []byte
}

func NewHTTPServer(a string, l logging.Logger, us UserService, ms MessageService, secretKey string) *HTTPServer {
	return &HTTPServer{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		messages:  ms,
		jwtSecret: []byte(secretKey),
	}
}

// Router builds the route table. Everything below the auth routes requires a
// bearer token; the same-user guard additionally ties the path username to
// the caller identity.
func (s *HTTPServer) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLogMiddleware)

	r.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/register", s.register).Methods(http.MethodPost)

	authed := r.NewRoute().Subrouter()
	authed.Use(s.bearerAuthMiddleware)
	authed.HandleFunc("/users", s.listUsers).Methods(http.MethodGet)
	authed.HandleFunc("/users/{username}", s.requireSameUser(s.getUser)).Methods(http.MethodGet)
	authed.HandleFunc("/users/{username}/messages/to", s.requireSameUser(s.messagesTo)).Methods(http.MethodGet)
	authed.HandleFunc("/users/{username}/messages/from", s.requireSameUser(s.messagesFrom)).Methods(http.MethodGet)
	authed.HandleFunc("/messages", s.sendMessage).Methods(http.MethodPost)
	authed.HandleFunc("/messages/{id:[0-9]+}", s.getMessage).Methods(http.MethodGet)
	authed.HandleFunc("/messages/{id:[0-9]+}/read", s.markMessageRead).Methods(http.MethodPost)

	return r
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
