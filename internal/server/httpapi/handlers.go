package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/messagely/messagely/internal/common"
	"github.com/messagely/messagely/internal/server/models"
	"github.com/messagely/messagely/internal/server/services"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type sendMessageRequest struct {
	ToUsername string `json:"to_username"`
	Body       string `json:"body"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type usersResponse struct {
	Users []models.UserSummary `json:"users"`
}

type userResponse struct {
	User models.UserDetail `json:"user"`
}

type inboxResponse struct {
	Messages []models.InboxMessage `json:"messages"`
}

type outboxResponse struct {
	Messages []models.OutboxMessage `json:"messages"`
}

type messageDetailResponse struct {
	Message models.MessageDetail `json:"message"`
}

type sentMessageResponse struct {
	Message models.Message `json:"message"`
}

type readReceiptResponse struct {
	Message models.ReadReceipt `json:"message"`
}

// POST /auth/login — {username, password} => {token}
func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(r.Context(), w, fmt.Errorf("%w: invalid request body", common.ErrorValidation))
		return
	}
	if req.Username == "" || req.Password == "" {
		s.writeError(r.Context(), w, fmt.Errorf("%w: username and password required", common.ErrorValidation))
		return
	}

	token, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(r.Context(), w, http.StatusOK, tokenResponse{Token: token})
}

// POST /auth/register — registers, logs in, and returns a token.
func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(r.Context(), w, fmt.Errorf("%w: invalid request body", common.ErrorValidation))
		return
	}
	if req.Username == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" || req.Phone == "" {
		s.writeError(r.Context(), w,
			fmt.Errorf("%w: username, password, first & last name and phone required", common.ErrorValidation))
		return
	}

	if _, err := s.users.Register(r.Context(), services.RegisterParams{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	// logging in right away also stamps last_login_at for the new account
	token, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.logger.Info(r.Context(), "registered", "username", req.Username)
	s.writeJSON(r.Context(), w, http.StatusOK, tokenResponse{Token: token})
}

// GET /users — {users: [{username, first_name, last_name, phone}, ...]}
func (s *HTTPServer) listUsers(w http.ResponseWriter, r *http.Request) {

	users, err := s.users.All(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if users == nil {
		users = []models.UserSummary{}
	}

	s.writeJSON(r.Context(), w, http.StatusOK, usersResponse{Users: users})
}

// GET /users/{username} — full public profile, caller only.
func (s *HTTPServer) getUser(w http.ResponseWriter, r *http.Request) {

	user, err := s.users.Get(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(r.Context(), w, http.StatusOK, userResponse{User: user.Detail()})
}

// GET /users/{username}/messages/to — inbox, caller only.
func (s *HTTPServer) messagesTo(w http.ResponseWriter, r *http.Request) {

	msgs, err := s.messages.Inbox(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if msgs == nil {
		msgs = []models.InboxMessage{}
	}

	s.writeJSON(r.Context(), w, http.StatusOK, inboxResponse{Messages: msgs})
}

// GET /users/{username}/messages/from — outbox, caller only.
func (s *HTTPServer) messagesFrom(w http.ResponseWriter, r *http.Request) {

	msgs, err := s.messages.Outbox(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	if msgs == nil {
		msgs = []models.OutboxMessage{}
	}

	s.writeJSON(r.Context(), w, http.StatusOK, outboxResponse{Messages: msgs})
}

// POST /messages — {to_username, body}; the sender is always the caller.
func (s *HTTPServer) sendMessage(w http.ResponseWriter, r *http.Request) {

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(r.Context(), w, fmt.Errorf("%w: invalid request body", common.ErrorValidation))
		return
	}
	if req.ToUsername == "" || req.Body == "" {
		s.writeError(r.Context(), w, fmt.Errorf("%w: to_username and body required", common.ErrorValidation))
		return
	}

	msg, err := s.messages.Send(r.Context(), callerUsername(r), req.ToUsername, req.Body)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(r.Context(), w, http.StatusOK, sentMessageResponse{Message: *msg})
}

// GET /messages/{id} — detail, sender or recipient only.
func (s *HTTPServer) getMessage(w http.ResponseWriter, r *http.Request) {

	id, err := messageID(r)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	msg, err := s.messages.Get(r.Context(), id)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	caller := callerUsername(r)
	if msg.FromUser.Username != caller && msg.ToUser.Username != caller {
		s.writeError(r.Context(), w, fmt.Errorf("%w: must be sender or recipient to view", common.ErrorForbidden))
		return
	}

	s.writeJSON(r.Context(), w, http.StatusOK, messageDetailResponse{Message: *msg})
}

// POST /messages/{id}/read — read receipt, intended recipient only.
func (s *HTTPServer) markMessageRead(w http.ResponseWriter, r *http.Request) {

	id, err := messageID(r)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	msg, err := s.messages.Get(r.Context(), id)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	if msg.ToUser.Username != callerUsername(r) {
		s.writeError(r.Context(), w,
			fmt.Errorf("%w: only the intended recipient can mark a message read", common.ErrorForbidden))
		return
	}

	receipt, err := s.messages.MarkRead(r.Context(), id)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(r.Context(), w, http.StatusOK, readReceiptResponse{Message: *receipt})
}

func messageID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid message id", common.ErrorValidation)
	}
	return id, nil
}
