package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/messagely/messagely/internal/common"
	"github.com/messagely/messagely/internal/server/auth"
	"github.com/messagely/messagely/internal/server/config"
	"github.com/messagely/messagely/internal/server/models"
)

// --- fakes ---

type fakeUsersRepo struct {
	usersByName map[string]*models.User

	createErr error
	created   *models.User

	updateErr   error
	updateCalls []string

	allOut []models.UserSummary
	allErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.JoinAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f.created = u
	return u, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if u, ok := f.usersByName[username]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) UpdateLoginTimestamp(ctx context.Context, username string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updateCalls = append(f.updateCalls, username)
	return nil
}

func (f *fakeUsersRepo) All(ctx context.Context) ([]models.UserSummary, error) {
	if f.allErr != nil {
		return nil, f.allErr
	}
	return f.allOut, nil
}

// fakeHasher makes digests deterministic: Hash("pw") == "#pw".
type fakeHasher struct {
	hashErr error
}

func (f *fakeHasher) Hash(password string) (string, error) {
	if f.hashErr != nil {
		return "", f.hashErr
	}
	return "#" + password, nil
}

func (f *fakeHasher) Verify(password, digest string) bool {
	return digest == "#"+password
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:             "test-secret",
		TokenValidityDuration: 2 * time.Hour,
	}
}

func newUserService(repo *fakeUsersRepo) *UserService {
	return NewUserService(repo, &fakeHasher{}, testConfig())
}

// --- tests ---

func TestRegister_HashesPasswordBeforeStorage(t *testing.T) {
	repo := &fakeUsersRepo{}
	svc := newUserService(repo)

	u, err := svc.Register(context.Background(), RegisterParams{
		Username: "alice", Password: "pw", FirstName: "Alice", LastName: "Liddell", Phone: "555-0101",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if repo.created == nil {
		t.Fatalf("repository Create was not called")
	}
	if repo.created.Password != "#pw" {
		t.Fatalf("stored password is not the digest: %q", repo.created.Password)
	}
	if u.JoinAt.IsZero() {
		t.Fatalf("join timestamp not set")
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := &fakeUsersRepo{createErr: common.ErrorAlreadyExists}
	svc := newUserService(repo)

	_, err := svc.Register(context.Background(), RegisterParams{Username: "alice", Password: "pw"})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

func TestAuthenticate_UnknownUserFailsClosed(t *testing.T) {
	repo := &fakeUsersRepo{usersByName: map[string]*models.User{}}
	svc := newUserService(repo)

	ok, err := svc.Authenticate(context.Background(), "ghost", "pw")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if ok {
		t.Fatalf("unknown username must not authenticate")
	}
	if len(repo.updateCalls) != 0 {
		t.Fatalf("login timestamp must not be touched on failure")
	}
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	repo := &fakeUsersRepo{usersByName: map[string]*models.User{
		"alice": {Username: "alice", Password: "#pw"},
	}}
	svc := newUserService(repo)

	ok, err := svc.Authenticate(context.Background(), "alice", "not-pw")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if ok {
		t.Fatalf("wrong password must not authenticate")
	}
	if len(repo.updateCalls) != 0 {
		t.Fatalf("login timestamp must not be touched on failure")
	}
}

func TestAuthenticate_SuccessUpdatesLoginTimestamp(t *testing.T) {
	repo := &fakeUsersRepo{usersByName: map[string]*models.User{
		"alice": {Username: "alice", Password: "#pw"},
	}}
	svc := newUserService(repo)

	ok, err := svc.Authenticate(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("Authenticate error: %v", err)
	}
	if !ok {
		t.Fatalf("valid credentials rejected")
	}
	if len(repo.updateCalls) != 1 || repo.updateCalls[0] != "alice" {
		t.Fatalf("login timestamp update not triggered: %v", repo.updateCalls)
	}
}

func TestAuthenticate_TimestampUpdateFailureSurfaces(t *testing.T) {
	repo := &fakeUsersRepo{
		usersByName: map[string]*models.User{
			"alice": {Username: "alice", Password: "#pw"},
		},
		updateErr: errors.New("db down"),
	}
	svc := newUserService(repo)

	ok, err := svc.Authenticate(context.Background(), "alice", "pw")
	if err == nil {
		t.Fatalf("expected error when the timestamp update fails")
	}
	if ok {
		t.Fatalf("login must not report success when the timestamp update fails")
	}
}

func TestLogin_ReturnsVerifiableToken(t *testing.T) {
	repo := &fakeUsersRepo{usersByName: map[string]*models.User{
		"alice": {Username: "alice", Password: "#pw"},
	}}
	svc := newUserService(repo)

	tok, err := svc.Login(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	username, err := auth.GetUsernameFromToken(tok, []byte("test-secret"))
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if username != "alice" {
		t.Fatalf("token carries %q, want alice", username)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	repo := &fakeUsersRepo{usersByName: map[string]*models.User{}}
	svc := newUserService(repo)

	_, err := svc.Login(context.Background(), "ghost", "pw")
	if !errors.Is(err, common.ErrorInvalidCredentials) {
		t.Fatalf("want common.ErrorInvalidCredentials, got %v", err)
	}
}

func TestAll_PassesThrough(t *testing.T) {
	repo := &fakeUsersRepo{allOut: []models.UserSummary{
		{Username: "alice"}, {Username: "bob"},
	}}
	svc := newUserService(repo)

	got, err := svc.All(context.Background())
	if err != nil {
		t.Fatalf("All error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 users, got %d", len(got))
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := &fakeUsersRepo{usersByName: map[string]*models.User{}}
	svc := newUserService(repo)

	_, err := svc.Get(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
