package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"studyhub_backend/internal/auth/repository"
	"studyhub_backend/internal/events"
	"studyhub_backend/platform/apperr"
	"studyhub_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string        { return "test-secret" }
func (testConfig) GetAccessTokenTTL() time.Duration  { return time.Hour }
func (testConfig) GetRefreshTokenTTL() time.Duration { return 24 * time.Hour }

type storedToken struct {
	userID    uuid.UUID
	expiresAt time.Time
	revoked   bool
}

type fakeRepo struct {
	mu     sync.Mutex
	users  map[string]repository.User
	tokens map[string]*storedToken
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]repository.User{}, tokens: map[string]*storedToken{}}
}

func (r *fakeRepo) CreateUser(_ context.Context, name, email, hash string) (repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[email]; ok {
		return repository.User{}, repository.ErrEmailTaken
	}
	u := repository.User{ID: uuid.New(), Name: name, Email: email, PasswordHash: hash, CreatedAt: time.Now()}
	r.users[email] = u
	return u, nil
}

func (r *fakeRepo) GetUserByEmail(_ context.Context, email string) (repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeRepo) GetUserByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}

func (r *fakeRepo) CreateRefreshToken(_ context.Context, userID uuid.UUID, hash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[hash] = &storedToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (r *fakeRepo) GetRefreshToken(_ context.Context, hash string) (uuid.UUID, time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[hash]
	if !ok || t.revoked {
		return uuid.UUID{}, time.Time{}, repository.ErrNotFound
	}
	return t.userID, t.expiresAt, nil
}

func (r *fakeRepo) RevokeRefreshToken(_ context.Context, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[hash]; ok {
		t.revoked = true
	}
	return nil
}

type captureBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *captureBus) Publish(_ context.Context, e events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *captureBus) PublishSync(ctx context.Context, e events.Event) error {
	b.Publish(ctx, e)
	return nil
}

func (b *captureBus) Subscribe(string, events.Handler) {}

func newTestService() (*Service, *fakeRepo, *captureBus) {
	repo := newFakeRepo()
	bus := &captureBus{}
	return New(repo, testConfig{}, bus, logger.NewWithWriter("test", io.Discard)), repo, bus
}

func TestRegister_CreatesUserAndToken(t *testing.T) {
	svc, _, bus := newTestService()

	session, err := svc.Register(context.Background(), " Ada ", "Ada@Example.com ", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.User.Email != "ada@example.com" || session.User.Name != "Ada" {
		t.Fatalf("expected normalized user, got %+v", session.User)
	}

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(session.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("expected valid access token, got %v", err)
	}
	if claims["sub"] != session.User.ID.String() || claims["type"] != "access" {
		t.Fatalf("unexpected claims %v", claims)
	}

	if len(bus.events) != 1 || bus.events[0].EventName() != "auth.user.registered" {
		t.Fatalf("expected UserRegistered event, got %v", bus.events)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "secret1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.Register(context.Background(), "Ada 2", "ADA@example.com", "secret2")
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindBadRequest || appErr.Message != msgEmailTaken {
		t.Fatalf("expected %q bad request, got %v", msgEmailTaken, err)
	}
}

func TestLogin_InvalidCredentialsLookTheSame(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "secret1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, tc := range []struct{ email, password string }{
		{"ada@example.com", "wrong"},
		{"nobody@example.com", "secret1"},
	} {
		_, err := svc.Login(context.Background(), tc.email, tc.password)
		var appErr *apperr.Error
		if !errors.As(err, &appErr) || appErr.Kind != apperr.KindUnauthorized || appErr.Message != msgInvalidCredentials {
			t.Fatalf("%s: expected invalid credentials, got %v", tc.email, err)
		}
	}

	if _, err := svc.Login(context.Background(), " ADA@example.com", "secret1"); err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc, _, _ := newTestService()
	first, err := svc.Register(context.Background(), "Ada", "ada@example.com", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatal("expected a new refresh token")
	}

	if _, err := svc.Refresh(context.Background(), first.RefreshToken); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected reused token to be rejected, got %v", err)
	}
}

func TestRefresh_Expired(t *testing.T) {
	svc, _, _ := newTestService()
	session, err := svc.Register(context.Background(), "Ada", "ada@example.com", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	if _, err := svc.Refresh(context.Background(), session.RefreshToken); !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, _, _ := newTestService()
	session, _ := svc.Register(context.Background(), "Ada", "ada@example.com", "secret1")

	if err := svc.Logout(context.Background(), session.RefreshToken); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), session.RefreshToken); err == nil {
		t.Fatal("expected revoked token to fail")
	}
	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("expected logout without token to be a no-op, got %v", err)
	}
}

func TestProfile_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.Profile(context.Background(), uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
