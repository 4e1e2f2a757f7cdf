package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"studyhub_backend/internal/auth/password"
	"studyhub_backend/internal/auth/repository"
	"studyhub_backend/internal/auth/token"
	"studyhub_backend/internal/events"
	"studyhub_backend/platform/apperr"
	"studyhub_backend/platform/config"
	"studyhub_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenType = "access"

	msgEmailTaken         = "Email is already registered"
	msgInvalidCredentials = "Invalid email or password"
	msgInvalidRefresh     = "Invalid or expired session"
	msgUserNotFound       = "User not found"
)

// Session is the result of a successful sign-in.
type Session struct {
	User         repository.User
	AccessToken  string
	RefreshToken string
}

type Service struct {
	repo     repository.AuthRepository
	cfg      config.AuthServiceConfig
	eventBus events.Bus
	log      *logger.Logger
	now      func() time.Time
}

func New(repo repository.AuthRepository, cfg config.AuthServiceConfig, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, eventBus: eventBus, log: log, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and signs it in.
func (s *Service) Register(ctx context.Context, name, email, plainPassword string) (Session, error) {
	email = normalizeEmail(email)

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return Session{}, apperr.Internal("Failed to register user").WithErr(err)
	}

	user, err := s.repo.CreateUser(ctx, strings.TrimSpace(name), email, hash)
	if errors.Is(err, repository.ErrEmailTaken) {
		s.log.AuthEvent("register", email, false, "email taken")
		return Session{}, apperr.BadRequest(msgEmailTaken)
	}
	if err != nil {
		return Session{}, apperr.Internal("Failed to register user").WithErr(err)
	}

	session, err := s.issueSession(ctx, user)
	if err != nil {
		return Session{}, err
	}

	s.log.AuthEvent("register", email, true, "")
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.UserRegistered{
			BaseEvent: events.NewBaseEvent(),
			UserID:    user.ID,
			Email:     user.Email,
		})
	}
	return session, nil
}

// Login verifies credentials. Unknown email and wrong password fail the same way.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (Session, error) {
	email = normalizeEmail(email)

	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.AuthEvent("login", email, false, "unknown email")
		return Session{}, apperr.Unauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return Session{}, apperr.Internal("Failed to log in").WithErr(err)
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("login", email, false, "wrong password")
		return Session{}, apperr.Unauthorized(msgInvalidCredentials)
	}

	s.log.AuthEvent("login", email, true, "")
	return s.issueSession(ctx, user)
}

// Refresh rotates a refresh token: the presented one is revoked whether or
// not it is still valid.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	if refreshToken == "" {
		return Session{}, apperr.Unauthorized(msgInvalidRefresh)
	}
	hash := token.Digest(refreshToken)

	userID, expiresAt, err := s.repo.GetRefreshToken(ctx, hash)
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, apperr.Unauthorized(msgInvalidRefresh)
	}
	if err != nil {
		return Session{}, apperr.Internal("Failed to refresh session").WithErr(err)
	}

	if err := s.repo.RevokeRefreshToken(ctx, hash); err != nil {
		return Session{}, apperr.Internal("Failed to refresh session").WithErr(err)
	}
	if s.now().After(expiresAt) {
		return Session{}, apperr.Unauthorized(msgInvalidRefresh)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return Session{}, apperr.Unauthorized(msgInvalidRefresh)
	}
	return s.issueSession(ctx, user)
}

// Logout revokes the refresh token if one is presented.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.repo.RevokeRefreshToken(ctx, token.Digest(refreshToken)); err != nil {
		return apperr.Internal("Failed to log out").WithErr(err)
	}
	return nil
}

func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (repository.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.User{}, apperr.NotFound(msgUserNotFound)
	}
	if err != nil {
		return repository.User{}, apperr.Internal("Failed to load profile").WithErr(err)
	}
	return user, nil
}

func (s *Service) issueSession(ctx context.Context, user repository.User) (Session, error) {
	accessToken, err := s.signAccessToken(user.ID)
	if err != nil {
		return Session{}, apperr.Internal("Failed to issue token").WithErr(err)
	}

	refreshToken, err := token.Random(token.RefreshTokenBytes)
	if err != nil {
		return Session{}, apperr.Internal("Failed to issue token").WithErr(err)
	}

	expiresAt := s.now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, user.ID, token.Digest(refreshToken), expiresAt); err != nil {
		return Session{}, apperr.Internal("Failed to issue token").WithErr(err)
	}

	return Session{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) signAccessToken(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"type": accessTokenType,
		"exp":  now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
		"iat":  now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}
