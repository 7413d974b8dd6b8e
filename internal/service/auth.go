package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fittrack/internal/logger"
	"github.com/fittrack/internal/model"
	"github.com/fittrack/internal/repository"
	"github.com/fittrack/internal/storage"
	"github.com/fittrack/internal/token"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateUser      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionConflict    = errors.New("user already logged in")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSessionExpired     = errors.New("session expired")
)

// UserRepository is the credential-store contract the service needs.
// Satisfied by repository.UserRepository.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type AuthService struct {
	users    UserRepository
	sessions storage.SessionStore
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(users UserRepository, sessions storage.SessionStore, secret []byte, tokenTTL time.Duration) *AuthService {
	return &AuthService{users: users, sessions: sessions, secret: secret, tokenTTL: tokenTTL}
}

// SignUp registers a new user. The password is stored as a bcrypt hash
// (cost 10). No token is issued; the caller logs in separately.
func (s *AuthService) SignUp(ctx context.Context, name, email, password string) error {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return ErrDuplicateUser
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("signup lookup: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Login verifies credentials and mints a session token. An unknown email and
// a wrong password both return ErrInvalidCredentials so the two cases are
// indistinguishable to the caller. If the user already holds a live session
// the login is rejected with ErrSessionConflict and the existing session is
// left untouched.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.UserPublic, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login lookup: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}
	tok, err := token.Generate(user.ID, s.secret, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}
	ok, err := s.sessions.PutIfAbsent(ctx, user.ID, tok, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("register session: %w", err)
	}
	if !ok {
		return "", nil, ErrSessionConflict
	}
	// The echoed user comes from the looked-up record, never from request
	// fields.
	pub := user.ToPublic()
	return tok, &pub, nil
}

// Logout verifies the token and removes the user's registry entry. Removing
// an absent entry is still success, so a repeated logout stays a no-op.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	userID, err := token.Parse(raw, s.secret)
	if err != nil {
		return ErrInvalidToken
	}
	if err := s.sessions.Delete(ctx, userID); err != nil {
		logger.Errorf("logout: delete session user_id=%s: %v", userID, err)
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Authenticate validates a presented token against both its signature and the
// registry. A cryptographically valid token whose registry entry is gone
// (logout, restart) or superseded by a newer login yields ErrSessionExpired.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (string, error) {
	userID, err := token.Parse(raw, s.secret)
	if err != nil {
		return "", ErrInvalidToken
	}
	current, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("session lookup: %w", err)
	}
	if current == "" || current != raw {
		return "", ErrSessionExpired
	}
	return userID, nil
}

// GetUser loads the public projection for an authenticated user id.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*model.UserPublic, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	pub := user.ToPublic()
	return &pub, nil
}
