// Package auth implements user registration, login and session issuance:
// register (unique email) + verify password + issue/revoke session (spec
// §4.7).
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/htfilia/tradingboard/internal/session"
)

// NewUserID generates a fresh opaque user identifier.
func NewUserID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "usr_" + hex.EncodeToString(b), nil
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Sentinel error kinds (spec §7).
var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User is a registered account holder.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NormalizeEmail trims and lowercases an email for lookup/storage, per
// spec §4.7.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the normalized email against the required shape.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// PasswordHasher is the opaque password-hashing verifier capability
// (argon2-class per spec §4.7). Neither Hash nor Verify expose the
// underlying algorithm to callers.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// UserRepository is the capability the auth service needs from user
// storage.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// AccountOpener opens a margin-enabled-or-not cash account for a newly
// registered user. Kept decoupled from the trading package's Account
// type so auth has no dependency on trading's domain model.
type AccountOpener interface {
	OpenAccount(ctx context.Context, userID string, startingBalance decimal.Decimal, baseCurrency string, marginAllowed bool) error
}

// Config holds the registration-time account defaults and session TTL.
type Config struct {
	StartingBalance decimal.Decimal
	BaseCurrency    string
	SessionTTL      time.Duration
}

// Service is the auth orchestrator: register, login, logout.
type Service struct {
	Users    UserRepository
	Accounts AccountOpener
	Sessions session.Store
	Hasher   PasswordHasher
	Config   Config
	NewUserID func() (string, error)
	Now      func() time.Time
}

// NewService constructs a Service with sensible defaults for NewUserID/Now.
func NewService(users UserRepository, accounts AccountOpener, sessions session.Store, hasher PasswordHasher, cfg Config) *Service {
	return &Service{
		Users:     users,
		Accounts:  accounts,
		Sessions:  sessions,
		Hasher:    hasher,
		Config:    cfg,
		NewUserID: NewUserID,
		Now:       time.Now,
	}
}

// Register creates a user with a margin-disabled cash account and issues
// a session. Fails with ErrUserAlreadyExists if the normalized email is
// already registered.
func (s *Service) Register(ctx context.Context, email, password string) (session.Session, error) {
	norm := NormalizeEmail(email)
	if err := ValidateEmail(norm); err != nil {
		return session.Session{}, err
	}

	existing, err := s.Users.GetByEmail(ctx, norm)
	if err != nil {
		return session.Session{}, err
	}
	if existing != nil {
		return session.Session{}, ErrUserAlreadyExists
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return session.Session{}, err
	}

	userID, err := s.NewUserID()
	if err != nil {
		return session.Session{}, err
	}

	user := &User{
		ID:           userID,
		Email:        norm,
		PasswordHash: hash,
		CreatedAt:    s.Now(),
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return session.Session{}, err
	}

	if err := s.Accounts.OpenAccount(ctx, user.ID, s.Config.StartingBalance, s.Config.BaseCurrency, false); err != nil {
		return session.Session{}, err
	}

	return s.Sessions.Issue(ctx, user.ID, s.Config.SessionTTL)
}

// Login verifies credentials and issues a session. User-not-found and a
// rejected password both surface the same ErrInvalidCredentials, so
// callers cannot distinguish a bad email from a bad password.
func (s *Service) Login(ctx context.Context, email, password string) (session.Session, error) {
	norm := NormalizeEmail(email)

	user, err := s.Users.GetByEmail(ctx, norm)
	if err != nil {
		return session.Session{}, err
	}
	if user == nil || !s.Hasher.Verify(password, user.PasswordHash) {
		return session.Session{}, ErrInvalidCredentials
	}

	return s.Sessions.Issue(ctx, user.ID, s.Config.SessionTTL)
}

// Logout revokes a session. Always succeeds (revoke is idempotent).
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.Sessions.Revoke(ctx, token)
}
