// Package accounts holds the credential lifecycle: registration, password
// verification, session issuance and the cached profile read path.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/storefront/platform/internal/domain/user"
)

var (
	ErrValidation         = errors.New("email, password, and name are required")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type UserRepository interface {
	Create(ctx context.Context, email, passwordHash, name string) (user.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Check(hash, plain string) bool
}

// CredentialStore owns durable user records. It never logs or returns a
// password or its hash.
type CredentialStore struct {
	users  UserRepository
	hasher PasswordHasher
	log    *slog.Logger

	// compared against when the email is unknown, so both failure paths
	// pay for one bcrypt comparison
	dummyHash string
}

func NewCredentialStore(users UserRepository, hasher PasswordHasher, log *slog.Logger) *CredentialStore {
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		log.Warn("could not prepare dummy hash", "err", err)
	}

	return &CredentialStore{
		users:     users,
		hasher:    hasher,
		log:       log,
		dummyHash: dummy,
	}
}

// Register creates a user. The email pre-check only saves a bcrypt round for
// the common duplicate case; the store's unique constraint decides races and
// both paths surface user.ErrDuplicateEmail.
func (s *CredentialStore) Register(ctx context.Context, email, password, name string) (user.User, error) {
	if email == "" || password == "" || name == "" {
		return user.User{}, ErrValidation
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return user.User{}, fmt.Errorf("register: %w", err)
	}
	if exists {
		return user.User{}, user.ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return user.User{}, fmt.Errorf("register: hash password: %w", err)
	}

	u, err := s.users.Create(ctx, email, hash, name)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			s.log.InfoContext(ctx, "registration lost unique race")
			return user.User{}, user.ErrDuplicateEmail
		}
		return user.User{}, fmt.Errorf("register: %w", err)
	}

	u.PasswordHash = ""
	return u, nil
}

// Verify returns ErrInvalidCredentials for an unknown email and for a wrong
// password alike.
func (s *CredentialStore) Verify(ctx context.Context, email, password string) (user.User, error) {
	if email == "" || password == "" {
		return user.User{}, ErrValidation
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			s.hasher.Check(s.dummyHash, password)
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, fmt.Errorf("verify: %w", err)
	}

	if !s.hasher.Check(u.PasswordHash, password) {
		return user.User{}, ErrInvalidCredentials
	}

	u.PasswordHash = ""
	return u, nil
}
