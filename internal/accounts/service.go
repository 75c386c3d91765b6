package accounts

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/storefront/platform/internal/domain/user"
	"github.com/storefront/platform/internal/notifications"
)

type TokenIssuer interface {
	Issue(userID int64, email string) (string, error)
}

// Session is the result of a successful register or login.
type Session struct {
	User  user.User
	Token string
}

// Service is the user service's use-case layer.
type Service struct {
	creds    *CredentialStore
	tokens   TokenIssuer
	profiles *ProfileReader
	notifier notifications.Notifier
	log      *slog.Logger
}

// NewService wires the use cases. notifier may be nil.
func NewService(creds *CredentialStore, tokens TokenIssuer, profiles *ProfileReader, notifier notifications.Notifier, log *slog.Logger) *Service {
	return &Service{
		creds:    creds,
		tokens:   tokens,
		profiles: profiles,
		notifier: notifier,
		log:      log,
	}
}

func (s *Service) Register(ctx context.Context, email, password, name string) (Session, error) {
	u, err := s.creds.Register(ctx, email, password, name)
	if err != nil {
		return Session{}, err
	}

	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return Session{}, fmt.Errorf("register: %w", err)
	}

	s.profiles.Prime(ctx, u)
	s.welcome(ctx, u)

	s.log.InfoContext(ctx, "user registered", "user_id", u.ID)
	return Session{User: u, Token: token}, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.creds.Verify(ctx, email, password)
	if err != nil {
		return Session{}, err
	}

	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return Session{}, fmt.Errorf("login: %w", err)
	}

	s.profiles.Prime(ctx, u)

	s.log.InfoContext(ctx, "user logged in", "user_id", u.ID)
	return Session{User: u, Token: token}, nil
}

func (s *Service) Profile(ctx context.Context, userID int64) (user.Public, error) {
	return s.profiles.GetByID(ctx, userID)
}

// welcome runs detached from the request; a failed notice is only logged.
func (s *Service) welcome(ctx context.Context, u user.User) {
	if s.notifier == nil {
		return
	}

	in := notifications.WelcomeInput{UserID: u.ID, Email: u.Email, Name: u.Name}
	bg := context.WithoutCancel(ctx)

	go func() {
		if err := s.notifier.SendWelcome(bg, in); err != nil {
			s.log.WarnContext(bg, "welcome notification failed", "user_id", in.UserID, "err", err)
		}
	}()
}
