package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"rentzy/internal/app/handlers/support"
	"rentzy/internal/app/uow"
	domainuser "rentzy/internal/domain/user"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid email/phone or password")
	ErrPasswordTooShort   = errors.New("auth: password must be at least 8 characters")
	ErrSessionNotFound    = errors.New("auth: session not found")
)

type Session struct {
	Token     string
	UserID    domainuser.ID
	ExpiresAt time.Time
}

type SessionStore interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenGenerator interface {
	NewToken() (string, error)
}

type Service struct {
	UoWFactory uow.Factory
	Sessions   SessionStore
	Passwords  PasswordHasher
	Tokens     TokenGenerator
	SessionTTL time.Duration
	Logger     *slog.Logger
}

type RegisterParams struct {
	Name       string
	Email      string
	Phone      string
	NationalID string
	TaxID      string
	Password   string
	Role       string
}

type LoginParams struct {
	Login    string
	Password string
}

type AuthResult struct {
	User  *domainuser.User
	Token string
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	role, err := domainuser.ParseRole(params.Role)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(params.Password) < 8 {
		return nil, ErrPasswordTooShort
	}
	hash, err := s.Passwords.Hash(params.Password)
	if err != nil {
		return nil, err
	}
	u, err := domainuser.NewUser(domainuser.CreateParams{
		Name:         params.Name,
		Email:        params.Email,
		Phone:        params.Phone,
		NationalID:   params.NationalID,
		TaxID:        params.TaxID,
		PasswordHash: hash,
		Role:         role,
		Now:          time.Now(),
	})
	if err != nil {
		return nil, err
	}

	unit, execCtx, managed, err := support.BeginUnit(ctx, s.UoWFactory)
	if err != nil {
		return nil, err
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(execCtx)
			}
		}()
	}
	if err := unit.Users().Save(execCtx, u); err != nil {
		return nil, err
	}
	if managed {
		if err := unit.Commit(execCtx); err != nil {
			return nil, err
		}
		committed = true
	}

	token, err := s.issueSession(ctx, u)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("user registered", "user_id", u.ID, "role", u.Role)
	}
	return &AuthResult{User: u, Token: token}, nil
}

// Login accepts either the email or the phone number as the login.
func (s *Service) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	login := strings.TrimSpace(params.Login)
	if login == "" || params.Password == "" {
		return nil, ErrInvalidCredentials
	}

	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, s.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	u, err := unit.Users().ByLogin(execCtx, login)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.Passwords.Compare(u.PasswordHash, params.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueSession(ctx, u)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("user authenticated", "user_id", u.ID)
	}
	return &AuthResult{User: u, Token: token}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.ensureDependencies(); err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return s.Sessions.Delete(ctx, token)
}

// Resolve maps a bearer token to its user, dropping expired sessions.
func (s *Service) Resolve(ctx context.Context, token string) (*domainuser.User, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrSessionNotFound
	}
	session, err := s.Sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if !session.ExpiresAt.IsZero() && session.ExpiresAt.Before(time.Now()) {
		_ = s.Sessions.Delete(ctx, token)
		return nil, ErrSessionNotFound
	}

	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, s.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	u, err := unit.Users().ByID(execCtx, session.UserID)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			_ = s.Sessions.Delete(ctx, token)
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) issueSession(ctx context.Context, u *domainuser.User) (string, error) {
	token, err := s.Tokens.NewToken()
	if err != nil {
		return "", err
	}
	session := Session{
		Token:     token,
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(s.sessionTTL()),
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		return "", err
	}
	return token, nil
}

func (s *Service) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return 24 * time.Hour
}

func (s *Service) ensureDependencies() error {
	switch {
	case s.UoWFactory == nil:
		return errors.New("auth: unit of work factory required")
	case s.Sessions == nil:
		return errors.New("auth: session store required")
	case s.Passwords == nil:
		return errors.New("auth: password hasher required")
	case s.Tokens == nil:
		return errors.New("auth: token generator required")
	default:
		return nil
	}
}
