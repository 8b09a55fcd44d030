package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pulse-hr/pulse/internal/identity"
	"github.com/pulse-hr/pulse/internal/shared"
)

// ErrBackendUnavailable signals the authentication backend could not be
// reached at all, as opposed to rejecting the credentials.
var ErrBackendUnavailable = errors.New("auth: backend unavailable")

// Backend resolves credentials to a principal.
type Backend interface {
	Authenticate(ctx context.Context, email, password string) (identity.Principal, error)
}

// DirectoryBackend validates credentials against the local account directory.
type DirectoryBackend struct {
	repo Repository
}

// NewDirectoryBackend constructs the directory-backed Backend.
func NewDirectoryBackend(repo Repository) *DirectoryBackend {
	return &DirectoryBackend{repo: repo}
}

// Authenticate validates email/password credentials.
func (b *DirectoryBackend) Authenticate(ctx context.Context, email, password string) (identity.Principal, error) {
	account, err := b.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return identity.Principal{}, shared.ErrInvalidCredentials
		}
		return identity.Principal{}, ErrBackendUnavailable
	}
	if !account.IsActive {
		return identity.Principal{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return identity.Principal{}, shared.ErrInvalidCredentials
	}
	return identity.NewPrincipal(account.ID, account.Email, account.OrgID, account.Role, account.Kind), nil
}

// LoginResult carries the outcome of a login, making the development
// fallback explicit instead of burying it in a second code path.
type LoginResult struct {
	Principal    identity.Principal
	UsedFallback bool
}

// Service wraps authentication business rules and session establishment.
type Service struct {
	backend       Backend
	allowFallback bool
	fallbackOrg   string
	logger        *slog.Logger
}

// NewService constructs a Service. allowFallback should only be set outside
// production: with it enabled, an unreachable backend yields a synthesized
// local principal instead of a failed login.
func NewService(backend Backend, allowFallback bool, fallbackOrg string, logger *slog.Logger) *Service {
	return &Service{backend: backend, allowFallback: allowFallback, fallbackOrg: fallbackOrg, logger: logger}
}

// Login authenticates credentials. Invalid credentials always fail; an
// unavailable backend falls back to a locally synthesized hr principal when
// fallback mode is enabled.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	principal, err := s.backend.Authenticate(ctx, email, password)
	if err == nil {
		return LoginResult{Principal: principal}, nil
	}
	if errors.Is(err, ErrBackendUnavailable) && s.allowFallback {
		if s.logger != nil {
			s.logger.Warn("auth backend unavailable, using local fallback", slog.String("email", email))
		}
		return LoginResult{Principal: s.fallbackPrincipal(email), UsedFallback: true}, nil
	}
	return LoginResult{}, err
}

func (s *Service) fallbackPrincipal(email string) identity.Principal {
	return identity.NewPrincipal(uuid.NewString(), strings.TrimSpace(email), s.fallbackOrg, identity.RoleAdmin, identity.KindHR)
}

// EstablishSession stores the principal in the session.
func (s *Service) EstablishSession(sess *shared.Session, principal identity.Principal) error {
	data, err := json.Marshal(principal)
	if err != nil {
		return err
	}
	sess.SetPrincipal(data)
	return nil
}

// Logout removes the identity from the session.
func (s *Service) Logout(sess *shared.Session) {
	if sess == nil {
		return
	}
	sess.ClearPrincipal()
}

// CurrentPrincipal restores the principal from the session, re-deriving its
// permission set so a stale snapshot can never widen access. Returns nil for
// anonymous or unreadable sessions.
func CurrentPrincipal(sess *shared.Session) *identity.Principal {
	if sess == nil {
		return nil
	}
	raw := sess.Principal()
	if len(raw) == 0 {
		return nil
	}
	var principal identity.Principal
	if err := json.Unmarshal(raw, &principal); err != nil {
		return nil
	}
	principal.Refresh()
	return &principal
}
