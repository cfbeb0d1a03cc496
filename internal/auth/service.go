package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/benwis/gatehouse/internal/logger"
	"github.com/benwis/gatehouse/internal/password"
	"github.com/benwis/gatehouse/internal/user"
)

// Config holds flow-level settings.
type Config struct {
	// HomeRedirect is where successful login, signup and logout send the
	// client.
	HomeRedirect string `env:"AUTH_HOME_REDIRECT" envDefault:"/"`
	// SignupRejectRedirect is where a gated-off signup attempt is sent.
	SignupRejectRedirect string `env:"AUTH_SIGNUP_REJECT_REDIRECT" envDefault:"/"`
	// SignupAllowedUsernames is a comma-separated allow-list.
	// Empty means registration is open.
	SignupAllowedUsernames string `env:"AUTH_SIGNUP_ALLOWED_USERNAMES" envDefault:""`
	// SignupPermissions is a comma-separated set of permission tokens
	// granted to every new account.
	SignupPermissions string `env:"AUTH_SIGNUP_PERMISSIONS" envDefault:""`
}

// Service orchestrates the public auth flows over the core components.
// All dependencies are injected; the service holds no request state and is
// safe for concurrent use.
type Service struct {
	users  user.Store
	hasher *password.Hasher
	gate   SignupPolicy

	signupPerms user.Permissions
	home        string
	reject      string
	log         *slog.Logger
}

// ServiceOption configures optional Service collaborators.
type ServiceOption func(*Service)

// WithSignupPolicy replaces the signup gate. Default allows everyone.
func WithSignupPolicy(gate SignupPolicy) ServiceOption {
	return func(s *Service) {
		if gate != nil {
			s.gate = gate
		}
	}
}

// WithSignupPermissions sets the permission tokens granted at signup.
func WithSignupPermissions(perms user.Permissions) ServiceOption {
	return func(s *Service) {
		s.signupPerms = perms
	}
}

// WithLogger sets the structured logger. Default discards.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService wires a Service. A nil store or hasher is a wiring error and
// fails fast.
func NewService(cfg Config, users user.Store, hasher *password.Hasher, opts ...ServiceOption) *Service {
	switch {
	case users == nil:
		panic("auth: user store is required")
	case hasher == nil:
		panic("auth: password hasher is required")
	}

	s := &Service{
		users:  users,
		hasher: hasher,
		gate:   PolicyFromAllowedUsernames(cfg.SignupAllowedUsernames),
		home:   cfg.HomeRedirect,
		reject: cfg.SignupRejectRedirect,
		log:    logger.Discard(),
	}
	if s.home == "" {
		s.home = "/"
	}
	if s.reject == "" {
		s.reject = s.home
	}
	if perms := splitTokens(cfg.SignupPermissions); len(perms) > 0 {
		s.signupPerms = user.NewPermissions(perms...)
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoginParams are the request fields the login flow consumes.
type LoginParams struct {
	Username string
	Password string
	Remember bool
}

// Login verifies credentials and authenticates the session. Unknown
// usernames, wrong passwords and corrupt stored hashes all surface as
// ErrInvalidCredentials; the session is only touched after verification
// succeeds. Returns the redirect target for the client.
func (s *Service) Login(ctx context.Context, as *Session, p LoginParams) (string, error) {
	u, err := s.users.ByUsername(ctx, p.Username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("auth: login lookup: %w", err)
	}

	if err := s.hasher.Verify(u.PasswordHash, []byte(p.Password)); err != nil {
		if errors.Is(err, password.ErrMalformedHash) {
			// Data corruption, not a bad password. Logged loudly but the
			// client still sees the generic failure.
			s.log.ErrorContext(ctx, "stored credential hash is malformed",
				logger.Component("auth"), logger.UserID(u.ID), logger.Error(err))
		}
		return "", ErrInvalidCredentials
	}

	if err := as.LoginUser(u.ID); err != nil {
		return "", fmt.Errorf("auth: login session: %w", err)
	}
	as.SetPersist(true)
	as.RememberUser(p.Remember)

	s.log.InfoContext(ctx, "user logged in",
		logger.Component("auth"), logger.UserID(u.ID), logger.Username(u.Username))
	return s.home, nil
}

// SignupParams are the request fields the signup flow consumes.
type SignupParams struct {
	Username             string
	DisplayName          string
	Password             string
	PasswordConfirmation string
	Remember             bool
}

// Signup validates the confirmation, checks the signup gate, creates the
// account and logs it in. The flow fails atomically: a rejected gate or a
// duplicate username leaves no row behind and the session anonymous.
// Returns the redirect target; on ErrSignupNotAllowed that target is the
// configured reject path.
func (s *Service) Signup(ctx context.Context, as *Session, p SignupParams) (string, error) {
	if p.Password != p.PasswordConfirmation {
		return "", ErrPasswordMismatch
	}

	if !s.gate(p.Username) {
		s.log.InfoContext(ctx, "signup rejected by policy",
			logger.Component("auth"), logger.Username(p.Username))
		return s.reject, ErrSignupNotAllowed
	}

	hash, err := s.hasher.Hash([]byte(p.Password))
	if err != nil {
		return "", fmt.Errorf("auth: signup hash: %w", err)
	}

	u, err := s.users.Create(ctx, user.CreateParams{
		Username:     p.Username,
		DisplayName:  p.DisplayName,
		PasswordHash: hash,
		Permissions:  s.signupPerms,
	})
	if err != nil {
		if errors.Is(err, user.ErrDuplicateUsername) {
			return "", user.ErrDuplicateUsername
		}
		return "", fmt.Errorf("auth: signup insert: %w", err)
	}

	if err := as.LoginUser(u.ID); err != nil {
		return "", fmt.Errorf("auth: signup session: %w", err)
	}
	as.SetPersist(true)
	as.RememberUser(p.Remember)

	s.log.InfoContext(ctx, "user signed up",
		logger.Component("auth"), logger.UserID(u.ID), logger.Username(u.Username))
	return s.home, nil
}

// Logout transitions the session to anonymous. Remember-me sessions stay
// durable; ordinary ones are erased from the store on commit. Always
// succeeds, even on an already-anonymous session.
func (s *Service) Logout(ctx context.Context, as *Session) (string, error) {
	if err := as.LogoutUser(); err != nil {
		return "", fmt.Errorf("auth: logout session: %w", err)
	}
	return s.home, nil
}

// HomeRedirect returns where completed flows send the client.
func (s *Service) HomeRedirect() string {
	return s.home
}

// RejectRedirect returns where gated-off signups send the client.
func (s *Service) RejectRedirect() string {
	return s.reject
}
