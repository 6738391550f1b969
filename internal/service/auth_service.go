package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ideationworks/ideation-api/internal/auth"
	"github.com/ideationworks/ideation-api/internal/domain"
	"github.com/ideationworks/ideation-api/internal/observability"
	"github.com/ideationworks/ideation-api/internal/repository"
	apperrors "github.com/ideationworks/ideation-api/pkg/util"
)

// ErrEmailTaken is returned when registering an email that already exists.
var ErrEmailTaken = errors.New("email already registered")

const minPasswordLength = 8

// PasswordHasher produces stored credentials from plaintext passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// TokenIssuer is the part of auth.TokenManager used at login.
type TokenIssuer interface {
	Issue(subjectID string) (auth.Token, error)
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users     repository.UserRepository
	verifier  auth.CredentialVerifier
	hasher    PasswordHasher
	tokens    TokenIssuer
	logger    *zap.Logger
	metrics   *observability.Metrics
	dummyHash string
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	Users    repository.UserRepository
	Verifier auth.CredentialVerifier
	Hasher   PasswordHasher
	Tokens   TokenIssuer
	Logger   *zap.Logger
	Metrics  *observability.Metrics
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// NewAuthService builds the service. It precomputes a throwaway hash so that
// logins for unknown emails cost the same as a wrong password.
func NewAuthService(deps AuthDependencies) (*AuthService, error) {
	dummy, err := deps.Hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy credential: %w", err)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:     deps.Users,
		verifier:  deps.Verifier,
		hasher:    deps.Hasher,
		tokens:    deps.Tokens,
		logger:    logger,
		metrics:   deps.Metrics,
		dummyHash: dummy,
	}, nil
}

// Login authenticates by email and password and issues a session token.
// Unknown email, wrong password and suspended accounts all yield
// auth.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (auth.Token, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return auth.Token{}, nil, err
		}
		_ = s.verifier.Verify(s.dummyHash, password)
		return auth.Token{}, nil, s.rejectLogin("unknown_email")
	}

	if err := s.verifier.Verify(user.PasswordHash, password); err != nil {
		return auth.Token{}, nil, s.rejectLogin("wrong_password")
	}
	if !user.CanLogin() {
		return auth.Token{}, nil, s.rejectLogin("account_inactive")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return auth.Token{}, nil, err
	}
	s.logger.Debug("login succeeded", zap.String("user_id", user.ID))
	return token, user, nil
}

func (s *AuthService) rejectLogin(reason string) error {
	s.metrics.RecordAuthFailure("login_" + reason)
	s.logger.Debug("login rejected", zap.String("reason", reason))
	return auth.ErrInvalidCredentials
}

// Register creates a new active account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// Profile returns the user record behind a resolved principal.
func (s *AuthService) Profile(principal *auth.Principal) (*domain.User, error) {
	if principal == nil || principal.User == nil {
		return nil, auth.ErrPrincipalNotFound
	}
	return principal.User, nil
}

func validateRegistration(in RegisterInput) error {
	details := map[string]any{}
	if _, err := mail.ParseAddress(in.Email); err != nil || in.Email == "" {
		details["email"] = "a valid email address is required"
	}
	if len(in.Password) < minPasswordLength {
		details["password"] = fmt.Sprintf("must be at least %d characters", minPasswordLength)
	}
	if in.FirstName == "" {
		details["firstName"] = "required"
	}
	if in.LastName == "" {
		details["lastName"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid registration", details)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
