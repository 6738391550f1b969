package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/ideationworks/ideation-api/internal/domain"
	"github.com/ideationworks/ideation-api/internal/observability"
)

type subjectContextKey struct{}

// UserLookup resolves accounts. Implementations return pgx.ErrNoRows when the
// user does not exist.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Principal represents the authenticated caller of the current request.
type Principal struct {
	SubjectID string
	User      *domain.User
}

// ContextWithSubject returns a copy of ctx carrying the verified subject id.
func ContextWithSubject(ctx context.Context, subjectID string) context.Context {
	return context.WithValue(ctx, subjectContextKey{}, subjectID)
}

// SubjectIDFromContext reads the subject id stored by the guard.
func SubjectIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(subjectContextKey{}).(string)
	return id, ok && id != ""
}

// SubjectFromLocals reads the subject id from the fiber request locals.
func SubjectFromLocals(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals(subjectKey).(string)
	return id, ok && id != ""
}

// PrincipalResolver turns a verified subject id into a Principal.
type PrincipalResolver struct {
	users   UserLookup
	metrics *observability.Metrics
}

// NewPrincipalResolver builds a resolver backed by the given lookup.
func NewPrincipalResolver(users UserLookup, metrics *observability.Metrics) *PrincipalResolver {
	return &PrincipalResolver{users: users, metrics: metrics}
}

// Subject returns a Principal carrying only the subject id. It does not touch storage.
func (r *PrincipalResolver) Subject(c *fiber.Ctx) (*Principal, error) {
	id, ok := SubjectFromLocals(c)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return &Principal{SubjectID: id}, nil
}

// Resolve returns a Principal with the full user record loaded.
func (r *PrincipalResolver) Resolve(c *fiber.Ctx) (*Principal, error) {
	principal, err := r.Subject(c)
	if err != nil {
		return nil, err
	}

	user, err := r.users.GetByID(c.UserContext(), principal.SubjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.metrics.RecordAuthFailure("principal_not_found")
			return nil, fmt.Errorf("%w: %s", ErrPrincipalNotFound, principal.SubjectID)
		}
		return nil, err
	}
	principal.User = user
	return principal, nil
}
