package auth

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/ideationworks/ideation-api/pkg/util"
)

type countingVerifier struct {
	calls int
	inner TokenVerifier
}

func (v *countingVerifier) Verify(token string) (string, error) {
	v.calls++
	return v.inner.Verify(token)
}

type guardHarness struct {
	app      *fiber.App
	verifier *countingVerifier
	tokens   *TokenManager
	clock    *fakeClock
	reached  int
	lastErr  error
	seenID   string
	seenCtx  string
}

func newGuardHarness(t *testing.T) *guardHarness {
	t.Helper()
	clock := newClock()
	tokens := newTestManager(t, "secret", clock)
	h := &guardHarness{
		verifier: &countingVerifier{inner: tokens},
		tokens:   tokens,
		clock:    clock,
	}

	h.app = fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		h.lastErr = err
		de := apperrors.ToDomainError(err)
		return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{"code": de.Code, "message": de.Message}})
	}})
	guard := NewAuthMiddleware(h.verifier, nil, nil)
	h.app.Get("/protected", guard.Handle, func(c *fiber.Ctx) error {
		h.reached++
		h.seenID, _ = SubjectFromLocals(c)
		h.seenCtx, _ = SubjectIDFromContext(c.UserContext())
		return c.SendStatus(http.StatusNoContent)
	})
	return h
}

func (h *guardHarness) do(t *testing.T, header string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := h.app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestGuardAllowsValidToken(t *testing.T) {
	h := newGuardHarness(t)
	tok, err := h.tokens.Issue("user-9")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	status, _ := h.do(t, "Bearer "+tok.Value)
	if status != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", status)
	}
	if h.seenID != "user-9" || h.seenCtx != "user-9" {
		t.Fatalf("subject not propagated: locals=%q ctx=%q", h.seenID, h.seenCtx)
	}

	status, _ = h.do(t, "bearer "+tok.Value)
	if status != http.StatusNoContent {
		t.Fatalf("scheme should be case-insensitive, got %d", status)
	}
}

func TestGuardRejectsAbsentTokensWithoutVerifying(t *testing.T) {
	h := newGuardHarness(t)
	tok, err := h.tokens.Issue("user-9")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cases := map[string]string{
		"no header":    "",
		"empty bearer": "Bearer ",
		"blank bearer": "Bearer    ",
		"wrong scheme": "Basic " + tok.Value,
		"no scheme":    tok.Value,
		"scheme only":  "Bearer",
	}
	var bodies []string
	for name, header := range cases {
		status, body := h.do(t, header)
		if status != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, status)
		}
		if !errors.Is(h.lastErr, ErrUnauthenticated) {
			t.Fatalf("%s: expected ErrUnauthenticated, got %v", name, h.lastErr)
		}
		bodies = append(bodies, body)
	}

	if h.reached != 0 {
		t.Fatalf("handler ran %d times for rejected requests", h.reached)
	}
	if h.verifier.calls != 0 {
		t.Fatalf("verifier should not run for absent tokens, ran %d times", h.verifier.calls)
	}
	for _, body := range bodies[1:] {
		if body != bodies[0] {
			t.Fatalf("denials must be indistinguishable: %q vs %q", body, bodies[0])
		}
	}
}

func TestGuardRejectsExpiredTokenLikeMissing(t *testing.T) {
	h := newGuardHarness(t)
	tok, err := h.tokens.Issue("user-9")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, missingBody := h.do(t, "")

	h.clock.Advance(tok.ExpiresIn)
	status, expiredBody := h.do(t, "Bearer "+tok.Value)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", status)
	}
	if !errors.Is(h.lastErr, ErrInvalidToken) || !errors.Is(h.lastErr, ErrUnauthenticated) {
		t.Fatalf("expected wrapped ErrInvalidToken, got %v", h.lastErr)
	}
	if expiredBody != missingBody {
		t.Fatalf("expired and missing responses differ: %q vs %q", expiredBody, missingBody)
	}
	if strings.Contains(expiredBody, "expired") {
		t.Fatalf("response leaks verification detail: %s", expiredBody)
	}
	if h.reached != 0 {
		t.Fatal("handler must not run for expired token")
	}
}

func TestGuardRejectsForeignSignature(t *testing.T) {
	h := newGuardHarness(t)
	other, err := NewTokenManager(TokenConfig{Secret: "other", TTL: time.Hour}, WithClock(h.clock.Now))
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	tok, err := other.Issue("user-9")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	status, _ := h.do(t, "Bearer "+tok.Value)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	if h.verifier.calls != 1 {
		t.Fatalf("expected one verification, got %d", h.verifier.calls)
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"BEARER abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"Bearer ", "", false},
		{"Bearer", "", false},
		{"Token abc", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		token, ok := bearerToken(tc.header)
		if token != tc.token || ok != tc.ok {
			t.Fatalf("bearerToken(%q) = %q, %v; want %q, %v", tc.header, token, ok, tc.token, tc.ok)
		}
	}
}

func TestDenyError(t *testing.T) {
	if DenyError(nil) != nil {
		t.Fatal("nil in, nil out")
	}
	for _, err := range []error{ErrUnauthenticated, ErrInvalidCredentials, ErrPrincipalNotFound} {
		de := apperrors.ToDomainError(DenyError(err))
		if de.HTTPStatus != http.StatusUnauthorized || de.Message != "unauthorized" {
			t.Fatalf("%v: unexpected mapping %+v", err, de)
		}
	}
	de := apperrors.ToDomainError(DenyError(errors.New("db down")))
	if de.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("collaborator failure should be internal, got %d", de.HTTPStatus)
	}
}
