// Package auth verifies OIDC bearer tokens for operator-only routes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/JaimeStill/slopjournal/pkg/handlers"
)

var (
	// ErrMissingToken indicates the request carried no bearer token.
	ErrMissingToken = errors.New("missing bearer token")
	// ErrInvalidToken indicates the bearer token failed verification.
	ErrInvalidToken = errors.New("invalid bearer token")
)

// Claims identifies the authenticated caller.
type Claims struct {
	Subject string
	Email   string
}

// Verifier validates a raw bearer token.
type Verifier interface {
	Verify(ctx context.Context, raw string) (*Claims, error)
}

type oidcVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// New discovers the issuer's provider metadata and returns a Verifier
// bound to the configured client ID.
func New(ctx context.Context, cfg *Config) (Verifier, error) {
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("discover oidc provider: %w", err)
	}
	return NewFromVerifier(provider.Verifier(&oidc.Config{ClientID: cfg.ClientID})), nil
}

// NewFromVerifier wraps an existing go-oidc verifier.
func NewFromVerifier(v *oidc.IDTokenVerifier) Verifier {
	return &oidcVerifier{verifier: v}
}

func (o *oidcVerifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	token, err := o.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	var extra struct {
		Email string `json:"email"`
	}
	if err := token.Claims(&extra); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return &Claims{Subject: token.Subject, Email: extra.Email}, nil
}

type claimsKey struct{}

// ClaimsFrom returns the claims stored by Middleware, if any.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok
}

// Middleware rejects requests without a valid bearer token and stores the
// verified claims in the request context.
func Middleware(v Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("middleware", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrMissingToken)
				return
			}

			claims, err := v.Verify(r.Context(), raw)
			if err != nil {
				logger.DebugContext(r.Context(), "token verification failed", "path", r.URL.Path, "error", err)
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
