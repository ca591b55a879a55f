package access

import (
	"context"
	"fmt"
	"time"

	apperrors "trojsten-graph/backend/pkg/errors"
)

// VerificationToken grants anonymous read access to the graph until it expires.
type VerificationToken struct {
	Token      string    `json:"token"`
	ValidUntil time.Time `json:"valid_until"`
}

// ValidAt reports whether the token still grants access at now.
// Access ends at ValidUntil itself.
func (t VerificationToken) ValidAt(now time.Time) bool {
	return now.Before(t.ValidUntil)
}

// TokenStore looks up stored tokens by their exact string. Several records
// may share a string.
type TokenStore interface {
	FindVerificationTokens(ctx context.Context, token string) ([]VerificationToken, error)
}

// TokenGate lets staff through and everyone else only with a live token.
// Tokens are not consumed on use; a token works until it expires.
type TokenGate struct {
	store TokenStore
	now   func() time.Time
}

// NewTokenGate creates a gate backed by store using the wall clock
func NewTokenGate(store TokenStore) *TokenGate {
	return &TokenGate{store: store, now: time.Now}
}

// WithClock replaces the clock used by the middleware
func (g *TokenGate) WithClock(now func() time.Time) *TokenGate {
	g.now = now
	return g
}

// Check returns nil to allow the request, ErrPermissionDenied to deny it, or
// a storage error when the lookup itself failed.
func (g *TokenGate) Check(ctx context.Context, id Identity, token string, now time.Time) error {
	if id.Staff {
		return nil
	}
	if token == "" {
		return apperrors.ErrPermissionDenied
	}

	stored, err := g.store.FindVerificationTokens(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to look up verification token: %w", err)
	}
	for _, t := range stored {
		if t.Token == token && t.ValidAt(now) {
			return nil
		}
	}
	return apperrors.ErrPermissionDenied
}
