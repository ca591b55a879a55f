package invites

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.uber.org/zap"
	apperrors "trojsten-graph/backend/pkg/errors"
)

const (
	// DefaultMaxBatch caps a single generation request
	DefaultMaxBatch = 1000
	// DefaultMaxAttempts bounds retries after collisions
	DefaultMaxAttempts = 5
)

// Generator creates batches of unique invite codes.
type Generator struct {
	store       Store
	logger      *zap.Logger
	newCode     func() string
	maxBatch    int
	maxAttempts int
}

// NewGenerator creates a generator with the default code source and limits
func NewGenerator(store Store, logger *zap.Logger) *Generator {
	return &Generator{
		store:       store,
		logger:      logger,
		newCode:     NewCode,
		maxBatch:    DefaultMaxBatch,
		maxAttempts: DefaultMaxAttempts,
	}
}

// WithMaxBatch sets the largest accepted batch
func (g *Generator) WithMaxBatch(n int) *Generator {
	g.maxBatch = n
	return g
}

// WithCodeSource replaces the random code source
func (g *Generator) WithCodeSource(newCode func() string) *Generator {
	g.newCode = newCode
	return g
}

// Generate creates exactly n new codes that did not exist before, all unused.
// Nothing is created when it returns an error.
func (g *Generator) Generate(ctx context.Context, n int) ([]InviteCode, error) {
	if n <= 0 {
		return nil, apperrors.NewValidationFailed("number", "must be a positive integer")
	}
	if n > g.maxBatch {
		return nil, apperrors.NewValidationFailed("number", fmt.Sprintf("must be at most %d", g.maxBatch))
	}

	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.NewContextCancelled("generate invite codes", err)
		}

		candidates, err := g.freshCandidates(ctx, n)
		if err != nil {
			return nil, err
		}

		created, err := g.store.CreateInviteCodes(ctx, candidates)
		if err == nil {
			g.logger.Info("Invite codes generated",
				zap.Int("count", len(created)),
				zap.Int("attempt", attempt),
			)
			return created, nil
		}

		var taken *apperrors.ErrInviteCodeTaken
		if !stderrors.As(err, &taken) {
			return nil, fmt.Errorf("failed to store invite codes: %w", err)
		}
		// Another batch claimed one of our codes between the check and the insert.
		g.logger.Warn("Invite code collision, retrying",
			zap.String("code", taken.Code),
			zap.Int("attempt", attempt),
		)
		lastErr = err
	}

	return nil, fmt.Errorf("failed to generate %d unique invite codes after %d attempts: %w", n, g.maxAttempts, lastErr)
}

// freshCandidates draws n distinct codes none of which are stored yet.
func (g *Generator) freshCandidates(ctx context.Context, n int) ([]string, error) {
	picked := make([]string, 0, n)
	seen := make(map[string]struct{}, n)

	for round := 0; round < g.maxAttempts && len(picked) < n; round++ {
		need := n - len(picked)
		batch := make([]string, 0, need)
		for draws := 0; len(batch) < need && draws < need*4; draws++ {
			code := g.newCode()
			if _, dup := seen[code]; dup {
				continue
			}
			seen[code] = struct{}{}
			batch = append(batch, code)
		}
		if len(batch) == 0 {
			continue
		}

		existing, err := g.store.ExistingInviteCodes(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing invite codes: %w", err)
		}
		taken := make(map[string]struct{}, len(existing))
		for _, code := range existing {
			taken[code] = struct{}{}
		}
		for _, code := range batch {
			if _, ok := taken[code]; !ok {
				picked = append(picked, code)
			}
		}
	}

	if len(picked) < n {
		return nil, fmt.Errorf("could not draw %d unused invite codes, got %d", n, len(picked))
	}
	return picked, nil
}

// Redeem assigns userID to an unused code. A code can be redeemed once.
func (g *Generator) Redeem(ctx context.Context, code, userID string) (*InviteCode, error) {
	if code == "" {
		return nil, apperrors.NewValidationFailed("code", "is required")
	}
	if userID == "" {
		return nil, apperrors.NewValidationFailed("user", "is required")
	}

	redeemed, err := g.store.RedeemInviteCode(ctx, code, userID)
	if err != nil {
		return nil, err
	}

	g.logger.Info("Invite code redeemed", zap.String("code", code), zap.String("user_id", userID))
	return redeemed, nil
}

// List returns every invite code, unused first.
func (g *Generator) List(ctx context.Context) ([]InviteCode, error) {
	codes, err := g.store.ListInviteCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list invite codes: %w", err)
	}
	return codes, nil
}
