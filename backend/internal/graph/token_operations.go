package graph

import (
	"context"
	"time"

	"go.uber.org/zap"
	"trojsten-graph/backend/internal/access"
	apperrors "trojsten-graph/backend/pkg/errors"
)

// ============================================================================
// Verification Token Operations
// ============================================================================

// FindVerificationTokens returns every stored token with exactly this value
func (r *Repository) FindVerificationTokens(ctx context.Context, token string) ([]access.VerificationToken, error) {
	query := `
		MATCH (t:VerificationToken {token: $token})
		RETURN t.token AS token, t.valid_until AS valid_until
	`

	records, err := r.readAll(ctx, "find verification token", query, map[string]interface{}{
		"token": token,
	})
	if err != nil {
		return nil, err
	}

	tokens := make([]access.VerificationToken, 0, len(records))
	for _, record := range records {
		tokens = append(tokens, access.VerificationToken{
			Token:      getStringFromRecord(record, "token"),
			ValidUntil: getTimeFromRecord(record, "valid_until"),
		})
	}
	return tokens, nil
}

// CreateVerificationToken stores a token valid until validUntil
func (r *Repository) CreateVerificationToken(ctx context.Context, token string, validUntil time.Time) (*access.VerificationToken, error) {
	if token == "" {
		return nil, apperrors.NewValidationFailed("token", "is required")
	}

	query := `
		CREATE (t:VerificationToken {
			token: $token,
			valid_until: datetime($validUntil),
			created_at: datetime()
		})
	`
	err := r.write(ctx, "create verification token", query, map[string]interface{}{
		"token":      token,
		"validUntil": validUntil.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("Verification token created", zap.Time("valid_until", validUntil))
	return &access.VerificationToken{Token: token, ValidUntil: validUntil}, nil
}

// ListVerificationTokens returns all tokens, latest expiry first
func (r *Repository) ListVerificationTokens(ctx context.Context) ([]access.VerificationToken, error) {
	query := `
		MATCH (t:VerificationToken)
		RETURN t.token AS token, t.valid_until AS valid_until
		ORDER BY valid_until DESC
	`

	records, err := r.readAll(ctx, "list verification tokens", query, nil)
	if err != nil {
		return nil, err
	}

	tokens := make([]access.VerificationToken, 0, len(records))
	for _, record := range records {
		tokens = append(tokens, access.VerificationToken{
			Token:      getStringFromRecord(record, "token"),
			ValidUntil: getTimeFromRecord(record, "valid_until"),
		})
	}
	return tokens, nil
}
