package graph

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"trojsten-graph/backend/internal/invites"
	apperrors "trojsten-graph/backend/pkg/errors"
)

// ============================================================================
// Invite Code Operations
// ============================================================================

// ExistingInviteCodes returns which of codes are already stored
func (r *Repository) ExistingInviteCodes(ctx context.Context, codes []string) ([]string, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	query := `
		MATCH (i:InviteCode)
		WHERE i.code IN $codes
		RETURN i.code AS code
	`

	records, err := r.readAll(ctx, "existing invite codes", query, map[string]interface{}{
		"codes": codes,
	})
	if err != nil {
		return nil, err
	}

	existing := make([]string, 0, len(records))
	for _, record := range records {
		existing = append(existing, getStringFromRecord(record, "code"))
	}
	return existing, nil
}

// CreateInviteCodes stores the whole batch in one transaction. The
// invite_code_unique constraint rejects the batch if any code exists.
func (r *Repository) CreateInviteCodes(ctx context.Context, codes []string) ([]invites.InviteCode, error) {
	session := r.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	now := time.Now().UTC().Format(time.RFC3339Nano)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, `
			UNWIND $codes AS code
			CREATE (i:InviteCode {code: code, created_at: datetime($now)})
			RETURN i.code AS code, i.created_at AS created_at
		`, map[string]interface{}{
			"codes": codes,
			"now":   now,
		})
		if err != nil {
			return nil, err
		}
		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}

		created := make([]invites.InviteCode, 0, len(records))
		for _, record := range records {
			created = append(created, invites.InviteCode{
				Code:      getStringFromRecord(record, "code"),
				CreatedAt: getTimeFromRecord(record, "created_at"),
			})
		}
		return created, nil
	})
	if err != nil {
		if code, ok := constraintViolation(err); ok {
			return nil, apperrors.NewInviteCodeTaken(code, err)
		}
		return nil, apperrors.NewGraphQueryFailed("create invite codes", err)
	}

	return out.([]invites.InviteCode), nil
}

// RedeemInviteCode sets the user of an unused code. The dummy write takes the
// node lock before user_id is read, so two redemptions cannot both succeed.
func (r *Repository) RedeemInviteCode(ctx context.Context, code, userID string) (*invites.InviteCode, error) {
	session := r.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	out, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, `
			MATCH (i:InviteCode {code: $code})
			SET i._lock = true
			WITH i, i.user_id IS NULL AS unused
			SET i.user_id = CASE WHEN unused THEN $userID ELSE i.user_id END,
			    i.redeemed_at = CASE WHEN unused THEN datetime() ELSE i.redeemed_at END
			REMOVE i._lock
			RETURN i.code AS code, i.user_id AS user_id, i.created_at AS created_at, unused
		`, map[string]interface{}{
			"code":   code,
			"userID": userID,
		})
		if err != nil {
			return nil, err
		}
		if !result.Next(ctx) {
			if err := result.Err(); err != nil {
				return nil, err
			}
			return nil, apperrors.NewInviteCodeNotFound(code)
		}

		record := result.Record()
		if !getBoolFromRecord(record, "unused") {
			return nil, apperrors.NewInviteCodeRedeemed(code)
		}
		return &invites.InviteCode{
			Code:      getStringFromRecord(record, "code"),
			UserID:    getOptionalStringFromRecord(record, "user_id"),
			CreatedAt: getTimeFromRecord(record, "created_at"),
		}, nil
	})
	if err != nil {
		if apperrors.IsErrorType(err, apperrors.ErrorTypeInvite) {
			return nil, err
		}
		return nil, apperrors.NewGraphQueryFailed("redeem invite code", err)
	}

	return out.(*invites.InviteCode), nil
}

// ListInviteCodes returns all codes, unused first, newest first within each part
func (r *Repository) ListInviteCodes(ctx context.Context) ([]invites.InviteCode, error) {
	query := `
		MATCH (i:InviteCode)
		RETURN i.code AS code, i.user_id AS user_id, i.created_at AS created_at
		ORDER BY user_id DESC, created_at DESC
	`

	records, err := r.readAll(ctx, "list invite codes", query, nil)
	if err != nil {
		return nil, err
	}

	codes := make([]invites.InviteCode, 0, len(records))
	for _, record := range records {
		codes = append(codes, invites.InviteCode{
			Code:      getStringFromRecord(record, "code"),
			UserID:    getOptionalStringFromRecord(record, "user_id"),
			CreatedAt: getTimeFromRecord(record, "created_at"),
		})
	}
	return codes, nil
}
