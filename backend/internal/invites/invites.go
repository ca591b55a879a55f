package invites

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CodeLength is the number of hex characters in a generated code
const CodeLength = 16

// RegistrationPath is where an invite link points, with the code as a query parameter
const RegistrationPath = "/accounts/register/"

// InviteCode is a single-use registration credential.
// UserID stays nil until the code is redeemed, then never changes.
type InviteCode struct {
	Code      string    `json:"code"`
	UserID    *string   `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// Used reports whether the code has been redeemed
func (c InviteCode) Used() bool {
	return c.UserID != nil
}

// Store is the persistence collaborator for invite codes. The code field must
// carry a storage-level uniqueness constraint.
type Store interface {
	// ExistingInviteCodes returns the subset of codes already stored.
	ExistingInviteCodes(ctx context.Context, codes []string) ([]string, error)
	// CreateInviteCodes stores all codes with no user, or none of them.
	// A uniqueness violation is reported as *errors.ErrInviteCodeTaken.
	CreateInviteCodes(ctx context.Context, codes []string) ([]InviteCode, error)
	// RedeemInviteCode sets the user of an unused code.
	RedeemInviteCode(ctx context.Context, code, userID string) (*InviteCode, error)
	// ListInviteCodes returns every code, unused first.
	ListInviteCodes(ctx context.Context) ([]InviteCode, error)
}

// NewCode draws a random code from a v4 UUID
func NewCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:CodeLength]
}

// RegistrationLink builds the link an unused code is shared as
func RegistrationLink(baseURL, code string) string {
	return strings.TrimRight(baseURL, "/") + RegistrationPath + "?code=" + url.QueryEscape(code)
}
