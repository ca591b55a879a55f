package api

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
	"trojsten-graph/backend/internal/access"
	"trojsten-graph/backend/internal/invites"
	apperrors "trojsten-graph/backend/pkg/errors"
)

const (
	invitesPath     = "/admin/invites/"
	flashCookie     = "flash"
	flashCookieTTL  = 60
	numberFieldHelp = "Enter a whole number greater than zero."
)

type generateInvitesForm struct {
	Number int `form:"number" binding:"required,gt=0"`
}

type inviteRow struct {
	Code      string    `json:"code"`
	Link      string    `json:"link,omitempty"`
	User      *string   `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *handlers) listInvites(c *gin.Context) {
	codes, err := h.Invites.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to list invite codes")
		return
	}

	base := requestBaseURL(c)
	rows := make([]inviteRow, 0, len(codes))
	for _, code := range codes {
		row := inviteRow{Code: code.Code, User: code.UserID, CreatedAt: code.CreatedAt}
		if !code.Used() {
			row.Link = invites.RegistrationLink(base, code.Code)
		}
		rows = append(rows, row)
	}

	messages := []string{}
	if msg, err := c.Cookie(flashCookie); err == nil && msg != "" {
		messages = append(messages, msg)
		c.SetCookie(flashCookie, "", -1, invitesPath, "", false, true)
	}

	c.JSON(http.StatusOK, gin.H{
		"invite_codes": rows,
		"messages":     messages,
	})
}

// generateInvites handles the changelist form. Posts without the
// generate_invites button fall through to the listing.
func (h *handlers) generateInvites(c *gin.Context) {
	if _, ok := c.GetPostForm("generate_invites"); !ok {
		c.Redirect(http.StatusSeeOther, invitesPath)
		return
	}

	var form generateInvitesForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"number": numberFieldHelp}})
		return
	}

	codes, err := h.Invites.Generate(c.Request.Context(), form.Number)
	if err != nil {
		var vErr *apperrors.ErrValidationFailed
		if stderrors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{vErr.Field: vErr.Reason}})
			return
		}
		h.fail(c, err, "Failed to generate invite codes")
		return
	}

	h.Logger.Info("Invite codes generated from admin",
		zap.String("staff", access.CurrentIdentity(c).Username),
		zap.Int("count", len(codes)),
	)
	c.SetCookie(flashCookie, fmt.Sprintf("Successfully created %d codes", len(codes)), flashCookieTTL, invitesPath, "", false, true)
	c.Redirect(http.StatusSeeOther, invitesPath)
}

// requestBaseURL rebuilds scheme://host the way the client reached us
func requestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
