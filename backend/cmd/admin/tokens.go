package main

import (
	"fmt"
	"net/url"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"trojsten-graph/backend/internal/access"
	apperrors "trojsten-graph/backend/pkg/errors"
)

func newTokensCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Issue and list verification tokens for the public graph view",
	}

	var (
		validFor time.Duration
		value    string
		baseURL  string
	)
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Create a token granting graph access until it expires",
		RunE: a.withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			ttl := validFor
			if ttl == 0 {
				ttl = e.cfg.TokenDefaultTTL
			}
			if ttl < 0 {
				return apperrors.NewValidationFailed("valid-for", "must be positive")
			}
			token := value
			if token == "" {
				token = uuid.NewString()
			}

			created, err := e.store.CreateVerificationToken(cmd.Context(), token, time.Now().Add(ttl))
			if err != nil {
				return err
			}
			link := strings.TrimRight(baseURL, "/") + "/graph/v2/?" + url.Values{access.TokenQueryParam: {created.Token}}.Encode()
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nvalid until %s\n%s\n", created.Token, created.ValidUntil.UTC().Format(time.RFC3339), link)
			return nil
		}),
	}
	issue.Flags().DurationVar(&validFor, "valid-for", 0, "token lifetime (default TOKEN_DEFAULT_TTL)")
	issue.Flags().StringVar(&value, "token", "", "token value (default random)")
	issue.Flags().StringVar(&baseURL, "base-url", "http://localhost:8080", "public address used in the share link")

	list := &cobra.Command{
		Use:   "list",
		Short: "List tokens with their expiry",
		RunE: a.withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			tokens, err := e.store.ListVerificationTokens(cmd.Context())
			if err != nil {
				return err
			}

			now := time.Now()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TOKEN\tVALID UNTIL\tSTATE")
			for _, t := range tokens {
				state := "expired"
				if t.ValidAt(now) {
					state = "active"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", t.Token, t.ValidUntil.UTC().Format(time.RFC3339), state)
			}
			return w.Flush()
		}),
	}

	cmd.AddCommand(issue, list)
	return cmd
}
