package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"trojsten-graph/backend/internal/access"
	"trojsten-graph/backend/internal/invites"
	"trojsten-graph/backend/internal/people"
	"trojsten-graph/backend/pkg/config"
)

// adminStore is everything the admin commands write to or read from
type adminStore interface {
	invites.Store
	EnsureSchema(ctx context.Context) error
	CreateVerificationToken(ctx context.Context, token string, validUntil time.Time) (*access.VerificationToken, error)
	ListVerificationTokens(ctx context.Context) ([]access.VerificationToken, error)
	UpsertPerson(ctx context.Context, p people.Person) error
	UpsertGroup(ctx context.Context, g people.Group) error
	AddMembership(ctx context.Context, personID, groupID string, dateStarted string, dateEnded *string) error
	UpsertRelationship(ctx context.Context, rel people.Relationship) error
}

// env is an opened connection plus the config it was opened with
type env struct {
	cfg   *config.Config
	log   *zap.Logger
	store adminStore
	close func()
}

type app struct {
	open func(ctx context.Context) (*env, error)
}

// withEnv opens the environment around a command body
func (a *app) withEnv(run func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := a.open(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()
		return run(cmd, args, e)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "graph-admin",
		Short:         "Administer the people graph: schema, seed data, invite codes and access tokens",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newMigrateCmd(a))
	root.AddCommand(newSeedCmd(a))
	root.AddCommand(newInvitesCmd(a))
	root.AddCommand(newTokensCmd(a))
	return root
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the constraints and indexes the graph relies on",
		RunE: a.withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			return e.store.EnsureSchema(cmd.Context())
		}),
	}
}
