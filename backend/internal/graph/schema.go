package graph

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// schemaStatements are idempotent. invite_code_unique is what keeps
// concurrent invite batches from producing duplicate codes.
var schemaStatements = map[string]string{
	"person_id_unique":          `CREATE CONSTRAINT person_id_unique IF NOT EXISTS FOR (p:Person) REQUIRE p.id IS UNIQUE`,
	"group_id_unique":           `CREATE CONSTRAINT group_id_unique IF NOT EXISTS FOR (g:Group) REQUIRE g.id IS UNIQUE`,
	"relationship_id_unique":    `CREATE CONSTRAINT relationship_id_unique IF NOT EXISTS FOR (r:Relationship) REQUIRE r.id IS UNIQUE`,
	"invite_code_unique":        `CREATE CONSTRAINT invite_code_unique IF NOT EXISTS FOR (i:InviteCode) REQUIRE i.code IS UNIQUE`,
	"verification_token_lookup": `CREATE INDEX verification_token_lookup IF NOT EXISTS FOR (t:VerificationToken) ON (t.token)`,
	"group_category_lookup":     `CREATE INDEX group_category_lookup IF NOT EXISTS FOR (g:Group) ON (g.category)`,
}

// EnsureSchema creates the constraints and indexes the repository relies on
func (r *Repository) EnsureSchema(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for name, statement := range schemaStatements {
		name, statement := name, statement
		g.Go(func() error {
			if err := r.write(ctx, name, statement, nil); err != nil {
				return err
			}
			r.logger.Debug("Schema item ensured", zap.String("name", name))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	r.logger.Info("Graph schema ensured", zap.Int("items", len(schemaStatements)))
	return nil
}
