package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"trojsten-graph/backend/internal/access"
	"trojsten-graph/backend/internal/invites"
	"trojsten-graph/backend/internal/people"
	apperrors "trojsten-graph/backend/pkg/errors"
	"trojsten-graph/backend/pkg/logger"
)

// Repository handles all Neo4j database operations
type Repository struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *zap.Logger
}

var (
	_ people.GraphStore = (*Repository)(nil)
	_ people.GroupStore = (*Repository)(nil)
	_ access.TokenStore = (*Repository)(nil)
	_ invites.Store     = (*Repository)(nil)
)

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Get(),
	}
}

// WithDatabase targets a named database instead of the server default
func (r *Repository) WithDatabase(name string) *Repository {
	r.database = name
	return r
}

// Close closes the Neo4j driver connection
func (r *Repository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

// Ping verifies the database is reachable
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.driver.VerifyConnectivity(ctx); err != nil {
		target := r.driver.Target()
		return apperrors.NewGraphConnectionFailed(target.String(), err)
	}
	return nil
}

func (r *Repository) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode, DatabaseName: r.database})
}

// readAll runs a read query and collects every record
func (r *Repository) readAll(ctx context.Context, name, query string, params map[string]interface{}) ([]*neo4j.Record, error) {
	session := r.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed(name, err)
	}
	records, err := result.Collect(ctx)
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed(name, err)
	}
	return records, nil
}

// write runs a single write statement in an auto-commit transaction
func (r *Repository) write(ctx context.Context, name, query string, params map[string]interface{}) error {
	session := r.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return apperrors.NewGraphQueryFailed(name, err)
	}
	if _, err := result.Consume(ctx); err != nil {
		return apperrors.NewGraphQueryFailed(name, err)
	}
	return nil
}
