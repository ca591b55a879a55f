package graph

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"trojsten-graph/backend/internal/people"
	apperrors "trojsten-graph/backend/pkg/errors"
)

// Integration tests require a running Neo4j instance.
// Set NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD environment variables.
func newTestRepository(t *testing.T) (*Repository, neo4j.DriverWithContext) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	if os.Getenv("NEO4J_URI") == "" {
		t.Skip("NEO4J_URI not set")
	}

	driver, err := createTestDriver()
	require.NoError(t, err)
	t.Cleanup(func() { driver.Close(context.Background()) })

	repo := NewRepository(driver)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo, driver
}

func createTestDriver() (neo4j.DriverWithContext, error) {
	user := os.Getenv("NEO4J_USER")
	if user == "" {
		user = "neo4j"
	}
	driver, err := neo4j.NewDriverWithContext(os.Getenv("NEO4J_URI"), neo4j.BasicAuth(user, os.Getenv("NEO4J_PASSWORD"), ""))
	if err != nil {
		return nil, err
	}

	// Verify connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}

	return driver, nil
}

func cleanup(t *testing.T, driver neo4j.DriverWithContext, query string, params map[string]interface{}) {
	t.Cleanup(func() {
		ctx := context.Background()
		session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
		defer session.Close(ctx)
		_, _ = session.Run(ctx, query, params)
	})
}

func TestRepository_GraphEligibility(t *testing.T) {
	repo, driver := newTestRepository(t)
	ctx := context.Background()
	prefix := "test-" + time.Now().Format("20060102150405.000") + "-"

	cleanup(t, driver, `
		MATCH (n) WHERE (n:Person OR n:Relationship OR n:Group) AND n.id STARTS WITH $prefix
		OPTIONAL MATCH (n)-[:HAS_STATUS]->(st)
		DETACH DELETE n, st
	`, map[string]interface{}{"prefix": prefix})

	a := people.Person{ID: prefix + "A", FirstName: "Anna", Gender: people.GenderFemale, Visible: true}
	b := people.Person{ID: prefix + "B", FirstName: "Boris", Gender: people.GenderMale, Visible: true}
	c := people.Person{ID: prefix + "C", FirstName: "Cyril", Gender: people.GenderMale, Visible: false}
	for _, p := range []people.Person{a, b, c} {
		require.NoError(t, repo.UpsertPerson(ctx, p))
	}
	require.NoError(t, repo.UpsertRelationship(ctx, people.Relationship{
		ID: prefix + "AB", Source: a.ID, Target: b.ID,
		Statuses: []people.RelationshipStatus{{Status: people.StatusDating, DateStart: "2019-01-01"}},
	}))
	require.NoError(t, repo.UpsertRelationship(ctx, people.Relationship{ID: prefix + "BC", Source: b.ID, Target: c.ID}))

	eligible, err := repo.PeopleForGraph(ctx)
	require.NoError(t, err)
	ids := map[string]bool{}
	for _, p := range eligible {
		ids[p.ID] = true
	}
	assert.True(t, ids[a.ID])
	assert.True(t, ids[b.ID])
	assert.False(t, ids[c.ID])

	rels, err := repo.RelationshipsAmong(ctx, []string{a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, prefix+"AB", rels[0].ID)
	require.Len(t, rels[0].Statuses, 1)
	assert.Equal(t, people.StatusDating, rels[0].Statuses[0].Status)
	assert.Nil(t, rels[0].Statuses[0].DateEnd)
}

func TestRepository_UpsertRelationshipMissingEndpoint(t *testing.T) {
	repo, _ := newTestRepository(t)

	err := repo.UpsertRelationship(context.Background(), people.Relationship{ID: "dangling", Source: "nobody-1", Target: "nobody-2"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
}

func TestRepository_VerificationTokens(t *testing.T) {
	repo, driver := newTestRepository(t)
	ctx := context.Background()
	token := "test-token-" + time.Now().Format("20060102150405.000")
	cleanup(t, driver, "MATCH (t:VerificationToken {token: $token}) DELETE t", map[string]interface{}{"token": token})

	validUntil := time.Now().Add(time.Hour).Truncate(time.Second)
	_, err := repo.CreateVerificationToken(ctx, token, validUntil)
	require.NoError(t, err)

	found, err := repo.FindVerificationTokens(ctx, token)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.True(t, found[0].ValidUntil.Equal(validUntil))
}

func TestRepository_InviteCodes(t *testing.T) {
	repo, driver := newTestRepository(t)
	ctx := context.Background()
	prefix := "test-" + time.Now().Format("150405.000") + "-"
	cleanup(t, driver, "MATCH (i:InviteCode) WHERE i.code STARTS WITH $prefix DELETE i", map[string]interface{}{"prefix": prefix})

	created, err := repo.CreateInviteCodes(ctx, []string{prefix + "1", prefix + "2"})
	require.NoError(t, err)
	assert.Len(t, created, 2)

	existing, err := repo.ExistingInviteCodes(ctx, []string{prefix + "1", prefix + "3"})
	require.NoError(t, err)
	assert.Equal(t, []string{prefix + "1"}, existing)

	// the whole batch is rejected, including the fresh code
	_, err = repo.CreateInviteCodes(ctx, []string{prefix + "3", prefix + "2"})
	var taken *apperrors.ErrInviteCodeTaken
	require.ErrorAs(t, err, &taken)
	existing, err = repo.ExistingInviteCodes(ctx, []string{prefix + "3"})
	require.NoError(t, err)
	assert.Empty(t, existing)

	redeemed, err := repo.RedeemInviteCode(ctx, prefix+"1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", *redeemed.UserID)

	_, err = repo.RedeemInviteCode(ctx, prefix+"1", "user-2")
	var already *apperrors.ErrInviteCodeRedeemed
	assert.ErrorAs(t, err, &already)
}
