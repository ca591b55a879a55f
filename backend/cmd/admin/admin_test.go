package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"trojsten-graph/backend/internal/access"
	"trojsten-graph/backend/internal/invites"
	"trojsten-graph/backend/internal/people"
	"trojsten-graph/backend/pkg/config"
	apperrors "trojsten-graph/backend/pkg/errors"
)

type fakeStore struct {
	mu            sync.Mutex
	schema        int
	codes         []invites.InviteCode
	tokens        []access.VerificationToken
	people        map[string]people.Person
	groups        map[string]people.Group
	memberships   int
	relationships map[string]people.Relationship
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		people:        map[string]people.Person{},
		groups:        map[string]people.Group{},
		relationships: map[string]people.Relationship{},
	}
}

func (s *fakeStore) ExistingInviteCodes(ctx context.Context, codes []string) ([]string, error) {
	return nil, nil
}

func (s *fakeStore) CreateInviteCodes(ctx context.Context, codes []string) ([]invites.InviteCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]invites.InviteCode, 0, len(codes))
	for _, c := range codes {
		out = append(out, invites.InviteCode{Code: c, CreatedAt: time.Now()})
	}
	s.codes = append(s.codes, out...)
	return out, nil
}

func (s *fakeStore) RedeemInviteCode(ctx context.Context, code, userID string) (*invites.InviteCode, error) {
	return nil, apperrors.NewInviteCodeNotFound(code)
}

func (s *fakeStore) ListInviteCodes(ctx context.Context) ([]invites.InviteCode, error) {
	return s.codes, nil
}

func (s *fakeStore) EnsureSchema(ctx context.Context) error {
	s.schema++
	return nil
}

func (s *fakeStore) CreateVerificationToken(ctx context.Context, token string, validUntil time.Time) (*access.VerificationToken, error) {
	t := access.VerificationToken{Token: token, ValidUntil: validUntil}
	s.tokens = append(s.tokens, t)
	return &t, nil
}

func (s *fakeStore) ListVerificationTokens(ctx context.Context) ([]access.VerificationToken, error) {
	return s.tokens, nil
}

func (s *fakeStore) UpsertPerson(ctx context.Context, p people.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.people[p.ID] = p
	return nil
}

func (s *fakeStore) UpsertGroup(ctx context.Context, g people.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[g.ID] = g
	return nil
}

func (s *fakeStore) AddMembership(ctx context.Context, personID, groupID string, dateStarted string, dateEnded *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.people[personID]; !ok {
		return errors.New("unknown person " + personID)
	}
	if _, ok := s.groups[groupID]; !ok {
		return errors.New("unknown group " + groupID)
	}
	s.memberships++
	return nil
}

func (s *fakeStore) UpsertRelationship(ctx context.Context, rel people.Relationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range []string{rel.Source, rel.Target} {
		if _, ok := s.people[id]; !ok {
			return errors.New("unknown person " + id)
		}
	}
	s.relationships[rel.ID] = rel
	return nil
}

// run executes the CLI against store and returns stdout and stderr
func run(t *testing.T, store *fakeStore, args ...string) (string, string, error) {
	t.Helper()
	closed := false
	a := &app{open: func(ctx context.Context) (*env, error) {
		return &env{
			cfg:   &config.Config{InviteMaxBatch: 1000, TokenDefaultTTL: 24 * time.Hour},
			log:   zap.NewNop(),
			store: store,
			close: func() { closed = true },
		}, nil
	}}

	var stdout, stderr bytes.Buffer
	root := newRootCmd(a)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	if err == nil {
		assert.True(t, closed, "environment should be closed after the command")
	}
	return stdout.String(), stderr.String(), err
}

func TestInvitesGenerate(t *testing.T) {
	store := newFakeStore()

	stdout, stderr, err := run(t, store, "invites", "generate", "--number", "3")
	require.NoError(t, err)

	lines := strings.Fields(stdout)
	assert.Len(t, lines, 3)
	for _, code := range lines {
		assert.Len(t, code, invites.CodeLength)
	}
	assert.Contains(t, stderr, "Successfully created 3 codes")
	assert.Len(t, store.codes, 3)
}

func TestInvitesGenerate_RejectsZero(t *testing.T) {
	store := newFakeStore()

	_, _, err := run(t, store, "invites", "generate", "-n", "0")
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
	assert.Empty(t, store.codes)
}

func TestInvitesGenerate_RequiresNumber(t *testing.T) {
	_, _, err := run(t, newFakeStore(), "invites", "generate")
	assert.Error(t, err)
}

func TestInvitesList(t *testing.T) {
	user := "42"
	store := newFakeStore()
	store.codes = []invites.InviteCode{
		{Code: "aaaaaaaaaaaaaaaa"},
		{Code: "bbbbbbbbbbbbbbbb", UserID: &user},
	}

	stdout, _, err := run(t, store, "invites", "list", "--base-url", "https://graph.example.org/")
	require.NoError(t, err)

	assert.Contains(t, stdout, "https://graph.example.org/accounts/register/?code=aaaaaaaaaaaaaaaa")
	assert.NotContains(t, stdout, "code=bbbbbbbbbbbbbbbb")
	assert.Contains(t, stdout, "42")
}

func TestTokensIssue(t *testing.T) {
	store := newFakeStore()
	before := time.Now()

	stdout, _, err := run(t, store, "tokens", "issue", "--valid-for", "1h", "--token", "letmein")
	require.NoError(t, err)

	require.Len(t, store.tokens, 1)
	assert.Equal(t, "letmein", store.tokens[0].Token)
	assert.WithinDuration(t, before.Add(time.Hour), store.tokens[0].ValidUntil, time.Minute)
	assert.Contains(t, stdout, "http://localhost:8080/graph/v2/?token=letmein")
}

func TestTokensIssue_DefaultsToConfiguredTTL(t *testing.T) {
	store := newFakeStore()

	_, _, err := run(t, store, "tokens", "issue")
	require.NoError(t, err)

	require.Len(t, store.tokens, 1)
	assert.NotEmpty(t, store.tokens[0].Token)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), store.tokens[0].ValidUntil, time.Minute)
}

func TestTokensIssue_RejectsNegativeLifetime(t *testing.T) {
	store := newFakeStore()

	_, _, err := run(t, store, "tokens", "issue", "--valid-for=-1h")
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
	assert.Empty(t, store.tokens)
}

func TestTokensList(t *testing.T) {
	store := newFakeStore()
	store.tokens = []access.VerificationToken{
		{Token: "old", ValidUntil: time.Now().Add(-time.Hour)},
		{Token: "new", ValidUntil: time.Now().Add(time.Hour)},
	}

	stdout, _, err := run(t, store, "tokens", "list")
	require.NoError(t, err)

	for _, line := range strings.Split(stdout, "\n") {
		switch {
		case strings.HasPrefix(line, "old"):
			assert.Contains(t, line, "expired")
		case strings.HasPrefix(line, "new"):
			assert.Contains(t, line, "active")
		}
	}
}

func TestMigrate(t *testing.T) {
	store := newFakeStore()

	_, _, err := run(t, store, "migrate")
	require.NoError(t, err)
	assert.Equal(t, 1, store.schema)
}

func TestSeed(t *testing.T) {
	store := newFakeStore()

	stdout, _, err := run(t, store, "seed")
	require.NoError(t, err)

	assert.Len(t, store.people, len(seedPeople))
	assert.Len(t, store.groups, len(seedGroups))
	assert.Equal(t, len(seedMemberships), store.memberships)
	assert.Len(t, store.relationships, len(seedRelationships))
	assert.Contains(t, stdout, "Seeded")

	// a second run converges on the same graph
	_, _, err = run(t, store, "seed")
	require.NoError(t, err)
	assert.Len(t, store.people, len(seedPeople))
	assert.Len(t, store.relationships, len(seedRelationships))
}

func TestSeed_HasTwoSeminars(t *testing.T) {
	seminars := 0
	for _, g := range seedGroups {
		if g.Category == people.GroupCategorySeminar {
			seminars++
		}
	}
	assert.Equal(t, 2, seminars)
}
