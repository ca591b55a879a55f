package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"trojsten-graph/backend/internal/people"
)

type seedMembership struct {
	personID, groupID string
	started           string
	ended             *string
}

func strPtr(s string) *string { return &s }

var (
	seedGroups = []people.Group{
		{ID: "seed-group-ksp", Name: "KSP", Category: people.GroupCategorySeminar},
		{ID: "seed-group-fks", Name: "FKS", Category: people.GroupCategorySeminar},
		{ID: "seed-group-gjh", Name: "Gymnazium Jura Hronca", Category: people.GroupCategoryHighSchool},
		{ID: "seed-group-fmfi", Name: "FMFI UK", Category: people.GroupCategoryUniversity},
	}

	seedPeople = []people.Person{
		{ID: "seed-anna", FirstName: "Anna", LastName: "Kralova", MaidenName: "Novakova", Gender: people.GenderFemale, BirthDate: "1994-02-11", Visible: true},
		{ID: "seed-boris", FirstName: "Boris", LastName: "Kral", Nickname: "Bobo", Gender: people.GenderMale, BirthDate: "1993-07-30", Visible: true},
		{ID: "seed-cyril", FirstName: "Cyril", LastName: "Hudec", Gender: people.GenderMale, Visible: true},
		{ID: "seed-dana", FirstName: "Dana", LastName: "Hudecova", Gender: people.GenderFemale, Visible: true},
		{ID: "seed-emil", FirstName: "Emil", LastName: "Skryty", Gender: people.GenderOther, Visible: false},
	}

	seedMemberships = []seedMembership{
		{"seed-anna", "seed-group-ksp", "2009-09-01", strPtr("2013-06-30")},
		{"seed-anna", "seed-group-gjh", "2009-09-01", strPtr("2013-06-30")},
		{"seed-boris", "seed-group-ksp", "2008-09-01", strPtr("2012-06-30")},
		{"seed-boris", "seed-group-fmfi", "2012-09-01", nil},
		{"seed-cyril", "seed-group-fks", "2010-09-01", nil},
		{"seed-dana", "seed-group-fks", "2011-09-01", nil},
		{"seed-emil", "seed-group-ksp", "2012-09-01", nil},
	}

	seedRelationships = []people.Relationship{
		{ID: "seed-rel-anna-boris", Source: "seed-anna", Target: "seed-boris", Statuses: []people.RelationshipStatus{
			{Status: people.StatusDating, DateStart: "2012-03-01", DateEnd: strPtr("2016-08-20")},
			{Status: people.StatusEngaged, DateStart: "2016-08-20", DateEnd: strPtr("2017-06-10")},
			{Status: people.StatusMarried, DateStart: "2017-06-10"},
		}},
		{ID: "seed-rel-cyril-dana", Source: "seed-cyril", Target: "seed-dana", Statuses: []people.RelationshipStatus{
			{Status: people.StatusSibling, DateStart: "1995-01-01"},
		}},
		{ID: "seed-rel-boris-cyril", Source: "seed-boris", Target: "seed-cyril", Statuses: []people.RelationshipStatus{
			{Status: people.StatusRumour, DateStart: "2014-05-01", DateEnd: strPtr("2014-06-01")},
		}},
		{ID: "seed-rel-dana-emil", Source: "seed-dana", Target: "seed-emil", Statuses: []people.RelationshipStatus{
			{Status: people.StatusDating, DateStart: "2015-02-14"},
		}},
	}
)

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load a small sample graph; safe to run repeatedly",
		RunE: a.withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			if err := seed(cmd.Context(), e.store); err != nil {
				return err
			}
			e.log.Info("Seed data loaded",
				zap.Int("people", len(seedPeople)),
				zap.Int("groups", len(seedGroups)),
				zap.Int("relationships", len(seedRelationships)),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d people, %d groups, %d relationships\n",
				len(seedPeople), len(seedGroups), len(seedRelationships))
			return nil
		}),
	}
}

// seed writes nodes concurrently, then the edges that need both ends present
func seed(ctx context.Context, store adminStore) error {
	nodes, nctx := errgroup.WithContext(ctx)
	for _, g := range seedGroups {
		g := g
		nodes.Go(func() error { return store.UpsertGroup(nctx, g) })
	}
	for _, p := range seedPeople {
		p := p
		nodes.Go(func() error { return store.UpsertPerson(nctx, p) })
	}
	if err := nodes.Wait(); err != nil {
		return fmt.Errorf("failed to seed nodes: %w", err)
	}

	edges, ectx := errgroup.WithContext(ctx)
	for _, m := range seedMemberships {
		m := m
		edges.Go(func() error { return store.AddMembership(ectx, m.personID, m.groupID, m.started, m.ended) })
	}
	for _, rel := range seedRelationships {
		rel := rel
		edges.Go(func() error { return store.UpsertRelationship(ectx, rel) })
	}
	if err := edges.Wait(); err != nil {
		return fmt.Errorf("failed to seed edges: %w", err)
	}
	return nil
}
