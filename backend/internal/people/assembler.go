package people

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// GraphStore is the persistence collaborator the assembler reads from.
type GraphStore interface {
	// PeopleForGraph returns every graph-eligible person.
	PeopleForGraph(ctx context.Context) ([]Person, error)
	// RelationshipsAmong returns relationships whose both endpoints are in personIDs.
	RelationshipsAmong(ctx context.Context, personIDs []string) ([]Relationship, error)
}

// Assembler shapes people and relationships into the graph document.
type Assembler struct {
	store  GraphStore
	logger *zap.Logger
}

// NewAssembler creates a new graph assembler
func NewAssembler(store GraphStore, logger *zap.Logger) *Assembler {
	return &Assembler{store: store, logger: logger}
}

// People returns the eligible person set in store order.
func (a *Assembler) People(ctx context.Context) ([]Person, error) {
	all, err := a.store.PeopleForGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load people: %w", err)
	}

	eligible := make([]Person, 0, len(all))
	for _, p := range all {
		if !IsGraphEligible(p) {
			continue
		}
		if p.Memberships == nil {
			p.Memberships = []Membership{}
		}
		eligible = append(eligible, p)
	}
	if dropped := len(all) - len(eligible); dropped > 0 {
		a.logger.Debug("Dropped ineligible people returned by store", zap.Int("count", dropped))
	}
	return eligible, nil
}

// Relationships returns the relationships among the eligible person set.
func (a *Assembler) Relationships(ctx context.Context) ([]Relationship, error) {
	nodes, err := a.People(ctx)
	if err != nil {
		return nil, err
	}
	return a.relationshipsAmong(ctx, nodes)
}

// Assemble builds the full nodes/edges document.
func (a *Assembler) Assemble(ctx context.Context) (*GraphDocument, error) {
	nodes, err := a.People(ctx)
	if err != nil {
		return nil, err
	}

	edges, err := a.relationshipsAmong(ctx, nodes)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("Graph assembled",
		zap.Int("nodes", len(nodes)),
		zap.Int("edges", len(edges)),
	)
	return &GraphDocument{Nodes: nodes, Edges: edges}, nil
}

// relationshipsAmong queries edges for nodes and drops any whose endpoint is
// not a node, so the document never carries a dangling edge.
func (a *Assembler) relationshipsAmong(ctx context.Context, nodes []Person) ([]Relationship, error) {
	ids := make([]string, len(nodes))
	members := make(map[string]struct{}, len(nodes))
	for i, p := range nodes {
		ids[i] = p.ID
		members[p.ID] = struct{}{}
	}

	rels, err := a.store.RelationshipsAmong(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load relationships: %w", err)
	}

	edges := make([]Relationship, 0, len(rels))
	for _, r := range rels {
		_, okSource := members[r.Source]
		_, okTarget := members[r.Target]
		if !okSource || !okTarget {
			a.logger.Warn("Dropped dangling relationship",
				zap.String("relationship_id", r.ID),
				zap.String("source", r.Source),
				zap.String("target", r.Target),
			)
			continue
		}
		if r.Statuses == nil {
			r.Statuses = []RelationshipStatus{}
		}
		edges = append(edges, r)
	}
	return edges, nil
}
