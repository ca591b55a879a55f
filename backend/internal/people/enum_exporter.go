package people

import (
	"context"
	"fmt"
)

// GroupStore lists group names for the dynamic enum tables.
type GroupStore interface {
	GroupNamesByCategory(ctx context.Context, category GroupCategory) ([]string, error)
}

// EnumExporter builds the client lookup document.
type EnumExporter struct {
	store GroupStore
}

func NewEnumExporter(store GroupStore) *EnumExporter {
	return &EnumExporter{store: store}
}

// Export returns the static tables plus a name->name map of every seminar group.
func (e *EnumExporter) Export(ctx context.Context) (*EnumDocument, error) {
	names, err := e.store.GroupNamesByCategory(ctx, GroupCategorySeminar)
	if err != nil {
		return nil, fmt.Errorf("failed to load seminars: %w", err)
	}

	seminars := make(map[string]string, len(names))
	for _, name := range names {
		seminars[name] = name
	}

	return &EnumDocument{
		Relationships: RelationshipStatusLabels(),
		Genders:       GenderLabels(),
		Groups:        GroupCategoryLabels(),
		Seminars:      seminars,
	}, nil
}
