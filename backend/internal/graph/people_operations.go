package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"trojsten-graph/backend/internal/people"
	apperrors "trojsten-graph/backend/pkg/errors"
)

// ============================================================================
// Person and Group Operations
// ============================================================================

// PeopleForGraph returns every visible, non-deleted person with memberships,
// ordered by id. The WHERE clause mirrors people.IsGraphEligible.
func (r *Repository) PeopleForGraph(ctx context.Context) ([]people.Person, error) {
	query := `
		MATCH (p:Person)
		WHERE p.visible = true AND coalesce(p.deleted, false) = false
		OPTIONAL MATCH (p)-[m:MEMBER_OF]->(g:Group)
		WITH p, m, g ORDER BY m.date_started
		WITH p, collect(CASE WHEN g IS NULL THEN NULL ELSE {
			date_started: m.date_started,
			date_ended: m.date_ended,
			group_name: g.name,
			group_category: g.category
		} END) AS memberships
		RETURN
			p.id AS id,
			p.first_name AS first_name,
			p.last_name AS last_name,
			p.maiden_name AS maiden_name,
			p.nickname AS nickname,
			p.gender AS gender,
			p.birth_date AS birth_date,
			p.death_date AS death_date,
			p.visible AS visible,
			coalesce(p.deleted, false) AS deleted,
			memberships
		ORDER BY id
	`

	records, err := r.readAll(ctx, "people for graph", query, nil)
	if err != nil {
		return nil, err
	}

	result := make([]people.Person, 0, len(records))
	for _, record := range records {
		p := people.Person{
			ID:         getStringFromRecord(record, "id"),
			FirstName:  getStringFromRecord(record, "first_name"),
			LastName:   getStringFromRecord(record, "last_name"),
			MaidenName: getStringFromRecord(record, "maiden_name"),
			Nickname:   getStringFromRecord(record, "nickname"),
			Gender:     people.Gender(getInt64FromRecord(record, "gender")),
			BirthDate:  getStringFromRecord(record, "birth_date"),
			DeathDate:  getStringFromRecord(record, "death_date"),
			Visible:    getBoolFromRecord(record, "visible"),
			Deleted:    getBoolFromRecord(record, "deleted"),
		}
		for _, m := range getMapSliceFromRecord(record, "memberships") {
			p.Memberships = append(p.Memberships, people.Membership{
				DateStarted:   getStringFromMap(m, "date_started"),
				DateEnded:     getOptionalStringFromMap(m, "date_ended"),
				GroupName:     getStringFromMap(m, "group_name"),
				GroupCategory: people.GroupCategory(getInt64FromMap(m, "group_category")),
			})
		}
		result = append(result, p)
	}

	return result, nil
}

// UpsertPerson creates or replaces a person's attributes
func (r *Repository) UpsertPerson(ctx context.Context, p people.Person) error {
	if p.ID == "" {
		return apperrors.NewValidationFailed("id", "is required")
	}
	if !p.Gender.Valid() {
		return apperrors.NewValidationFailed("gender", "unknown value")
	}

	query := `
		MERGE (p:Person {id: $id})
		SET p.first_name = $firstName,
		    p.last_name = $lastName,
		    p.maiden_name = $maidenName,
		    p.nickname = $nickname,
		    p.gender = $gender,
		    p.birth_date = $birthDate,
		    p.death_date = $deathDate,
		    p.visible = $visible,
		    p.deleted = $deleted
	`

	err := r.write(ctx, "upsert person", query, map[string]interface{}{
		"id":         p.ID,
		"firstName":  p.FirstName,
		"lastName":   p.LastName,
		"maidenName": p.MaidenName,
		"nickname":   p.Nickname,
		"gender":     int64(p.Gender),
		"birthDate":  nullIfEmpty(p.BirthDate),
		"deathDate":  nullIfEmpty(p.DeathDate),
		"visible":    p.Visible,
		"deleted":    p.Deleted,
	})
	if err != nil {
		return err
	}

	r.logger.Debug("Person upserted", zap.String("person_id", p.ID))
	return nil
}

// UpsertGroup creates or renames a group
func (r *Repository) UpsertGroup(ctx context.Context, g people.Group) error {
	if g.ID == "" || g.Name == "" {
		return apperrors.NewValidationFailed("group", "id and name are required")
	}
	if !g.Category.Valid() {
		return apperrors.NewValidationFailed("category", "unknown value")
	}

	query := `
		MERGE (g:Group {id: $id})
		SET g.name = $name, g.category = $category
	`
	return r.write(ctx, "upsert group", query, map[string]interface{}{
		"id":       g.ID,
		"name":     g.Name,
		"category": int64(g.Category),
	})
}

// AddMembership links a person to a group for a period
func (r *Repository) AddMembership(ctx context.Context, personID, groupID string, dateStarted string, dateEnded *string) error {
	query := `
		MATCH (p:Person {id: $personID})
		MATCH (g:Group {id: $groupID})
		MERGE (p)-[m:MEMBER_OF {date_started: $dateStarted}]->(g)
		SET m.date_ended = $dateEnded
	`
	return r.write(ctx, "add membership", query, map[string]interface{}{
		"personID":    personID,
		"groupID":     groupID,
		"dateStarted": dateStarted,
		"dateEnded":   optionalString(dateEnded),
	})
}

// GroupNamesByCategory returns the names of all groups in a category
func (r *Repository) GroupNamesByCategory(ctx context.Context, category people.GroupCategory) ([]string, error) {
	query := `
		MATCH (g:Group {category: $category})
		RETURN g.name AS name
		ORDER BY name
	`

	records, err := r.readAll(ctx, "groups by category", query, map[string]interface{}{
		"category": int64(category),
	})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(records))
	for _, record := range records {
		if name := getStringFromRecord(record, "name"); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// ============================================================================
// Relationship Operations
// ============================================================================

// RelationshipsAmong returns relationships with both endpoints in personIDs,
// statuses ordered by start date, relationships ordered by id.
func (r *Repository) RelationshipsAmong(ctx context.Context, personIDs []string) ([]people.Relationship, error) {
	if len(personIDs) == 0 {
		return []people.Relationship{}, nil
	}

	query := `
		MATCH (r:Relationship)-[:SOURCE]->(s:Person), (r)-[:TARGET]->(t:Person)
		WHERE s.id IN $ids AND t.id IN $ids
		OPTIONAL MATCH (r)-[:HAS_STATUS]->(st:RelationshipStatus)
		WITH r, s, t, st ORDER BY st.date_start
		WITH r, s, t, collect(CASE WHEN st IS NULL THEN NULL ELSE {
			status: st.status,
			date_start: st.date_start,
			date_end: st.date_end
		} END) AS statuses
		RETURN r.id AS id, s.id AS source, t.id AS target, statuses
		ORDER BY id
	`

	records, err := r.readAll(ctx, "relationships among people", query, map[string]interface{}{
		"ids": personIDs,
	})
	if err != nil {
		return nil, err
	}

	result := make([]people.Relationship, 0, len(records))
	for _, record := range records {
		rel := people.Relationship{
			ID:       getStringFromRecord(record, "id"),
			Source:   getStringFromRecord(record, "source"),
			Target:   getStringFromRecord(record, "target"),
			Statuses: []people.RelationshipStatus{},
		}
		for _, st := range getMapSliceFromRecord(record, "statuses") {
			rel.Statuses = append(rel.Statuses, people.RelationshipStatus{
				Status:    people.RelationshipStatusType(getInt64FromMap(st, "status")),
				DateStart: getStringFromMap(st, "date_start"),
				DateEnd:   getOptionalStringFromMap(st, "date_end"),
			})
		}
		result = append(result, rel)
	}

	return result, nil
}

// UpsertRelationship replaces a relationship's endpoints and status history
func (r *Repository) UpsertRelationship(ctx context.Context, rel people.Relationship) error {
	if rel.ID == "" || rel.Source == "" || rel.Target == "" {
		return apperrors.NewValidationFailed("relationship", "id, source and target are required")
	}
	statuses := make([]interface{}, 0, len(rel.Statuses))
	for _, st := range rel.Statuses {
		if !st.Status.Valid() {
			return apperrors.NewValidationFailed("status", "unknown value")
		}
		statuses = append(statuses, map[string]interface{}{
			"status":     int64(st.Status),
			"date_start": st.DateStart,
			"date_end":   optionalString(st.DateEnd),
		})
	}

	session := r.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		params := map[string]interface{}{
			"id":       rel.ID,
			"source":   rel.Source,
			"target":   rel.Target,
			"statuses": statuses,
		}

		if _, err := tx.Run(ctx, `
			MERGE (r:Relationship {id: $id})
			WITH r
			OPTIONAL MATCH (r)-[l:SOURCE|TARGET]->()
			DELETE l
		`, params); err != nil {
			return nil, err
		}
		if _, err := tx.Run(ctx, `
			MATCH (r:Relationship {id: $id})-[:HAS_STATUS]->(st:RelationshipStatus)
			DETACH DELETE st
		`, params); err != nil {
			return nil, err
		}

		linked, err := tx.Run(ctx, `
			MATCH (r:Relationship {id: $id})
			MATCH (s:Person {id: $source})
			MATCH (t:Person {id: $target})
			CREATE (r)-[:SOURCE]->(s), (r)-[:TARGET]->(t)
			RETURN r.id AS id
		`, params)
		if err != nil {
			return nil, err
		}
		if !linked.Next(ctx) {
			if err := linked.Err(); err != nil {
				return nil, err
			}
			return nil, apperrors.NewValidationFailed("relationship", "source or target person not found")
		}

		_, err = tx.Run(ctx, `
			MATCH (r:Relationship {id: $id})
			UNWIND $statuses AS st
			CREATE (r)-[:HAS_STATUS]->(:RelationshipStatus {
				status: st.status,
				date_start: st.date_start,
				date_end: st.date_end
			})
		`, params)
		return nil, err
	})
	if err != nil {
		if apperrors.IsErrorType(err, apperrors.ErrorTypeValidation) {
			return err
		}
		return apperrors.NewGraphQueryFailed("upsert relationship", err)
	}

	r.logger.Debug("Relationship upserted",
		zap.String("relationship_id", rel.ID),
		zap.Int("statuses", len(rel.Statuses)),
	)
	return nil
}
