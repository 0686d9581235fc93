package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"camphq/internal/database"
	"camphq/internal/models"
)

// GroupRepository handles database operations for groups and memberships
type GroupRepository struct {
	db *database.DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *database.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// CreateGroup inserts a new group in a camp year
func (r *GroupRepository) CreateGroup(campYearID int64, name, description string) (*models.Group, error) {
	query := `
		INSERT INTO camp_groups (camp_year_id, name, description)
		VALUES (?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, campYearID, name, description)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return &models.Group{
		ID:          id,
		CampYearID:  campYearID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}, nil
}

// GetByID retrieves a group by ID
func (r *GroupRepository) GetByID(id int64) (*models.Group, error) {
	query := `
		SELECT g.id, g.camp_year_id, g.name, COALESCE(g.description, ''), g.created_at,
		       cy.id, cy.year, cy.is_active, cy.created_at
		FROM camp_groups g
		INNER JOIN camp_years cy ON g.camp_year_id = cy.id
		WHERE g.id = ?
	`
	group := &models.Group{CampYear: &models.CampYear{}}
	err := r.db.QueryRow(query, id).Scan(
		&group.ID, &group.CampYearID, &group.Name, &group.Description, &group.CreatedAt,
		&group.CampYear.ID, &group.CampYear.Year, &group.CampYear.IsActive, &group.CampYear.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return group, nil
}

// ListGroups retrieves groups, newest first, optionally restricted to one camp year
func (r *GroupRepository) ListGroups(campYearID *int64) ([]models.Group, error) {
	query := `
		SELECT g.id, g.camp_year_id, g.name, COALESCE(g.description, ''), g.created_at,
		       cy.id, cy.year, cy.is_active, cy.created_at
		FROM camp_groups g
		INNER JOIN camp_years cy ON g.camp_year_id = cy.id
	`
	var args []any
	if campYearID != nil {
		query += " WHERE g.camp_year_id = ?"
		args = append(args, *campYearID)
	}
	query += " ORDER BY g.id DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		group := models.Group{CampYear: &models.CampYear{}}
		if err := rows.Scan(
			&group.ID, &group.CampYearID, &group.Name, &group.Description, &group.CreatedAt,
			&group.CampYear.ID, &group.CampYear.Year, &group.CampYear.IsActive, &group.CampYear.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}

	return groups, rows.Err()
}

// AddMember assigns a camper to a group
func (r *GroupRepository) AddMember(groupID, camperID int64) (*models.GroupMembership, error) {
	query := "INSERT INTO group_memberships (group_id, camper_id) VALUES (?, ?)"
	id, err := r.db.ExecReturningID(query, groupID, camperID)
	if err != nil {
		return nil, fmt.Errorf("failed to add group member: %w", err)
	}

	return &models.GroupMembership{
		ID:        id,
		GroupID:   groupID,
		CamperID:  camperID,
		CreatedAt: time.Now(),
	}, nil
}

// HasMember checks whether a camper is already in a group
func (r *GroupRepository) HasMember(groupID, camperID int64) (bool, error) {
	query := "SELECT COUNT(*) FROM group_memberships WHERE group_id = ? AND camper_id = ?"
	var count int
	if err := r.db.QueryRow(query, groupID, camperID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check group membership: %w", err)
	}
	return count > 0, nil
}

// MembershipsForCampers retrieves all group memberships of the given campers
func (r *GroupRepository) MembershipsForCampers(camperIDs []int64) ([]models.GroupMembership, error) {
	if len(camperIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(camperIDs)), ", ")
	query := fmt.Sprintf(`
		SELECT id, group_id, camper_id, created_at
		FROM group_memberships
		WHERE camper_id IN (%s)
	`, placeholders)

	args := make([]any, len(camperIDs))
	for i, id := range camperIDs {
		args[i] = id
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query memberships: %w", err)
	}
	defer rows.Close()

	var memberships []models.GroupMembership
	for rows.Next() {
		var m models.GroupMembership
		if err := rows.Scan(&m.ID, &m.GroupID, &m.CamperID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, m)
	}

	return memberships, rows.Err()
}

// GroupNamesByID returns a lookup of group id to name for the given groups
func (r *GroupRepository) GroupNamesByID(groupIDs []int64) (map[int64]string, error) {
	if len(groupIDs) == 0 {
		return map[int64]string{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(groupIDs)), ", ")
	query := fmt.Sprintf("SELECT id, name FROM camp_groups WHERE id IN (%s)", placeholders)

	args := make([]any, len(groupIDs))
	for i, id := range groupIDs {
		args[i] = id
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query group names: %w", err)
	}
	defer rows.Close()

	names := make(map[int64]string)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan group name: %w", err)
		}
		names[id] = name
	}

	return names, rows.Err()
}
