package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"camphq/internal/database"
	"camphq/internal/models"
)

// CamperRepository handles database operations for campers and their
// parent links
type CamperRepository struct {
	db *database.DB
}

// NewCamperRepository creates a new camper repository
func NewCamperRepository(db *database.DB) *CamperRepository {
	return &CamperRepository{db: db}
}

// CreateCamper inserts a new camper record
func (r *CamperRepository) CreateCamper(firstName, lastName, dateOfBirth, emergencyInfo string) (*models.Camper, error) {
	query := `
		INSERT INTO campers (first_name, last_name, date_of_birth, emergency_info)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, firstName, lastName, dateOfBirth, emergencyInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to create camper: %w", err)
	}

	return &models.Camper{
		ID:            id,
		FirstName:     firstName,
		LastName:      lastName,
		DateOfBirth:   dateOfBirth,
		EmergencyInfo: emergencyInfo,
		CreatedAt:     time.Now(),
	}, nil
}

// CreateCamperForParent creates a camper and the owning parent link in one
// transaction, so a failed link never leaves an orphaned camper.
func (r *CamperRepository) CreateCamperForParent(parentID int64, firstName, lastName, dateOfBirth, emergencyInfo string) (*models.ParentCamper, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	camperID, err := tx.ExecReturningID(`
		INSERT INTO campers (first_name, last_name, date_of_birth, emergency_info)
		VALUES (?, ?, ?, ?)
	`, firstName, lastName, dateOfBirth, emergencyInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to create camper: %w", err)
	}

	linkID, err := tx.ExecReturningID(`
		INSERT INTO parent_campers (parent_user_id, camper_id)
		VALUES (?, ?)
	`, parentID, camperID)
	if err != nil {
		return nil, fmt.Errorf("failed to link camper to parent: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.ParentCamper{
		ID:        linkID,
		ParentID:  parentID,
		CamperID:  camperID,
		CreatedAt: time.Now(),
		Camper: &models.Camper{
			ID:            camperID,
			FirstName:     firstName,
			LastName:      lastName,
			DateOfBirth:   dateOfBirth,
			EmergencyInfo: emergencyInfo,
			CreatedAt:     time.Now(),
		},
	}, nil
}

// GetCamperByID retrieves a camper by ID
func (r *CamperRepository) GetCamperByID(id int64) (*models.Camper, error) {
	query := `
		SELECT id, first_name, last_name, COALESCE(date_of_birth, ''), COALESCE(emergency_info, ''), created_at
		FROM campers
		WHERE id = ?
	`
	camper := &models.Camper{}
	err := r.db.QueryRow(query, id).Scan(
		&camper.ID,
		&camper.FirstName,
		&camper.LastName,
		&camper.DateOfBirth,
		&camper.EmergencyInfo,
		&camper.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get camper: %w", err)
	}

	return camper, nil
}

// ListCampers retrieves all campers, newest first
func (r *CamperRepository) ListCampers() ([]models.Camper, error) {
	query := `
		SELECT id, first_name, last_name, COALESCE(date_of_birth, ''), COALESCE(emergency_info, ''), created_at
		FROM campers
		ORDER BY id DESC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query campers: %w", err)
	}
	defer rows.Close()

	var campers []models.Camper
	for rows.Next() {
		var camper models.Camper
		if err := rows.Scan(
			&camper.ID,
			&camper.FirstName,
			&camper.LastName,
			&camper.DateOfBirth,
			&camper.EmergencyInfo,
			&camper.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan camper: %w", err)
		}
		campers = append(campers, camper)
	}

	return campers, rows.Err()
}

// ListByParent retrieves a parent's camper links with camper details, newest first
func (r *CamperRepository) ListByParent(parentID int64) ([]models.ParentCamper, error) {
	query := `
		SELECT pc.id, pc.parent_user_id, pc.camper_id, pc.created_at,
		       c.id, c.first_name, c.last_name, COALESCE(c.date_of_birth, ''), COALESCE(c.emergency_info, ''), c.created_at
		FROM parent_campers pc
		INNER JOIN campers c ON pc.camper_id = c.id
		WHERE pc.parent_user_id = ?
		ORDER BY pc.id DESC
	`
	rows, err := r.db.Query(query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query parent campers: %w", err)
	}
	defer rows.Close()

	var links []models.ParentCamper
	for rows.Next() {
		var link models.ParentCamper
		camper := &models.Camper{}
		if err := rows.Scan(
			&link.ID, &link.ParentID, &link.CamperID, &link.CreatedAt,
			&camper.ID, &camper.FirstName, &camper.LastName, &camper.DateOfBirth, &camper.EmergencyInfo, &camper.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan parent camper: %w", err)
		}
		link.Camper = camper
		links = append(links, link)
	}

	return links, rows.Err()
}

// IsOwnedBy checks whether a camper is linked to the given parent
func (r *CamperRepository) IsOwnedBy(parentID, camperID int64) (bool, error) {
	query := "SELECT COUNT(*) FROM parent_campers WHERE parent_user_id = ? AND camper_id = ?"
	var count int
	if err := r.db.QueryRow(query, parentID, camperID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check camper ownership: %w", err)
	}
	return count > 0, nil
}

// CamperIDsByParent returns the IDs of all campers linked to a parent
func (r *CamperRepository) CamperIDsByParent(parentID int64) ([]int64, error) {
	rows, err := r.db.Query("SELECT camper_id FROM parent_campers WHERE parent_user_id = ?", parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query camper ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan camper id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// CampersByIDs returns a lookup of camper id to camper for the given IDs
func (r *CamperRepository) CampersByIDs(ids []int64) (map[int64]models.Camper, error) {
	if len(ids) == 0 {
		return map[int64]models.Camper{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	query := fmt.Sprintf(`
		SELECT id, first_name, last_name, COALESCE(date_of_birth, ''), COALESCE(emergency_info, ''), created_at
		FROM campers
		WHERE id IN (%s)
	`, placeholders)

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query campers: %w", err)
	}
	defer rows.Close()

	campers := make(map[int64]models.Camper)
	for rows.Next() {
		var camper models.Camper
		if err := rows.Scan(
			&camper.ID,
			&camper.FirstName,
			&camper.LastName,
			&camper.DateOfBirth,
			&camper.EmergencyInfo,
			&camper.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan camper: %w", err)
		}
		campers[camper.ID] = camper
	}

	return campers, rows.Err()
}

// ParentEmailsForCamper returns the email, name pairs of all active parents
// linked to a camper. Used for enrollment notifications.
func (r *CamperRepository) ParentEmailsForCamper(camperID int64) ([]models.User, error) {
	query := `
		SELECT u.id, u.email, u.full_name
		FROM parent_campers pc
		INNER JOIN users u ON pc.parent_user_id = u.id
		WHERE pc.camper_id = ? AND u.is_active = ?
	`
	rows, err := r.db.Query(query, camperID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to query camper parents: %w", err)
	}
	defer rows.Close()

	var parents []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Email, &user.FullName); err != nil {
			return nil, fmt.Errorf("failed to scan parent: %w", err)
		}
		parents = append(parents, user)
	}

	return parents, rows.Err()
}
