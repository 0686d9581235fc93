package repository

import (
	"database/sql"
	"fmt"
	"time"

	"camphq/internal/database"
	"camphq/internal/models"
)

// EnrollmentRepository handles database operations for enrollments
type EnrollmentRepository struct {
	db *database.DB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *database.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

const enrollmentJoin = `
	SELECT e.id, e.camp_year_id, e.camper_id, e.status, COALESCE(e.notes, ''), e.created_at,
	       cy.id, cy.year, cy.is_active, cy.created_at,
	       c.id, c.first_name, c.last_name, COALESCE(c.date_of_birth, ''), COALESCE(c.emergency_info, ''), c.created_at
	FROM enrollments e
	INNER JOIN camp_years cy ON e.camp_year_id = cy.id
	INNER JOIN campers c ON e.camper_id = c.id
`

func scanEnrollment(row interface{ Scan(...any) error }) (*models.Enrollment, error) {
	enr := &models.Enrollment{CampYear: &models.CampYear{}, Camper: &models.Camper{}}
	err := row.Scan(
		&enr.ID, &enr.CampYearID, &enr.CamperID, &enr.Status, &enr.Notes, &enr.CreatedAt,
		&enr.CampYear.ID, &enr.CampYear.Year, &enr.CampYear.IsActive, &enr.CampYear.CreatedAt,
		&enr.Camper.ID, &enr.Camper.FirstName, &enr.Camper.LastName,
		&enr.Camper.DateOfBirth, &enr.Camper.EmergencyInfo, &enr.Camper.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan enrollment: %w", err)
	}
	return enr, nil
}

// CreateEnrollment inserts a pending enrollment for a camper and camp year
func (r *EnrollmentRepository) CreateEnrollment(campYearID, camperID int64) (*models.Enrollment, error) {
	query := `
		INSERT INTO enrollments (camp_year_id, camper_id, status)
		VALUES (?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, campYearID, camperID, models.EnrollmentPending)
	if err != nil {
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}

	return &models.Enrollment{
		ID:         id,
		CampYearID: campYearID,
		CamperID:   camperID,
		Status:     models.EnrollmentPending,
		CreatedAt:  time.Now(),
	}, nil
}

// GetByID retrieves an enrollment with its camp year and camper
func (r *EnrollmentRepository) GetByID(id int64) (*models.Enrollment, error) {
	return scanEnrollment(r.db.QueryRow(enrollmentJoin+" WHERE e.id = ?", id))
}

// Exists checks whether a camper is already enrolled for a camp year
func (r *EnrollmentRepository) Exists(campYearID, camperID int64) (bool, error) {
	query := "SELECT COUNT(*) FROM enrollments WHERE camp_year_id = ? AND camper_id = ?"
	var count int
	if err := r.db.QueryRow(query, campYearID, camperID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return count > 0, nil
}

// ListByParent retrieves enrollments of all campers linked to a parent,
// newest first, optionally restricted to one camp year.
func (r *EnrollmentRepository) ListByParent(parentID int64, campYearID *int64) ([]models.Enrollment, error) {
	query := enrollmentJoin + `
		INNER JOIN parent_campers pc ON pc.camper_id = c.id
		WHERE pc.parent_user_id = ?
	`
	args := []any{parentID}
	if campYearID != nil {
		query += " AND e.camp_year_id = ?"
		args = append(args, *campYearID)
	}
	query += " ORDER BY e.id DESC"

	return r.list(query, args...)
}

// ListAll retrieves enrollments for the admin review queue, newest first,
// optionally filtered by camp year and status.
func (r *EnrollmentRepository) ListAll(campYearID *int64, status string) ([]models.Enrollment, error) {
	query := enrollmentJoin + " WHERE 1 = 1"
	var args []any
	if campYearID != nil {
		query += " AND e.camp_year_id = ?"
		args = append(args, *campYearID)
	}
	if status != "" {
		query += " AND e.status = ?"
		args = append(args, status)
	}
	query += " ORDER BY e.id DESC"

	return r.list(query, args...)
}

func (r *EnrollmentRepository) list(query string, args ...any) ([]models.Enrollment, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []models.Enrollment
	for rows.Next() {
		enr, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, *enr)
	}

	return enrollments, rows.Err()
}

// UpdateStatus sets an enrollment's status and notes
func (r *EnrollmentRepository) UpdateStatus(id int64, status, notes string) error {
	query := "UPDATE enrollments SET status = ?, notes = ? WHERE id = ?"
	if _, err := r.db.Exec(query, status, notes, id); err != nil {
		return fmt.Errorf("failed to update enrollment: %w", err)
	}
	return nil
}
