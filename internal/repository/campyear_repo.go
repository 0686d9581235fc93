package repository

import (
	"database/sql"
	"fmt"
	"time"

	"camphq/internal/database"
	"camphq/internal/models"
)

// CampYearRepository handles database operations for camp years
type CampYearRepository struct {
	db *database.DB
}

// NewCampYearRepository creates a new camp year repository
func NewCampYearRepository(db *database.DB) *CampYearRepository {
	return &CampYearRepository{db: db}
}

// CreateCampYear inserts a new camp year
func (r *CampYearRepository) CreateCampYear(year int, isActive bool) (*models.CampYear, error) {
	query := "INSERT INTO camp_years (year, is_active) VALUES (?, ?)"
	id, err := r.db.ExecReturningID(query, year, isActive)
	if err != nil {
		return nil, fmt.Errorf("failed to create camp year: %w", err)
	}

	return &models.CampYear{
		ID:        id,
		Year:      year,
		IsActive:  isActive,
		CreatedAt: time.Now(),
	}, nil
}

// GetByYear retrieves a camp year by its calendar year
func (r *CampYearRepository) GetByYear(year int) (*models.CampYear, error) {
	query := "SELECT id, year, is_active, created_at FROM camp_years WHERE year = ?"
	return r.scanYear(r.db.QueryRow(query, year))
}

func (r *CampYearRepository) scanYear(row *sql.Row) (*models.CampYear, error) {
	cy := &models.CampYear{}
	err := row.Scan(&cy.ID, &cy.Year, &cy.IsActive, &cy.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get camp year: %w", err)
	}
	return cy, nil
}
