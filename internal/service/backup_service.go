package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"camphq/internal/database"
)

// BackupData is the complete database backup structure. Sessions are
// deliberately not exported: they are short-lived and users simply log
// in again after a restore.
type BackupData struct {
	Version      string             `json:"version"`
	ExportedAt   time.Time          `json:"exported_at"`
	Users        []UserBackup       `json:"users"`
	Campers      []CamperBackup     `json:"campers"`
	CampYears    []CampYearBackup   `json:"camp_years"`
	Enrollments  []EnrollmentBackup `json:"enrollments"`
	Groups       []GroupBackup      `json:"groups"`
	Events       []EventBackup      `json:"events"`
}

// UserBackup is a user record for backup
type UserBackup struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	FullName      string    `json:"full_name"`
	Role          string    `json:"role"`
	IsActive      bool      `json:"is_active"`
	OAuthProvider string    `json:"oauth_provider"`
	OAuthSubject  string    `json:"oauth_subject"`
	CreatedAt     time.Time `json:"created_at"`
}

// CamperBackup is a camper record with its owning parents
type CamperBackup struct {
	ID            int64     `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	DateOfBirth   string    `json:"date_of_birth"`
	EmergencyInfo string    `json:"emergency_info"`
	CreatedAt     time.Time `json:"created_at"`
	ParentIDs     []int64   `json:"parent_ids"`
}

// CampYearBackup is a camp year record for backup
type CampYearBackup struct {
	ID        int64     `json:"id"`
	Year      int       `json:"year"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// EnrollmentBackup is an enrollment record for backup
type EnrollmentBackup struct {
	ID         int64     `json:"id"`
	CampYearID int64     `json:"camp_year_id"`
	CamperID   int64     `json:"camper_id"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}

// GroupBackup is a group record with its member campers
type GroupBackup struct {
	ID          int64     `json:"id"`
	CampYearID  int64     `json:"camp_year_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	MemberIDs   []int64   `json:"member_camper_ids"`
}

// EventBackup is a group event record for backup
type EventBackup struct {
	ID          int64     `json:"id"`
	GroupID     int64     `json:"group_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	CreatedAt   time.Time `json:"created_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	if err := s.exportUsers(backup); err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}
	if err := s.exportCampers(backup); err != nil {
		return fmt.Errorf("failed to export campers: %w", err)
	}
	if err := s.exportCampYears(backup); err != nil {
		return fmt.Errorf("failed to export camp years: %w", err)
	}
	if err := s.exportEnrollments(backup); err != nil {
		return fmt.Errorf("failed to export enrollments: %w", err)
	}
	if err := s.exportGroups(backup); err != nil {
		return fmt.Errorf("failed to export groups: %w", err)
	}
	if err := s.exportEvents(backup); err != nil {
		return fmt.Errorf("failed to export events: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	slog.Info("database exported",
		"path", outputPath,
		"users", len(backup.Users),
		"campers", len(backup.Campers),
		"camp_years", len(backup.CampYears),
		"enrollments", len(backup.Enrollments),
		"groups", len(backup.Groups),
		"events", len(backup.Events))

	return nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup stream
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	slog.Info("importing backup", "version", backup.Version, "exported_at", backup.ExportedAt)

	// Import in dependency order: parents and years before the rows that
	// reference them.
	if err := s.importUsers(backup.Users); err != nil {
		return fmt.Errorf("failed to import users: %w", err)
	}
	if err := s.importCampers(backup.Campers); err != nil {
		return fmt.Errorf("failed to import campers: %w", err)
	}
	if err := s.importCampYears(backup.CampYears); err != nil {
		return fmt.Errorf("failed to import camp years: %w", err)
	}
	if err := s.importEnrollments(backup.Enrollments); err != nil {
		return fmt.Errorf("failed to import enrollments: %w", err)
	}
	if err := s.importGroups(backup.Groups); err != nil {
		return fmt.Errorf("failed to import groups: %w", err)
	}
	if err := s.importEvents(backup.Events); err != nil {
		return fmt.Errorf("failed to import events: %w", err)
	}

	slog.Info("database import complete")
	return nil
}

func (s *BackupService) exportUsers(backup *BackupData) error {
	query := `
		SELECT id, email, password_hash, full_name, role, is_active,
		       COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), created_at
		FROM users ORDER BY id
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role,
			&u.IsActive, &u.OAuthProvider, &u.OAuthSubject, &u.CreatedAt); err != nil {
			return err
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportCampers(backup *BackupData) error {
	query := `
		SELECT id, first_name, last_name, COALESCE(date_of_birth, ''), COALESCE(emergency_info, ''), created_at
		FROM campers ORDER BY id
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	var campers []CamperBackup
	for rows.Next() {
		var c CamperBackup
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.DateOfBirth, &c.EmergencyInfo, &c.CreatedAt); err != nil {
			return err
		}
		campers = append(campers, c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range campers {
		parentRows, err := s.db.Query(
			"SELECT parent_user_id FROM parent_campers WHERE camper_id = ? ORDER BY parent_user_id",
			campers[i].ID)
		if err != nil {
			return err
		}
		for parentRows.Next() {
			var parentID int64
			if err := parentRows.Scan(&parentID); err != nil {
				parentRows.Close()
				return err
			}
			campers[i].ParentIDs = append(campers[i].ParentIDs, parentID)
		}
		if err := parentRows.Err(); err != nil {
			parentRows.Close()
			return err
		}
		parentRows.Close()
	}

	backup.Campers = campers
	return nil
}

func (s *BackupService) exportCampYears(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, year, is_active, created_at FROM camp_years ORDER BY year")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cy CampYearBackup
		if err := rows.Scan(&cy.ID, &cy.Year, &cy.IsActive, &cy.CreatedAt); err != nil {
			return err
		}
		backup.CampYears = append(backup.CampYears, cy)
	}
	return rows.Err()
}

func (s *BackupService) exportEnrollments(backup *BackupData) error {
	query := `
		SELECT id, camp_year_id, camper_id, status, COALESCE(notes, ''), created_at
		FROM enrollments ORDER BY id
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var e EnrollmentBackup
		if err := rows.Scan(&e.ID, &e.CampYearID, &e.CamperID, &e.Status, &e.Notes, &e.CreatedAt); err != nil {
			return err
		}
		backup.Enrollments = append(backup.Enrollments, e)
	}
	return rows.Err()
}

func (s *BackupService) exportGroups(backup *BackupData) error {
	query := `
		SELECT id, camp_year_id, name, COALESCE(description, ''), created_at
		FROM camp_groups ORDER BY id
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	var groups []GroupBackup
	for rows.Next() {
		var g GroupBackup
		if err := rows.Scan(&g.ID, &g.CampYearID, &g.Name, &g.Description, &g.CreatedAt); err != nil {
			return err
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range groups {
		memberRows, err := s.db.Query(
			"SELECT camper_id FROM group_memberships WHERE group_id = ? ORDER BY camper_id",
			groups[i].ID)
		if err != nil {
			return err
		}
		for memberRows.Next() {
			var camperID int64
			if err := memberRows.Scan(&camperID); err != nil {
				memberRows.Close()
				return err
			}
			groups[i].MemberIDs = append(groups[i].MemberIDs, camperID)
		}
		if err := memberRows.Err(); err != nil {
			memberRows.Close()
			return err
		}
		memberRows.Close()
	}

	backup.Groups = groups
	return nil
}

func (s *BackupService) exportEvents(backup *BackupData) error {
	query := `
		SELECT id, group_id, title, COALESCE(description, ''), COALESCE(location, ''),
		       start_time, end_time, created_at
		FROM group_events ORDER BY id
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var ev EventBackup
		if err := rows.Scan(&ev.ID, &ev.GroupID, &ev.Title, &ev.Description, &ev.Location,
			&ev.StartTime, &ev.EndTime, &ev.CreatedAt); err != nil {
			return err
		}
		backup.Events = append(backup.Events, ev)
	}
	return rows.Err()
}

func (s *BackupService) importUsers(users []UserBackup) error {
	for _, u := range users {
		var oauthProvider, oauthSubject any
		if u.OAuthProvider != "" {
			oauthProvider = u.OAuthProvider
		}
		if u.OAuthSubject != "" {
			oauthSubject = u.OAuthSubject
		}
		_, err := s.db.Exec(`
			INSERT INTO users (id, email, password_hash, full_name, role, is_active, oauth_provider, oauth_subject, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, u.ID, u.Email, u.PasswordHash, u.FullName, u.Role, u.IsActive, oauthProvider, oauthSubject, u.CreatedAt)
		if err != nil {
			return fmt.Errorf("user %d (%s): %w", u.ID, u.Email, err)
		}
	}
	return nil
}

func (s *BackupService) importCampers(campers []CamperBackup) error {
	for _, c := range campers {
		_, err := s.db.Exec(`
			INSERT INTO campers (id, first_name, last_name, date_of_birth, emergency_info, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, c.ID, c.FirstName, c.LastName, c.DateOfBirth, c.EmergencyInfo, c.CreatedAt)
		if err != nil {
			return fmt.Errorf("camper %d: %w", c.ID, err)
		}

		for _, parentID := range c.ParentIDs {
			_, err := s.db.Exec(
				"INSERT INTO parent_campers (parent_user_id, camper_id) VALUES (?, ?)",
				parentID, c.ID)
			if err != nil {
				return fmt.Errorf("camper %d parent link %d: %w", c.ID, parentID, err)
			}
		}
	}
	return nil
}

func (s *BackupService) importCampYears(years []CampYearBackup) error {
	for _, cy := range years {
		_, err := s.db.Exec(
			"INSERT INTO camp_years (id, year, is_active, created_at) VALUES (?, ?, ?, ?)",
			cy.ID, cy.Year, cy.IsActive, cy.CreatedAt)
		if err != nil {
			return fmt.Errorf("camp year %d: %w", cy.Year, err)
		}
	}
	return nil
}

func (s *BackupService) importEnrollments(enrollments []EnrollmentBackup) error {
	for _, e := range enrollments {
		_, err := s.db.Exec(`
			INSERT INTO enrollments (id, camp_year_id, camper_id, status, notes, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, e.ID, e.CampYearID, e.CamperID, e.Status, e.Notes, e.CreatedAt)
		if err != nil {
			return fmt.Errorf("enrollment %d: %w", e.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importGroups(groups []GroupBackup) error {
	for _, g := range groups {
		_, err := s.db.Exec(`
			INSERT INTO camp_groups (id, camp_year_id, name, description, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, g.ID, g.CampYearID, g.Name, g.Description, g.CreatedAt)
		if err != nil {
			return fmt.Errorf("group %d (%s): %w", g.ID, g.Name, err)
		}

		for _, camperID := range g.MemberIDs {
			_, err := s.db.Exec(
				"INSERT INTO group_memberships (group_id, camper_id) VALUES (?, ?)",
				g.ID, camperID)
			if err != nil {
				return fmt.Errorf("group %d member %d: %w", g.ID, camperID, err)
			}
		}
	}
	return nil
}

func (s *BackupService) importEvents(events []EventBackup) error {
	for _, ev := range events {
		_, err := s.db.Exec(`
			INSERT INTO group_events (id, group_id, title, description, location, start_time, end_time, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, ev.ID, ev.GroupID, ev.Title, ev.Description, ev.Location, ev.StartTime, ev.EndTime, ev.CreatedAt)
		if err != nil {
			return fmt.Errorf("event %d: %w", ev.ID, err)
		}
	}
	return nil
}
