package models

import "time"

// Enrollment statuses
const (
	EnrollmentPending   = "pending"
	EnrollmentAdmitted  = "admitted"
	EnrollmentWithdrawn = "withdrawn"
)

// Enrollment records a camper's application to a camp year and its status
type Enrollment struct {
	ID         int64     `json:"id"`
	CampYearID int64     `json:"-"`
	CamperID   int64     `json:"camper_id"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	// Populated via JOIN for listings
	CampYear *CampYear `json:"camp_year,omitempty"`
	Camper   *Camper   `json:"camper,omitempty"`
}

// IsValidEnrollmentStatus reports whether s is one of the known statuses
func IsValidEnrollmentStatus(s string) bool {
	switch s {
	case EnrollmentPending, EnrollmentAdmitted, EnrollmentWithdrawn:
		return true
	}
	return false
}
