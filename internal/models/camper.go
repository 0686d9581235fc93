package models

import "time"

// Camper represents a child registered with the camp
type Camper struct {
	ID            int64     `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	DateOfBirth   string    `json:"date_of_birth,omitempty"`
	EmergencyInfo string    `json:"emergency_info,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// FullName returns the camper's display name
func (c *Camper) FullName() string {
	return c.FirstName + " " + c.LastName
}

// ParentCamper links a parent account to a camper it manages
type ParentCamper struct {
	ID        int64     `json:"id"`
	ParentID  int64     `json:"parent_id"`
	CamperID  int64     `json:"camper_id"`
	CreatedAt time.Time `json:"created_at"`

	// Populated via JOIN for parent-facing listings
	Camper *Camper `json:"camper,omitempty"`
}
