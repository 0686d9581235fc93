package models

import "time"

// Group is an admin-defined collection of campers within a camp year.
// Names are unique per year.
type Group struct {
	ID          int64     `json:"id"`
	CampYearID  int64     `json:"-"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	// Populated via JOIN for listings
	CampYear *CampYear `json:"camp_year,omitempty"`
}

// GroupMembership assigns a camper to a group
type GroupMembership struct {
	ID        int64     `json:"id"`
	GroupID   int64     `json:"group_id"`
	CamperID  int64     `json:"camper_id"`
	CreatedAt time.Time `json:"created_at"`

	// Populated via JOIN for listings
	Camper *Camper `json:"camper,omitempty"`
}
