package models

import "time"

// CampYear represents one season of the camp. Exactly one year is expected
// to be active for enrollment at a time, but that is a convention rather
// than a constraint.
type CampYear struct {
	ID        int64     `json:"id"`
	Year      int       `json:"year"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
