package models

import "time"

// Event is a scheduled activity for a camp group
type Event struct {
	ID          int64     `json:"id"`
	GroupID     int64     `json:"group_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	CreatedAt   time.Time `json:"created_at"`
}

// ScheduleItem is one row of a parent's schedule view: a camper attending
// an event through their group membership.
type ScheduleItem struct {
	CamperID   int64     `json:"camper_id"`
	CamperName string    `json:"camper_name"`
	GroupID    int64     `json:"group_id"`
	GroupName  string    `json:"group_name"`
	EventID    int64     `json:"event_id"`
	Title      string    `json:"title"`
	Location   string    `json:"location,omitempty"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}
