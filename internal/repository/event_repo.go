package repository

import (
	"fmt"
	"strings"
	"time"

	"camphq/internal/database"
	"camphq/internal/models"
)

// EventRepository handles database operations for group events
type EventRepository struct {
	db *database.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

// CreateEvent inserts a new event for a group
func (r *EventRepository) CreateEvent(groupID int64, title, description, location string, startTime, endTime time.Time) (*models.Event, error) {
	query := `
		INSERT INTO group_events (group_id, title, description, location, start_time, end_time)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, groupID, title, description, location, startTime, endTime)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return &models.Event{
		ID:          id,
		GroupID:     groupID,
		Title:       title,
		Description: description,
		Location:    location,
		StartTime:   startTime,
		EndTime:     endTime,
		CreatedAt:   time.Now(),
	}, nil
}

// ListEvents retrieves events ordered by start time, optionally filtered
// by group and camp year.
func (r *EventRepository) ListEvents(groupID, campYearID *int64) ([]models.Event, error) {
	query := `
		SELECT ev.id, ev.group_id, ev.title, COALESCE(ev.description, ''), COALESCE(ev.location, ''),
		       ev.start_time, ev.end_time, ev.created_at
		FROM group_events ev
		INNER JOIN camp_groups g ON ev.group_id = g.id
		WHERE 1 = 1
	`
	var args []any
	if groupID != nil {
		query += " AND ev.group_id = ?"
		args = append(args, *groupID)
	}
	if campYearID != nil {
		query += " AND g.camp_year_id = ?"
		args = append(args, *campYearID)
	}
	query += " ORDER BY ev.start_time ASC"

	return r.list(query, args...)
}

// ListForGroups retrieves the events of the given groups ordered by start
// time, optionally restricted to one camp year. Used by the schedule view.
func (r *EventRepository) ListForGroups(groupIDs []int64, campYearID *int64) ([]models.Event, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(groupIDs)), ", ")
	query := fmt.Sprintf(`
		SELECT ev.id, ev.group_id, ev.title, COALESCE(ev.description, ''), COALESCE(ev.location, ''),
		       ev.start_time, ev.end_time, ev.created_at
		FROM group_events ev
		INNER JOIN camp_groups g ON ev.group_id = g.id
		WHERE ev.group_id IN (%s)
	`, placeholders)

	args := make([]any, 0, len(groupIDs)+1)
	for _, id := range groupIDs {
		args = append(args, id)
	}
	if campYearID != nil {
		query += " AND g.camp_year_id = ?"
		args = append(args, *campYearID)
	}
	query += " ORDER BY ev.start_time ASC"

	return r.list(query, args...)
}

func (r *EventRepository) list(query string, args ...any) ([]models.Event, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var ev models.Event
		if err := rows.Scan(
			&ev.ID, &ev.GroupID, &ev.Title, &ev.Description, &ev.Location,
			&ev.StartTime, &ev.EndTime, &ev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, ev)
	}

	return events, rows.Err()
}
