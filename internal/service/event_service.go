package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"camphq/internal/models"
	"camphq/internal/repository"
	"camphq/internal/validation"
)

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrInvalidTimeSpan = errors.New("event end time must be after start time")
)

// EventService handles group events and the parent schedule view
type EventService struct {
	eventRepo    *repository.EventRepository
	groupRepo    *repository.GroupRepository
	camperRepo   *repository.CamperRepository
	campYearRepo *repository.CampYearRepository
}

// NewEventService creates a new event service
func NewEventService(
	eventRepo *repository.EventRepository,
	groupRepo *repository.GroupRepository,
	camperRepo *repository.CamperRepository,
	campYearRepo *repository.CampYearRepository,
) *EventService {
	return &EventService{
		eventRepo:    eventRepo,
		groupRepo:    groupRepo,
		camperRepo:   camperRepo,
		campYearRepo: campYearRepo,
	}
}

// EventInput holds the fields for creating an event
type EventInput struct {
	GroupID     int64     `json:"group_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

// CreateEvent creates an event for a group
func (s *EventService) CreateEvent(in EventInput) (*models.Event, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, validation.ValidationError{Field: "title", Message: "title is required"}
	}
	if !in.EndTime.After(in.StartTime) {
		return nil, ErrInvalidTimeSpan
	}

	group, err := s.groupRepo.GetByID(in.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	event, err := s.eventRepo.CreateEvent(in.GroupID, in.Title, in.Description, in.Location, in.StartTime, in.EndTime)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

// ListEvents lists events ordered by start time, optionally filtered by
// group and camp year. An unknown year yields an empty list.
func (s *EventService) ListEvents(groupID *int64, year *int) ([]models.Event, error) {
	var campYearID *int64
	if year != nil {
		cy, err := s.campYearRepo.GetByYear(*year)
		if err != nil {
			return nil, fmt.Errorf("failed to get camp year: %w", err)
		}
		if cy == nil {
			return []models.Event{}, nil
		}
		campYearID = &cy.ID
	}

	events, err := s.eventRepo.ListEvents(groupID, campYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// ScheduleForParent assembles the event schedule of every camper linked
// to the parent, one row per camper and event, ordered by start time.
// camperID narrows the schedule to one of the parent's own campers.
func (s *EventService) ScheduleForParent(parentID int64, camperID *int64, year *int) ([]models.ScheduleItem, error) {
	var campYearID *int64
	if year != nil {
		cy, err := s.campYearRepo.GetByYear(*year)
		if err != nil {
			return nil, fmt.Errorf("failed to get camp year: %w", err)
		}
		if cy == nil {
			return []models.ScheduleItem{}, nil
		}
		campYearID = &cy.ID
	}

	var camperIDs []int64
	if camperID != nil {
		owned, err := s.camperRepo.IsOwnedBy(parentID, *camperID)
		if err != nil {
			return nil, fmt.Errorf("failed to check ownership: %w", err)
		}
		if !owned {
			return nil, ErrNotOwned
		}
		camperIDs = []int64{*camperID}
	} else {
		ids, err := s.camperRepo.CamperIDsByParent(parentID)
		if err != nil {
			return nil, fmt.Errorf("failed to list campers: %w", err)
		}
		camperIDs = ids
	}
	if len(camperIDs) == 0 {
		return []models.ScheduleItem{}, nil
	}

	memberships, err := s.groupRepo.MembershipsForCampers(camperIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	if len(memberships) == 0 {
		return []models.ScheduleItem{}, nil
	}

	groupIDs := make([]int64, 0, len(memberships))
	seen := make(map[int64]bool)
	for _, m := range memberships {
		if !seen[m.GroupID] {
			seen[m.GroupID] = true
			groupIDs = append(groupIDs, m.GroupID)
		}
	}

	events, err := s.eventRepo.ListForGroups(groupIDs, campYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	groupNames, err := s.groupRepo.GroupNamesByID(groupIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to look up group names: %w", err)
	}

	campers, err := s.camperRepo.CampersByIDs(camperIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to look up campers: %w", err)
	}

	return buildScheduleItems(memberships, events, groupNames, campers), nil
}

// buildScheduleItems joins memberships with group events: each camper gets
// a row for every event of every group they belong to, sorted by start
// time, then camper name, so siblings at the same event stay adjacent.
func buildScheduleItems(
	memberships []models.GroupMembership,
	events []models.Event,
	groupNames map[int64]string,
	campers map[int64]models.Camper,
) []models.ScheduleItem {
	eventsByGroup := make(map[int64][]models.Event)
	for _, ev := range events {
		eventsByGroup[ev.GroupID] = append(eventsByGroup[ev.GroupID], ev)
	}

	items := []models.ScheduleItem{}
	for _, m := range memberships {
		camper, ok := campers[m.CamperID]
		if !ok {
			continue
		}
		for _, ev := range eventsByGroup[m.GroupID] {
			items = append(items, models.ScheduleItem{
				CamperID:   camper.ID,
				CamperName: camper.FullName(),
				GroupID:    m.GroupID,
				GroupName:  groupNames[m.GroupID],
				EventID:    ev.ID,
				Title:      ev.Title,
				Location:   ev.Location,
				StartTime:  ev.StartTime,
				EndTime:    ev.EndTime,
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].StartTime.Equal(items[j].StartTime) {
			return items[i].StartTime.Before(items[j].StartTime)
		}
		return items[i].CamperName < items[j].CamperName
	})

	return items
}
