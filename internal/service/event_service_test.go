package service

import (
	"testing"
	"time"

	"camphq/internal/models"
)

func TestBuildScheduleItems(t *testing.T) {
	day := time.Date(2026, 7, 6, 0, 0, 0, 0, time.UTC)

	memberships := []models.GroupMembership{
		{ID: 1, GroupID: 10, CamperID: 100},
		{ID: 2, GroupID: 11, CamperID: 101},
		{ID: 3, GroupID: 10, CamperID: 101},
	}
	events := []models.Event{
		{ID: 1000, GroupID: 10, Title: "Archery", Location: "Field A", StartTime: day.Add(9 * time.Hour), EndTime: day.Add(10 * time.Hour)},
		{ID: 1001, GroupID: 11, Title: "Canoeing", Location: "Lake", StartTime: day.Add(8 * time.Hour), EndTime: day.Add(9 * time.Hour)},
		{ID: 1002, GroupID: 10, Title: "Campfire", StartTime: day.Add(20 * time.Hour), EndTime: day.Add(21 * time.Hour)},
	}
	groupNames := map[int64]string{10: "Foxes", 11: "Otters"}
	campers := map[int64]models.Camper{
		100: {ID: 100, FirstName: "Alex", LastName: "Stone"},
		101: {ID: 101, FirstName: "Billie", LastName: "Stone"},
	}

	items := buildScheduleItems(memberships, events, groupNames, campers)

	// 100 attends 2 Foxes events, 101 attends 1 Otters event + 2 Foxes events
	if len(items) != 5 {
		t.Fatalf("expected 5 schedule items, got %d", len(items))
	}

	// Earliest event first
	if items[0].Title != "Canoeing" || items[0].CamperID != 101 {
		t.Errorf("first item = %s for camper %d, want Canoeing for camper 101", items[0].Title, items[0].CamperID)
	}

	// Same start time sorts by camper name, so siblings stay adjacent
	if items[1].Title != "Archery" || items[1].CamperName != "Alex Stone" {
		t.Errorf("second item = %s for %s, want Archery for Alex Stone", items[1].Title, items[1].CamperName)
	}
	if items[2].Title != "Archery" || items[2].CamperName != "Billie Stone" {
		t.Errorf("third item = %s for %s, want Archery for Billie Stone", items[2].Title, items[2].CamperName)
	}

	// Group names resolved
	for _, item := range items {
		if item.GroupName == "" {
			t.Errorf("item %s has empty group name", item.Title)
		}
	}

	// Last event of the day
	last := items[len(items)-1]
	if last.Title != "Campfire" {
		t.Errorf("last item = %s, want Campfire", last.Title)
	}
}

func TestBuildScheduleItemsSkipsUnknownCampers(t *testing.T) {
	memberships := []models.GroupMembership{
		{ID: 1, GroupID: 10, CamperID: 100},
	}
	events := []models.Event{
		{ID: 1000, GroupID: 10, Title: "Archery", StartTime: time.Now(), EndTime: time.Now().Add(time.Hour)},
	}

	items := buildScheduleItems(memberships, events, map[int64]string{10: "Foxes"}, map[int64]models.Camper{})
	if len(items) != 0 {
		t.Errorf("expected no items for unknown campers, got %d", len(items))
	}
}

func TestBuildScheduleItemsEmptyInput(t *testing.T) {
	items := buildScheduleItems(nil, nil, nil, nil)
	if items == nil {
		t.Fatal("expected non-nil empty slice")
	}
	if len(items) != 0 {
		t.Errorf("expected empty slice, got %d items", len(items))
	}
}
