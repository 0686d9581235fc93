package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"camphq/internal/database"
	"camphq/internal/models"
	"camphq/internal/repository"
)

type testEnv struct {
	auth        *AuthService
	campers     *CamperService
	enrollments *EnrollmentService
	groups      *GroupService
	events      *EventService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbPath := t.Name() + ".db"
	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("failed to initialize database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	})

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	camperRepo := repository.NewCamperRepository(db)
	campYearRepo := repository.NewCampYearRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	eventRepo := repository.NewEventRepository(db)

	enrollments := NewEnrollmentService(enrollmentRepo, campYearRepo, camperRepo, nil)

	return &testEnv{
		auth:        NewAuthService(userRepo, time.Hour),
		campers:     NewCamperService(camperRepo),
		enrollments: enrollments,
		groups:      NewGroupService(groupRepo, camperRepo, campYearRepo, enrollments),
		events:      NewEventService(eventRepo, groupRepo, camperRepo, campYearRepo),
	}
}

func TestRegisterAndLoginFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	env := newTestEnv(t)

	user, err := env.auth.RegisterParent("jo@example.com", "password123", "Jo Parker")
	if err != nil {
		t.Fatalf("RegisterParent() error = %v", err)
	}
	if user.Role != models.RoleParent {
		t.Errorf("new account role = %q, want parent", user.Role)
	}

	if _, err := env.auth.RegisterParent("jo@example.com", "password123", "Jo Parker"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate registration error = %v, want ErrEmailTaken", err)
	}

	session, _, err := env.auth.Login("jo@example.com", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	got, err := env.auth.ValidateSession(session.Token)
	if err != nil {
		t.Fatalf("ValidateSession() error = %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("session user = %d, want %d", got.ID, user.ID)
	}

	if _, _, err := env.auth.Login("jo@example.com", "wrongpassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("bad password error = %v, want ErrInvalidCredentials", err)
	}

	if err := env.auth.Logout(session.Token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := env.auth.ValidateSession(session.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("after logout error = %v, want ErrSessionNotFound", err)
	}
}

func TestEnrollmentFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	env := newTestEnv(t)

	parent, err := env.auth.RegisterParent("pat@example.com", "password123", "Pat Miller")
	if err != nil {
		t.Fatalf("RegisterParent() error = %v", err)
	}
	other, err := env.auth.RegisterParent("sam@example.com", "password123", "Sam Ortiz")
	if err != nil {
		t.Fatalf("RegisterParent() error = %v", err)
	}

	link, err := env.campers.AddChild(parent.ID, CamperInput{FirstName: "Max", LastName: "Miller"})
	if err != nil {
		t.Fatalf("AddChild() error = %v", err)
	}

	enr, err := env.enrollments.Enroll(parent.ID, link.CamperID, 2027)
	if err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	if enr.Status != models.EnrollmentPending {
		t.Errorf("new enrollment status = %q, want pending", enr.Status)
	}

	// Same camper, same year
	if _, err := env.enrollments.Enroll(parent.ID, link.CamperID, 2027); !errors.Is(err, ErrAlreadyEnrolled) {
		t.Errorf("duplicate enrollment error = %v, want ErrAlreadyEnrolled", err)
	}

	// A parent can't enroll someone else's camper
	if _, err := env.enrollments.Enroll(other.ID, link.CamperID, 2027); !errors.Is(err, ErrNotOwned) {
		t.Errorf("foreign camper error = %v, want ErrNotOwned", err)
	}

	// Parents can withdraw but never admit
	if _, err := env.enrollments.UpdateByParent(parent.ID, enr.ID, models.EnrollmentAdmitted, ""); !errors.Is(err, ErrStatusNotAllowed) {
		t.Errorf("parent admit error = %v, want ErrStatusNotAllowed", err)
	}
	updated, err := env.enrollments.UpdateByParent(parent.ID, enr.ID, models.EnrollmentWithdrawn, "conflict with holidays")
	if err != nil {
		t.Fatalf("UpdateByParent() error = %v", err)
	}
	if updated.Status != models.EnrollmentWithdrawn {
		t.Errorf("status = %q, want withdrawn", updated.Status)
	}

	// Admission is an admin decision
	decided, err := env.enrollments.Decide(context.Background(), enr.ID, models.EnrollmentAdmitted, "welcome back")
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if decided.Status != models.EnrollmentAdmitted {
		t.Errorf("decided status = %q, want admitted", decided.Status)
	}

	// Listing is scoped to the owning parent
	list, err := env.enrollments.ListForParent(parent.ID, nil)
	if err != nil {
		t.Fatalf("ListForParent() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 enrollment, got %d", len(list))
	}
	otherList, err := env.enrollments.ListForParent(other.ID, nil)
	if err != nil {
		t.Fatalf("ListForParent() error = %v", err)
	}
	if len(otherList) != 0 {
		t.Errorf("expected no enrollments for other parent, got %d", len(otherList))
	}

	// Unknown year filters to nothing rather than erroring
	year := 2030
	empty, err := env.enrollments.ListForParent(parent.ID, &year)
	if err != nil {
		t.Fatalf("ListForParent(unknown year) error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty list for unknown year, got %d", len(empty))
	}

	// The admin review queue filters by status
	admitted, err := env.enrollments.ListAll(nil, models.EnrollmentAdmitted)
	if err != nil {
		t.Fatalf("ListAll(admitted) error = %v", err)
	}
	if len(admitted) != 1 || admitted[0].ID != enr.ID {
		t.Errorf("admitted queue = %+v, want the decided enrollment", admitted)
	}
	pending, err := env.enrollments.ListAll(nil, models.EnrollmentPending)
	if err != nil {
		t.Fatalf("ListAll(pending) error = %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("pending queue = %d, want 0", len(pending))
	}
	if _, err := env.enrollments.ListAll(nil, "bogus"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("bad status error = %v, want ErrInvalidStatus", err)
	}
}

func TestGroupAndScheduleFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	env := newTestEnv(t)

	parent, err := env.auth.RegisterParent("dana@example.com", "password123", "Dana Reyes")
	if err != nil {
		t.Fatalf("RegisterParent() error = %v", err)
	}
	link, err := env.campers.AddChild(parent.ID, CamperInput{FirstName: "Rio", LastName: "Reyes"})
	if err != nil {
		t.Fatalf("AddChild() error = %v", err)
	}

	group, err := env.groups.CreateGroup(2027, "Foxes", "ages 8-10")
	if err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}

	if _, err := env.groups.AddMember(group.ID, link.CamperID); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}
	if _, err := env.groups.AddMember(group.ID, link.CamperID); !errors.Is(err, ErrAlreadyInGroup) {
		t.Errorf("duplicate member error = %v, want ErrAlreadyInGroup", err)
	}
	if _, err := env.groups.AddMember(group.ID+999, link.CamperID); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("unknown group error = %v, want ErrGroupNotFound", err)
	}

	start := time.Date(2027, 7, 5, 9, 0, 0, 0, time.UTC)
	if _, err := env.events.CreateEvent(EventInput{
		GroupID: group.ID, Title: "Archery", StartTime: start, EndTime: start,
	}); !errors.Is(err, ErrInvalidTimeSpan) {
		t.Errorf("zero-length event error = %v, want ErrInvalidTimeSpan", err)
	}

	event, err := env.events.CreateEvent(EventInput{
		GroupID:   group.ID,
		Title:     "Archery",
		Location:  "Field A",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	schedule, err := env.events.ScheduleForParent(parent.ID, nil, nil)
	if err != nil {
		t.Fatalf("ScheduleForParent() error = %v", err)
	}
	if len(schedule) != 1 {
		t.Fatalf("expected 1 schedule item, got %d", len(schedule))
	}
	item := schedule[0]
	if item.EventID != event.ID || item.GroupName != "Foxes" || item.CamperName != "Rio Reyes" {
		t.Errorf("unexpected schedule item: %+v", item)
	}

	// Narrowing to one of the parent's own campers keeps the item
	schedule, err = env.events.ScheduleForParent(parent.ID, &link.CamperID, nil)
	if err != nil {
		t.Fatalf("ScheduleForParent(camper) error = %v", err)
	}
	if len(schedule) != 1 {
		t.Errorf("expected 1 item for own camper, got %d", len(schedule))
	}

	// A camper the parent doesn't own is rejected
	unknown := link.CamperID + 999
	if _, err := env.events.ScheduleForParent(parent.ID, &unknown, nil); !errors.Is(err, ErrNotOwned) {
		t.Errorf("foreign camper error = %v, want ErrNotOwned", err)
	}

	// Filtering by the event's camp year keeps it, another year drops it
	year := 2027
	schedule, err = env.events.ScheduleForParent(parent.ID, nil, &year)
	if err != nil {
		t.Fatalf("ScheduleForParent(2027) error = %v", err)
	}
	if len(schedule) != 1 {
		t.Errorf("expected 1 item for 2027, got %d", len(schedule))
	}

	year = 2028
	schedule, err = env.events.ScheduleForParent(parent.ID, nil, &year)
	if err != nil {
		t.Fatalf("ScheduleForParent(2028) error = %v", err)
	}
	if len(schedule) != 0 {
		t.Errorf("expected no items for 2028, got %d", len(schedule))
	}
}

func TestEventAndGroupFilters(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	env := newTestEnv(t)

	foxes, err := env.groups.CreateGroup(2027, "Foxes", "")
	if err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}
	otters, err := env.groups.CreateGroup(2028, "Otters", "")
	if err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}

	mk := func(groupID int64, title string, start time.Time) {
		t.Helper()
		if _, err := env.events.CreateEvent(EventInput{
			GroupID: groupID, Title: title, StartTime: start, EndTime: start.Add(time.Hour),
		}); err != nil {
			t.Fatalf("CreateEvent(%s) error = %v", title, err)
		}
	}
	day := time.Date(2027, 7, 5, 0, 0, 0, 0, time.UTC)
	mk(foxes.ID, "Archery", day.Add(9*time.Hour))
	mk(foxes.ID, "Campfire", day.Add(20*time.Hour))
	mk(otters.ID, "Canoeing", day.Add(10*time.Hour))

	all, err := env.events.ListEvents(nil, nil)
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("unfiltered events = %d, want 3", len(all))
	}

	// Group filter returns exactly that group's events
	byGroup, err := env.events.ListEvents(&foxes.ID, nil)
	if err != nil {
		t.Fatalf("ListEvents(group) error = %v", err)
	}
	if len(byGroup) != 2 {
		t.Fatalf("group-filtered events = %d, want 2", len(byGroup))
	}
	for _, ev := range byGroup {
		if ev.GroupID != foxes.ID {
			t.Errorf("event %s belongs to group %d, want %d", ev.Title, ev.GroupID, foxes.ID)
		}
	}

	// Repeating the same filter yields the same result
	again, err := env.events.ListEvents(&foxes.ID, nil)
	if err != nil {
		t.Fatalf("ListEvents(group) repeat error = %v", err)
	}
	if len(again) != len(byGroup) {
		t.Errorf("repeat filter = %d events, want %d", len(again), len(byGroup))
	}

	// Year filter, alone and combined with the group filter
	year := 2028
	byYear, err := env.events.ListEvents(nil, &year)
	if err != nil {
		t.Fatalf("ListEvents(2028) error = %v", err)
	}
	if len(byYear) != 1 || byYear[0].Title != "Canoeing" {
		t.Errorf("2028 events = %+v, want just Canoeing", byYear)
	}
	combined, err := env.events.ListEvents(&foxes.ID, &year)
	if err != nil {
		t.Fatalf("ListEvents(group, 2028) error = %v", err)
	}
	if len(combined) != 0 {
		t.Errorf("Foxes events in 2028 = %d, want 0", len(combined))
	}

	// Unknown year filters to nothing rather than erroring
	year = 2030
	empty, err := env.events.ListEvents(nil, &year)
	if err != nil {
		t.Fatalf("ListEvents(unknown year) error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("unknown-year events = %d, want 0", len(empty))
	}

	// Group listing follows the same year rules
	year = 2027
	groups, err := env.groups.ListGroups(&year)
	if err != nil {
		t.Fatalf("ListGroups(2027) error = %v", err)
	}
	if len(groups) != 1 || groups[0].Name != "Foxes" {
		t.Errorf("2027 groups = %+v, want just Foxes", groups)
	}
	year = 2030
	noGroups, err := env.groups.ListGroups(&year)
	if err != nil {
		t.Fatalf("ListGroups(unknown year) error = %v", err)
	}
	if len(noGroups) != 0 {
		t.Errorf("unknown-year groups = %d, want 0", len(noGroups))
	}
}
