package handlers

import (
	"net/http"
	"strconv"

	"camphq/internal/models"
	"camphq/internal/service"
)

// AdminHandler serves the admin endpoints. Every handler here runs
// behind RequireAdmin.
type AdminHandler struct {
	authService       *service.AuthService
	camperService     *service.CamperService
	enrollmentService *service.EnrollmentService
	groupService      *service.GroupService
	eventService      *service.EventService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	authService *service.AuthService,
	camperService *service.CamperService,
	enrollmentService *service.EnrollmentService,
	groupService *service.GroupService,
	eventService *service.EventService,
) *AdminHandler {
	return &AdminHandler{
		authService:       authService,
		camperService:     camperService,
		enrollmentService: enrollmentService,
		groupService:      groupService,
		eventService:      eventService,
	}
}

// CreateParent handles POST /api/admin/parents
func (h *AdminHandler) CreateParent(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.RegisterParent(req.Email, req.Password, req.FullName)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// ListParents handles GET /api/admin/parents
func (h *AdminHandler) ListParents(w http.ResponseWriter, r *http.Request) {
	parents, err := h.authService.ListParents()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if parents == nil {
		parents = []models.User{}
	}
	writeJSON(w, http.StatusOK, parents)
}

// CreateCamper handles POST /api/admin/campers
func (h *AdminHandler) CreateCamper(w http.ResponseWriter, r *http.Request) {
	var in service.CamperInput
	if !decodeJSON(w, r, &in) {
		return
	}

	camper, err := h.camperService.CreateCamper(in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, camper)
}

// ListCampers handles GET /api/admin/campers
func (h *AdminHandler) ListCampers(w http.ResponseWriter, r *http.Request) {
	campers, err := h.camperService.ListCampers()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if campers == nil {
		campers = []models.Camper{}
	}
	writeJSON(w, http.StatusOK, campers)
}

type createGroupRequest struct {
	CampYear    int    `json:"camp_year"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateGroup handles POST /api/admin/groups
func (h *AdminHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	group, err := h.groupService.CreateGroup(req.CampYear, req.Name, req.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, group)
}

// ListGroups handles GET /api/admin/groups?year=
func (h *AdminHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	groups, err := h.groupService.ListGroups(year)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if groups == nil {
		groups = []models.Group{}
	}
	writeJSON(w, http.StatusOK, groups)
}

type addMemberRequest struct {
	CamperID int64 `json:"camper_id"`
}

// AddGroupMember handles POST /api/admin/groups/{id}/members
func (h *AdminHandler) AddGroupMember(w http.ResponseWriter, r *http.Request) {
	groupID, ok := idPathValue(w, r, "id")
	if !ok {
		return
	}

	var req addMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	membership, err := h.groupService.AddMember(groupID, req.CamperID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, membership)
}

// CreateEvent handles POST /api/admin/events
func (h *AdminHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var in service.EventInput
	if !decodeJSON(w, r, &in) {
		return
	}

	event, err := h.eventService.CreateEvent(in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// ListEvents handles GET /api/admin/events?group_id=&year=
func (h *AdminHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	var groupID *int64
	if raw := r.URL.Query().Get("group_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid group_id")
			return
		}
		groupID = &id
	}

	events, err := h.eventService.ListEvents(groupID, year)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// ListEnrollments handles GET /api/admin/enrollments?year=&status=
func (h *AdminHandler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	enrollments, err := h.enrollmentService.ListAll(year, r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if enrollments == nil {
		enrollments = []models.Enrollment{}
	}
	writeJSON(w, http.StatusOK, enrollments)
}

// DecideEnrollment handles PUT /api/admin/enrollments/{id}
func (h *AdminHandler) DecideEnrollment(w http.ResponseWriter, r *http.Request) {
	id, ok := idPathValue(w, r, "id")
	if !ok {
		return
	}

	var req enrollmentUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	enr, err := h.enrollmentService.Decide(r.Context(), id, req.Status, req.Notes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, enr)
}
