package handlers

import (
	"net/http"
	"strconv"

	"camphq/internal/models"
	"camphq/internal/service"
)

// ParentHandler serves the parent-facing endpoints. Every handler here
// runs behind RequireAuth, so UserFromContext never returns nil.
type ParentHandler struct {
	camperService     *service.CamperService
	enrollmentService *service.EnrollmentService
	eventService      *service.EventService
}

// NewParentHandler creates a new parent handler
func NewParentHandler(
	camperService *service.CamperService,
	enrollmentService *service.EnrollmentService,
	eventService *service.EventService,
) *ParentHandler {
	return &ParentHandler{
		camperService:     camperService,
		enrollmentService: enrollmentService,
		eventService:      eventService,
	}
}

// AddCamper handles POST /api/parent/campers
func (h *ParentHandler) AddCamper(w http.ResponseWriter, r *http.Request) {
	var in service.CamperInput
	if !decodeJSON(w, r, &in) {
		return
	}

	link, err := h.camperService.AddChild(UserFromContext(r).ID, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

// ListCampers handles GET /api/parent/campers
func (h *ParentHandler) ListCampers(w http.ResponseWriter, r *http.Request) {
	links, err := h.camperService.ListChildren(UserFromContext(r).ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if links == nil {
		links = []models.ParentCamper{}
	}
	writeJSON(w, http.StatusOK, links)
}

type enrollRequest struct {
	CamperID int64 `json:"camper_id"`
	CampYear int   `json:"camp_year"`
}

// Enroll handles POST /api/parent/enrollments
func (h *ParentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var req enrollRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	enr, err := h.enrollmentService.Enroll(UserFromContext(r).ID, req.CamperID, req.CampYear)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, enr)
}

// ListEnrollments handles GET /api/parent/enrollments?year=
func (h *ParentHandler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	enrollments, err := h.enrollmentService.ListForParent(UserFromContext(r).ID, year)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if enrollments == nil {
		enrollments = []models.Enrollment{}
	}
	writeJSON(w, http.StatusOK, enrollments)
}

type enrollmentUpdateRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// UpdateEnrollment handles PUT /api/parent/enrollments/{id}
func (h *ParentHandler) UpdateEnrollment(w http.ResponseWriter, r *http.Request) {
	id, ok := idPathValue(w, r, "id")
	if !ok {
		return
	}

	var req enrollmentUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	enr, err := h.enrollmentService.UpdateByParent(UserFromContext(r).ID, id, req.Status, req.Notes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, enr)
}

// Schedule handles GET /api/parent/schedule?camper_id=&year=
func (h *ParentHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}

	var camperID *int64
	if raw := r.URL.Query().Get("camper_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid camper_id")
			return
		}
		camperID = &id
	}

	items, err := h.eventService.ScheduleForParent(UserFromContext(r).ID, camperID, year)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// yearParam parses the optional ?year= query parameter
func yearParam(w http.ResponseWriter, r *http.Request) (*int, bool) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return nil, true
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid year")
		return nil, false
	}
	return &year, true
}

// idPathValue parses a numeric path segment
func idPathValue(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
