package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"camphq/internal/service"
	"camphq/internal/validation"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "validation error",
			err:        validation.ValidationError{Field: "email", Message: "email is required"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "duplicate email",
			err:        service.ErrEmailTaken,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "duplicate enrollment",
			err:        service.ErrAlreadyEnrolled,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid credentials",
			err:        service.ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired session",
			err:        service.ErrSessionExpired,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "foreign camper",
			err:        service.ErrNotOwned,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing group",
			err:        service.ErrGroupNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unexpected failure",
			err:        errors.New("db exploded"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			writeServiceError(recorder, tt.err)

			if recorder.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", recorder.Code, tt.wantStatus)
			}

			var body errorResponse
			if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not valid JSON: %v", err)
			}
			if body.Error == "" {
				t.Error("error message should not be empty")
			}

			// Internal detail must never leak
			if tt.wantStatus == http.StatusInternalServerError && strings.Contains(body.Error, "db exploded") {
				t.Errorf("internal error detail leaked: %q", body.Error)
			}
		})
	}
}

func TestDecodeJSONRejectsBadBody(t *testing.T) {
	recorder := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/", strings.NewReader("{not json"))

	var dst struct{}
	if decodeJSON(recorder, r, &dst) {
		t.Fatal("decodeJSON should fail on malformed input")
	}
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", recorder.Code)
	}
}

func TestWriteJSONSetsContentType(t *testing.T) {
	recorder := httptest.NewRecorder()
	writeJSON(recorder, http.StatusCreated, map[string]string{"status": "ok"})

	if recorder.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", recorder.Code)
	}
	if got := recorder.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}
}
