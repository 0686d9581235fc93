package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"camphq/internal/models"
	"camphq/internal/repository"
	"camphq/internal/validation"
)

var (
	ErrAlreadyEnrolled    = errors.New("camper already enrolled for this camp year")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrInvalidStatus      = errors.New("invalid enrollment status")
	ErrStatusNotAllowed   = errors.New("parents may only keep an enrollment pending or withdraw it")
)

// EnrollmentService handles enrolling campers into camp years and the
// admin review of those enrollments.
type EnrollmentService struct {
	enrollmentRepo *repository.EnrollmentRepository
	campYearRepo   *repository.CampYearRepository
	camperRepo     *repository.CamperRepository
	emailService   *EmailService
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(
	enrollmentRepo *repository.EnrollmentRepository,
	campYearRepo *repository.CampYearRepository,
	camperRepo *repository.CamperRepository,
	emailService *EmailService,
) *EnrollmentService {
	return &EnrollmentService{
		enrollmentRepo: enrollmentRepo,
		campYearRepo:   campYearRepo,
		camperRepo:     camperRepo,
		emailService:   emailService,
	}
}

// GetOrCreateCampYear looks up a camp year, creating it inactive when it
// does not exist yet. Years become active through seeding or admin action.
func (s *EnrollmentService) GetOrCreateCampYear(year int) (*models.CampYear, error) {
	if err := validation.ValidateYear(year); err != nil {
		return nil, err
	}

	cy, err := s.campYearRepo.GetByYear(year)
	if err != nil {
		return nil, fmt.Errorf("failed to get camp year: %w", err)
	}
	if cy != nil {
		return cy, nil
	}

	cy, err = s.campYearRepo.CreateCampYear(year, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create camp year: %w", err)
	}
	return cy, nil
}

// Enroll enrolls a parent's camper into a camp year with status pending
func (s *EnrollmentService) Enroll(parentID, camperID int64, year int) (*models.Enrollment, error) {
	owned, err := s.camperRepo.IsOwnedBy(parentID, camperID)
	if err != nil {
		return nil, fmt.Errorf("failed to check ownership: %w", err)
	}
	if !owned {
		return nil, ErrNotOwned
	}

	cy, err := s.GetOrCreateCampYear(year)
	if err != nil {
		return nil, err
	}

	exists, err := s.enrollmentRepo.Exists(cy.ID, camperID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if exists {
		return nil, ErrAlreadyEnrolled
	}

	enr, err := s.enrollmentRepo.CreateEnrollment(cy.ID, camperID)
	if err != nil {
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}
	return enr, nil
}

// ListForParent lists enrollments of a parent's campers, optionally for
// one camp year. An unknown year yields an empty list, not an error.
func (s *EnrollmentService) ListForParent(parentID int64, year *int) ([]models.Enrollment, error) {
	var campYearID *int64
	if year != nil {
		cy, err := s.campYearRepo.GetByYear(*year)
		if err != nil {
			return nil, fmt.Errorf("failed to get camp year: %w", err)
		}
		if cy == nil {
			return []models.Enrollment{}, nil
		}
		campYearID = &cy.ID
	}

	enrollments, err := s.enrollmentRepo.ListByParent(parentID, campYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, nil
}

// ListAll lists enrollments for the admin review queue
func (s *EnrollmentService) ListAll(year *int, status string) ([]models.Enrollment, error) {
	if status != "" && !models.IsValidEnrollmentStatus(status) {
		return nil, ErrInvalidStatus
	}

	var campYearID *int64
	if year != nil {
		cy, err := s.campYearRepo.GetByYear(*year)
		if err != nil {
			return nil, fmt.Errorf("failed to get camp year: %w", err)
		}
		if cy == nil {
			return []models.Enrollment{}, nil
		}
		campYearID = &cy.ID
	}

	enrollments, err := s.enrollmentRepo.ListAll(campYearID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, nil
}

// UpdateByParent lets the owning parent keep an enrollment pending or
// withdraw it. Admission is an admin decision.
func (s *EnrollmentService) UpdateByParent(parentID, enrollmentID int64, status, notes string) (*models.Enrollment, error) {
	if status != models.EnrollmentPending && status != models.EnrollmentWithdrawn {
		if !models.IsValidEnrollmentStatus(status) {
			return nil, ErrInvalidStatus
		}
		return nil, ErrStatusNotAllowed
	}

	enr, err := s.enrollmentRepo.GetByID(enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	if enr == nil {
		return nil, ErrEnrollmentNotFound
	}

	owned, err := s.camperRepo.IsOwnedBy(parentID, enr.CamperID)
	if err != nil {
		return nil, fmt.Errorf("failed to check ownership: %w", err)
	}
	if !owned {
		return nil, ErrNotOwned
	}

	if err := s.enrollmentRepo.UpdateStatus(enrollmentID, status, notes); err != nil {
		return nil, fmt.Errorf("failed to update enrollment: %w", err)
	}

	enr.Status = status
	enr.Notes = notes
	return enr, nil
}

// Decide sets an enrollment's status as an admin and notifies the owning
// parents by email when the status changed.
func (s *EnrollmentService) Decide(ctx context.Context, enrollmentID int64, status, notes string) (*models.Enrollment, error) {
	if !models.IsValidEnrollmentStatus(status) {
		return nil, ErrInvalidStatus
	}

	enr, err := s.enrollmentRepo.GetByID(enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	if enr == nil {
		return nil, ErrEnrollmentNotFound
	}

	statusChanged := enr.Status != status

	if err := s.enrollmentRepo.UpdateStatus(enrollmentID, status, notes); err != nil {
		return nil, fmt.Errorf("failed to update enrollment: %w", err)
	}

	enr.Status = status
	enr.Notes = notes

	if statusChanged && s.emailService != nil && s.emailService.IsEnabled() {
		s.notifyParents(ctx, enr)
	}

	return enr, nil
}

// notifyParents emails every active parent of the camper. Failures are
// logged, never surfaced: the decision itself already took effect.
func (s *EnrollmentService) notifyParents(ctx context.Context, enr *models.Enrollment) {
	parents, err := s.camperRepo.ParentEmailsForCamper(enr.CamperID)
	if err != nil {
		slog.Error("failed to look up parents for enrollment notification",
			"enrollment_id", enr.ID, "error", err)
		return
	}

	for _, parent := range parents {
		if err := s.emailService.SendEnrollmentStatusEmail(ctx, parent.Email, parent.FullName, enr); err != nil {
			slog.Error("failed to send enrollment status email",
				"enrollment_id", enr.ID, "to", parent.Email, "error", err)
		}
	}
}
