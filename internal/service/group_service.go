package service

import (
	"errors"
	"fmt"

	"camphq/internal/models"
	"camphq/internal/repository"
	"camphq/internal/validation"
)

var (
	ErrGroupNotFound  = errors.New("group not found")
	ErrAlreadyInGroup = errors.New("camper already in group")
)

// GroupService handles camp groups and their memberships
type GroupService struct {
	groupRepo    *repository.GroupRepository
	camperRepo   *repository.CamperRepository
	campYearRepo *repository.CampYearRepository
	enrollments  *EnrollmentService
}

// NewGroupService creates a new group service
func NewGroupService(
	groupRepo *repository.GroupRepository,
	camperRepo *repository.CamperRepository,
	campYearRepo *repository.CampYearRepository,
	enrollments *EnrollmentService,
) *GroupService {
	return &GroupService{
		groupRepo:    groupRepo,
		camperRepo:   camperRepo,
		campYearRepo: campYearRepo,
		enrollments:  enrollments,
	}
}

// CreateGroup creates a group in a camp year, creating the year if needed
func (s *GroupService) CreateGroup(year int, name, description string) (*models.Group, error) {
	if err := validation.ValidateName("name", name); err != nil {
		return nil, err
	}

	cy, err := s.enrollments.GetOrCreateCampYear(year)
	if err != nil {
		return nil, err
	}

	group, err := s.groupRepo.CreateGroup(cy.ID, name, description)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	group.CampYear = cy
	return group, nil
}

// ListGroups lists groups, optionally restricted to one camp year.
// An unknown year yields an empty list.
func (s *GroupService) ListGroups(year *int) ([]models.Group, error) {
	var campYearID *int64
	if year != nil {
		cy, err := s.campYearRepo.GetByYear(*year)
		if err != nil {
			return nil, fmt.Errorf("failed to get camp year: %w", err)
		}
		if cy == nil {
			return []models.Group{}, nil
		}
		campYearID = &cy.ID
	}

	groups, err := s.groupRepo.ListGroups(campYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// AddMember assigns a camper to a group
func (s *GroupService) AddMember(groupID, camperID int64) (*models.GroupMembership, error) {
	group, err := s.groupRepo.GetByID(groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	camper, err := s.camperRepo.GetCamperByID(camperID)
	if err != nil {
		return nil, fmt.Errorf("failed to get camper: %w", err)
	}
	if camper == nil {
		return nil, ErrCamperNotFound
	}

	exists, err := s.groupRepo.HasMember(groupID, camperID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if exists {
		return nil, ErrAlreadyInGroup
	}

	membership, err := s.groupRepo.AddMember(groupID, camperID)
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}
	membership.Camper = camper
	return membership, nil
}
