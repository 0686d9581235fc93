package service

import (
	"errors"
	"fmt"

	"camphq/internal/models"
	"camphq/internal/repository"
	"camphq/internal/validation"
)

var (
	ErrCamperNotFound = errors.New("camper not found")
	ErrNotOwned       = errors.New("parent does not own this camper")
)

// CamperService handles camper records and parent ownership
type CamperService struct {
	camperRepo *repository.CamperRepository
}

// NewCamperService creates a new camper service
func NewCamperService(camperRepo *repository.CamperRepository) *CamperService {
	return &CamperService{camperRepo: camperRepo}
}

// CamperInput holds the fields for creating a camper
type CamperInput struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	DateOfBirth   string `json:"date_of_birth"`
	EmergencyInfo string `json:"emergency_info"`
}

func (in CamperInput) validate() error {
	if err := validation.ValidateName("first_name", in.FirstName); err != nil {
		return err
	}
	return validation.ValidateName("last_name", in.LastName)
}

// CreateCamper creates a standalone camper record (admin operation)
func (s *CamperService) CreateCamper(in CamperInput) (*models.Camper, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	camper, err := s.camperRepo.CreateCamper(in.FirstName, in.LastName, in.DateOfBirth, in.EmergencyInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to create camper: %w", err)
	}
	return camper, nil
}

// ListCampers lists all campers (admin operation)
func (s *CamperService) ListCampers() ([]models.Camper, error) {
	campers, err := s.camperRepo.ListCampers()
	if err != nil {
		return nil, fmt.Errorf("failed to list campers: %w", err)
	}
	return campers, nil
}

// AddChild creates a camper owned by the given parent
func (s *CamperService) AddChild(parentID int64, in CamperInput) (*models.ParentCamper, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	link, err := s.camperRepo.CreateCamperForParent(parentID, in.FirstName, in.LastName, in.DateOfBirth, in.EmergencyInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to add child: %w", err)
	}
	return link, nil
}

// ListChildren lists the campers owned by a parent
func (s *CamperService) ListChildren(parentID int64) ([]models.ParentCamper, error) {
	links, err := s.camperRepo.ListByParent(parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	return links, nil
}
