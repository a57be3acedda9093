package estate

import (
	"context"

	"github.com/estate/backend/internal/domain/estate"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SocietyService handles housing society operations
type SocietyService struct {
	societyRepo estate.SocietyRepository
}

// NewSocietyService creates a new SocietyService
func NewSocietyService(societyRepo estate.SocietyRepository) *SocietyService {
	return &SocietyService{societyRepo: societyRepo}
}

// Create registers a new housing society. Society names are unique.
func (s *SocietyService) Create(ctx context.Context, req CreateSocietyRequest) (*SocietyResponse, error) {
	existing, err := s.societyRepo.FindByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A society with this name already exists")
	}

	society, err := estate.NewSociety(req.Name, req.Location)
	if err != nil {
		return nil, err
	}

	if err := s.societyRepo.Save(ctx, society); err != nil {
		return nil, err
	}

	response := ToSocietyResponse(society)
	return &response, nil
}

// GetByID returns a society by ID
func (s *SocietyService) GetByID(ctx context.Context, id uuid.UUID) (*SocietyResponse, error) {
	society, err := s.societyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if society == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Society not found")
	}
	response := ToSocietyResponse(society)
	return &response, nil
}

// List returns societies matching the filter
func (s *SocietyService) List(ctx context.Context, filter shared.Filter) ([]SocietyResponse, int64, error) {
	societies, err := s.societyRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.societyRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SocietyResponse, 0, len(societies))
	for idx := range societies {
		responses = append(responses, ToSocietyResponse(&societies[idx]))
	}
	return responses, total, nil
}

// Update renames or relocates a society
func (s *SocietyService) Update(ctx context.Context, id uuid.UUID, req UpdateSocietyRequest) (*SocietyResponse, error) {
	society, err := s.societyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if society == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Society not found")
	}

	if req.Name != nil && *req.Name != society.Name {
		existing, err := s.societyRepo.FindByName(ctx, *req.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A society with this name already exists")
		}
		if err := society.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Location != nil {
		society.Relocate(*req.Location)
	}

	if err := s.societyRepo.Save(ctx, society); err != nil {
		return nil, err
	}

	response := ToSocietyResponse(society)
	return &response, nil
}

// Delete soft deletes a society and its plots
func (s *SocietyService) Delete(ctx context.Context, id uuid.UUID) error {
	society, err := s.societyRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if society == nil {
		return shared.NewDomainError("NOT_FOUND", "Society not found")
	}
	return s.societyRepo.Delete(ctx, id)
}
