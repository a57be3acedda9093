package estate

import (
	"context"

	"github.com/estate/backend/internal/domain/estate"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PlotService handles plot inventory operations
type PlotService struct {
	plotRepo    estate.PlotRepository
	societyRepo estate.SocietyRepository
}

// NewPlotService creates a new PlotService
func NewPlotService(plotRepo estate.PlotRepository, societyRepo estate.SocietyRepository) *PlotService {
	return &PlotService{
		plotRepo:    plotRepo,
		societyRepo: societyRepo,
	}
}

// Register adds a plot to a society's inventory. The plot number must
// be unique within the society.
func (s *PlotService) Register(ctx context.Context, req RegisterPlotRequest) (*PlotResponse, error) {
	society, err := s.societyRepo.FindByID(ctx, req.SocietyID)
	if err != nil {
		return nil, err
	}
	if society == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Society not found")
	}

	existing, err := s.plotRepo.FindByNumber(ctx, req.SocietyID, req.PlotNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A plot with this number already exists in the society")
	}

	size, err := valueobject.ParsePlotSize(req.Size)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	plot, err := estate.NewPlot(
		req.SocietyID,
		req.PlotNumber,
		req.Block,
		size,
		estate.PlotCategory(req.Category),
		estate.PlotType(req.PlotType),
		valueobject.NewMoneyPKR(req.Price),
	)
	if err != nil {
		return nil, err
	}

	if err := s.plotRepo.Save(ctx, plot); err != nil {
		return nil, err
	}

	response := ToPlotResponse(plot)
	return &response, nil
}

// GetByID returns a plot by ID
func (s *PlotService) GetByID(ctx context.Context, id uuid.UUID) (*PlotResponse, error) {
	plot, err := s.plotRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plot == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Plot not found")
	}
	response := ToPlotResponse(plot)
	return &response, nil
}

// GetByNumber returns a plot by its number within a society
func (s *PlotService) GetByNumber(ctx context.Context, societyID uuid.UUID, plotNumber string) (*PlotResponse, error) {
	plot, err := s.plotRepo.FindByNumber(ctx, societyID, plotNumber)
	if err != nil {
		return nil, err
	}
	if plot == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Plot not found")
	}
	response := ToPlotResponse(plot)
	return &response, nil
}

// List returns plots matching the filter
func (s *PlotService) List(ctx context.Context, filter estate.PlotFilter) ([]PlotResponse, int64, error) {
	plots, err := s.plotRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.plotRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToPlotResponses(plots), total, nil
}

// ListByCustomer returns the plots owned by a customer
func (s *PlotService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]PlotResponse, error) {
	plots, err := s.plotRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return ToPlotResponses(plots), nil
}

// UpdatePrice revises the asking price of an unsold plot
func (s *PlotService) UpdatePrice(ctx context.Context, id uuid.UUID, req UpdatePlotPriceRequest) (*PlotResponse, error) {
	plot, err := s.plotRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plot == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Plot not found")
	}

	if err := plot.UpdatePrice(valueobject.NewMoneyPKR(req.Price)); err != nil {
		return nil, err
	}
	if err := s.plotRepo.SaveWithLock(ctx, plot); err != nil {
		return nil, err
	}

	response := ToPlotResponse(plot)
	return &response, nil
}

// Hold takes a plot off the market without selling it
func (s *PlotService) Hold(ctx context.Context, id uuid.UUID) (*PlotResponse, error) {
	return s.transition(ctx, id, (*estate.Plot).Hold)
}

// ReleaseHold puts a held plot back on the market
func (s *PlotService) ReleaseHold(ctx context.Context, id uuid.UUID) (*PlotResponse, error) {
	return s.transition(ctx, id, (*estate.Plot).ReleaseHold)
}

// Delete soft deletes a plot
func (s *PlotService) Delete(ctx context.Context, id uuid.UUID) error {
	plot, err := s.plotRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if plot == nil {
		return shared.NewDomainError("NOT_FOUND", "Plot not found")
	}
	if plot.BookingState != estate.BookingStateAvailable {
		return shared.NewDomainError("INVALID_STATE", "A booked plot cannot be deleted")
	}
	return s.plotRepo.Delete(ctx, id)
}

func (s *PlotService) transition(ctx context.Context, id uuid.UUID, op func(*estate.Plot) error) (*PlotResponse, error) {
	plot, err := s.plotRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plot == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Plot not found")
	}

	if err := op(plot); err != nil {
		return nil, err
	}
	if err := s.plotRepo.SaveWithLock(ctx, plot); err != nil {
		return nil, err
	}

	response := ToPlotResponse(plot)
	return &response, nil
}
