package estate

import (
	"time"

	"github.com/estate/backend/internal/domain/estate"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegisterPlotRequest represents a request to add a plot to the inventory
type RegisterPlotRequest struct {
	SocietyID  uuid.UUID       `json:"society_id" binding:"required"`
	PlotNumber string          `json:"plot_number" binding:"required,min=1,max=50"`
	Block      string          `json:"block" binding:"max=50"`
	Size       string          `json:"size" binding:"required"`
	Category   string          `json:"category" binding:"required"`
	PlotType   string          `json:"plot_type" binding:"required"`
	Price      decimal.Decimal `json:"price" binding:"required"`
}

// UpdatePlotPriceRequest represents a price revision
type UpdatePlotPriceRequest struct {
	Price decimal.Decimal `json:"price" binding:"required"`
}

// PlotResponse represents plot data returned to clients
type PlotResponse struct {
	ID            uuid.UUID            `json:"id"`
	SocietyID     uuid.UUID            `json:"society_id"`
	PlotNumber    string               `json:"plot_number"`
	Block         string               `json:"block,omitempty"`
	Size          string               `json:"size"`
	SizeMarla     decimal.Decimal      `json:"size_marla"`
	Category      string               `json:"category"`
	PlotType      string               `json:"plot_type"`
	Status        string               `json:"status"`
	BookingState  string               `json:"booking_state"`
	CustomerID    *uuid.UUID           `json:"customer_id,omitempty"`
	Price         decimal.Decimal      `json:"price"`
	SaleHistory   []SaleRecordResponse `json:"sale_history,omitempty"`
	AvailableFrom *time.Time           `json:"available_from,omitempty"`
	Version       int                  `json:"version"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// SaleRecordResponse represents one entry of a plot's sale history
type SaleRecordResponse struct {
	CustomerID uuid.UUID       `json:"customer_id"`
	BookingID  uuid.UUID       `json:"booking_id"`
	SaleAmount decimal.Decimal `json:"sale_amount"`
	SaleDate   time.Time       `json:"sale_date"`
}

// CreateSocietyRequest represents a request to register a housing society
type CreateSocietyRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Location string `json:"location" binding:"max=200"`
}

// UpdateSocietyRequest represents a society rename or relocation
type UpdateSocietyRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
}

// SocietyResponse represents society data returned to clients
type SocietyResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToPlotResponse converts a plot aggregate to a response DTO
func ToPlotResponse(p *estate.Plot) PlotResponse {
	response := PlotResponse{
		ID:            p.ID,
		SocietyID:     p.SocietyID,
		PlotNumber:    p.PlotNumber,
		Block:         p.Block,
		Size:          p.Size.String(),
		SizeMarla:     p.Size.InMarla(),
		Category:      string(p.Category),
		PlotType:      string(p.PlotType),
		Status:        p.Status.String(),
		BookingState:  p.BookingState.String(),
		CustomerID:    p.CustomerID,
		Price:         p.Price,
		AvailableFrom: p.AvailableFrom,
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	for _, sale := range p.SaleHistory {
		response.SaleHistory = append(response.SaleHistory, SaleRecordResponse{
			CustomerID: sale.CustomerID,
			BookingID:  sale.BookingID,
			SaleAmount: sale.SaleAmount,
			SaleDate:   sale.SaleDate,
		})
	}
	return response
}

// ToPlotResponses converts a slice of plots
func ToPlotResponses(plots []estate.Plot) []PlotResponse {
	responses := make([]PlotResponse, 0, len(plots))
	for idx := range plots {
		responses = append(responses, ToPlotResponse(&plots[idx]))
	}
	return responses
}

// ToSocietyResponse converts a society aggregate to a response DTO
func ToSocietyResponse(s *estate.Society) SocietyResponse {
	return SocietyResponse{
		ID:        s.ID,
		Name:      s.Name,
		Location:  s.Location,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
