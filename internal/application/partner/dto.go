package partner

import (
	"time"

	"github.com/estate/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// RegisterCustomerRequest represents a request to register a customer
type RegisterCustomerRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=100"`
	Phone   string `json:"phone" binding:"required"`
	CNIC    string `json:"cnic" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address" binding:"max=500"`
}

// UpdateCustomerRequest represents a customer profile update
type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

// CustomerResponse represents customer data returned to clients
type CustomerResponse struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	Phone      string      `json:"phone"`
	CNIC       string      `json:"cnic"`
	Email      string      `json:"email,omitempty"`
	Address    string      `json:"address,omitempty"`
	SocietyIDs []uuid.UUID `json:"society_ids"`
	PlotIDs    []uuid.UUID `json:"plot_ids"`
	Version    int         `json:"version"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// ToCustomerResponse converts a customer aggregate to a response DTO
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:         c.ID,
		Name:       c.Name,
		Phone:      c.Contact.Phone(),
		CNIC:       c.Contact.CNIC(),
		Email:      c.Contact.Email(),
		Address:    c.Contact.Address(),
		SocietyIDs: c.SocietyIDs,
		PlotIDs:    c.PlotIDs,
		Version:    c.Version,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// ToCustomerResponses converts a slice of customers
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, 0, len(customers))
	for idx := range customers {
		responses = append(responses, ToCustomerResponse(&customers[idx]))
	}
	return responses
}
