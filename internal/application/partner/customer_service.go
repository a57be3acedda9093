package partner

import (
	"context"

	"github.com/estate/backend/internal/domain/partner"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo   partner.CustomerRepository
	eventPublisher shared.EventPublisher
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *CustomerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Register creates a new customer profile. The CNIC is unique across
// the whole system; societies share one customer directory.
func (s *CustomerService) Register(ctx context.Context, req RegisterCustomerRequest) (*CustomerResponse, error) {
	contact, err := buildContact(req.Phone, req.CNIC, req.Email, req.Address)
	if err != nil {
		return nil, err
	}

	existing, err := s.customerRepo.FindByCNIC(ctx, contact.CNIC())
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A customer with this CNIC already exists")
	}

	customer, err := partner.NewCustomer(req.Name, contact)
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		for _, event := range customer.GetDomainEvents() {
			// Best effort, the bus logs its own delivery failures
			_ = s.eventPublisher.Publish(ctx, event)
		}
		customer.ClearDomainEvents()
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID returns a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByCNIC returns a customer by national identity number
func (s *CustomerService) GetByCNIC(ctx context.Context, cnic string) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByCNIC(ctx, cnic)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List returns customers matching the filter
func (s *CustomerService) List(ctx context.Context, filter shared.Filter) ([]CustomerResponse, int64, error) {
	customers, err := s.customerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToCustomerResponses(customers), total, nil
}

// ListBySociety returns the members of a society
func (s *CustomerService) ListBySociety(ctx context.Context, societyID uuid.UUID, filter shared.Filter) ([]CustomerResponse, error) {
	customers, err := s.customerRepo.FindBySociety(ctx, societyID, filter)
	if err != nil {
		return nil, err
	}
	return ToCustomerResponses(customers), nil
}

// Update applies a partial customer profile update. The CNIC never
// changes; it identifies the person.
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
	}

	if req.Name != nil {
		if err := customer.Rename(*req.Name); err != nil {
			return nil, err
		}
	}

	if req.Phone != nil || req.Email != nil || req.Address != nil {
		phone := customer.Contact.Phone()
		email := customer.Contact.Email()
		address := customer.Contact.Address()
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Email != nil {
			email = *req.Email
		}
		if req.Address != nil {
			address = *req.Address
		}
		contact, err := buildContact(phone, customer.Contact.CNIC(), email, address)
		if err != nil {
			return nil, err
		}
		if err := customer.UpdateContact(contact); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.SaveWithLock(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete soft deletes a customer without plots
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return shared.NewDomainError("NOT_FOUND", "Customer not found")
	}
	if len(customer.PlotIDs) > 0 {
		return shared.NewDomainError("INVALID_STATE", "A customer holding plots cannot be deleted")
	}
	return s.customerRepo.Delete(ctx, id)
}

func buildContact(phone, cnic, email, address string) (valueobject.Contact, error) {
	opts := make([]valueobject.ContactOption, 0, 2)
	if email != "" {
		opts = append(opts, valueobject.WithEmail(email))
	}
	if address != "" {
		opts = append(opts, valueobject.WithAddress(address))
	}
	return valueobject.NewContact(phone, cnic, opts...)
}
