package booking

import (
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GenerateSchedule builds the monthly installment plan for a booking.
// The principal is split into years*12 parts: every part carries the
// amount truncated to two decimal places except the last, which absorbs
// the rounding remainder so the schedule sums back to the principal
// exactly. Due dates run monthly starting one month after the booking.
func GenerateSchedule(
	societyID uuid.UUID,
	bookingID uuid.UUID,
	customerID uuid.UUID,
	plotID uuid.UUID,
	principal valueobject.Money,
	years int,
	from time.Time,
) ([]*Installment, error) {
	if years <= 0 {
		return nil, shared.NewDomainError("INVALID_TERM", "Installment term must be a positive number of years")
	}
	if principal.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Schedule principal must be positive")
	}

	months := years * 12
	parts, err := principal.SplitEven(months)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	installments := make([]*Installment, 0, months)
	for idx, part := range parts {
		inst, err := NewInstallment(
			societyID,
			bookingID,
			customerID,
			plotID,
			idx+1,
			from.AddDate(0, idx+1, 0),
			part,
		)
		if err != nil {
			return nil, err
		}
		installments = append(installments, inst)
	}

	return installments, nil
}

// ScheduleTotal sums the scheduled amounts of a set of installments
func ScheduleTotal(installments []*Installment) valueobject.Money {
	total := valueobject.ZeroPKR()
	for _, inst := range installments {
		total = total.MustAdd(inst.GetAmountMoney())
	}
	return total
}
