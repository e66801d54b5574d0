package payment

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

type Status string

const (
	StatusPending           Status = "Pending"
	StatusCompleted         Status = "Completed"
	StatusRefunded          Status = "Refunded"
	StatusPartiallyRefunded Status = "Partially Refunded"
)

const (
	TypeAppointment  = "Appointment"
	TypeDeposit      = "Deposit"
	TypeFinalPayment = "Final Payment"
	TypeOther        = "Other"
)

var paymentTypes = map[string]bool{
	TypeAppointment:  true,
	TypeDeposit:      true,
	TypeFinalPayment: true,
	TypeOther:        true,
}

var manualMethods = map[string]bool{
	"cash":          true,
	"check":         true,
	"bank_transfer": true,
	"other":         true,
}

const (
	MethodCard      = "card"
	DefaultCurrency = "USD"
)

func ValidateType(t string) error {
	if !paymentTypes[t] {
		return httperr.ErrValidation(fmt.Sprintf("Invalid payment type %q", t))
	}
	return nil
}

func ValidateManualMethod(m string) error {
	if !manualMethods[m] {
		return httperr.ErrValidation(fmt.Sprintf("Invalid payment method %q", m))
	}
	return nil
}

func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return httperr.ErrValidation("Amount must be greater than zero")
	}
	if !amount.Equal(amount.Round(2)) {
		return httperr.ErrValidation("Amount cannot have more than two decimal places")
	}
	return nil
}

// PlanRefund works out how much to refund and the resulting status.
// requested nil means refund everything not yet refunded.
func PlanRefund(p *models.Payment, requested *decimal.Decimal) (decimal.Decimal, Status, error) {
	switch Status(p.Status) {
	case StatusRefunded:
		return decimal.Zero, "", httperr.ErrValidation("Payment has already been refunded")
	case StatusCompleted, StatusPartiallyRefunded:
	default:
		return decimal.Zero, "", httperr.ErrValidation(fmt.Sprintf("A %s payment cannot be refunded", p.Status))
	}

	remaining := p.Amount.Sub(p.Refund.Amount)

	amount := remaining
	if requested != nil {
		amount = *requested
	}
	if !amount.IsPositive() {
		return decimal.Zero, "", httperr.ErrValidation("Refund amount must be greater than zero")
	}
	if amount.GreaterThan(remaining) {
		return decimal.Zero, "", httperr.ErrValidation(fmt.Sprintf("Refund amount cannot exceed %s", remaining.StringFixed(2)))
	}

	if p.Refund.Amount.Add(amount).Equal(p.Amount) {
		return amount, StatusRefunded, nil
	}
	return amount, StatusPartiallyRefunded, nil
}

// AppointmentPaymentStatus mirrors a payment's status onto its appointment.
func AppointmentPaymentStatus(s Status) string {
	switch s {
	case StatusRefunded:
		return "Refunded"
	case StatusPartiallyRefunded:
		return "Partially Refunded"
	case StatusCompleted:
		return "Paid"
	}
	return "Pending"
}
