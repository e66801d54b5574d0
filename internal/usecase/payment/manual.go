package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/domain/access"
	domain "github.com/gardenpro/landscape-api/internal/domain/payment"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
	"github.com/gardenpro/landscape-api/internal/timezone"
)

type ManualPaymentInput struct {
	Actor access.Actor `json:"-"`

	CustomerID    uint            `json:"customerId"`
	AppointmentID *uint           `json:"appointmentId"`
	EstimateID    *uint           `json:"estimateId"`
	PaymentType   string          `json:"paymentType"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Notes         string          `json:"notes"`
}

// RecordManualPayment books a cash, check or transfer payment taken by staff.
type RecordManualPayment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewRecordManualPayment(repo domain.Repository, audit *audit.Dispatcher) *RecordManualPayment {
	return &RecordManualPayment{repo: repo, audit: audit, now: timezone.Now}
}

func (uc *RecordManualPayment) Execute(ctx context.Context, in ManualPaymentInput) (*models.Payment, error) {
	if !in.Actor.IsAdmin() {
		return nil, httperr.ErrForbidden("Only admins can record manual payments")
	}
	if in.CustomerID == 0 {
		return nil, httperr.ErrValidation("Please provide customerId")
	}
	if in.PaymentType == "" {
		in.PaymentType = domain.TypeAppointment
	}
	if err := domain.ValidateType(in.PaymentType); err != nil {
		return nil, err
	}
	if err := domain.ValidateManualMethod(in.Method); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(in.Amount); err != nil {
		return nil, err
	}
	if in.PaymentType == domain.TypeDeposit && in.EstimateID == nil {
		return nil, httperr.ErrValidation("A deposit needs an estimateId")
	}

	var p *models.Payment
	err := uc.repo.Transaction(ctx, func(repo domain.Repository) error {
		if _, err := repo.GetCustomer(ctx, in.CustomerID); err != nil {
			return err
		}
		if in.AppointmentID != nil {
			ap, err := repo.GetAppointment(ctx, *in.AppointmentID)
			if err != nil {
				return err
			}
			if ap.CustomerID != in.CustomerID {
				return httperr.ErrValidation("Appointment does not belong to this customer")
			}
		}
		if in.EstimateID != nil {
			e, err := repo.GetEstimate(ctx, *in.EstimateID)
			if err != nil {
				return err
			}
			if e.CustomerID != in.CustomerID {
				return httperr.ErrValidation("Estimate does not belong to this customer")
			}
		}

		p = &models.Payment{
			CustomerID:    in.CustomerID,
			AppointmentID: in.AppointmentID,
			EstimateID:    in.EstimateID,
			PaymentType:   in.PaymentType,
			Amount:        in.Amount,
			Status:        string(domain.StatusCompleted),
			Method:        in.Method,
			Currency:      domain.DefaultCurrency,
			Notes:         in.Notes,
			ProcessedByID: in.Actor.UserRef(),
		}
		if err := repo.Create(ctx, p); err != nil {
			return err
		}

		if in.AppointmentID != nil {
			if err := repo.SetAppointmentPaymentStatus(ctx, *in.AppointmentID, domain.AppointmentPaymentStatus(domain.StatusCompleted)); err != nil {
				return err
			}
		}
		if in.PaymentType == domain.TypeDeposit {
			return repo.MarkDepositPaid(ctx, *in.EstimateID, p.ID, uc.now())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.Actor.UserRef(),
		Action:   "payment_recorded",
		Entity:   "payment",
		EntityID: &p.ID,
		Metadata: map[string]string{"amount": p.Amount.StringFixed(2), "method": p.Method},
	})

	return p, nil
}
