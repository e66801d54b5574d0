package payment

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/domain/access"
	"github.com/gardenpro/landscape-api/internal/domain/notification"
	domain "github.com/gardenpro/landscape-api/internal/domain/payment"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
	"github.com/gardenpro/landscape-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type ProcessPaymentInput struct {
	Actor access.Actor `json:"-"`

	// Staff may pay on behalf of a customer.
	CustomerID    *uint `json:"customerId"`
	AppointmentID *uint `json:"appointmentId"`
	EstimateID    *uint `json:"estimateId"`

	PaymentType    string            `json:"paymentType"`
	Amount         decimal.Decimal   `json:"amount"`
	Currency       string            `json:"currency"`
	CardToken      string            `json:"cardToken"`
	BillingAddress datatypes.JSONMap `json:"billingAddress"`
	Notes          string            `json:"notes"`
}

// ======================================================
// USE CASE
// ======================================================

// ProcessPayment charges a card and records the payment. The charge runs
// inside the transaction: a declined or failed charge writes nothing, and a
// charge whose bookkeeping then fails is refunded.
type ProcessPayment struct {
	repo        domain.Repository
	gateway     domain.Gateway
	gatewayName string
	notifier    notification.Notifier
	audit       *audit.Dispatcher
	now         func() time.Time
}

func NewProcessPayment(
	repo domain.Repository,
	gateway domain.Gateway,
	gatewayName string,
	notifier notification.Notifier,
	audit *audit.Dispatcher,
) *ProcessPayment {
	return &ProcessPayment{
		repo:        repo,
		gateway:     gateway,
		gatewayName: gatewayName,
		notifier:    notifier,
		audit:       audit,
		now:         timezone.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *ProcessPayment) Execute(ctx context.Context, in ProcessPaymentInput) (*models.Payment, error) {
	if in.PaymentType == "" {
		in.PaymentType = domain.TypeAppointment
	}
	if err := domain.ValidateType(in.PaymentType); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(in.Amount); err != nil {
		return nil, err
	}
	if in.CardToken == "" {
		return nil, httperr.ErrValidation("Please provide cardToken")
	}
	if in.PaymentType == domain.TypeDeposit && in.EstimateID == nil {
		return nil, httperr.ErrValidation("A deposit needs an estimateId")
	}
	if in.Currency == "" {
		in.Currency = domain.DefaultCurrency
	}

	var (
		p      *models.Payment
		charge *domain.ChargeResult
	)

	err := uc.repo.Transaction(ctx, func(repo domain.Repository) error {
		customer, err := uc.payer(ctx, repo, in)
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// Gateway
		// --------------------------------------------------
		res, err := uc.gateway.Charge(ctx, domain.ChargeRequest{
			Amount:      in.Amount,
			Currency:    in.Currency,
			CardToken:   in.CardToken,
			Description: fmt.Sprintf("%s payment", in.PaymentType),
			PayerEmail:  customer.Email(),
			Reference:   reference(in),
		})
		if err != nil {
			return httperr.ErrExternal("Payment processing failed", err)
		}
		if !res.Approved {
			return httperr.ErrExternal("Payment was not approved", fmt.Errorf("gateway status %s", res.Status))
		}
		charge = &res

		// --------------------------------------------------
		// Bookkeeping
		// --------------------------------------------------
		p = &models.Payment{
			CustomerID:           customer.ID,
			AppointmentID:        in.AppointmentID,
			EstimateID:           in.EstimateID,
			PaymentType:          in.PaymentType,
			Amount:               in.Amount,
			Status:               string(domain.StatusCompleted),
			Method:               domain.MethodCard,
			Currency:             in.Currency,
			Gateway:              uc.gatewayName,
			GatewayTransactionID: res.TransactionID,
			BillingAddress:       in.BillingAddress,
			CardDetails:          datatypes.JSONMap{"last4": res.CardLast4, "brand": res.CardBrand},
			Notes:                in.Notes,
			ProcessedByID:        in.Actor.UserRef(),
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
			if err := repo.MarkDepositPaid(ctx, *in.EstimateID, p.ID, uc.now()); err != nil {
				return err
			}
		}

		p.Customer = customer
		return nil
	})
	if err != nil {
		if charge != nil {
			uc.compensate(ctx, charge.TransactionID, in.Amount)
		}
		return nil, err
	}

	notification.BestEffort(ctx, uc.notifier, "payment", notification.PaymentReceipt(p.Customer, p))

	uc.audit.Dispatch(audit.Event{
		UserID:   in.Actor.UserRef(),
		Action:   "payment_processed",
		Entity:   "payment",
		EntityID: &p.ID,
		Metadata: map[string]string{"amount": p.Amount.StringFixed(2), "type": p.PaymentType},
	})

	return p, nil
}

// payer resolves the paying customer and checks the appointment or estimate
// being paid belongs to them.
func (uc *ProcessPayment) payer(ctx context.Context, repo domain.Repository, in ProcessPaymentInput) (*models.Customer, error) {
	var (
		customerID uint
		err        error
	)

	var c *models.Customer
	if in.Actor.IsCustomer() {
		c, err = repo.GetCustomerByUserID(ctx, in.Actor.UserID)
		if err != nil {
			return nil, err
		}
		customerID = c.ID
	} else if in.CustomerID != nil {
		customerID = *in.CustomerID
	}

	if in.AppointmentID != nil {
		ap, err := repo.GetAppointment(ctx, *in.AppointmentID)
		if err != nil {
			return nil, err
		}
		if customerID == 0 {
			customerID = ap.CustomerID
		}
		if ap.CustomerID != customerID {
			return nil, httperr.ErrForbidden("Appointment does not belong to this customer")
		}
	}

	if in.EstimateID != nil {
		e, err := repo.GetEstimate(ctx, *in.EstimateID)
		if err != nil {
			return nil, err
		}
		if customerID == 0 {
			customerID = e.CustomerID
		}
		if e.CustomerID != customerID {
			return nil, httperr.ErrForbidden("Estimate does not belong to this customer")
		}
	}

	if c != nil {
		return c, nil
	}
	if customerID == 0 {
		return nil, httperr.ErrValidation("Please provide customerId")
	}
	return repo.GetCustomer(ctx, customerID)
}

func (uc *ProcessPayment) compensate(ctx context.Context, transactionID string, amount decimal.Decimal) {
	if _, err := uc.gateway.Refund(context.WithoutCancel(ctx), transactionID, amount, true); err != nil {
		log.Printf("[payment][gateway] charge %s could not be reversed: %v", transactionID, err)
	}
}

func reference(in ProcessPaymentInput) string {
	switch {
	case in.AppointmentID != nil:
		return fmt.Sprintf("appointment-%d", *in.AppointmentID)
	case in.EstimateID != nil:
		return fmt.Sprintf("estimate-%d", *in.EstimateID)
	}
	return ""
}
