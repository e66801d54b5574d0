package payment

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/domain/access"
	"github.com/gardenpro/landscape-api/internal/domain/notification"
	domain "github.com/gardenpro/landscape-api/internal/domain/payment"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
	"github.com/gardenpro/landscape-api/internal/timezone"
)

type RefundInput struct {
	Actor access.Actor `json:"-"`
	ID    uint         `json:"-"`

	// nil refunds whatever has not been refunded yet.
	Amount *decimal.Decimal `json:"amount"`
	Reason string           `json:"reason"`
}

// RefundPayment refunds part or all of a completed payment. Refunds add up
// on the payment's refund record; the payment row is never removed.
type RefundPayment struct {
	repo     domain.Repository
	gateway  domain.Gateway
	notifier notification.Notifier
	audit    *audit.Dispatcher
	now      func() time.Time
}

func NewRefundPayment(
	repo domain.Repository,
	gateway domain.Gateway,
	notifier notification.Notifier,
	audit *audit.Dispatcher,
) *RefundPayment {
	return &RefundPayment{repo: repo, gateway: gateway, notifier: notifier, audit: audit, now: timezone.Now}
}

func (uc *RefundPayment) Execute(ctx context.Context, in RefundInput) (*models.Payment, error) {
	if !in.Actor.IsAdmin() {
		return nil, httperr.ErrForbidden("Only admins can refund payments")
	}

	var (
		p      *models.Payment
		amount decimal.Decimal
		issued string
	)

	err := uc.repo.Transaction(ctx, func(repo domain.Repository) error {
		var err error
		p, err = repo.Get(ctx, in.ID)
		if err != nil {
			return err
		}

		var status domain.Status
		amount, status, err = domain.PlanRefund(p, in.Amount)
		if err != nil {
			return err
		}

		if p.GatewayTransactionID != "" && p.Method == domain.MethodCard {
			full := status == domain.StatusRefunded && p.Refund.Amount.IsZero()
			res, err := uc.gateway.Refund(ctx, p.GatewayTransactionID, amount, full)
			if err != nil {
				return httperr.ErrExternal("Refund failed", err)
			}
			issued = res.TransactionID
			p.Refund.TransactionID = res.TransactionID
		}

		now := uc.now()
		p.Status = string(status)
		p.Refund.Amount = p.Refund.Amount.Add(amount)
		p.Refund.RefundedAt = &now
		if in.Reason != "" {
			p.Refund.Reason = in.Reason
		}
		if err := repo.Update(ctx, p); err != nil {
			return err
		}

		if p.AppointmentID != nil {
			if err := repo.SetAppointmentPaymentStatus(ctx, *p.AppointmentID, domain.AppointmentPaymentStatus(status)); err != nil {
				return err
			}
		}

		p.Customer, err = repo.GetCustomer(ctx, p.CustomerID)
		return err
	})
	if err != nil {
		if issued != "" {
			// money already left; only reconciliation can fix the record
			log.Printf("[payment][refund] ERROR gateway refund %s of %s for payment %d was issued but not recorded: %v",
				issued, amount.StringFixed(2), in.ID, err)
		}
		return nil, err
	}

	notification.BestEffort(ctx, uc.notifier, "payment", notification.RefundIssued(p.Customer, p, amount))

	uc.audit.Dispatch(audit.Event{
		UserID:   in.Actor.UserRef(),
		Action:   "payment_refunded",
		Entity:   "payment",
		EntityID: &p.ID,
		Metadata: map[string]string{"amount": amount.StringFixed(2), "status": p.Status},
	})

	return p, nil
}
