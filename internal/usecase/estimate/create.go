package estimate

import (
	"context"
	"time"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/domain/access"
	domain "github.com/gardenpro/landscape-api/internal/domain/estimate"
	"github.com/gardenpro/landscape-api/internal/domain/notification"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
	"github.com/gardenpro/landscape-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateEstimateInput struct {
	Actor access.Actor `json:"-"`

	// Ignored for customer requests, which always use the caller's profile.
	CustomerID uint `json:"customerId"`

	Fields
	Services []ServiceLine            `json:"services"`
	Packages []models.EstimatePackage `json:"packages"`
}

// ======================================================
// USE CASE
// ======================================================

// CreateEstimate inserts an estimate with its services, packages and line
// items in one transaction. Customers go through the request flow, which
// always starts at Requested and tells the office.
type CreateEstimate struct {
	repo       domain.Repository
	notifier   notification.Notifier
	audit      *audit.Dispatcher
	adminEmail string
	now        func() time.Time
}

func NewCreateEstimate(
	repo domain.Repository,
	notifier notification.Notifier,
	audit *audit.Dispatcher,
	adminEmail string,
) *CreateEstimate {
	return &CreateEstimate{
		repo:       repo,
		notifier:   notifier,
		audit:      audit,
		adminEmail: adminEmail,
		now:        timezone.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateEstimate) Execute(ctx context.Context, in CreateEstimateInput) (*models.Estimate, error) {
	request := in.Actor.IsCustomer()
	if request {
		// customers only describe the job; pricing is prepared by staff
		in.Fields.Status = nil
		in.Fields.ApprovedPackage = nil
		in.Fields.DepositRequired = nil
		in.Fields.DepositAmount = nil
		in.Fields.AssignedToID = nil
		in.Packages = nil
	} else if in.CustomerID == 0 {
		return nil, httperr.ErrValidation("Please provide customerId")
	}

	if err := domain.NormalizePackages(in.Packages); err != nil {
		return nil, err
	}

	now := uc.now()
	var e *models.Estimate

	err := uc.repo.Transaction(ctx, func(repo domain.Repository) error {
		var (
			customer *models.Customer
			err      error
		)
		if request {
			customer, err = repo.GetCustomerByUserID(ctx, in.Actor.UserID)
		} else {
			customer, err = repo.GetCustomer(ctx, in.CustomerID)
		}
		if err != nil {
			return err
		}

		services, err := buildServices(ctx, repo, in.Services)
		if err != nil {
			return err
		}

		expiry := now.Add(domain.DefaultExpiry)
		e = &models.Estimate{
			CustomerID:  customer.ID,
			Status:      string(domain.StatusRequested),
			ExpiryDate:  &expiry,
			CreatedByID: in.Actor.UserRef(),
			Services:    services,
			Packages:    in.Packages,
		}
		if err := in.Fields.apply(e); err != nil {
			return err
		}
		fillProperty(e, customer)

		e.EstimateNumber, err = repo.NextNumber(ctx, now)
		if err != nil {
			return err
		}

		if err := repo.Create(ctx, e); err != nil {
			return err
		}
		e.Customer = customer
		return nil
	})
	if err != nil {
		return nil, err
	}

	if request {
		notification.BestEffort(ctx, uc.notifier, "estimate",
			notification.EstimateRequested(uc.adminEmail, e.Customer, e))
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.Actor.UserRef(),
		Action:   "estimate_created",
		Entity:   "estimate",
		EntityID: &e.ID,
		Metadata: map[string]string{"estimateNumber": e.EstimateNumber},
	})

	return e, nil
}
