package estimate

import (
	"context"
	"fmt"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/domain/access"
	domain "github.com/gardenpro/landscape-api/internal/domain/estimate"
	"github.com/gardenpro/landscape-api/internal/domain/notification"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

// ApproveEstimate lets the owning customer accept one of the packages.
type ApproveEstimate struct {
	repo       domain.Repository
	notifier   notification.Notifier
	audit      *audit.Dispatcher
	adminEmail string
}

func NewApproveEstimate(
	repo domain.Repository,
	notifier notification.Notifier,
	audit *audit.Dispatcher,
	adminEmail string,
) *ApproveEstimate {
	return &ApproveEstimate{repo: repo, notifier: notifier, audit: audit, adminEmail: adminEmail}
}

func (uc *ApproveEstimate) Execute(ctx context.Context, actor access.Actor, id uint, packageName string) (*models.Estimate, error) {
	if packageName == "" {
		return nil, httperr.ErrValidation("Please provide packageName")
	}

	var e *models.Estimate
	err := uc.repo.Transaction(ctx, func(repo domain.Repository) error {
		var err error
		e, err = repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := assertRespondent(ctx, repo, actor, e); err != nil {
			return err
		}
		if e.PackageNamed(packageName) == nil {
			return httperr.ErrNotFound(fmt.Sprintf("Package %s not found on this estimate", packageName))
		}

		e.Status = string(domain.StatusApproved)
		e.ApprovedPackage = packageName
		return repo.UpdateScalars(ctx, e)
	})
	if err != nil {
		return nil, err
	}

	notification.BestEffort(ctx, uc.notifier, "estimate",
		notification.EstimateApproved(uc.adminEmail, e.Customer, e))

	uc.audit.Dispatch(audit.Event{
		UserID:   actor.UserRef(),
		Action:   "estimate_approved",
		Entity:   "estimate",
		EntityID: &e.ID,
		Metadata: map[string]string{"package": packageName},
	})

	return e, nil
}

// DeclineEstimate closes the estimate on the customer's behalf.
type DeclineEstimate struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeclineEstimate(repo domain.Repository, audit *audit.Dispatcher) *DeclineEstimate {
	return &DeclineEstimate{repo: repo, audit: audit}
}

func (uc *DeclineEstimate) Execute(ctx context.Context, actor access.Actor, id uint) (*models.Estimate, error) {
	var e *models.Estimate
	err := uc.repo.Transaction(ctx, func(repo domain.Repository) error {
		var err error
		e, err = repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := assertRespondent(ctx, repo, actor, e); err != nil {
			return err
		}
		e.Status = string(domain.StatusDeclined)
		return repo.UpdateScalars(ctx, e)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actor.UserRef(),
		Action:   "estimate_declined",
		Entity:   "estimate",
		EntityID: &e.ID,
	})
	return e, nil
}

func assertRespondent(ctx context.Context, repo domain.Repository, actor access.Actor, e *models.Estimate) error {
	if !actor.IsCustomer() {
		return httperr.ErrForbidden("Only the customer can respond to an estimate")
	}
	if err := assertOwner(ctx, repo, actor, e); err != nil {
		return err
	}
	return domain.CanRespond(domain.Status(e.Status))
}
