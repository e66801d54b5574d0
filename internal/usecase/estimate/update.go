package estimate

import (
	"context"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/domain/access"
	domain "github.com/gardenpro/landscape-api/internal/domain/estimate"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

type UpdateEstimateInput struct {
	Actor access.Actor `json:"-"`
	ID    uint         `json:"-"`

	Fields
	// A non-nil collection replaces every existing row.
	Services *[]ServiceLine            `json:"services"`
	Packages *[]models.EstimatePackage `json:"packages"`
}

// UpdateEstimate merges scalar fields and fully replaces the services and
// packages collections that are present, all in one transaction.
type UpdateEstimate struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateEstimate(repo domain.Repository, audit *audit.Dispatcher) *UpdateEstimate {
	return &UpdateEstimate{repo: repo, audit: audit}
}

func (uc *UpdateEstimate) Execute(ctx context.Context, in UpdateEstimateInput) (*models.Estimate, error) {
	if !in.Actor.IsAdmin() {
		return nil, httperr.ErrForbidden("Only admins can update estimates")
	}

	var packages []models.EstimatePackage
	if in.Packages != nil {
		packages = *in.Packages
		if err := domain.NormalizePackages(packages); err != nil {
			return nil, err
		}
	}

	var e *models.Estimate
	err := uc.repo.Transaction(ctx, func(repo domain.Repository) error {
		current, err := repo.Get(ctx, in.ID)
		if err != nil {
			return err
		}

		if err := in.Fields.apply(current); err != nil {
			return err
		}
		if in.Packages != nil {
			current.Packages = packages
		}
		if current.ApprovedPackage != "" && current.PackageNamed(current.ApprovedPackage) == nil {
			return httperr.ErrValidation("approvedPackage must name one of the estimate's packages")
		}
		if err := repo.UpdateScalars(ctx, current); err != nil {
			return err
		}

		if in.Services != nil {
			services, err := buildServices(ctx, repo, *in.Services)
			if err != nil {
				return err
			}
			if err := repo.ReplaceServices(ctx, current.ID, services); err != nil {
				return err
			}
		}

		if in.Packages != nil {
			if err := repo.ReplacePackages(ctx, current.ID, packages); err != nil {
				return err
			}
		}

		e, err = repo.Get(ctx, current.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.Actor.UserRef(),
		Action:   "estimate_updated",
		Entity:   "estimate",
		EntityID: &e.ID,
	})

	return e, nil
}
