package estimate

import (
	"context"
	"time"

	"github.com/gardenpro/landscape-api/internal/domain/access"
	domain "github.com/gardenpro/landscape-api/internal/domain/estimate"
	"github.com/gardenpro/landscape-api/internal/models"
	"github.com/gardenpro/landscape-api/internal/timezone"
)

type GetEstimate struct {
	repo domain.Repository
}

func NewGetEstimate(repo domain.Repository) *GetEstimate {
	return &GetEstimate{repo: repo}
}

func (uc *GetEstimate) Execute(ctx context.Context, actor access.Actor, id uint) (*models.Estimate, error) {
	e, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := assertOwner(ctx, uc.repo, actor, e); err != nil {
		return nil, err
	}
	return e, nil
}

type ListMyEstimates struct {
	repo domain.Repository
}

func NewListMyEstimates(repo domain.Repository) *ListMyEstimates {
	return &ListMyEstimates{repo: repo}
}

func (uc *ListMyEstimates) Execute(ctx context.Context, actor access.Actor) ([]models.Estimate, error) {
	c, err := uc.repo.GetCustomerByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return uc.repo.ListByCustomer(ctx, c.ID)
}

// ExpireOverdue marks Sent estimates past their expiry date as Expired.
type ExpireOverdue struct {
	repo domain.Repository
	now  func() time.Time
}

func NewExpireOverdue(repo domain.Repository) *ExpireOverdue {
	return &ExpireOverdue{repo: repo, now: timezone.Now}
}

func (uc *ExpireOverdue) Execute(ctx context.Context) (int64, error) {
	return uc.repo.ExpireOverdue(ctx, uc.now())
}
