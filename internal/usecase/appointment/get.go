package appointment

import (
	"context"

	"github.com/gardenpro/landscape-api/internal/domain/access"
	domain "github.com/gardenpro/landscape-api/internal/domain/appointment"
	"github.com/gardenpro/landscape-api/internal/models"
)

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

func (uc *GetAppointment) Execute(ctx context.Context, actor access.Actor, id uint) (*models.Appointment, error) {
	ap, err := uc.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsCustomer() {
		if err := assertOwner(ctx, uc.repo, actor, ap); err != nil {
			return nil, err
		}
	}
	return ap, nil
}
