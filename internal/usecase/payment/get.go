package payment

import (
	"context"

	"github.com/gardenpro/landscape-api/internal/domain/access"
	domain "github.com/gardenpro/landscape-api/internal/domain/payment"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

type GetPayment struct {
	repo domain.Repository
}

func NewGetPayment(repo domain.Repository) *GetPayment {
	return &GetPayment{repo: repo}
}

func (uc *GetPayment) Execute(ctx context.Context, actor access.Actor, id uint) (*models.Payment, error) {
	var p *models.Payment
	err := uc.repo.Transaction(ctx, func(repo domain.Repository) error {
		var err error
		p, err = repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if !actor.IsCustomer() {
			return nil
		}
		c, err := repo.GetCustomerByUserID(ctx, actor.UserID)
		if err != nil || c.ID != p.CustomerID {
			return httperr.ErrForbidden("Not authorized to access this payment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
