package estimate

import (
	"context"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/domain/access"
	domain "github.com/gardenpro/landscape-api/internal/domain/estimate"
	"github.com/gardenpro/landscape-api/internal/domain/media"
)

type DeleteEstimate struct {
	repo  domain.Repository
	store media.Store
	audit *audit.Dispatcher
}

func NewDeleteEstimate(repo domain.Repository, store media.Store, audit *audit.Dispatcher) *DeleteEstimate {
	return &DeleteEstimate{repo: repo, store: store, audit: audit}
}

// Execute deletes line items, packages, services, photos and the estimate in
// one transaction, then removes stored photo objects.
func (uc *DeleteEstimate) Execute(ctx context.Context, actor access.Actor, id uint) error {
	var stored []media.Stored

	err := uc.repo.Transaction(ctx, func(repo domain.Repository) error {
		e, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		for _, p := range e.Photos {
			stored = append(stored, media.Stored{Key: p.StorageKey, URL: p.URL})
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	media.Cleanup(ctx, uc.store, stored)

	uc.audit.Dispatch(audit.Event{
		UserID:   actor.UserRef(),
		Action:   "estimate_deleted",
		Entity:   "estimate",
		EntityID: &id,
	})
	return nil
}
