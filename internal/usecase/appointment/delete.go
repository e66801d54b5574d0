package appointment

import (
	"context"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/domain/access"
	domain "github.com/gardenpro/landscape-api/internal/domain/appointment"
	"github.com/gardenpro/landscape-api/internal/domain/media"
)

type DeleteAppointment struct {
	repo  domain.Repository
	cache domain.SlotCache
	store media.Store
	audit *audit.Dispatcher
}

func NewDeleteAppointment(
	repo domain.Repository,
	cache domain.SlotCache,
	store media.Store,
	audit *audit.Dispatcher,
) *DeleteAppointment {
	return &DeleteAppointment{repo: repo, cache: cache, store: store, audit: audit}
}

// Execute removes the appointment with its crew and photo rows in one
// transaction. Stored photo objects are deleted afterwards, best-effort.
func (uc *DeleteAppointment) Execute(ctx context.Context, actor access.Actor, id uint) error {
	var (
		date   string
		stored []media.Stored
	)

	err := uc.repo.Transaction(ctx, func(repo domain.Repository) error {
		ap, err := repo.GetAppointment(ctx, id)
		if err != nil {
			return err
		}
		date = ap.Date
		for _, p := range ap.Photos {
			stored = append(stored, media.Stored{Key: p.StorageKey, URL: p.URL})
		}
		return repo.DeleteAppointment(ctx, id)
	})
	if err != nil {
		return err
	}

	uc.cache.Invalidate(ctx, date)
	media.Cleanup(ctx, uc.store, stored)

	uc.audit.Dispatch(audit.Event{
		UserID:   actor.UserRef(),
		Action:   "appointment_deleted",
		Entity:   "appointment",
		EntityID: &id,
	})
	return nil
}
