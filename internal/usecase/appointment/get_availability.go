package appointment

import (
	"context"

	domain "github.com/gardenpro/landscape-api/internal/domain/appointment"
	"github.com/gardenpro/landscape-api/internal/domain/schedule"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/timezone"
)

type GetAvailability struct {
	repo  domain.Repository
	cache domain.SlotCache
}

func NewGetAvailability(repo domain.Repository, cache domain.SlotCache) *GetAvailability {
	return &GetAvailability{repo: repo, cache: cache}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	if in.Date == "" || in.ServiceID == 0 {
		return nil, httperr.ErrValidation("Please provide date and serviceId")
	}
	if _, err := schedule.ParseDate(in.Date, timezone.Business()); err != nil {
		return nil, httperr.ErrValidation(err.Error())
	}

	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	key := domain.SlotKey{Date: in.Date, ServiceID: service.ID, Duration: service.Duration}
	if slots, ok := uc.cache.Get(ctx, key); ok {
		return slots, nil
	}

	// read before the appointments so a booking committed in between
	// makes the Set below a no-op
	version := uc.cache.Version(ctx, in.Date)

	appointments, err := uc.repo.ListAppointmentsOnDate(ctx, in.Date, false)
	if err != nil {
		return nil, err
	}

	slots := domain.ComputeSlots(service.Duration, domain.BookedWindows(appointments))
	uc.cache.Set(ctx, key, version, slots)

	return slots, nil
}
