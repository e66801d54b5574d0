package appointment

import (
	"context"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/domain/access"
	domain "github.com/gardenpro/landscape-api/internal/domain/appointment"
	"github.com/gardenpro/landscape-api/internal/domain/notification"
	"github.com/gardenpro/landscape-api/internal/domain/schedule"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
	"github.com/gardenpro/landscape-api/internal/timezone"
)

type RescheduleRequestInput struct {
	Actor         access.Actor
	ID            uint
	RequestedDate string
	RequestedTime string
	Reason        string
}

// RequestReschedule records a customer's wish to move an appointment. The
// stored date and time stay as they are until staff apply the change.
type RequestReschedule struct {
	repo       domain.Repository
	notifier   notification.Notifier
	audit      *audit.Dispatcher
	adminEmail string
}

func NewRequestReschedule(
	repo domain.Repository,
	notifier notification.Notifier,
	audit *audit.Dispatcher,
	adminEmail string,
) *RequestReschedule {
	return &RequestReschedule{
		repo:       repo,
		notifier:   notifier,
		audit:      audit,
		adminEmail: adminEmail,
	}
}

func (uc *RequestReschedule) Execute(ctx context.Context, in RescheduleRequestInput) (*models.Appointment, error) {
	if in.RequestedDate == "" || in.RequestedTime == "" {
		return nil, httperr.ErrValidation("Please provide requestedDate and requestedTime")
	}
	if _, err := schedule.ParseDate(in.RequestedDate, timezone.Business()); err != nil {
		return nil, httperr.ErrValidation(err.Error())
	}
	if _, err := schedule.ParseClock(in.RequestedTime); err != nil {
		return nil, httperr.ErrValidation(err.Error())
	}

	var ap *models.Appointment
	err := uc.repo.Transaction(ctx, func(repo domain.Repository) error {
		var err error
		ap, err = repo.GetAppointment(ctx, in.ID)
		if err != nil {
			return err
		}
		if err := assertOwner(ctx, repo, in.Actor, ap); err != nil {
			return err
		}
		if err := domain.RequestReschedule(ap, in.RequestedDate, in.RequestedTime, in.Reason); err != nil {
			return err
		}
		return repo.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	notification.BestEffort(ctx, uc.notifier, "appointment",
		notification.RescheduleRequested(uc.adminEmail, ap.Customer, ap))

	uc.audit.Dispatch(audit.Event{
		UserID:   in.Actor.UserRef(),
		Action:   "appointment_reschedule_requested",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]string{"requestedDate": in.RequestedDate, "requestedTime": in.RequestedTime},
	})

	return ap, nil
}
