package appointment

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/domain/access"
	domain "github.com/gardenpro/landscape-api/internal/domain/appointment"
	"github.com/gardenpro/landscape-api/internal/domain/crew"
	"github.com/gardenpro/landscape-api/internal/domain/notification"
	"github.com/gardenpro/landscape-api/internal/domain/schedule"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
	"github.com/gardenpro/landscape-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type UpdateAppointmentInput struct {
	Actor access.Actor
	ID    uint

	// Keys are the field names present in the request body.
	Keys []string

	Date      *string
	StartTime *string
	EndTime   *string
	Status    *string
	ServiceID *uint
	Notes     *string
	Price     *decimal.Decimal
}

// ======================================================
// USE CASE
// ======================================================

type UpdateAppointment struct {
	repo     domain.Repository
	cache    domain.SlotCache
	notifier notification.Notifier
	audit    *audit.Dispatcher
	now      func() time.Time
}

func NewUpdateAppointment(
	repo domain.Repository,
	cache domain.SlotCache,
	notifier notification.Notifier,
	audit *audit.Dispatcher,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		audit:    audit,
		now:      timezone.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	if in.Actor.IsCustomer() {
		if bad := domain.DisallowedCustomerFields(in.Keys); len(bad) > 0 {
			return nil, httperr.ErrForbidden(fmt.Sprintf(
				"Customers can only update date, startTime and endTime (not allowed: %s)",
				strings.Join(bad, ", "),
			))
		}
	}

	var (
		ap          *models.Appointment
		oldDate     string
		timeChanged bool
		completed   bool
	)

	err := uc.repo.Transaction(ctx, func(repo domain.Repository) error {
		var err error

		ap, err = repo.GetAppointment(ctx, in.ID)
		if err != nil {
			return err
		}

		if in.Actor.IsCustomer() {
			if err := assertOwner(ctx, repo, in.Actor, ap); err != nil {
				return err
			}
			if domain.Status(ap.Status).IsTerminal() {
				return httperr.ErrValidation(fmt.Sprintf("A %s appointment cannot be changed", strings.ToLower(ap.Status)))
			}
		}

		// --------------------------------------------------
		// Date / time
		// --------------------------------------------------
		oldDate = ap.Date
		oldStart, oldEnd := ap.StartTime, ap.EndTime

		if in.Date != nil {
			if _, err := schedule.ParseDate(*in.Date, timezone.Business()); err != nil {
				return httperr.ErrValidation(err.Error())
			}
			ap.Date = *in.Date
		}
		if in.StartTime != nil {
			ap.StartTime = *in.StartTime
		}
		if in.EndTime != nil {
			ap.EndTime = *in.EndTime
		}

		window, err := domain.Window(ap)
		if err != nil {
			return httperr.ErrValidation(err.Error())
		}
		ap.StartTime, ap.EndTime = window.StartClock(), window.EndClock()

		timeChanged = ap.Date != oldDate || ap.StartTime != oldStart || ap.EndTime != oldEnd
		if timeChanged && in.Actor.IsCustomer() {
			if err := assertBookable(ctx, repo, ap.Date, window, ap.ID); err != nil {
				return err
			}
		}

		// --------------------------------------------------
		// Staff-only fields
		// --------------------------------------------------
		if in.ServiceID != nil && *in.ServiceID != ap.ServiceID {
			svc, err := repo.GetService(ctx, *in.ServiceID)
			if err != nil {
				return err
			}
			ap.ServiceID, ap.Service = svc.ID, svc
		}
		if in.Notes != nil {
			ap.Notes = *in.Notes
		}
		if in.Price != nil {
			if in.Price.IsNegative() {
				return httperr.ErrValidation("Price cannot be negative")
			}
			ap.Price = *in.Price
		}

		// --------------------------------------------------
		// Status
		// --------------------------------------------------
		switch {
		case in.Status != nil:
			next, err := domain.ParseStatus(*in.Status)
			if err != nil {
				return err
			}
			completed, err = domain.ApplyStatus(ap, next, uc.now())
			if err != nil {
				return err
			}
		case timeChanged && !in.Actor.IsCustomer() && domain.Status(ap.Status) == domain.StatusRescheduled:
			// staff applied the requested move
			ap.Status = string(domain.StatusScheduled)
			ap.RequestedDate, ap.RequestedTime = "", ""
		}

		if timeChanged && domain.Status(ap.Status) != domain.StatusCancelled {
			if err := assertCrewFree(ctx, repo, ap); err != nil {
				return err
			}
		}

		return repo.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, oldDate, ap.Date)

	// --------------------------------------------------
	// Notifications (best-effort)
	// --------------------------------------------------
	switch {
	case completed:
		if notification.BestEffort(ctx, uc.notifier, "appointment", notification.AppointmentCompleted(ap.Customer, ap)) {
			ap.CompletionSent = true
			uc.saveFlags(ctx, ap)
		}
	case timeChanged:
		notification.BestEffort(ctx, uc.notifier, "appointment", notification.AppointmentRescheduled(ap.Customer, ap))
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.Actor.UserRef(),
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"status": ap.Status, "fields": in.Keys},
	})

	return ap, nil
}

func (uc *UpdateAppointment) saveFlags(ctx context.Context, ap *models.Appointment) {
	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		log.Printf("[appointment][update] could not record notification flags for %d: %v", ap.ID, err)
	}
}

// assertCrewFree re-runs the crew conflict check for ap's lead and crew at
// its new date and time. Professionals are locked in id order.
func assertCrewFree(ctx context.Context, repo domain.Repository, ap *models.Appointment) error {
	for _, userID := range crewUserIDs(ap) {
		if err := repo.LockProfessional(ctx, userID); err != nil {
			return err
		}
		assigned, err := repo.ListAssignedOn(ctx, userID, ap.Date)
		if err != nil {
			return err
		}
		if err := crew.CanAssign(ap, assigned); err != nil {
			return err
		}
	}
	return nil
}

// crewUserIDs returns the lead and crew user ids, sorted and unique.
func crewUserIDs(ap *models.Appointment) []uint {
	seen := map[uint]bool{}
	var ids []uint
	add := func(id uint) {
		if id != 0 && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if ap.LeadProfessionalID != nil {
		add(*ap.LeadProfessionalID)
	}
	for _, m := range ap.Crew {
		add(m.UserID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// assertOwner fails unless the customer actor owns ap.
func assertOwner(ctx context.Context, repo domain.Repository, actor access.Actor, ap *models.Appointment) error {
	customer, err := repo.GetCustomerByUserID(ctx, actor.UserID)
	if err != nil {
		if httperr.IsBusiness(err, httperr.KindNotFound) {
			return httperr.ErrForbidden("Not authorized to access this appointment")
		}
		return err
	}
	if customer.ID != ap.CustomerID {
		return httperr.ErrForbidden("Not authorized to access this appointment")
	}
	return nil
}
