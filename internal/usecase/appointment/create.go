package appointment

import (
	"context"
	"log"

	"github.com/shopspring/decimal"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/domain/access"
	domain "github.com/gardenpro/landscape-api/internal/domain/appointment"
	"github.com/gardenpro/landscape-api/internal/domain/notification"
	"github.com/gardenpro/landscape-api/internal/domain/schedule"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
	"github.com/gardenpro/landscape-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	Actor access.Actor

	// Required when staff book on behalf of a customer.
	CustomerID *uint

	ServiceID uint
	Date      string
	StartTime string
	EndTime   string
	Notes     string
	Price     *decimal.Decimal
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo     domain.Repository
	cache    domain.SlotCache
	notifier notification.Notifier
	audit    *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	cache domain.SlotCache,
	notifier notification.Notifier,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		audit:    audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	if in.ServiceID == 0 || in.Date == "" || in.StartTime == "" || in.EndTime == "" {
		return nil, httperr.ErrValidation("Please provide serviceId, date, startTime and endTime")
	}
	if _, err := schedule.ParseDate(in.Date, timezone.Business()); err != nil {
		return nil, httperr.ErrValidation(err.Error())
	}
	window, err := schedule.ParseWindow(in.StartTime, in.EndTime)
	if err != nil {
		return nil, httperr.ErrValidation(err.Error())
	}

	var ap *models.Appointment

	err = uc.repo.Transaction(ctx, func(repo domain.Repository) error {

		// --------------------------------------------------
		// Customer
		// --------------------------------------------------
		customer, err := resolveCustomer(ctx, repo, in.Actor, in.CustomerID)
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// Service
		// --------------------------------------------------
		service, err := repo.GetService(ctx, in.ServiceID)
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// Slot (customers only; staff may overbook)
		// --------------------------------------------------
		if in.Actor.IsCustomer() {
			if err := assertBookable(ctx, repo, in.Date, window, 0); err != nil {
				return err
			}
		}

		price := service.BasePrice
		if in.Price != nil && in.Actor.IsStaff() {
			price = *in.Price
		}

		ap = &models.Appointment{
			CustomerID:    customer.ID,
			ServiceID:     service.ID,
			Date:          in.Date,
			StartTime:     window.StartClock(),
			EndTime:       window.EndClock(),
			Status:        string(domain.InitialStatus()),
			Notes:         in.Notes,
			Price:         price,
			PaymentStatus: domain.PaymentPending,
			CreatedByID:   in.Actor.UserRef(),
		}
		if err := repo.CreateAppointment(ctx, ap); err != nil {
			return err
		}

		ap.Customer = customer
		ap.Service = service
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, ap.Date)

	// --------------------------------------------------
	// Confirmation (best-effort)
	// --------------------------------------------------
	if notification.BestEffort(ctx, uc.notifier, "appointment", notification.AppointmentConfirmation(ap.Customer, ap)) {
		ap.ConfirmationSent = true
		if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
			log.Printf("[appointment][create] could not record confirmation for %d: %v", ap.ID, err)
		}
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.Actor.UserRef(),
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

// assertBookable requires w to be a bookable slot on date: inside business
// hours and clear of every other active appointment. ignoreID skips the
// appointment being moved. The date stays locked until the transaction ends.
func assertBookable(ctx context.Context, repo domain.Repository, date string, w schedule.Window, ignoreID uint) error {
	if !domain.WithinBusinessHours(w) {
		return httperr.ErrValidation("Appointments must be between 08:00 and 18:00")
	}

	if err := repo.LockDate(ctx, date); err != nil {
		return err
	}
	existing, err := repo.ListAppointmentsOnDate(ctx, date, true)
	if err != nil {
		return err
	}

	others := existing[:0:0]
	for _, a := range existing {
		if a.ID != ignoreID {
			others = append(others, a)
		}
	}

	if !domain.IsSlotFree(w, domain.BookedWindows(others)) {
		return httperr.ErrConflict("Time slot is not available")
	}
	return nil
}

// resolveCustomer returns the caller's own profile for customers and the
// requested customer for staff.
func resolveCustomer(ctx context.Context, repo domain.Repository, actor access.Actor, customerID *uint) (*models.Customer, error) {
	if actor.IsCustomer() {
		return repo.GetCustomerByUserID(ctx, actor.UserID)
	}
	if customerID == nil || *customerID == 0 {
		return nil, httperr.ErrValidation("Please provide customerId")
	}
	return repo.GetCustomer(ctx, *customerID)
}
