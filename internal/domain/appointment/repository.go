package appointment

import (
	"context"

	"github.com/gardenpro/landscape-api/internal/models"
)

type CalendarFilter struct {
	From string
	To   string

	CustomerID     *uint
	ProfessionalID *uint
}

type Repository interface {
	// -------- Transaction --------
	Transaction(
		ctx context.Context,
		fn func(repo Repository) error,
	) error

	// -------- Lookups --------
	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	GetCustomer(
		ctx context.Context,
		id uint,
	) (*models.Customer, error)

	GetCustomerByUserID(
		ctx context.Context,
		userID uint,
	) (*models.Customer, error)

	// -------- Appointment --------
	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// DeleteAppointment removes crew rows, photo rows and the appointment.
	DeleteAppointment(
		ctx context.Context,
		id uint,
	) error

	// -------- Availability --------

	// LockDate serialises bookings on date until the transaction ends.
	LockDate(
		ctx context.Context,
		date string,
	) error

	// ListAppointmentsOnDate returns the day's appointments. forUpdate
	// locks the returned rows.
	ListAppointmentsOnDate(
		ctx context.Context,
		date string,
		forUpdate bool,
	) ([]models.Appointment, error)

	// -------- Crew --------

	// LockProfessional takes a row lock on the professional's user.
	LockProfessional(
		ctx context.Context,
		userID uint,
	) error

	// ListAssignedOn returns the non-cancelled appointments on date where
	// userID is crew or lead, locking them.
	ListAssignedOn(
		ctx context.Context,
		userID uint,
		date string,
	) ([]models.Appointment, error)

	// -------- Photos --------
	AddPhotos(
		ctx context.Context,
		photos []models.AppointmentPhoto,
	) error

	// -------- Calendar / reminders --------
	ListForCalendar(
		ctx context.Context,
		filter CalendarFilter,
	) ([]models.Appointment, error)

	ListPendingReminders(
		ctx context.Context,
		from string,
		to string,
	) ([]models.Appointment, error)
}

// SlotKey identifies one cached availability list. Duration is part of the
// key so that editing a service's length never serves old slots.
type SlotKey struct {
	Date      string
	ServiceID uint
	Duration  int
}

// SlotCache stores computed availability per date. Every Invalidate bumps
// the date's version; Set only writes when the version it was given is
// still current, so slots computed before a booking are never stored after
// that booking's invalidation.
//
//go:generate mockgen -destination=../../mocks/slot_cache_mock.go -package=mocks . SlotCache
type SlotCache interface {
	Version(ctx context.Context, date string) int64
	Get(ctx context.Context, key SlotKey) ([]TimeSlot, bool)
	Set(ctx context.Context, key SlotKey, version int64, slots []TimeSlot)
	Invalidate(ctx context.Context, dates ...string)
}
