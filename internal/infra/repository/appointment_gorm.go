package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/gardenpro/landscape-api/internal/domain/appointment"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(repo domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Lookups
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, httperr.NotFoundOr(err, "Service not found")
	}
	return &svc, nil
}

func (r *AppointmentGormRepository) GetCustomer(
	ctx context.Context,
	id uint,
) (*models.Customer, error) {

	var c models.Customer
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&c, id).Error; err != nil {
		return nil, httperr.NotFoundOr(err, "Customer not found")
	}
	return &c, nil
}

func (r *AppointmentGormRepository) GetCustomerByUserID(
	ctx context.Context,
	userID uint,
) (*models.Customer, error) {

	var c models.Customer
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&c).Error; err != nil {
		return nil, httperr.NotFoundOr(err, "Customer profile not found")
	}
	return &c, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Customer.User").
		Preload("Service").
		Preload("LeadProfessional").
		Preload("Crew.User").
		Preload("Photos").
		First(&ap, id).Error; err != nil {
		return nil, httperr.NotFoundOr(err, "Appointment not found")
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(ap).Error
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	id uint,
) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("appointment_id = ?", id).Delete(&models.AppointmentCrew{}).Error; err != nil {
		return err
	}
	if err := db.Where("appointment_id = ?", id).Delete(&models.AppointmentPhoto{}).Error; err != nil {
		return err
	}

	res := db.Delete(&models.Appointment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("Appointment not found")
	}
	return nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

// LockDate takes a transaction-scoped advisory lock on the date, so two
// bookings for the same day run one after the other even when the day has
// no rows yet to lock.
func (r *AppointmentGormRepository) LockDate(
	ctx context.Context,
	date string,
) error {
	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "appointment-date:"+date).Error
}

func (r *AppointmentGormRepository) ListAppointmentsOnDate(
	ctx context.Context,
	date string,
	forUpdate bool,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var apps []models.Appointment
	if err := q.
		Select("id", "date", "start_time", "end_time", "status").
		Where("date = ?", date).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Crew
// --------------------------------------------------

func (r *AppointmentGormRepository) LockProfessional(
	ctx context.Context,
	userID uint,
) error {
	return NewCrewGormRepository(r.db).LockProfessional(ctx, userID)
}

func (r *AppointmentGormRepository) ListAssignedOn(
	ctx context.Context,
	userID uint,
	date string,
) ([]models.Appointment, error) {
	return NewCrewGormRepository(r.db).ListAssignedOn(ctx, userID, date, true)
}

// --------------------------------------------------
// Photos
// --------------------------------------------------

func (r *AppointmentGormRepository) AddPhotos(
	ctx context.Context,
	photos []models.AppointmentPhoto,
) error {
	if len(photos) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&photos).Error
}

// --------------------------------------------------
// Calendar / reminders
// --------------------------------------------------

func (r *AppointmentGormRepository) ListForCalendar(
	ctx context.Context,
	f domain.CalendarFilter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Customer.User").
		Preload("Service").
		Where("date >= ? AND date <= ?", f.From, f.To)

	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.ProfessionalID != nil {
		q = q.Where(
			"lead_professional_id = ? OR id IN (SELECT appointment_id FROM appointment_crews WHERE user_id = ?)",
			*f.ProfessionalID, *f.ProfessionalID,
		)
	}

	var apps []models.Appointment
	if err := q.Order("date ASC, start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListPendingReminders(
	ctx context.Context,
	from string,
	to string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Customer.User").
		Preload("Service").
		Where("date >= ? AND date <= ? AND status = ? AND reminder_sent = ?",
			from, to, string(domain.StatusScheduled), false).
		Order("date ASC, start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
