package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/gardenpro/landscape-api/internal/domain/crew"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

const assignedToUser = "(lead_professional_id = ? OR id IN (SELECT appointment_id FROM appointment_crews WHERE user_id = ?))"

type CrewGormRepository struct {
	db *gorm.DB
}

func NewCrewGormRepository(db *gorm.DB) *CrewGormRepository {
	return &CrewGormRepository{db: db}
}

func (r *CrewGormRepository) Transaction(ctx context.Context, fn func(repo domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&CrewGormRepository{db: tx})
	})
}

func (r *CrewGormRepository) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Crew").
		First(&ap, id).Error; err != nil {
		return nil, httperr.NotFoundOr(err, "Appointment not found")
	}
	return &ap, nil
}

func (r *CrewGormRepository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, httperr.NotFoundOr(err, "User not found")
	}
	return &u, nil
}

func (r *CrewGormRepository) GetProfessional(ctx context.Context, id uint) (*models.Professional, error) {
	var p models.Professional
	if err := r.db.WithContext(ctx).Preload("User").First(&p, id).Error; err != nil {
		return nil, httperr.NotFoundOr(err, "Professional not found")
	}
	return &p, nil
}

func (r *CrewGormRepository) ListActiveProfessionals(ctx context.Context) ([]models.Professional, error) {
	var pros []models.Professional
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("active = ?", true).
		Order("id ASC").
		Find(&pros).Error
	return pros, err
}

func (r *CrewGormRepository) LockProfessional(ctx context.Context, userID uint) error {
	var u models.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&u, userID).Error
	return httperr.NotFoundOr(err, "User not found")
}

func (r *CrewGormRepository) ListAssignedOn(ctx context.Context, userID uint, date string, forUpdate bool) ([]models.Appointment, error) {
	q := r.db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var apps []models.Appointment
	err := q.
		Where("date = ? AND status <> ?", date, "Cancelled").
		Where(assignedToUser, userID, userID).
		Order("start_time ASC").
		Find(&apps).Error
	return apps, err
}

func (r *CrewGormRepository) ListAssignedBetween(ctx context.Context, userID uint, from, to string) ([]models.Appointment, error) {
	var apps []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Service").
		Where("date >= ? AND date <= ? AND status <> ?", from, to, "Cancelled").
		Where(assignedToUser, userID, userID).
		Order("date ASC, start_time ASC").
		Find(&apps).Error
	return apps, err
}

func (r *CrewGormRepository) ListCrewAssignments(ctx context.Context, userID uint) ([]models.Appointment, error) {
	var apps []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Customer.User").
		Preload("Service").
		Joins("JOIN appointment_crews ON appointment_crews.appointment_id = appointments.id").
		Where("appointment_crews.user_id = ?", userID).
		Order("appointments.date ASC, appointments.start_time ASC").
		Find(&apps).Error
	return apps, err
}

func (r *CrewGormRepository) ListLeadAssignments(ctx context.Context, userID uint) ([]models.Appointment, error) {
	var apps []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Customer.User").
		Preload("Service").
		Where("lead_professional_id = ?", userID).
		Order("date ASC, start_time ASC").
		Find(&apps).Error
	return apps, err
}

func (r *CrewGormRepository) IsCrewMember(ctx context.Context, appointmentID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AppointmentCrew{}).
		Where("appointment_id = ? AND user_id = ?", appointmentID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *CrewGormRepository) AddCrewMember(ctx context.Context, member *models.AppointmentCrew) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(member).Error
}

func (r *CrewGormRepository) RemoveCrewMember(ctx context.Context, appointmentID, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("appointment_id = ? AND user_id = ?", appointmentID, userID).
		Delete(&models.AppointmentCrew{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("Professional is not part of this crew")
	}
	return nil
}

func (r *CrewGormRepository) SetLead(ctx context.Context, appointmentID uint, userID *uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", appointmentID).
		Update("lead_professional_id", userID).Error
}

var _ domain.Repository = (*CrewGormRepository)(nil)
