package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/gardenpro/landscape-api/internal/domain/payment"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

func (r *PaymentGormRepository) Transaction(ctx context.Context, fn func(repo domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PaymentGormRepository{db: tx})
	})
}

func (r *PaymentGormRepository) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	var c models.Customer
	if err := r.db.WithContext(ctx).Preload("User").First(&c, id).Error; err != nil {
		return nil, httperr.NotFoundOr(err, "Customer not found")
	}
	return &c, nil
}

func (r *PaymentGormRepository) GetCustomerByUserID(ctx context.Context, userID uint) (*models.Customer, error) {
	var c models.Customer
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&c).Error; err != nil {
		return nil, httperr.NotFoundOr(err, "Customer profile not found")
	}
	return &c, nil
}

func (r *PaymentGormRepository) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, httperr.NotFoundOr(err, "Appointment not found")
	}
	return &ap, nil
}

func (r *PaymentGormRepository) GetEstimate(ctx context.Context, id uint) (*models.Estimate, error) {
	var e models.Estimate
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, httperr.NotFoundOr(err, "Estimate not found")
	}
	return &e, nil
}

func (r *PaymentGormRepository) Create(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

// Get locks the payment row; refunds read and write it in one transaction.
func (r *PaymentGormRepository) Get(ctx context.Context, id uint) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, id).Error; err != nil {
		return nil, httperr.NotFoundOr(err, "Payment not found")
	}
	return &p, nil
}

func (r *PaymentGormRepository) Update(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

func (r *PaymentGormRepository) SetAppointmentPaymentStatus(ctx context.Context, appointmentID uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", appointmentID).
		Update("payment_status", status).Error
}

func (r *PaymentGormRepository) MarkDepositPaid(ctx context.Context, estimateID, paymentID uint, paidOn time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Estimate{}).
		Where("id = ?", estimateID).
		Updates(map[string]any{
			"deposit_payment_id": paymentID,
			"deposit_paid_on":    paidOn,
		}).Error
}

var _ domain.Repository = (*PaymentGormRepository)(nil)
