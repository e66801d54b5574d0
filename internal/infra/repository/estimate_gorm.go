package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/gardenpro/landscape-api/internal/domain/estimate"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

// estimateNumberLock is the advisory lock key serialising number generation.
const estimateNumberLock = 7_310_001

type EstimateGormRepository struct {
	db *gorm.DB
}

func NewEstimateGormRepository(db *gorm.DB) *EstimateGormRepository {
	return &EstimateGormRepository{db: db}
}

func (r *EstimateGormRepository) Transaction(ctx context.Context, fn func(repo domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&EstimateGormRepository{db: tx})
	})
}

func (r *EstimateGormRepository) GetCustomer(ctx context.Context, id uint) (*models.Customer, error) {
	var c models.Customer
	if err := r.db.WithContext(ctx).Preload("User").First(&c, id).Error; err != nil {
		return nil, httperr.NotFoundOr(err, "Customer not found")
	}
	return &c, nil
}

func (r *EstimateGormRepository) GetCustomerByUserID(ctx context.Context, userID uint) (*models.Customer, error) {
	var c models.Customer
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&c).Error; err != nil {
		return nil, httperr.NotFoundOr(err, "Customer profile not found")
	}
	return &c, nil
}

func (r *EstimateGormRepository) GetService(ctx context.Context, id uint) (*models.Service, error) {
	var s models.Service
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, httperr.NotFoundOr(err, "Service not found")
	}
	return &s, nil
}

// NextNumber takes a transaction-scoped advisory lock, so two creates in the
// same month cannot draw the same sequence. It continues from the highest
// number present this month; gaps left by deletes are not refilled.
func (r *EstimateGormRepository) NextNumber(ctx context.Context, now time.Time) (string, error) {
	db := r.db.WithContext(ctx)
	if err := db.Exec("SELECT pg_advisory_xact_lock(?)", estimateNumberLock).Error; err != nil {
		return "", err
	}

	var last []string
	if err := db.Model(&models.Estimate{}).
		Where("estimate_number LIKE ?", domain.NumberPrefix(now)+"%").
		Order("LENGTH(estimate_number) DESC, estimate_number DESC").
		Limit(1).
		Pluck("estimate_number", &last).Error; err != nil {
		return "", err
	}

	var highest string
	if len(last) > 0 {
		highest = last[0]
	}
	seq, err := domain.NextSequence(now, highest)
	if err != nil {
		return "", err
	}
	return domain.FormatNumber(now, seq), nil
}

func (r *EstimateGormRepository) Create(ctx context.Context, e *models.Estimate) error {
	// services, packages and line items are inserted by gorm's association save
	return r.db.WithContext(ctx).Omit("Photos", "Customer").Create(e).Error
}

func (r *EstimateGormRepository) Get(ctx context.Context, id uint) (*models.Estimate, error) {
	var e models.Estimate
	if err := r.db.WithContext(ctx).
		Preload("Customer.User").
		Preload("Services.Service").
		Preload("Packages", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Packages.LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Photos").
		First(&e, id).Error; err != nil {
		return nil, httperr.NotFoundOr(err, "Estimate not found")
	}
	return &e, nil
}

func (r *EstimateGormRepository) UpdateScalars(ctx context.Context, e *models.Estimate) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(e).Error
}

func (r *EstimateGormRepository) ReplaceServices(ctx context.Context, estimateID uint, services []models.EstimateService) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("estimate_id = ?", estimateID).Delete(&models.EstimateService{}).Error; err != nil {
		return err
	}
	if len(services) == 0 {
		return nil
	}
	for i := range services {
		services[i].ID = 0
		services[i].EstimateID = estimateID
	}
	return db.Omit(clause.Associations).Create(&services).Error
}

func (r *EstimateGormRepository) ReplacePackages(ctx context.Context, estimateID uint, packages []models.EstimatePackage) error {
	db := r.db.WithContext(ctx)
	if err := r.deletePackages(db, estimateID); err != nil {
		return err
	}
	if len(packages) == 0 {
		return nil
	}
	for i := range packages {
		packages[i].ID = 0
		packages[i].EstimateID = estimateID
		for j := range packages[i].LineItems {
			packages[i].LineItems[j].ID = 0
			packages[i].LineItems[j].PackageID = 0
		}
	}
	return db.Create(&packages).Error
}

func (r *EstimateGormRepository) deletePackages(db *gorm.DB, estimateID uint) error {
	sub := db.Model(&models.EstimatePackage{}).Select("id").Where("estimate_id = ?", estimateID)
	if err := db.Where("package_id IN (?)", sub).Delete(&models.EstimateLineItem{}).Error; err != nil {
		return err
	}
	return db.Where("estimate_id = ?", estimateID).Delete(&models.EstimatePackage{}).Error
}

func (r *EstimateGormRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)

	if err := r.deletePackages(db, id); err != nil {
		return err
	}
	if err := db.Where("estimate_id = ?", id).Delete(&models.EstimateService{}).Error; err != nil {
		return err
	}
	if err := db.Where("estimate_id = ?", id).Delete(&models.EstimatePhoto{}).Error; err != nil {
		return err
	}

	res := db.Delete(&models.Estimate{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrNotFound("Estimate not found")
	}
	return nil
}

func (r *EstimateGormRepository) AddPhotos(ctx context.Context, photos []models.EstimatePhoto) error {
	if len(photos) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&photos).Error
}

func (r *EstimateGormRepository) ListByCustomer(ctx context.Context, customerID uint) ([]models.Estimate, error) {
	var list []models.Estimate
	err := r.db.WithContext(ctx).
		Preload("Packages.LineItems").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *EstimateGormRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Estimate{}).
		Where("status = ? AND expiry_date IS NOT NULL AND expiry_date < ?", string(domain.StatusSent), now).
		Update("status", string(domain.StatusExpired))
	return res.RowsAffected, res.Error
}

var _ domain.Repository = (*EstimateGormRepository)(nil)
