package estimate

import (
	"context"
	"time"

	"github.com/gardenpro/landscape-api/internal/models"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(repo Repository) error) error

	GetCustomer(ctx context.Context, id uint) (*models.Customer, error)
	GetCustomerByUserID(ctx context.Context, userID uint) (*models.Customer, error)
	GetService(ctx context.Context, id uint) (*models.Service, error)

	// NextNumber returns the next estimate number for now's month. Must run
	// inside Transaction.
	NextNumber(ctx context.Context, now time.Time) (string, error)

	// Create inserts the estimate with its services, packages and line items.
	Create(ctx context.Context, e *models.Estimate) error
	Get(ctx context.Context, id uint) (*models.Estimate, error)
	// UpdateScalars saves the estimate row only, never its children.
	UpdateScalars(ctx context.Context, e *models.Estimate) error
	ReplaceServices(ctx context.Context, estimateID uint, services []models.EstimateService) error
	ReplacePackages(ctx context.Context, estimateID uint, packages []models.EstimatePackage) error
	// Delete removes line items, packages, services, photos and the estimate.
	Delete(ctx context.Context, id uint) error

	AddPhotos(ctx context.Context, photos []models.EstimatePhoto) error
	ListByCustomer(ctx context.Context, customerID uint) ([]models.Estimate, error)
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}
