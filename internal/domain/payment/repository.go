package payment

import (
	"context"
	"time"

	"github.com/gardenpro/landscape-api/internal/models"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(repo Repository) error) error

	GetCustomer(ctx context.Context, id uint) (*models.Customer, error)
	GetCustomerByUserID(ctx context.Context, userID uint) (*models.Customer, error)
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	GetEstimate(ctx context.Context, id uint) (*models.Estimate, error)

	Create(ctx context.Context, p *models.Payment) error
	Get(ctx context.Context, id uint) (*models.Payment, error)
	Update(ctx context.Context, p *models.Payment) error

	SetAppointmentPaymentStatus(ctx context.Context, appointmentID uint, status string) error
	MarkDepositPaid(ctx context.Context, estimateID, paymentID uint, paidOn time.Time) error
}
