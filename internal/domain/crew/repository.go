package crew

import (
	"context"

	"github.com/gardenpro/landscape-api/internal/models"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(repo Repository) error) error

	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetProfessional(ctx context.Context, id uint) (*models.Professional, error)
	ListActiveProfessionals(ctx context.Context) ([]models.Professional, error)

	// LockProfessional takes a row lock on the professional's user so
	// concurrent assignments for the same person are serialised.
	LockProfessional(ctx context.Context, userID uint) error

	// ListAssignedOn returns the non-cancelled appointments on date where
	// userID is crew or lead. forUpdate locks the returned rows.
	ListAssignedOn(ctx context.Context, userID uint, date string, forUpdate bool) ([]models.Appointment, error)
	ListAssignedBetween(ctx context.Context, userID uint, from, to string) ([]models.Appointment, error)

	ListCrewAssignments(ctx context.Context, userID uint) ([]models.Appointment, error)
	ListLeadAssignments(ctx context.Context, userID uint) ([]models.Appointment, error)

	IsCrewMember(ctx context.Context, appointmentID, userID uint) (bool, error)
	AddCrewMember(ctx context.Context, member *models.AppointmentCrew) error
	RemoveCrewMember(ctx context.Context, appointmentID, userID uint) error
	SetLead(ctx context.Context, appointmentID uint, userID *uint) error
}
