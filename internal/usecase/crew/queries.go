package crew

import (
	"context"
	"time"

	domain "github.com/gardenpro/landscape-api/internal/domain/crew"
	"github.com/gardenpro/landscape-api/internal/domain/schedule"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
	"github.com/gardenpro/landscape-api/internal/timezone"
)

// MyAssignments lists every appointment the professional crews or leads.
type MyAssignments struct {
	repo domain.Repository
}

func NewMyAssignments(repo domain.Repository) *MyAssignments {
	return &MyAssignments{repo: repo}
}

func (uc *MyAssignments) Execute(ctx context.Context, userID uint) ([]models.Appointment, error) {
	crewList, err := uc.repo.ListCrewAssignments(ctx, userID)
	if err != nil {
		return nil, err
	}
	leadList, err := uc.repo.ListLeadAssignments(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.MergeAssignments(crewList, leadList), nil
}

type AvailableInput struct {
	Date      string
	StartTime string
	EndTime   string
}

// AvailableProfessionals returns the active professionals with nothing
// overlapping the requested window.
type AvailableProfessionals struct {
	repo domain.Repository
}

func NewAvailableProfessionals(repo domain.Repository) *AvailableProfessionals {
	return &AvailableProfessionals{repo: repo}
}

func (uc *AvailableProfessionals) Execute(ctx context.Context, in AvailableInput) ([]models.Professional, error) {
	if in.Date == "" || in.StartTime == "" || in.EndTime == "" {
		return nil, httperr.ErrValidation("Please provide date, startTime and endTime")
	}
	if _, err := schedule.ParseDate(in.Date, timezone.Business()); err != nil {
		return nil, httperr.ErrValidation(err.Error())
	}
	w, err := schedule.ParseWindow(in.StartTime, in.EndTime)
	if err != nil {
		return nil, httperr.ErrValidation(err.Error())
	}

	pros, err := uc.repo.ListActiveProfessionals(ctx)
	if err != nil {
		return nil, err
	}

	free := []models.Professional{}
	for _, p := range pros {
		assigned, err := uc.repo.ListAssignedOn(ctx, p.UserID, in.Date, false)
		if err != nil {
			return nil, err
		}
		if domain.IsFree(in.Date, w, assigned) {
			free = append(free, p)
		}
	}
	return free, nil
}

// Workload sums the professional's appointments in the current week.
type Workload struct {
	repo domain.Repository
	now  func() time.Time
}

func NewWorkload(repo domain.Repository) *Workload {
	return &Workload{repo: repo, now: timezone.Now}
}

func (uc *Workload) Execute(ctx context.Context, professionalID uint) (domain.Workload, error) {
	pro, err := uc.repo.GetProfessional(ctx, professionalID)
	if err != nil {
		return domain.Workload{}, err
	}

	from, to := schedule.WeekBounds(uc.now())
	aps, err := uc.repo.ListAssignedBetween(ctx, pro.UserID, from, to)
	if err != nil {
		return domain.Workload{}, err
	}

	return domain.ComputeWorkload(pro.ID, from, to, aps), nil
}
