package appointment

import (
	"context"
	"time"

	"github.com/gardenpro/landscape-api/internal/domain/access"
	domain "github.com/gardenpro/landscape-api/internal/domain/appointment"
	"github.com/gardenpro/landscape-api/internal/domain/schedule"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
	"github.com/gardenpro/landscape-api/internal/timezone"
)

type CalendarInput struct {
	Actor access.Actor
	Start string
	End   string
}

// Calendar lists appointments as calendar events. Customers see their own,
// professionals the ones they lead or crew, admins everything.
type Calendar struct {
	repo domain.Repository
	now  func() time.Time
}

func NewCalendar(repo domain.Repository) *Calendar {
	return &Calendar{repo: repo, now: timezone.Now}
}

func (uc *Calendar) Execute(ctx context.Context, in CalendarInput) ([]domain.CalendarEvent, error) {
	filter, err := uc.filter(ctx, in)
	if err != nil {
		return nil, err
	}

	apps, err := uc.repo.ListForCalendar(ctx, filter)
	if err != nil {
		return nil, err
	}

	events := make([]domain.CalendarEvent, len(apps))
	for i := range apps {
		events[i] = domain.ToCalendarEvent(&apps[i])
	}
	return events, nil
}

func (uc *Calendar) filter(ctx context.Context, in CalendarInput) (domain.CalendarFilter, error) {
	// default: the current month
	now := uc.now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	f := domain.CalendarFilter{
		From: first.Format(schedule.DateLayout),
		To:   first.AddDate(0, 1, -1).Format(schedule.DateLayout),
	}

	if in.Start != "" {
		if _, err := schedule.ParseDate(in.Start, timezone.Business()); err != nil {
			return f, httperr.ErrValidation(err.Error())
		}
		f.From = in.Start
	}
	if in.End != "" {
		if _, err := schedule.ParseDate(in.End, timezone.Business()); err != nil {
			return f, httperr.ErrValidation(err.Error())
		}
		f.To = in.End
	}
	if f.From > f.To {
		return f, httperr.ErrValidation("start must not be after end")
	}

	switch in.Actor.Role {
	case models.RoleCustomer:
		customer, err := uc.repo.GetCustomerByUserID(ctx, in.Actor.UserID)
		if err != nil {
			return f, err
		}
		f.CustomerID = &customer.ID
	case models.RoleProfessional:
		id := in.Actor.UserID
		f.ProfessionalID = &id
	}
	return f, nil
}
