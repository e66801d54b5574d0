package appointment

import (
	"context"
	"log"
	"time"

	domain "github.com/gardenpro/landscape-api/internal/domain/appointment"
	"github.com/gardenpro/landscape-api/internal/domain/notification"
	"github.com/gardenpro/landscape-api/internal/domain/schedule"
	"github.com/gardenpro/landscape-api/internal/timezone"
)

// MaxReminderDays bounds how far ahead reminders are looked up.
const MaxReminderDays = 14

// SendReminders notifies customers whose appointment is exactly their
// reminderDaysBefore away and marks the appointment as reminded.
type SendReminders struct {
	repo     domain.Repository
	notifier notification.Notifier
	now      func() time.Time
}

func NewSendReminders(repo domain.Repository, notifier notification.Notifier) *SendReminders {
	return &SendReminders{repo: repo, notifier: notifier, now: timezone.Now}
}

func (uc *SendReminders) Execute(ctx context.Context) (int, error) {
	now := uc.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	apps, err := uc.repo.ListPendingReminders(ctx,
		today.Format(schedule.DateLayout),
		today.AddDate(0, 0, MaxReminderDays).Format(schedule.DateLayout),
	)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range apps {
		ap := &apps[i]

		days := 1
		if ap.Customer != nil && ap.Customer.ReminderDaysBefore > 0 {
			days = ap.Customer.ReminderDaysBefore
		}
		if ap.Date != today.AddDate(0, 0, days).Format(schedule.DateLayout) {
			continue
		}

		if !notification.BestEffort(ctx, uc.notifier, "reminder", notification.AppointmentReminder(ap.Customer, ap)) {
			continue
		}

		ap.ReminderSent = true
		if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
			log.Printf("[appointment][reminder] could not mark %d as reminded: %v", ap.ID, err)
			continue
		}
		sent++
	}

	return sent, nil
}
