package appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/gardenpro/landscape-api/internal/domain/schedule"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// ApplyStatus moves ap to next and reports whether this call completed it.
// completedAt is only ever written on the first transition into Completed.
func ApplyStatus(ap *models.Appointment, next Status, now time.Time) (bool, error) {
	current := Status(ap.Status)
	if err := CanTransition(current, next); err != nil {
		return false, err
	}

	ap.Status = string(next)

	if next == StatusCompleted && current != StatusCompleted && ap.CompletedAt == nil {
		ap.CompletedAt = &now
		return true, nil
	}
	return false, nil
}

// Window returns the appointment's parsed [start, end) range.
func Window(ap *models.Appointment) (schedule.Window, error) {
	return schedule.ParseWindow(ap.StartTime, ap.EndTime)
}

// RequestReschedule records a customer's requested date and time without
// moving the appointment; staff apply the change later.
func RequestReschedule(ap *models.Appointment, date, clock, reason string) error {
	if Status(ap.Status).IsTerminal() {
		return httperr.ErrValidation(fmt.Sprintf("A %s appointment cannot be rescheduled", strings.ToLower(ap.Status)))
	}
	if err := CanTransition(Status(ap.Status), StatusRescheduled); err != nil {
		return err
	}

	ap.Status = string(StatusRescheduled)
	ap.RequestedDate = date
	ap.RequestedTime = clock
	ap.RescheduleReason = reason

	note := fmt.Sprintf("Reschedule requested for %s at %s", date, clock)
	if reason != "" {
		note += ": " + reason
	}
	if ap.Notes != "" {
		ap.Notes += "\n"
	}
	ap.Notes += note

	return nil
}
