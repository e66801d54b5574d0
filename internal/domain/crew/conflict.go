// Package crew decides whether a professional can be placed on an
// appointment without double-booking them.
package crew

import (
	"fmt"

	"github.com/gardenpro/landscape-api/internal/domain/appointment"
	"github.com/gardenpro/landscape-api/internal/domain/schedule"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

// DefaultAppointmentMinutes is counted for workload when an appointment's
// service duration is unknown.
const DefaultAppointmentMinutes = 120

// FindConflict returns the first of assigned that overlaps candidate.
// The candidate itself and cancelled appointments are ignored.
func FindConflict(candidate *models.Appointment, assigned []models.Appointment) (*models.Appointment, error) {
	want, err := appointment.Window(candidate)
	if err != nil {
		return nil, httperr.ErrValidation(err.Error())
	}

	for i := range assigned {
		other := &assigned[i]
		if other.ID == candidate.ID || other.Date != candidate.Date {
			continue
		}
		if appointment.Status(other.Status) == appointment.StatusCancelled {
			continue
		}
		w, err := appointment.Window(other)
		if err != nil {
			continue
		}
		if want.Overlaps(w) {
			return other, nil
		}
	}
	return nil, nil
}

// CanAssign fails with a Conflict naming the date when candidate overlaps
// one of the professional's assignments.
func CanAssign(candidate *models.Appointment, assigned []models.Appointment) error {
	conflict, err := FindConflict(candidate, assigned)
	if err != nil {
		return err
	}
	if conflict != nil {
		return ConflictError(candidate.Date)
	}
	return nil
}

func ConflictError(date string) error {
	return httperr.ErrConflict(fmt.Sprintf("Professional has scheduling conflict on %s", date))
}

// IsFree reports whether none of assigned overlaps w on date.
func IsFree(date string, w schedule.Window, assigned []models.Appointment) bool {
	for i := range assigned {
		a := &assigned[i]
		if a.Date != date || appointment.Status(a.Status) == appointment.StatusCancelled {
			continue
		}
		aw, err := appointment.Window(a)
		if err != nil {
			continue
		}
		if w.Overlaps(aw) {
			return false
		}
	}
	return true
}

// MergeAssignments combines crew and lead appointments, dropping duplicates
// and keeping the first occurrence order.
func MergeAssignments(lists ...[]models.Appointment) []models.Appointment {
	seen := map[uint]bool{}
	out := []models.Appointment{}
	for _, list := range lists {
		for _, a := range list {
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true
			out = append(out, a)
		}
	}
	return out
}

type Workload struct {
	ProfessionalID uint    `json:"professionalId"`
	From           string  `json:"from"`
	To             string  `json:"to"`
	Appointments   int     `json:"appointments"`
	TotalMinutes   int     `json:"totalMinutes"`
	TotalHours     float64 `json:"totalHours"`
}

// ComputeWorkload sums non-cancelled appointments using the service duration.
func ComputeWorkload(professionalID uint, from, to string, aps []models.Appointment) Workload {
	wl := Workload{ProfessionalID: professionalID, From: from, To: to}
	for _, a := range aps {
		if appointment.Status(a.Status) == appointment.StatusCancelled {
			continue
		}
		minutes := DefaultAppointmentMinutes
		if a.Service != nil && a.Service.Duration > 0 {
			minutes = a.Service.Duration
		}
		wl.Appointments++
		wl.TotalMinutes += minutes
	}
	wl.TotalHours = float64(wl.TotalMinutes) / 60
	return wl
}
