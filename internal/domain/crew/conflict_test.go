package crew

import (
	"testing"

	"github.com/gardenpro/landscape-api/internal/domain/schedule"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

func ap(id uint, date, start, end, status string) models.Appointment {
	return models.Appointment{ID: id, Date: date, StartTime: start, EndTime: end, Status: status}
}

func TestCanAssign(t *testing.T) {
	assigned := []models.Appointment{
		ap(1, "2024-06-10", "10:00", "11:00", "Scheduled"),
		ap(4, "2024-06-10", "14:00", "15:00", "Cancelled"),
		ap(5, "2024-06-11", "10:30", "11:30", "Scheduled"),
	}

	cases := []struct {
		name      string
		candidate models.Appointment
		conflict  bool
	}{
		{"overlapping", ap(2, "2024-06-10", "10:30", "11:30", "Scheduled"), true},
		{"adjacent", ap(3, "2024-06-10", "11:00", "12:00", "Scheduled"), false},
		{"cancelled blocker ignored", ap(6, "2024-06-10", "14:30", "15:30", "Scheduled"), false},
		{"other day", ap(7, "2024-06-11", "08:00", "09:00", "Scheduled"), false},
		{"same appointment", ap(1, "2024-06-10", "10:00", "11:00", "Scheduled"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CanAssign(&tc.candidate, assigned)
			if tc.conflict {
				if !httperr.IsBusiness(err, httperr.KindConflict) {
					t.Fatalf("expected conflict, got %v", err)
				}
				want := "Professional has scheduling conflict on " + tc.candidate.Date
				if err.Error() != want {
					t.Fatalf("expected %q, got %q", want, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCanAssignRejectsBrokenCandidate(t *testing.T) {
	bad := ap(9, "2024-06-10", "12:00", "11:00", "Scheduled")
	if err := CanAssign(&bad, nil); !httperr.IsBusiness(err, httperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestIsFree(t *testing.T) {
	assigned := []models.Appointment{ap(1, "2024-06-10", "10:00", "11:00", "Scheduled")}

	if IsFree("2024-06-10", schedule.Window{Start: 630, End: 690}, assigned) {
		t.Fatal("expected overlap to be busy")
	}
	if !IsFree("2024-06-10", schedule.Window{Start: 660, End: 720}, assigned) {
		t.Fatal("expected adjacent window to be free")
	}
	if !IsFree("2024-06-11", schedule.Window{Start: 630, End: 690}, assigned) {
		t.Fatal("expected other date to be free")
	}
}

func TestMergeAssignments(t *testing.T) {
	crewList := []models.Appointment{{ID: 1}, {ID: 2}}
	leadList := []models.Appointment{{ID: 2}, {ID: 3}}

	got := MergeAssignments(crewList, leadList)
	if len(got) != 3 || got[0].ID != 1 || got[1].ID != 2 || got[2].ID != 3 {
		t.Fatalf("unexpected merge: %v", got)
	}
}

func TestComputeWorkload(t *testing.T) {
	aps := []models.Appointment{
		{Status: "Scheduled", Service: &models.Service{Duration: 60}},
		{Status: "Completed", Service: &models.Service{Duration: 90}},
		{Status: "Scheduled"},
		{Status: "Cancelled", Service: &models.Service{Duration: 300}},
	}

	wl := ComputeWorkload(3, "2024-06-10", "2024-06-16", aps)
	if wl.Appointments != 3 {
		t.Fatalf("expected 3 appointments, got %d", wl.Appointments)
	}
	if wl.TotalMinutes != 60+90+DefaultAppointmentMinutes {
		t.Fatalf("expected %d minutes, got %d", 60+90+DefaultAppointmentMinutes, wl.TotalMinutes)
	}
	if wl.TotalHours != 4.5 {
		t.Fatalf("expected 4.5 hours, got %v", wl.TotalHours)
	}
}
