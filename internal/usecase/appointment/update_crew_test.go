package appointment

import (
	"context"
	"testing"

	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

const leadUserID uint = 50

// seedLeadDay gives leadUserID two appointments on 2024-06-10, 10:00-11:00
// and 12:00-13:00, and returns the second.
func seedLeadDay(repo *fakeRepo) models.Appointment {
	lead := leadUserID
	repo.seed(models.Appointment{
		CustomerID: 10, ServiceID: 1, Date: "2024-06-10", StartTime: "10:00", EndTime: "11:00", Status: "Scheduled",
		LeadProfessionalID: &lead,
		Crew:               []models.AppointmentCrew{{UserID: leadUserID}},
	})
	return repo.seed(models.Appointment{
		CustomerID: 11, ServiceID: 1, Date: "2024-06-10", StartTime: "12:00", EndTime: "13:00", Status: "Scheduled",
		LeadProfessionalID: &lead,
		Crew:               []models.AppointmentCrew{{UserID: leadUserID}, {UserID: 51}},
	})
}

func TestStaffMoveRejectedWhenLeadIsBusy(t *testing.T) {
	repo := newFakeRepo()
	second := seedLeadDay(repo)

	_, err := NewUpdateAppointment(repo, newMemCache(), quietNotifier(t), nil).Execute(context.Background(), UpdateAppointmentInput{
		Actor: admin, ID: second.ID, Keys: []string{"startTime", "endTime"},
		StartTime: ptr("10:30"), EndTime: ptr("11:30"),
	})
	if !httperr.IsBusiness(err, httperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if want := "Professional has scheduling conflict on 2024-06-10"; err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
	if got := repo.stored(second.ID); got.StartTime != "12:00" {
		t.Fatalf("expected appointment unchanged, got %s", got.StartTime)
	}
}

func TestStaffMoveRejectedWhenCrewMemberIsBusy(t *testing.T) {
	repo := newFakeRepo()
	second := seedLeadDay(repo)
	repo.seed(models.Appointment{
		CustomerID: 10, ServiceID: 1, Date: "2024-06-11", StartTime: "12:00", EndTime: "13:00", Status: "Scheduled",
		Crew: []models.AppointmentCrew{{UserID: 51}},
	})

	_, err := NewUpdateAppointment(repo, newMemCache(), quietNotifier(t), nil).Execute(context.Background(), UpdateAppointmentInput{
		Actor: admin, ID: second.ID, Keys: []string{"date"}, Date: ptr("2024-06-11"),
	})
	if !httperr.IsBusiness(err, httperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestStaffMoveLocksCrewAndSucceedsWhenFree(t *testing.T) {
	repo := newFakeRepo()
	second := seedLeadDay(repo)

	got, err := NewUpdateAppointment(repo, newMemCache(), quietNotifier(t), nil).Execute(context.Background(), UpdateAppointmentInput{
		Actor: admin, ID: second.ID, Keys: []string{"startTime", "endTime"},
		StartTime: ptr("11:00"), EndTime: ptr("12:00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.StartTime != "11:00" {
		t.Fatalf("expected 11:00, got %s", got.StartTime)
	}
	if len(repo.lockedUsers) != 2 || repo.lockedUsers[0] != leadUserID || repo.lockedUsers[1] != 51 {
		t.Fatalf("expected lead and crew locked in id order, got %v", repo.lockedUsers)
	}
}

func TestCrewUserIDs(t *testing.T) {
	lead := uint(9)
	ap := &models.Appointment{
		LeadProfessionalID: &lead,
		Crew:               []models.AppointmentCrew{{UserID: 9}, {UserID: 3}, {UserID: 12}},
	}
	got := crewUserIDs(ap)
	if len(got) != 3 || got[0] != 3 || got[1] != 9 || got[2] != 12 {
		t.Fatalf("expected [3 9 12], got %v", got)
	}
}
