package crew

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gardenpro/landscape-api/internal/domain/access"
	domain "github.com/gardenpro/landscape-api/internal/domain/crew"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

type fakeRepo struct {
	mu sync.Mutex

	users        map[uint]models.User
	pros         map[uint]models.Professional
	appointments map[uint]models.Appointment
	crew         []models.AppointmentCrew
	locked       []uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users: map[uint]models.User{
			3: {ID: 3, Name: "Pat", Role: models.RoleProfessional, Active: true},
			4: {ID: 4, Name: "Lee", Role: models.RoleProfessional, Active: true},
			9: {ID: 9, Name: "Casey", Role: models.RoleCustomer, Active: true},
		},
		pros: map[uint]models.Professional{
			30: {ID: 30, UserID: 3, Active: true},
			40: {ID: 40, UserID: 4, Active: true},
		},
		appointments: map[uint]models.Appointment{
			1: {ID: 1, Date: "2024-06-10", StartTime: "10:00", EndTime: "11:00", Status: "Scheduled", Service: &models.Service{Duration: 60}},
			2: {ID: 2, Date: "2024-06-10", StartTime: "10:30", EndTime: "11:30", Status: "Scheduled"},
			3: {ID: 3, Date: "2024-06-10", StartTime: "11:00", EndTime: "12:00", Status: "Scheduled"},
		},
	}
}

func (f *fakeRepo) Transaction(_ context.Context, fn func(repo domain.Repository) error) error {
	return fn(f)
}

func (f *fakeRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ap, ok := f.appointments[id]
	if !ok {
		return nil, httperr.ErrNotFound("Appointment not found")
	}
	for _, m := range f.crew {
		if m.AppointmentID == id {
			ap.Crew = append(ap.Crew, m)
		}
	}
	return &ap, nil
}

func (f *fakeRepo) GetUser(_ context.Context, id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, httperr.ErrNotFound("User not found")
	}
	return &u, nil
}

func (f *fakeRepo) GetProfessional(_ context.Context, id uint) (*models.Professional, error) {
	p, ok := f.pros[id]
	if !ok {
		return nil, httperr.ErrNotFound("Professional not found")
	}
	return &p, nil
}

func (f *fakeRepo) ListActiveProfessionals(_ context.Context) ([]models.Professional, error) {
	return []models.Professional{f.pros[30], f.pros[40]}, nil
}

func (f *fakeRepo) LockProfessional(_ context.Context, userID uint) error {
	f.locked = append(f.locked, userID)
	return nil
}

func (f *fakeRepo) assigned(ap models.Appointment, userID uint) bool {
	if ap.LeadProfessionalID != nil && *ap.LeadProfessionalID == userID {
		return true
	}
	for _, m := range f.crew {
		if m.AppointmentID == ap.ID && m.UserID == userID {
			return true
		}
	}
	return false
}

func (f *fakeRepo) ListAssignedOn(_ context.Context, userID uint, date string, _ bool) ([]models.Appointment, error) {
	return f.ListAssignedBetween(context.Background(), userID, date, date)
}

func (f *fakeRepo) ListAssignedBetween(_ context.Context, userID uint, from, to string) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for id := uint(1); id <= uint(len(f.appointments)); id++ {
		ap := f.appointments[id]
		if ap.Date >= from && ap.Date <= to && f.assigned(ap, userID) {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListCrewAssignments(_ context.Context, userID uint) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, m := range f.crew {
		if m.UserID == userID {
			out = append(out, f.appointments[m.AppointmentID])
		}
	}
	return out, nil
}

func (f *fakeRepo) ListLeadAssignments(_ context.Context, userID uint) ([]models.Appointment, error) {
	var out []models.Appointment
	for id := uint(1); id <= uint(len(f.appointments)); id++ {
		ap := f.appointments[id]
		if ap.LeadProfessionalID != nil && *ap.LeadProfessionalID == userID {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (f *fakeRepo) IsCrewMember(_ context.Context, appointmentID, userID uint) (bool, error) {
	for _, m := range f.crew {
		if m.AppointmentID == appointmentID && m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) AddCrewMember(_ context.Context, member *models.AppointmentCrew) error {
	member.ID = uint(len(f.crew) + 1)
	f.crew = append(f.crew, *member)
	return nil
}

func (f *fakeRepo) RemoveCrewMember(_ context.Context, appointmentID, userID uint) error {
	for i, m := range f.crew {
		if m.AppointmentID == appointmentID && m.UserID == userID {
			f.crew = append(f.crew[:i], f.crew[i+1:]...)
			return nil
		}
	}
	return httperr.ErrNotFound("Professional is not part of this crew")
}

func (f *fakeRepo) SetLead(_ context.Context, appointmentID uint, userID *uint) error {
	ap := f.appointments[appointmentID]
	ap.LeadProfessionalID = userID
	f.appointments[appointmentID] = ap
	return nil
}

var _ domain.Repository = (*fakeRepo)(nil)

var admin = access.Actor{UserID: 1, Role: models.RoleAdmin}

func TestLeadThenOverlappingCrewConflicts(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()

	res, err := NewAssign(repo, nil).Execute(ctx, AssignInput{Actor: admin, ProfessionalID: 30, AppointmentID: 1, IsLead: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Appointment.LeadProfessionalID == nil || *res.Appointment.LeadProfessionalID != 3 {
		t.Fatalf("expected lead 3, got %v", res.Appointment.LeadProfessionalID)
	}
	if ok, _ := repo.IsCrewMember(ctx, 1, 3); !ok {
		t.Fatal("expected the lead to be crew as well")
	}

	_, err = NewAddMember(repo, nil).Execute(ctx, admin, 2, 3)
	if !httperr.IsBusiness(err, httperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err.Error() != "Professional has scheduling conflict on 2024-06-10" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if ok, _ := repo.IsCrewMember(ctx, 2, 3); ok {
		t.Fatal("expected no membership on the conflicting appointment")
	}

	if _, err := NewAddMember(repo, nil).Execute(ctx, admin, 3, 3); err != nil {
		t.Fatalf("adjacent appointment should be assignable, got %v", err)
	}
	if len(repo.locked) == 0 {
		t.Fatal("expected the professional to be locked")
	}
}

func TestAddMemberRules(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate membership", func(t *testing.T) {
		repo := newFakeRepo()
		uc := NewAddMember(repo, nil)
		if _, err := uc.Execute(ctx, admin, 1, 4); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, err := uc.Execute(ctx, admin, 1, 4)
		if !httperr.IsBusiness(err, httperr.KindConflict) {
			t.Fatalf("expected conflict, got %v", err)
		}
		if len(repo.crew) != 1 {
			t.Fatalf("expected 1 crew row, got %d", len(repo.crew))
		}
	})

	t.Run("customer cannot be crew", func(t *testing.T) {
		_, err := NewAddMember(newFakeRepo(), nil).Execute(ctx, admin, 1, 9)
		if !httperr.IsBusiness(err, httperr.KindValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("unknown appointment", func(t *testing.T) {
		_, err := NewAddMember(newFakeRepo(), nil).Execute(ctx, admin, 99, 4)
		if !httperr.IsBusiness(err, httperr.KindNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestSetLeadKeepsExistingMembership(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()

	if _, err := NewAddMember(repo, nil).Execute(ctx, admin, 1, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := NewSetLead(repo, nil).Execute(ctx, admin, 1, 4)
	if err != nil {
		t.Fatalf("promoting an existing member should not conflict, got %v", err)
	}
	if res.Member != nil || len(repo.crew) != 1 {
		t.Fatalf("expected no new crew row, got %d rows", len(repo.crew))
	}
}

func TestRemoveLeadClearsLead(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()

	if _, err := NewSetLead(repo, nil).Execute(ctx, admin, 1, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := NewRemoveMember(repo, nil).Execute(ctx, admin, 1, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.appointments[1].LeadProfessionalID != nil {
		t.Fatal("expected lead to be cleared")
	}

	err := NewRemoveMember(repo, nil).Execute(ctx, admin, 1, 3)
	if !httperr.IsBusiness(err, httperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMyAssignmentsDeduplicates(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()

	if _, err := NewSetLead(repo, nil).Execute(ctx, admin, 1, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewAddMember(repo, nil).Execute(ctx, admin, 3, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := NewMyAssignments(repo).Execute(ctx, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(got))
	}
}

func TestAvailableProfessionals(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()

	if _, err := NewSetLead(repo, nil).Execute(ctx, admin, 1, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	free, err := NewAvailableProfessionals(repo).Execute(ctx, AvailableInput{Date: "2024-06-10", StartTime: "10:30", EndTime: "11:00"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(free) != 1 || free[0].UserID != 4 {
		t.Fatalf("expected only user 4 free, got %+v", free)
	}

	_, err = NewAvailableProfessionals(repo).Execute(ctx, AvailableInput{Date: "2024-06-10", StartTime: "11:00", EndTime: "10:00"})
	if !httperr.IsBusiness(err, httperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWorkloadUsesCurrentWeek(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()

	if _, err := NewSetLead(repo, nil).Execute(ctx, admin, 1, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewAddMember(repo, nil).Execute(ctx, admin, 3, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	uc := NewWorkload(repo)
	uc.now = func() time.Time { return time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC) }

	wl, err := uc.Execute(ctx, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wl.From != "2024-06-10" || wl.To != "2024-06-16" {
		t.Fatalf("unexpected week %s..%s", wl.From, wl.To)
	}
	if wl.Appointments != 2 || wl.TotalMinutes != 60+120 {
		t.Fatalf("expected 2 appointments and 180 minutes, got %+v", wl)
	}
}
