package appointment

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	domain "github.com/gardenpro/landscape-api/internal/domain/appointment"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

type fakeRepo struct {
	mu sync.Mutex

	services     map[uint]models.Service
	customers    map[uint]models.Customer
	appointments map[uint]models.Appointment
	photos       []models.AppointmentPhoto
	nextID       uint

	lastFilter  domain.CalendarFilter
	lockedDates []string
	lockedUsers []uint
	rowLocks    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		services: map[uint]models.Service{
			1: {ID: 1, Name: "Service X", Category: models.CategoryLawnMaintenance, Duration: 60, BasePrice: decimal.NewFromInt(80)},
		},
		customers: map[uint]models.Customer{
			10: {ID: 10, UserID: 100, NotifyByEmail: true, ReminderDaysBefore: 1, User: &models.User{ID: 100, Name: "Dana", Email: "dana@example.com"}},
			11: {ID: 11, UserID: 101, NotifyByEmail: true, User: &models.User{ID: 101, Name: "Sam", Email: "sam@example.com"}},
		},
		appointments: map[uint]models.Appointment{},
		nextID:       1,
	}
}

func (f *fakeRepo) seed(ap models.Appointment) models.Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ap.ID == 0 {
		ap.ID = f.nextID
		f.nextID++
	}
	f.appointments[ap.ID] = ap
	return ap
}

func (f *fakeRepo) stored(id uint) models.Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.appointments[id]
}

func (f *fakeRepo) Transaction(_ context.Context, fn func(repo domain.Repository) error) error {
	return fn(f)
}

func (f *fakeRepo) GetService(_ context.Context, id uint) (*models.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, httperr.ErrNotFound("Service not found")
	}
	return &s, nil
}

func (f *fakeRepo) GetCustomer(_ context.Context, id uint) (*models.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, httperr.ErrNotFound("Customer not found")
	}
	return &c, nil
}

func (f *fakeRepo) GetCustomerByUserID(_ context.Context, userID uint) (*models.Customer, error) {
	for _, c := range f.customers {
		if c.UserID == userID {
			return &c, nil
		}
	}
	return nil, httperr.ErrNotFound("Customer profile not found")
}

func (f *fakeRepo) hydrate(ap models.Appointment) *models.Appointment {
	if c, ok := f.customers[ap.CustomerID]; ok {
		ap.Customer = &c
	}
	if s, ok := f.services[ap.ServiceID]; ok {
		ap.Service = &s
	}
	return &ap
}

func (f *fakeRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ap, ok := f.appointments[id]
	if !ok {
		return nil, httperr.ErrNotFound("Appointment not found")
	}
	return f.hydrate(ap), nil
}

func (f *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ap.ID = f.nextID
	f.nextID++
	row := *ap
	row.Customer, row.Service = nil, nil
	f.appointments[ap.ID] = row
	return nil
}

func (f *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row := *ap
	row.Customer, row.Service = nil, nil
	f.appointments[ap.ID] = row
	return nil
}

func (f *fakeRepo) DeleteAppointment(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.appointments[id]; !ok {
		return httperr.ErrNotFound("Appointment not found")
	}
	delete(f.appointments, id)
	return nil
}

func (f *fakeRepo) LockDate(_ context.Context, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lockedDates = append(f.lockedDates, date)
	return nil
}

func (f *fakeRepo) ListAppointmentsOnDate(_ context.Context, date string, forUpdate bool) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if forUpdate {
		f.rowLocks++
	}
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.Date == date {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (f *fakeRepo) LockProfessional(_ context.Context, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lockedUsers = append(f.lockedUsers, userID)
	return nil
}

func (f *fakeRepo) ListAssignedOn(_ context.Context, userID uint, date string) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.Date != date || ap.Status == string(domain.StatusCancelled) {
			continue
		}
		lead := ap.LeadProfessionalID != nil && *ap.LeadProfessionalID == userID
		if lead || ap.HasCrewMember(userID) {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (f *fakeRepo) AddPhotos(_ context.Context, photos []models.AppointmentPhoto) error {
	f.photos = append(f.photos, photos...)
	return nil
}

func (f *fakeRepo) ListForCalendar(_ context.Context, filter domain.CalendarFilter) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.Date < filter.From || ap.Date > filter.To {
			continue
		}
		if filter.CustomerID != nil && ap.CustomerID != *filter.CustomerID {
			continue
		}
		out = append(out, *f.hydrate(ap))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) ListPendingReminders(_ context.Context, from, to string) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.Date >= from && ap.Date <= to && ap.Status == string(domain.StatusScheduled) && !ap.ReminderSent {
			out = append(out, *f.hydrate(ap))
		}
	}
	return out, nil
}

var _ domain.Repository = (*fakeRepo)(nil)

// memCache is a SlotCache backed by a map.
type memCache struct {
	slots    map[domain.SlotKey][]domain.TimeSlot
	versions map[string]int64
}

func newMemCache() *memCache {
	return &memCache{
		slots:    map[domain.SlotKey][]domain.TimeSlot{},
		versions: map[string]int64{},
	}
}

func (m *memCache) Version(_ context.Context, date string) int64 {
	return m.versions[date]
}

func (m *memCache) Get(_ context.Context, key domain.SlotKey) ([]domain.TimeSlot, bool) {
	s, ok := m.slots[key]
	return s, ok
}

func (m *memCache) Set(_ context.Context, key domain.SlotKey, version int64, slots []domain.TimeSlot) {
	if m.versions[key.Date] != version {
		return
	}
	m.slots[key] = slots
}

func (m *memCache) Invalidate(_ context.Context, dates ...string) {
	for _, d := range dates {
		m.versions[d]++
		for k := range m.slots {
			if k.Date == d {
				delete(m.slots, k)
			}
		}
	}
}
