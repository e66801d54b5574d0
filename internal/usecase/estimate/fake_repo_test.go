package estimate

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	domain "github.com/gardenpro/landscape-api/internal/domain/estimate"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

// fakeRepo keeps one slice per table, like the database does, so that
// deletes and replaces have to clean up child rows themselves.
type fakeRepo struct {
	customers map[uint]models.Customer
	services  map[uint]models.Service

	estimates map[uint]models.Estimate
	lines     []models.EstimateService
	packages  []models.EstimatePackage
	items     []models.EstimateLineItem
	photos    []models.EstimatePhoto

	nextID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		customers: map[uint]models.Customer{
			10: {ID: 10, UserID: 100, Street: "1 Elm St", City: "Springfield", State: "IL", ZipCode: "62701", PropertySize: 5000,
				User: &models.User{ID: 100, Name: "Dana", Email: "dana@example.com"}},
			11: {ID: 11, UserID: 101, User: &models.User{ID: 101, Name: "Sam"}},
		},
		services: map[uint]models.Service{
			1: {ID: 1, Name: "Mowing"},
			2: {ID: 2, Name: "Hedge Trim"},
		},
		estimates: map[uint]models.Estimate{},
		nextID:    1,
	}
}

func (f *fakeRepo) id() uint {
	id := f.nextID
	f.nextID++
	return id
}

type fakeTables struct {
	estimates map[uint]models.Estimate
	lines     []models.EstimateService
	packages  []models.EstimatePackage
	items     []models.EstimateLineItem
	photos    []models.EstimatePhoto
}

func (f *fakeRepo) snapshot() fakeTables {
	t := fakeTables{
		estimates: make(map[uint]models.Estimate, len(f.estimates)),
		lines:     append([]models.EstimateService(nil), f.lines...),
		packages:  append([]models.EstimatePackage(nil), f.packages...),
		items:     append([]models.EstimateLineItem(nil), f.items...),
		photos:    append([]models.EstimatePhoto(nil), f.photos...),
	}
	for id, e := range f.estimates {
		t.estimates[id] = e
	}
	return t
}

func (f *fakeRepo) restore(t fakeTables) {
	f.estimates, f.lines, f.packages, f.items, f.photos = t.estimates, t.lines, t.packages, t.items, t.photos
}

func (f *fakeRepo) Transaction(_ context.Context, fn func(repo domain.Repository) error) error {
	saved := f.snapshot()
	if err := fn(f); err != nil {
		f.restore(saved)
		return err
	}
	return nil
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

func (f *fakeRepo) GetService(_ context.Context, id uint) (*models.Service, error) {
	s, ok := f.services[id]
	if !ok {
		return nil, httperr.ErrNotFound("Service not found")
	}
	return &s, nil
}

func (f *fakeRepo) NextNumber(_ context.Context, now time.Time) (string, error) {
	prefix := domain.NumberPrefix(now)
	var highest string
	for _, e := range f.estimates {
		n := e.EstimateNumber
		if !strings.HasPrefix(n, prefix) {
			continue
		}
		if len(n) > len(highest) || (len(n) == len(highest) && n > highest) {
			highest = n
		}
	}
	seq, err := domain.NextSequence(now, highest)
	if err != nil {
		return "", err
	}
	return domain.FormatNumber(now, seq), nil
}

func (f *fakeRepo) Create(_ context.Context, e *models.Estimate) error {
	for _, other := range f.estimates {
		if other.EstimateNumber == e.EstimateNumber {
			return fmt.Errorf("duplicate key value violates unique constraint \"idx_estimates_estimate_number\"")
		}
	}

	e.ID = f.id()
	f.insertServices(e.ID, e.Services)
	f.insertPackages(e.ID, e.Packages)

	row := *e
	row.Customer, row.Services, row.Packages, row.Photos = nil, nil, nil, nil
	f.estimates[e.ID] = row
	return nil
}

func (f *fakeRepo) insertServices(estimateID uint, services []models.EstimateService) {
	for i := range services {
		services[i].ID = f.id()
		services[i].EstimateID = estimateID
		row := services[i]
		row.Service = nil
		f.lines = append(f.lines, row)
	}
}

func (f *fakeRepo) insertPackages(estimateID uint, packages []models.EstimatePackage) {
	for i := range packages {
		packages[i].ID = f.id()
		packages[i].EstimateID = estimateID
		for j := range packages[i].LineItems {
			packages[i].LineItems[j].ID = f.id()
			packages[i].LineItems[j].PackageID = packages[i].ID
			f.items = append(f.items, packages[i].LineItems[j])
		}
		row := packages[i]
		row.LineItems = nil
		f.packages = append(f.packages, row)
	}
}

func (f *fakeRepo) servicesOf(estimateID uint) []models.EstimateService {
	var out []models.EstimateService
	for _, l := range f.lines {
		if l.EstimateID == estimateID {
			if s, ok := f.services[l.ServiceID]; ok {
				l.Service = &s
			}
			out = append(out, l)
		}
	}
	return out
}

func (f *fakeRepo) packagesOf(estimateID uint) []models.EstimatePackage {
	var out []models.EstimatePackage
	for _, p := range f.packages {
		if p.EstimateID != estimateID {
			continue
		}
		p.LineItems = nil
		for _, it := range f.items {
			if it.PackageID == p.ID {
				p.LineItems = append(p.LineItems, it)
			}
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeRepo) photosOf(estimateID uint) []models.EstimatePhoto {
	var out []models.EstimatePhoto
	for _, p := range f.photos {
		if p.EstimateID == estimateID {
			out = append(out, p)
		}
	}
	return out
}

// orphans counts child rows whose parent no longer exists.
func (f *fakeRepo) orphans() int {
	n := 0
	pkgIDs := map[uint]bool{}
	for _, p := range f.packages {
		pkgIDs[p.ID] = true
		if _, ok := f.estimates[p.EstimateID]; !ok {
			n++
		}
	}
	for _, it := range f.items {
		if !pkgIDs[it.PackageID] {
			n++
		}
	}
	for _, l := range f.lines {
		if _, ok := f.estimates[l.EstimateID]; !ok {
			n++
		}
	}
	for _, p := range f.photos {
		if _, ok := f.estimates[p.EstimateID]; !ok {
			n++
		}
	}
	return n
}

func (f *fakeRepo) Get(_ context.Context, id uint) (*models.Estimate, error) {
	e, ok := f.estimates[id]
	if !ok {
		return nil, httperr.ErrNotFound("Estimate not found")
	}
	if c, ok := f.customers[e.CustomerID]; ok {
		e.Customer = &c
	}
	e.Services = f.servicesOf(id)
	e.Packages = f.packagesOf(id)
	e.Photos = f.photosOf(id)
	return &e, nil
}

func (f *fakeRepo) UpdateScalars(_ context.Context, e *models.Estimate) error {
	row := *e
	row.Customer, row.Services, row.Packages, row.Photos = nil, nil, nil, nil
	f.estimates[e.ID] = row
	return nil
}

func (f *fakeRepo) ReplaceServices(_ context.Context, estimateID uint, services []models.EstimateService) error {
	kept := f.lines[:0:0]
	for _, l := range f.lines {
		if l.EstimateID != estimateID {
			kept = append(kept, l)
		}
	}
	f.lines = kept
	f.insertServices(estimateID, services)
	return nil
}

func (f *fakeRepo) deletePackages(estimateID uint) {
	dropped := map[uint]bool{}
	kept := f.packages[:0:0]
	for _, p := range f.packages {
		if p.EstimateID == estimateID {
			dropped[p.ID] = true
			continue
		}
		kept = append(kept, p)
	}
	f.packages = kept

	items := f.items[:0:0]
	for _, it := range f.items {
		if !dropped[it.PackageID] {
			items = append(items, it)
		}
	}
	f.items = items
}

func (f *fakeRepo) ReplacePackages(_ context.Context, estimateID uint, packages []models.EstimatePackage) error {
	f.deletePackages(estimateID)
	f.insertPackages(estimateID, packages)
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uint) error {
	f.deletePackages(id)
	_ = f.ReplaceServices(context.Background(), id, nil)

	photos := f.photos[:0:0]
	for _, p := range f.photos {
		if p.EstimateID != id {
			photos = append(photos, p)
		}
	}
	f.photos = photos

	if _, ok := f.estimates[id]; !ok {
		return httperr.ErrNotFound("Estimate not found")
	}
	delete(f.estimates, id)
	return nil
}

func (f *fakeRepo) AddPhotos(_ context.Context, photos []models.EstimatePhoto) error {
	for i := range photos {
		photos[i].ID = f.id()
		f.photos = append(f.photos, photos[i])
	}
	return nil
}

func (f *fakeRepo) ListByCustomer(_ context.Context, customerID uint) ([]models.Estimate, error) {
	var out []models.Estimate
	for id, e := range f.estimates {
		if e.CustomerID == customerID {
			e.Packages = f.packagesOf(id)
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeRepo) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for id, e := range f.estimates {
		if e.Status == string(domain.StatusSent) && e.ExpiryDate != nil && e.ExpiryDate.Before(now) {
			e.Status = string(domain.StatusExpired)
			f.estimates[id] = e
			n++
		}
	}
	return n, nil
}

var _ domain.Repository = (*fakeRepo)(nil)
