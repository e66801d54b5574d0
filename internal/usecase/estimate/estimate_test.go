package estimate

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/gardenpro/landscape-api/internal/domain/access"
	domain "github.com/gardenpro/landscape-api/internal/domain/estimate"
	"github.com/gardenpro/landscape-api/internal/domain/notification"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/mocks"
	"github.com/gardenpro/landscape-api/internal/models"
)

var (
	admin = access.Actor{UserID: 1, Role: models.RoleAdmin}
	dana  = access.Actor{UserID: 100, Role: models.RoleCustomer}
	sam   = access.Actor{UserID: 101, Role: models.RoleCustomer}
)

func ptr[T any](v T) *T { return &v }

func silent(t *testing.T) notification.Notifier {
	n := mocks.NewMockNotifier(gomock.NewController(t))
	n.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	return n
}

func pkg(name string, prices ...int64) models.EstimatePackage {
	p := models.EstimatePackage{Name: name}
	for _, price := range prices {
		p.LineItems = append(p.LineItems, models.EstimateLineItem{Service: "Work", UnitPrice: decimal.NewFromInt(price)})
	}
	return p
}

func seedEstimate(t *testing.T, repo *fakeRepo) *models.Estimate {
	t.Helper()
	uc := NewCreateEstimate(repo, silent(t), nil, "office@example.com")
	uc.now = func() time.Time { return time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC) }

	e, err := uc.Execute(context.Background(), CreateEstimateInput{
		Actor:      admin,
		CustomerID: 10,
		Fields:     Fields{CustomerNotes: ptr("front lawn"), Status: ptr("Sent")},
		Services:   []ServiceLine{{ServiceID: 1, Quantity: 2}},
		Packages:   []models.EstimatePackage{pkg("Basic", 100), pkg("Premium", 100, 50)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return e
}

func TestCreateEstimateDefaults(t *testing.T) {
	repo := newFakeRepo()
	e := seedEstimate(t, repo)

	if e.EstimateNumber != "EST-202406-0001" {
		t.Fatalf("unexpected number %s", e.EstimateNumber)
	}
	if e.PropertyStreet != "1 Elm St" || e.PropertyCity != "Springfield" || e.PropertySize != 5000 {
		t.Fatalf("expected property defaults from the customer, got %+v", e)
	}
	if want := time.Date(2024, 7, 3, 9, 0, 0, 0, time.UTC); e.ExpiryDate == nil || !e.ExpiryDate.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, e.ExpiryDate)
	}
	premium := e.PackageNamed("Premium")
	if premium == nil || !premium.Total.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected Premium total 150, got %+v", premium)
	}
}

func TestCreateEstimateRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		in   CreateEstimateInput
		kind httperr.Kind
	}{
		{"unknown service", CreateEstimateInput{Actor: admin, CustomerID: 10, Services: []ServiceLine{{ServiceID: 9}}}, httperr.KindNotFound},
		{"bad package name", CreateEstimateInput{Actor: admin, CustomerID: 10, Packages: []models.EstimatePackage{pkg("Gold", 1)}}, httperr.KindValidation},
		{"missing customer", CreateEstimateInput{Actor: admin}, httperr.KindValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			_, err := NewCreateEstimate(repo, silent(t), nil, "").Execute(ctx, tc.in)
			if !httperr.IsBusiness(err, tc.kind) {
				t.Fatalf("expected kind %d, got %v", tc.kind, err)
			}
			if len(repo.estimates) != 0 {
				t.Fatal("expected nothing to be stored")
			}
		})
	}
}

func TestRequestEstimateNotifiesOffice(t *testing.T) {
	repo := newFakeRepo()
	n := mocks.NewMockNotifier(gomock.NewController(t))
	n.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, msg notification.Message) error {
		if msg.Email != "office@example.com" || msg.Subject != "New Estimate Request" {
			t.Fatalf("unexpected message %+v", msg)
		}
		return nil
	})

	e, err := NewCreateEstimate(repo, n, nil, "office@example.com").Execute(context.Background(), CreateEstimateInput{
		Actor:    dana,
		Fields:   Fields{Status: ptr("Approved"), CustomerNotes: ptr("back yard")},
		Packages: []models.EstimatePackage{pkg("Basic", 1)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Status != string(domain.StatusRequested) || e.CustomerID != 10 || len(e.Packages) != 0 {
		t.Fatalf("expected a bare Requested estimate for Dana, got %+v", e)
	}
}

func TestUpdateMergesScalarsAndReplacesCollections(t *testing.T) {
	repo := newFakeRepo()
	e := seedEstimate(t, repo)

	got, err := NewUpdateEstimate(repo, nil).Execute(context.Background(), UpdateEstimateInput{
		Actor:    admin,
		ID:       e.ID,
		Fields:   Fields{PropertyDetails: ptr("steep slope")},
		Services: &[]ServiceLine{{ServiceID: 2, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.CustomerNotes != "front lawn" || got.PropertyStreet != "1 Elm St" {
		t.Fatalf("expected untouched scalars to survive, got %+v", got)
	}
	if got.PropertyDetails != "steep slope" {
		t.Fatalf("expected propertyDetails updated, got %q", got.PropertyDetails)
	}
	if len(got.Services) != 1 || got.Services[0].ServiceID != 2 {
		t.Fatalf("expected services replaced by [2], got %+v", got.Services)
	}
	if len(got.Packages) != 2 {
		t.Fatalf("expected packages untouched, got %d", len(got.Packages))
	}

	got, err = NewUpdateEstimate(repo, nil).Execute(context.Background(), UpdateEstimateInput{
		Actor:    admin,
		ID:       e.ID,
		Packages: &[]models.EstimatePackage{pkg("Standard", 75)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Packages) != 1 || got.Packages[0].Name != "Standard" {
		t.Fatalf("expected packages replaced by Standard, got %+v", got.Packages)
	}
}

func TestUpdateRollsBackOnFailure(t *testing.T) {
	repo := newFakeRepo()
	e := seedEstimate(t, repo)

	_, err := NewUpdateEstimate(repo, nil).Execute(context.Background(), UpdateEstimateInput{
		Actor:    admin,
		ID:       e.ID,
		Fields:   Fields{CustomerNotes: ptr("changed")},
		Services: &[]ServiceLine{{ServiceID: 99}},
	})
	if !httperr.IsBusiness(err, httperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if repo.estimates[e.ID].CustomerNotes != "front lawn" {
		t.Fatal("expected the scalar change to be rolled back")
	}
}

func TestUpdateRequiresAdmin(t *testing.T) {
	_, err := NewUpdateEstimate(newFakeRepo(), nil).Execute(context.Background(), UpdateEstimateInput{Actor: dana, ID: 1})
	if !httperr.IsBusiness(err, httperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestApproveEstimate(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown package leaves status unchanged", func(t *testing.T) {
		repo := newFakeRepo()
		e := seedEstimate(t, repo)

		_, err := NewApproveEstimate(repo, silent(t), nil, "").Execute(ctx, dana, e.ID, "Standard")
		if !httperr.IsBusiness(err, httperr.KindNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
		if repo.estimates[e.ID].Status != string(domain.StatusSent) {
			t.Fatalf("expected status Sent, got %s", repo.estimates[e.ID].Status)
		}
	})

	t.Run("other customer", func(t *testing.T) {
		repo := newFakeRepo()
		e := seedEstimate(t, repo)

		_, err := NewApproveEstimate(repo, silent(t), nil, "").Execute(ctx, sam, e.ID, "Basic")
		if !httperr.IsBusiness(err, httperr.KindForbidden) {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})

	t.Run("owner approves", func(t *testing.T) {
		repo := newFakeRepo()
		e := seedEstimate(t, repo)

		n := mocks.NewMockNotifier(gomock.NewController(t))
		n.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)

		got, err := NewApproveEstimate(repo, n, nil, "office@example.com").Execute(ctx, dana, e.ID, "Premium")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != string(domain.StatusApproved) || got.ApprovedPackage != "Premium" {
			t.Fatalf("unexpected estimate: %+v", got)
		}
		if len(repo.packagesOf(e.ID)) != 2 {
			t.Fatal("expected packages to survive approval")
		}

		_, err = NewDeclineEstimate(repo, nil).Execute(ctx, dana, e.ID)
		if !httperr.IsBusiness(err, httperr.KindValidation) {
			t.Fatalf("expected a closed estimate to reject decline, got %v", err)
		}
	})
}

func TestDeleteAndExpire(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	e := seedEstimate(t, repo)

	expire := NewExpireOverdue(repo)
	expire.now = func() time.Time { return time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC) }
	n, err := expire.Execute(ctx)
	if err != nil || n != 1 {
		t.Fatalf("expected 1 expired, got %d (%v)", n, err)
	}
	if repo.estimates[e.ID].Status != string(domain.StatusExpired) {
		t.Fatal("expected estimate to be expired")
	}

	store := mocks.NewMockStore(gomock.NewController(t))
	if err := NewDeleteEstimate(repo, store, nil).Execute(ctx, admin, e.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewGetEstimate(repo).Execute(ctx, admin, e.ID); !httperr.IsBusiness(err, httperr.KindNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
