package payment

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/gardenpro/landscape-api/internal/domain/access"
	domain "github.com/gardenpro/landscape-api/internal/domain/payment"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/mocks"
	"github.com/gardenpro/landscape-api/internal/models"
)

type fakeRepo struct {
	customers    map[uint]models.Customer
	appointments map[uint]models.Appointment
	estimates    map[uint]models.Estimate
	payments     map[uint]models.Payment

	createErr error
	updateErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		customers: map[uint]models.Customer{
			10: {ID: 10, UserID: 100, NotifyByEmail: true, User: &models.User{ID: 100, Name: "Dana", Email: "dana@example.com"}},
			11: {ID: 11, UserID: 101, User: &models.User{ID: 101, Name: "Sam"}},
		},
		appointments: map[uint]models.Appointment{
			5: {ID: 5, CustomerID: 10, PaymentStatus: "Pending"},
		},
		estimates: map[uint]models.Estimate{
			7: {ID: 7, CustomerID: 10, DepositRequired: true},
		},
		payments: map[uint]models.Payment{},
	}
}

// Transaction restores payments and appointments when fn fails.
func (f *fakeRepo) Transaction(_ context.Context, fn func(repo domain.Repository) error) error {
	payments := map[uint]models.Payment{}
	for k, v := range f.payments {
		payments[k] = v
	}
	appointments := map[uint]models.Appointment{}
	for k, v := range f.appointments {
		appointments[k] = v
	}
	if err := fn(f); err != nil {
		f.payments, f.appointments = payments, appointments
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

func (f *fakeRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	ap, ok := f.appointments[id]
	if !ok {
		return nil, httperr.ErrNotFound("Appointment not found")
	}
	return &ap, nil
}

func (f *fakeRepo) GetEstimate(_ context.Context, id uint) (*models.Estimate, error) {
	e, ok := f.estimates[id]
	if !ok {
		return nil, httperr.ErrNotFound("Estimate not found")
	}
	return &e, nil
}

func (f *fakeRepo) Create(_ context.Context, p *models.Payment) error {
	if f.createErr != nil {
		return f.createErr
	}
	p.ID = uint(len(f.payments) + 1)
	f.payments[p.ID] = *p
	return nil
}

func (f *fakeRepo) Get(_ context.Context, id uint) (*models.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, httperr.ErrNotFound("Payment not found")
	}
	return &p, nil
}

func (f *fakeRepo) Update(_ context.Context, p *models.Payment) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	row := *p
	row.Customer = nil
	f.payments[p.ID] = row
	return nil
}

func (f *fakeRepo) SetAppointmentPaymentStatus(_ context.Context, appointmentID uint, status string) error {
	ap := f.appointments[appointmentID]
	ap.PaymentStatus = status
	f.appointments[appointmentID] = ap
	return nil
}

func (f *fakeRepo) MarkDepositPaid(_ context.Context, estimateID, paymentID uint, paidOn time.Time) error {
	e := f.estimates[estimateID]
	e.DepositPaymentID = &paymentID
	e.DepositPaidOn = &paidOn
	f.estimates[estimateID] = e
	return nil
}

var _ domain.Repository = (*fakeRepo)(nil)

var (
	admin = access.Actor{UserID: 1, Role: models.RoleAdmin}
	dana  = access.Actor{UserID: 100, Role: models.RoleCustomer}
	sam   = access.Actor{UserID: 101, Role: models.RoleCustomer}
)

func ptr[T any](v T) *T { return &v }

func quiet(t *testing.T) *mocks.MockNotifier {
	n := mocks.NewMockNotifier(gomock.NewController(t))
	n.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	return n
}

func TestProcessPaymentMarksAppointmentPaid(t *testing.T) {
	repo := newFakeRepo()
	gw := mocks.NewMockGateway(gomock.NewController(t))
	gw.EXPECT().Charge(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req domain.ChargeRequest) (domain.ChargeResult, error) {
		if req.PayerEmail != "dana@example.com" || req.Reference != "appointment-5" {
			t.Fatalf("unexpected charge request %+v", req)
		}
		return domain.ChargeResult{TransactionID: "tx-1", Status: "approved", Approved: true, CardLast4: "4242"}, nil
	})

	p, err := NewProcessPayment(repo, gw, "mercadopago", quiet(t), nil).Execute(context.Background(), ProcessPaymentInput{
		Actor: dana, AppointmentID: ptr(uint(5)), Amount: decimal.NewFromInt(80), CardToken: "tok",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != "Completed" || p.GatewayTransactionID != "tx-1" || p.Currency != "USD" || p.Gateway != "mercadopago" {
		t.Fatalf("unexpected payment %+v", p)
	}
	if repo.appointments[5].PaymentStatus != "Paid" {
		t.Fatalf("expected appointment Paid, got %s", repo.appointments[5].PaymentStatus)
	}
}

func TestProcessPaymentGatewayFailures(t *testing.T) {
	cases := []struct {
		name   string
		result domain.ChargeResult
		err    error
	}{
		{"gateway error", domain.ChargeResult{}, errors.New("timeout")},
		{"declined", domain.ChargeResult{Status: "rejected"}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			gw := mocks.NewMockGateway(gomock.NewController(t))
			gw.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(tc.result, tc.err)

			_, err := NewProcessPayment(repo, gw, "mercadopago", quiet(t), nil).Execute(context.Background(), ProcessPaymentInput{
				Actor: dana, AppointmentID: ptr(uint(5)), Amount: decimal.NewFromInt(80), CardToken: "tok",
			})
			if !httperr.IsBusiness(err, httperr.KindExternal) {
				t.Fatalf("expected external error, got %v", err)
			}
			if len(repo.payments) != 0 || repo.appointments[5].PaymentStatus != "Pending" {
				t.Fatal("expected nothing to be written")
			}
		})
	}
}

func TestProcessPaymentReversesChargeWhenBookkeepingFails(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = errors.New("db down")

	gw := mocks.NewMockGateway(gomock.NewController(t))
	gw.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(domain.ChargeResult{TransactionID: "tx-9", Approved: true}, nil)
	gw.EXPECT().Refund(gomock.Any(), "tx-9", decimal.NewFromInt(80), true).Return(domain.RefundResult{TransactionID: "rf-9"}, nil)

	_, err := NewProcessPayment(repo, gw, "mercadopago", quiet(t), nil).Execute(context.Background(), ProcessPaymentInput{
		Actor: dana, AppointmentID: ptr(uint(5)), Amount: decimal.NewFromInt(80), CardToken: "tok",
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestProcessPaymentOwnership(t *testing.T) {
	gw := mocks.NewMockGateway(gomock.NewController(t))

	_, err := NewProcessPayment(newFakeRepo(), gw, "mercadopago", quiet(t), nil).Execute(context.Background(), ProcessPaymentInput{
		Actor: sam, AppointmentID: ptr(uint(5)), Amount: decimal.NewFromInt(80), CardToken: "tok",
	})
	if !httperr.IsBusiness(err, httperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestProcessDepositMarksEstimate(t *testing.T) {
	repo := newFakeRepo()
	gw := mocks.NewMockGateway(gomock.NewController(t))
	gw.EXPECT().Charge(gomock.Any(), gomock.Any()).Return(domain.ChargeResult{TransactionID: "tx-2", Approved: true}, nil)

	p, err := NewProcessPayment(repo, gw, "mercadopago", quiet(t), nil).Execute(context.Background(), ProcessPaymentInput{
		Actor: admin, EstimateID: ptr(uint(7)), PaymentType: domain.TypeDeposit, Amount: decimal.NewFromInt(200), CardToken: "tok",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e := repo.estimates[7]
	if e.DepositPaymentID == nil || *e.DepositPaymentID != p.ID || e.DepositPaidOn == nil {
		t.Fatalf("expected deposit recorded, got %+v", e)
	}
	if p.CustomerID != 10 {
		t.Fatalf("expected customer taken from the estimate, got %d", p.CustomerID)
	}
}

func TestManualPayment(t *testing.T) {
	repo := newFakeRepo()
	uc := NewRecordManualPayment(repo, nil)

	_, err := uc.Execute(context.Background(), ManualPaymentInput{Actor: admin, CustomerID: 10, Amount: decimal.NewFromInt(50), Method: "card"})
	if !httperr.IsBusiness(err, httperr.KindValidation) {
		t.Fatalf("expected validation error for card, got %v", err)
	}

	p, err := uc.Execute(context.Background(), ManualPaymentInput{
		Actor: admin, CustomerID: 10, AppointmentID: ptr(uint(5)), Amount: decimal.NewFromInt(50), Method: "cash",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Gateway != "" || p.Status != "Completed" || repo.appointments[5].PaymentStatus != "Paid" {
		t.Fatalf("unexpected result %+v", p)
	}

	_, err = uc.Execute(context.Background(), ManualPaymentInput{Actor: dana, CustomerID: 10, Amount: decimal.NewFromInt(50), Method: "cash"})
	if !httperr.IsBusiness(err, httperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestRefundsAccumulate(t *testing.T) {
	repo := newFakeRepo()
	repo.payments[1] = models.Payment{
		ID: 1, CustomerID: 10, AppointmentID: ptr(uint(5)), Amount: decimal.NewFromInt(100),
		Status: "Completed", Method: "card", Currency: "USD", GatewayTransactionID: "tx-1",
	}

	ctrl := gomock.NewController(t)
	gw := mocks.NewMockGateway(ctrl)
	gomock.InOrder(
		gw.EXPECT().Refund(gomock.Any(), "tx-1", decimal.NewFromInt(30), false).Return(domain.RefundResult{TransactionID: "rf-1"}, nil),
		gw.EXPECT().Refund(gomock.Any(), "tx-1", gomock.Any(), false).Return(domain.RefundResult{TransactionID: "rf-2"}, nil),
	)

	uc := NewRefundPayment(repo, gw, quiet(t), nil)
	ctx := context.Background()

	p, err := uc.Execute(ctx, RefundInput{Actor: admin, ID: 1, Amount: ptr(decimal.NewFromInt(30)), Reason: "missed edge"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != "Partially Refunded" || repo.appointments[5].PaymentStatus != "Partially Refunded" {
		t.Fatalf("expected partial refund, got %s / %s", p.Status, repo.appointments[5].PaymentStatus)
	}

	p, err = uc.Execute(ctx, RefundInput{Actor: admin, ID: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != "Refunded" || !p.Refund.Amount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected full refund of 100, got %s %s", p.Status, p.Refund.Amount)
	}
	if p.Refund.Reason != "missed edge" || p.Refund.TransactionID != "rf-2" {
		t.Fatalf("unexpected refund record %+v", p.Refund)
	}

	_, err = uc.Execute(ctx, RefundInput{Actor: admin, ID: 1})
	if !httperr.IsBusiness(err, httperr.KindValidation) {
		t.Fatalf("expected already refunded, got %v", err)
	}
}

func TestRefundGatewayFailureKeepsPayment(t *testing.T) {
	repo := newFakeRepo()
	repo.payments[1] = models.Payment{
		ID: 1, CustomerID: 10, Amount: decimal.NewFromInt(100),
		Status: "Completed", Method: "card", GatewayTransactionID: "tx-1",
	}

	gw := mocks.NewMockGateway(gomock.NewController(t))
	gw.EXPECT().Refund(gomock.Any(), "tx-1", gomock.Any(), true).Return(domain.RefundResult{}, errors.New("gateway down"))

	_, err := NewRefundPayment(repo, gw, quiet(t), nil).Execute(context.Background(), RefundInput{Actor: admin, ID: 1})
	if !httperr.IsBusiness(err, httperr.KindExternal) {
		t.Fatalf("expected external error, got %v", err)
	}
	if repo.payments[1].Status != "Completed" {
		t.Fatalf("expected payment unchanged, got %s", repo.payments[1].Status)
	}
}

func TestRefundLogsIssuedRefundWhenRecordFails(t *testing.T) {
	repo := newFakeRepo()
	repo.payments[1] = models.Payment{
		ID: 1, CustomerID: 10, Amount: decimal.NewFromInt(100),
		Status: "Completed", Method: "card", GatewayTransactionID: "tx-1",
	}
	repo.updateErr = errors.New("connection reset")

	gw := mocks.NewMockGateway(gomock.NewController(t))
	gw.EXPECT().Refund(gomock.Any(), "tx-1", decimal.NewFromInt(100), true).Return(domain.RefundResult{TransactionID: "rf-77"}, nil)

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	_, err := NewRefundPayment(repo, gw, quiet(t), nil).Execute(context.Background(), RefundInput{Actor: admin, ID: 1})
	if err == nil {
		t.Fatal("expected the record failure to be returned")
	}

	out := buf.String()
	if !strings.Contains(out, "ERROR") || !strings.Contains(out, "rf-77") || !strings.Contains(out, "payment 1") {
		t.Fatalf("expected an error log naming refund rf-77, got %q", out)
	}
	if repo.payments[1].Status != "Completed" {
		t.Fatalf("expected payment row rolled back, got %s", repo.payments[1].Status)
	}
}

func TestGetPaymentOwnership(t *testing.T) {
	repo := newFakeRepo()
	repo.payments[1] = models.Payment{ID: 1, CustomerID: 10, Amount: decimal.NewFromInt(10), Status: "Completed"}

	if _, err := NewGetPayment(repo).Execute(context.Background(), dana, 1); err != nil {
		t.Fatalf("owner should read, got %v", err)
	}
	if _, err := NewGetPayment(repo).Execute(context.Background(), sam, 1); !httperr.IsBusiness(err, httperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
