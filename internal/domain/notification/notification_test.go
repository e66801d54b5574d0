package notification

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gardenpro/landscape-api/internal/models"
)

type fakeNotifier struct {
	err  error
	sent []Message
}

func (f *fakeNotifier) Notify(_ context.Context, msg Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

func TestForCustomerFollowsPreferences(t *testing.T) {
	c := &models.Customer{
		User:          &models.User{Email: "dana@example.com", Phone: "+15550100"},
		NotifyByEmail: true,
	}

	msg := ForCustomer(c, "s", "b")
	if msg.Email != "dana@example.com" || msg.Phone != "" {
		t.Fatalf("unexpected addressing: %+v", msg)
	}

	c.NotifyBySms = true
	c.NotifyByEmail = false
	msg = ForCustomer(c, "s", "b")
	if msg.Email != "" || msg.Phone != "+15550100" {
		t.Fatalf("unexpected addressing: %+v", msg)
	}
}

func TestBestEffort(t *testing.T) {
	ctx := context.Background()
	msg := Message{Email: "a@b.c", Subject: "x"}

	ok := &fakeNotifier{}
	if !BestEffort(ctx, ok, "test", msg) {
		t.Fatal("expected send to succeed")
	}

	failing := &fakeNotifier{err: errors.New("smtp down")}
	if BestEffort(ctx, failing, "test", msg) {
		t.Fatal("expected failure to be reported as false")
	}

	if BestEffort(ctx, ok, "test", Message{Subject: "nobody"}) {
		t.Fatal("expected unaddressed message to be skipped")
	}
	if len(ok.sent) != 1 {
		t.Fatalf("expected 1 send, got %d", len(ok.sent))
	}

	if BestEffort(ctx, nil, "test", msg) {
		t.Fatal("expected nil notifier to be skipped")
	}
}

func TestAppointmentConfirmationText(t *testing.T) {
	c := &models.Customer{User: &models.User{Name: "Dana", Email: "d@x.io"}, NotifyByEmail: true}
	ap := &models.Appointment{Date: "2024-06-10", StartTime: "09:00", EndTime: "10:00", Service: &models.Service{Name: "Mowing"}}

	msg := AppointmentConfirmation(c, ap)
	want := "Hi Dana,\n\nYour Mowing appointment is booked for 2024-06-10 from 09:00 to 10:00.\n\nThank you for choosing us."
	if msg.Body != want {
		t.Fatalf("expected body %q, got %q", want, msg.Body)
	}
	if msg.Email != "d@x.io" {
		t.Fatalf("expected email recipient, got %+v", msg)
	}
}

func TestContactReceivedGoesToAdmin(t *testing.T) {
	ct := &models.Contact{Name: "Sam", Email: "sam@x.io", Phone: "555-0101", Subject: "Hedges", Message: "Can you trim hedges?"}

	msg := ContactReceived("office@x.io", ct)
	if msg.Email != "office@x.io" || msg.Phone != "" {
		t.Fatalf("expected admin email only, got %+v", msg)
	}
	if msg.Subject != "New Contact Message: Hedges" {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	if !strings.Contains(msg.Body, "Sam <sam@x.io>") || !strings.HasSuffix(msg.Body, "Phone: 555-0101") {
		t.Fatalf("unexpected body %q", msg.Body)
	}
}
