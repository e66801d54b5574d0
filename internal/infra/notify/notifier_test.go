package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/gardenpro/landscape-api/internal/config"
	"github.com/gardenpro/landscape-api/internal/domain/notification"
)

type stubSender struct {
	channel string
	err     error
	calls   int
}

func (s *stubSender) Channel() string { return s.channel }

func (s *stubSender) Accepts(msg notification.Message) bool {
	if s.channel == "sms" {
		return msg.Phone != ""
	}
	return msg.Email != ""
}

func (s *stubSender) Send(context.Context, notification.Message) error {
	s.calls++
	return s.err
}

func TestMultiNotify(t *testing.T) {
	ctx := context.Background()

	t.Run("only addressed channels are used", func(t *testing.T) {
		email := &stubSender{channel: "email"}
		sms := &stubSender{channel: "sms"}

		err := NewMulti(email, sms).Notify(ctx, notification.Message{Email: "a@b.c"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if email.calls != 1 || sms.calls != 0 {
			t.Fatalf("expected email only, got email=%d sms=%d", email.calls, sms.calls)
		}
	})

	t.Run("partial failure is not an error", func(t *testing.T) {
		email := &stubSender{channel: "email", err: errors.New("smtp down")}
		sms := &stubSender{channel: "sms"}

		err := NewMulti(email, sms).Notify(ctx, notification.Message{Email: "a@b.c", Phone: "+1555"})
		if err != nil {
			t.Fatalf("expected nil, got %v", err)
		}
	})

	t.Run("all channels failing is an error", func(t *testing.T) {
		email := &stubSender{channel: "email", err: errors.New("smtp down")}

		err := NewMulti(email).Notify(ctx, notification.Message{Email: "a@b.c"})
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestNewFallsBackToLog(t *testing.T) {
	m := New(&config.Config{})
	if len(m.senders) != 2 {
		t.Fatalf("expected 2 senders, got %d", len(m.senders))
	}
	for _, s := range m.senders {
		if _, ok := s.(LogSender); !ok {
			t.Fatalf("expected LogSender, got %T", s)
		}
	}

	if err := m.Notify(context.Background(), notification.Message{Email: "a@b.c", Phone: "+1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSMSBody(t *testing.T) {
	msg := notification.Message{Subject: "Appointment Reminder", Body: "Hi Dana,\n\nSee you at 09:00.\n\nThanks"}
	if got := smsBody(msg); got != "Appointment Reminder: See you at 09:00." {
		t.Fatalf("unexpected sms body %q", got)
	}
}
