package notify

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/gardenpro/landscape-api/internal/config"
	"github.com/gardenpro/landscape-api/internal/domain/notification"
	"github.com/gardenpro/landscape-api/internal/metrics"
)

// Sender is one delivery channel.
type Sender interface {
	Channel() string
	Accepts(msg notification.Message) bool
	Send(ctx context.Context, msg notification.Message) error
}

// Multi sends a message on every channel that accepts it. It fails only when
// every attempted channel failed.
type Multi struct {
	senders []Sender
}

func NewMulti(senders ...Sender) *Multi {
	return &Multi{senders: senders}
}

func (m *Multi) Notify(ctx context.Context, msg notification.Message) error {
	var (
		attempted int
		errs      []error
	)
	for _, s := range m.senders {
		if !s.Accepts(msg) {
			continue
		}
		attempted++
		err := s.Send(ctx, msg)
		metrics.Notifications.WithLabelValues(s.Channel(), metrics.Result(err)).Inc()
		if err != nil {
			log.Printf("[notify][%s] %q failed: %v", s.Channel(), msg.Subject, err)
			errs = append(errs, fmt.Errorf("%s: %w", s.Channel(), err))
		}
	}

	if attempted > 0 && len(errs) == attempted {
		return errors.Join(errs...)
	}
	return nil
}

// LogSender writes messages to the log. Used when a channel has no
// credentials configured.
type LogSender struct {
	channel string
}

func (l LogSender) Channel() string { return l.channel }

func (l LogSender) Accepts(msg notification.Message) bool {
	if l.channel == "sms" {
		return msg.Phone != ""
	}
	return msg.Email != ""
}

func (l LogSender) Send(_ context.Context, msg notification.Message) error {
	to := msg.Email
	if l.channel == "sms" {
		to = msg.Phone
	}
	log.Printf("[notify][%s] (not configured) to=%s subject=%q", l.channel, to, msg.Subject)
	return nil
}

// New builds the notifier from configuration, falling back to LogSender for
// channels without credentials.
func New(cfg *config.Config) *Multi {
	var email Sender = LogSender{channel: "email"}
	if cfg.SMTPHost != "" {
		email = NewEmailSender(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	}

	var sms Sender = LogSender{channel: "sms"}
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		sms = NewSMSSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
	}

	return NewMulti(email, sms)
}

var _ notification.Notifier = (*Multi)(nil)
