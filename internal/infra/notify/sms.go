package notify

import (
	"context"
	"errors"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/gardenpro/landscape-api/internal/domain/notification"
)

type SMSSender struct {
	client *twilio.RestClient
	from   string
}

func NewSMSSender(accountSID, authToken, from string) *SMSSender {
	return &SMSSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

func (s *SMSSender) Channel() string { return "sms" }

func (s *SMSSender) Accepts(msg notification.Message) bool { return msg.Phone != "" }

// Send posts a text message. The twilio client has no context support.
func (s *SMSSender) Send(_ context.Context, msg notification.Message) error {
	if msg.Phone == "" {
		return errors.New("message has no phone recipient")
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(msg.Phone)
	params.SetFrom(s.from)
	params.SetBody(smsBody(msg))

	_, err := s.client.Api.CreateMessage(params)
	return err
}

// smsBody keeps texts short: the subject and the paragraph after the
// greeting.
func smsBody(msg notification.Message) string {
	parts := strings.Split(msg.Body, "\n\n")
	body := parts[0]
	if len(parts) > 1 {
		body = parts[1]
	}
	return msg.Subject + ": " + body
}
