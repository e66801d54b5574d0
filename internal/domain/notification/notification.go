// Package notification defines outbound customer/admin messages. Delivery is
// best-effort: a failed send is logged and never fails the caller.
package notification

import (
	"context"
	"log"

	"github.com/gardenpro/landscape-api/internal/models"
)

// Message goes out by email when Email is set and by SMS when Phone is set.
type Message struct {
	Email   string
	Phone   string
	Subject string
	Body    string
}

// Notifier delivers a message over every channel it is addressed to.
//
//go:generate mockgen -destination=../../mocks/notifier_mock.go -package=mocks . Notifier
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// BestEffort sends msg and reports whether it went out. Errors are logged.
func BestEffort(ctx context.Context, n Notifier, tag string, msg Message) bool {
	if n == nil || (msg.Email == "" && msg.Phone == "") {
		return false
	}
	if err := n.Notify(ctx, msg); err != nil {
		log.Printf("[notify][%s] send failed subject=%q err=%v", tag, msg.Subject, err)
		return false
	}
	return true
}

// ForCustomer addresses a message according to the customer's preferences.
func ForCustomer(c *models.Customer, subject, body string) Message {
	msg := Message{Subject: subject, Body: body}
	if c == nil || c.User == nil {
		return msg
	}
	if c.NotifyByEmail {
		msg.Email = c.User.Email
	}
	if c.NotifyBySms {
		msg.Phone = c.User.Phone
	}
	return msg
}

// ForAdmin addresses a message to the admin mailbox.
func ForAdmin(adminEmail, subject, body string) Message {
	return Message{Email: adminEmail, Subject: subject, Body: body}
}
