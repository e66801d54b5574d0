package estimate

import (
	"fmt"

	"github.com/gardenpro/landscape-api/internal/httperr"
)

type Status string

const (
	StatusRequested Status = "Requested"
	StatusInReview  Status = "In Review"
	StatusPrepared  Status = "Prepared"
	StatusSent      Status = "Sent"
	StatusApproved  Status = "Approved"
	StatusDeclined  Status = "Declined"
	StatusExpired   Status = "Expired"
)

var statuses = map[Status]bool{
	StatusRequested: true,
	StatusInReview:  true,
	StatusPrepared:  true,
	StatusSent:      true,
	StatusApproved:  true,
	StatusDeclined:  true,
	StatusExpired:   true,
}

func ParseStatus(s string) (Status, error) {
	if !statuses[Status(s)] {
		return "", httperr.ErrValidation(fmt.Sprintf("Invalid estimate status %q", s))
	}
	return Status(s), nil
}

// IsClosed reports whether the customer can no longer act on the estimate.
func (s Status) IsClosed() bool {
	return s == StatusApproved || s == StatusDeclined || s == StatusExpired
}

// CanRespond validates that a customer may approve or decline.
func CanRespond(s Status) error {
	if s.IsClosed() {
		return httperr.ErrValidation(fmt.Sprintf("Estimate is already %s", s))
	}
	return nil
}
