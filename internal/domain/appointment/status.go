package appointment

import (
	"fmt"

	"github.com/gardenpro/landscape-api/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled   Status = "Scheduled"
	StatusInProgress  Status = "In Progress"
	StatusCompleted   Status = "Completed"
	StatusCancelled   Status = "Cancelled"
	StatusRescheduled Status = "Rescheduled"
)

const (
	PaymentPending           = "Pending"
	PaymentPaid              = "Paid"
	PaymentPartiallyRefunded = "Partially Refunded"
	PaymentRefunded          = "Refunded"
)

var transitions = map[Status][]Status{
	StatusScheduled:   {StatusInProgress, StatusCompleted, StatusCancelled, StatusRescheduled},
	StatusInProgress:  {StatusCompleted, StatusCancelled},
	StatusRescheduled: {StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled},
	StatusCompleted:   nil,
	StatusCancelled:   nil,
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := transitions[st]; !ok {
		return "", httperr.ErrValidation(fmt.Sprintf("Invalid appointment status %q", s))
	}
	return st, nil
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ===============================
// Validations
// ===============================

// CanTransition validates a status change. Setting the current status again is a no-op.
func CanTransition(from, to Status) error {
	if from == to {
		return nil
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrValidation(fmt.Sprintf("Cannot change appointment status from %s to %s", from, to))
}

func InitialStatus() Status {
	return StatusScheduled
}
