package notification

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/gardenpro/landscape-api/internal/models"
)

func serviceName(ap *models.Appointment) string {
	if ap.Service != nil {
		return ap.Service.Name
	}
	return "your service"
}

func AppointmentConfirmation(c *models.Customer, ap *models.Appointment) Message {
	return ForCustomer(c,
		"Appointment Confirmation",
		fmt.Sprintf("Hi %s,\n\nYour %s appointment is booked for %s from %s to %s.\n\nThank you for choosing us.",
			c.Name(), serviceName(ap), ap.Date, ap.StartTime, ap.EndTime),
	)
}

func AppointmentCompleted(c *models.Customer, ap *models.Appointment) Message {
	return ForCustomer(c,
		"Service Completed",
		fmt.Sprintf("Hi %s,\n\nYour %s appointment on %s has been completed. We hope you enjoy the results.",
			c.Name(), serviceName(ap), ap.Date),
	)
}

func AppointmentRescheduled(c *models.Customer, ap *models.Appointment) Message {
	return ForCustomer(c,
		"Appointment Rescheduled",
		fmt.Sprintf("Hi %s,\n\nYour %s appointment has been moved to %s from %s to %s.",
			c.Name(), serviceName(ap), ap.Date, ap.StartTime, ap.EndTime),
	)
}

func AppointmentReminder(c *models.Customer, ap *models.Appointment) Message {
	return ForCustomer(c,
		"Appointment Reminder",
		fmt.Sprintf("Hi %s, this is a reminder of your %s appointment on %s at %s.",
			c.Name(), serviceName(ap), ap.Date, ap.StartTime),
	)
}

func RescheduleRequested(adminEmail string, c *models.Customer, ap *models.Appointment) Message {
	body := fmt.Sprintf("%s asked to move appointment #%d (%s %s) to %s at %s.",
		c.Name(), ap.ID, ap.Date, ap.StartTime, ap.RequestedDate, ap.RequestedTime)
	if ap.RescheduleReason != "" {
		body += "\nReason: " + ap.RescheduleReason
	}
	return ForAdmin(adminEmail, "Reschedule Request", body)
}

func EstimateRequested(adminEmail string, c *models.Customer, e *models.Estimate) Message {
	return ForAdmin(adminEmail,
		"New Estimate Request",
		fmt.Sprintf("%s requested estimate %s for %s, %s.", c.Name(), e.EstimateNumber, e.PropertyStreet, e.PropertyCity),
	)
}

func EstimateApproved(adminEmail string, c *models.Customer, e *models.Estimate) Message {
	return ForAdmin(adminEmail,
		"Estimate Approved",
		fmt.Sprintf("%s approved the %s package of estimate %s.", c.Name(), e.ApprovedPackage, e.EstimateNumber),
	)
}

func PaymentReceipt(c *models.Customer, p *models.Payment) Message {
	return ForCustomer(c,
		"Payment Receipt",
		fmt.Sprintf("Hi %s,\n\nWe received your %s payment of %s %s (reference #%d). Thank you.",
			c.Name(), p.PaymentType, p.Amount.StringFixed(2), p.Currency, p.ID),
	)
}

func RefundIssued(c *models.Customer, p *models.Payment, amount decimal.Decimal) Message {
	return ForCustomer(c,
		"Refund Processed",
		fmt.Sprintf("Hi %s,\n\nA refund of %s %s has been issued for payment #%d.",
			c.Name(), amount.StringFixed(2), p.Currency, p.ID),
	)
}

func ContactReceived(adminEmail string, ct *models.Contact) Message {
	body := fmt.Sprintf("%s <%s> sent a message through the contact form.\n\nSubject: %s\n\n%s",
		ct.Name, ct.Email, ct.Subject, ct.Message)
	if ct.Phone != "" {
		body += "\n\nPhone: " + ct.Phone
	}
	return ForAdmin(adminEmail, "New Contact Message: "+ct.Subject, body)
}
