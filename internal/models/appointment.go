package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerID uint      `gorm:"index;not null" json:"customerId"`
	Customer   *Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"customer,omitempty"`

	ServiceID uint     `gorm:"index;not null" json:"serviceId"`
	Service   *Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service,omitempty"`

	// Wall-clock values in the business timezone.
	Date      string `gorm:"size:10;index;not null" json:"date"`
	StartTime string `gorm:"size:5;not null" json:"startTime"`
	EndTime   string `gorm:"size:5;not null" json:"endTime"`

	Status string `gorm:"size:20;not null" json:"status"`

	LeadProfessionalID *uint              `gorm:"index" json:"leadProfessionalId"`
	LeadProfessional   *User              `gorm:"foreignKey:LeadProfessionalID;constraint:OnDelete:SET NULL;" json:"leadProfessional,omitempty"`
	Crew               []AppointmentCrew  `gorm:"constraint:OnDelete:CASCADE;" json:"crew,omitempty"`
	Photos             []AppointmentPhoto `gorm:"constraint:OnDelete:CASCADE;" json:"photos,omitempty"`

	Notes         string          `gorm:"type:text" json:"notes"`
	Price         decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"price"`
	PaymentStatus string          `gorm:"size:20;not null" json:"paymentStatus"`

	CompletedAt      *time.Time `json:"completedAt"`
	ConfirmationSent bool       `json:"confirmationSent"`
	CompletionSent   bool       `json:"completionSent"`
	ReminderSent     bool       `json:"reminderSent"`

	RequestedDate    string `gorm:"size:10" json:"requestedDate,omitempty"`
	RequestedTime    string `gorm:"size:5" json:"requestedTime,omitempty"`
	RescheduleReason string `gorm:"type:text" json:"rescheduleReason,omitempty"`

	CreatedByID *uint `json:"createdById"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentCrew is one professional scheduled on an appointment.
type AppointmentCrew struct {
	ID            uint  `gorm:"primaryKey" json:"id"`
	AppointmentID uint  `gorm:"uniqueIndex:idx_appointment_crew_member;not null" json:"appointmentId"`
	UserID        uint  `gorm:"uniqueIndex:idx_appointment_crew_member;index;not null" json:"userId"`
	User          *User `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

type AppointmentPhoto struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	AppointmentID uint   `gorm:"index;not null" json:"appointmentId"`
	Type          string `gorm:"size:20;not null" json:"type"`
	URL           string `gorm:"size:500;not null" json:"url"`
	StorageKey    string `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

func (a *Appointment) HasCrewMember(userID uint) bool {
	for _, m := range a.Crew {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
