package models

import "time"

// Customer holds the property profile of a customer account.
type Customer struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID uint  `gorm:"uniqueIndex;not null" json:"userId"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`

	Street  string `gorm:"size:150" json:"street"`
	City    string `gorm:"size:80" json:"city"`
	State   string `gorm:"size:40" json:"state"`
	ZipCode string `gorm:"size:10" json:"zipCode"`
	Country string `gorm:"size:40" json:"country"`

	PropertySize       int    `json:"propertySize"`
	HasFrontYard       bool   `json:"hasFrontYard"`
	HasBackYard        bool   `json:"hasBackYard"`
	HasTrees           bool   `json:"hasTrees"`
	HasGarden          bool   `json:"hasGarden"`
	HasSprinklerSystem bool   `json:"hasSprinklerSystem"`
	AccessInstructions string `gorm:"type:text" json:"accessInstructions"`
	PreferredTimeOfDay string `gorm:"size:20" json:"preferredTimeOfDay"`

	NotifyByEmail      bool `json:"notifyByEmail"`
	NotifyBySms        bool `json:"notifyBySms"`
	ReminderDaysBefore int  `json:"reminderDaysBefore"`

	Notes string `gorm:"type:text" json:"notes"`

	PropertyImages []PropertyImage        `gorm:"constraint:OnDelete:CASCADE;" json:"propertyImages,omitempty"`
	PreferredDays  []CustomerPreferredDay `gorm:"constraint:OnDelete:CASCADE;" json:"preferredDays,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewPlaceholderCustomer is the profile created at self-registration, before
// the customer has entered a property address.
func NewPlaceholderCustomer(userID uint) Customer {
	return Customer{
		UserID:             userID,
		Street:             "N/A",
		City:               "N/A",
		State:              "N/A",
		ZipCode:            "00000",
		Country:            "USA",
		PropertySize:       1000,
		NotifyByEmail:      true,
		ReminderDaysBefore: 1,
	}
}

func (c *Customer) Email() string {
	if c == nil || c.User == nil {
		return ""
	}
	return c.User.Email
}

func (c *Customer) Name() string {
	if c == nil || c.User == nil {
		return ""
	}
	return c.User.Name
}

// PropertyImage is a photo of the customer's property.
type PropertyImage struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	CustomerID uint   `gorm:"index;not null" json:"customerId"`
	URL        string `gorm:"size:500;not null" json:"url"`
	StorageKey string `gorm:"size:255" json:"-"`
	Caption    string `gorm:"size:200" json:"caption"`
	IsFeatured bool   `gorm:"not null;default:false" json:"isFeatured"`

	CreatedAt time.Time `json:"uploadedAt"`
}

// CustomerPreferredDay is a weekday the customer prefers for service visits.
type CustomerPreferredDay struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	CustomerID uint   `gorm:"uniqueIndex:idx_customer_preferred_day;not null" json:"customerId"`
	Day        string `gorm:"uniqueIndex:idx_customer_preferred_day;size:10;not null" json:"day"`
}
