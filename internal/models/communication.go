package models

import (
	"time"

	"gorm.io/datatypes"
)

// Announcement is a banner message shown to the roles in TargetRoles while
// it is active and inside its date window.
type Announcement struct {
	ID          uint                         `gorm:"primaryKey" json:"id"`
	Title       string                       `gorm:"size:150;not null" json:"title"`
	Content     string                       `gorm:"type:text;not null" json:"content"`
	Status      string                       `gorm:"size:20;not null;index" json:"status"`
	Type        string                       `gorm:"size:20;not null" json:"type"`
	Priority    string                       `gorm:"size:20;not null" json:"priority"`
	StartDate   time.Time                    `gorm:"not null" json:"startDate"`
	EndDate     *time.Time                   `json:"endDate"`
	TargetRoles datatypes.JSONType[[]string] `json:"targetRoles"`

	CreatedByID  *uint `gorm:"index" json:"createdById"`
	CreatedBy    *User `gorm:"constraint:OnDelete:SET NULL;" json:"creator,omitempty"`
	ModifiedByID *uint `json:"modifiedById"`
	ModifiedBy   *User `gorm:"constraint:OnDelete:SET NULL;" json:"modifier,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Message is a direct message between two users.
type Message struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	SenderID   uint              `gorm:"index;not null" json:"senderId"`
	Sender     *User             `gorm:"constraint:OnDelete:CASCADE;" json:"sender,omitempty"`
	ReceiverID uint              `gorm:"index;not null" json:"receiverId"`
	Receiver   *User             `gorm:"constraint:OnDelete:CASCADE;" json:"receiver,omitempty"`
	Content    string            `gorm:"type:text;not null" json:"content"`
	Type       string            `gorm:"size:10;not null" json:"type"`
	Status     string            `gorm:"size:10;not null" json:"status"`
	IsRead     bool              `gorm:"not null;default:false" json:"isRead"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Contact is a submission of the public contact form.
type Contact struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"size:100;not null" json:"email"`
	Phone    string `gorm:"size:20" json:"phone"`
	Subject  string `gorm:"size:200;not null" json:"subject"`
	Message  string `gorm:"type:text;not null" json:"message"`
	Status   string `gorm:"size:20;not null;index" json:"status"`
	Response string `gorm:"type:text" json:"response"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
