package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Professional struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID uint  `gorm:"uniqueIndex;not null" json:"userId"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`

	Specialization  string          `gorm:"size:50" json:"specialization"`
	Rating          decimal.Decimal `gorm:"type:numeric(3,2);not null;default:0" json:"rating"`
	ExperienceYears int             `json:"experienceYears"`
	Bio             string          `gorm:"type:text" json:"bio"`
	// weekday -> free-form availability, e.g. {"monday": ["08:00-12:00"]}
	Availability   datatypes.JSONMap `json:"availability"`
	HourlyRate     decimal.Decimal   `gorm:"type:numeric(10,2);not null;default:0" json:"hourlyRate"`
	Certifications string            `gorm:"type:text" json:"certifications"`
	Active         bool              `json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
