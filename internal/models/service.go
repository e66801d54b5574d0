package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CategoryLawnMaintenance   = "Lawn Maintenance"
	CategoryGardening         = "Gardening"
	CategoryTreeService       = "Tree Service"
	CategoryLandscapingDesign = "Landscaping Design"
	CategoryIrrigation        = "Irrigation"
	CategorySeasonal          = "Seasonal"
	CategoryResidential       = "Residential"
	CategoryOther             = "Other"
)

var ServiceCategories = []string{
	CategoryLawnMaintenance,
	CategoryGardening,
	CategoryTreeService,
	CategoryLandscapingDesign,
	CategoryIrrigation,
	CategorySeasonal,
	CategoryResidential,
	CategoryOther,
}

var PriceUnits = []string{"flat", "hourly", "per_sqft"}

type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string          `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Category    string          `gorm:"size:30;not null" json:"category"`
	Duration    int             `gorm:"not null" json:"duration"`
	BasePrice   decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"basePrice"`
	PriceUnit   string          `gorm:"size:10;not null" json:"priceUnit"`
	IsRecurring bool            `json:"isRecurring"`
	ImageURL    string          `gorm:"size:255" json:"imageUrl"`
	IsActive    bool            `json:"isActive"`

	Packages    []ServicePackage   `gorm:"constraint:OnDelete:CASCADE;" json:"packages,omitempty"`
	Frequencies []ServiceFrequency `gorm:"constraint:OnDelete:CASCADE;" json:"frequencies,omitempty"`
	Discounts   []ServiceDiscount  `gorm:"constraint:OnDelete:CASCADE;" json:"discounts,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ServicePackage struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ServiceID uint `gorm:"index;not null" json:"serviceId"`

	Name            string          `gorm:"size:50;not null" json:"name"`
	Description     string          `gorm:"type:text" json:"description"`
	PriceMultiplier decimal.Decimal `gorm:"type:numeric(5,2);not null;default:1" json:"priceMultiplier"`
}

type ServiceFrequency struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ServiceID uint `gorm:"index;not null" json:"serviceId"`

	Frequency   string `gorm:"size:20;not null" json:"frequency"`
	Description string `gorm:"size:255" json:"description"`
}

type ServiceDiscount struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ServiceID uint `gorm:"index;not null" json:"serviceId"`

	Frequency          string          `gorm:"size:20;not null" json:"frequency"`
	DiscountPercentage decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"discountPercentage"`
}
