package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Estimate struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	EstimateNumber string `gorm:"size:20;uniqueIndex;not null" json:"estimateNumber"`

	CustomerID uint      `gorm:"index;not null" json:"customerId"`
	Customer   *Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"customer,omitempty"`

	PropertyStreet  string `gorm:"size:150" json:"propertyStreet"`
	PropertyCity    string `gorm:"size:80" json:"propertyCity"`
	PropertyState   string `gorm:"size:40" json:"propertyState"`
	PropertyZipCode string `gorm:"size:10" json:"propertyZipCode"`
	PropertySize    int    `json:"propertySize"`
	PropertyDetails string `gorm:"type:text" json:"propertyDetails"`

	CustomerNotes string          `gorm:"type:text" json:"customerNotes"`
	BudgetMin     decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"budgetMin"`
	BudgetMax     decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"budgetMax"`
	AccessInfo    string          `gorm:"type:text" json:"accessInfo"`

	Status          string     `gorm:"size:20;not null" json:"status"`
	ApprovedPackage string     `gorm:"size:20" json:"approvedPackage"`
	ExpiryDate      *time.Time `json:"expiryDate"`

	DepositRequired  bool            `json:"depositRequired"`
	DepositAmount    decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"depositAmount"`
	DepositPaymentID *uint           `json:"depositPaymentId"`
	DepositPaidOn    *time.Time      `json:"depositPaidOn"`

	AssignedToID *uint `json:"assignedToId"`
	CreatedByID  *uint `json:"createdById"`

	Services []EstimateService `json:"services,omitempty"`
	Packages []EstimatePackage `json:"packages,omitempty"`
	Photos   []EstimatePhoto   `json:"photos,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type EstimateService struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	EstimateID uint     `gorm:"index;not null" json:"estimateId"`
	ServiceID  uint     `gorm:"not null" json:"serviceId"`
	Service    *Service `gorm:"constraint:OnDelete:RESTRICT;" json:"service,omitempty"`
	Quantity   int      `gorm:"not null" json:"quantity"`
}

type EstimatePackage struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	EstimateID uint `gorm:"index;not null" json:"estimateId"`

	Name                string          `gorm:"size:20;not null" json:"name"`
	Description         string          `gorm:"type:text" json:"description"`
	SubTotal            decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"subTotal"`
	Tax                 decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"tax"`
	DiscountAmount      decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"discountAmount"`
	DiscountDescription string          `gorm:"size:255" json:"discountDescription"`
	Total               decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"total"`
	Notes               string          `gorm:"type:text" json:"notes"`

	LineItems []EstimateLineItem `gorm:"foreignKey:PackageID" json:"lineItems"`
}

type EstimateLineItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	PackageID uint `gorm:"index;not null" json:"packageId"`

	Service     string          `gorm:"size:100;not null" json:"service"`
	Description string          `gorm:"type:text" json:"description"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"unitPrice"`
	Quantity    decimal.Decimal `gorm:"type:numeric(10,2);not null;default:1" json:"quantity"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"totalPrice"`
}

type EstimatePhoto struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	EstimateID uint   `gorm:"index;not null" json:"estimateId"`
	Category   string `gorm:"size:20;not null" json:"category"`
	Caption    string `gorm:"size:255" json:"caption"`
	URL        string `gorm:"size:500;not null" json:"url"`
	StorageKey string `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

func (e *Estimate) PackageNamed(name string) *EstimatePackage {
	for i := range e.Packages {
		if e.Packages[i].Name == name {
			return &e.Packages[i]
		}
	}
	return nil
}
