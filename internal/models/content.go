package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Gallery is a published set of project photos shown on the public site.
type Gallery struct {
	ID              uint                         `gorm:"primaryKey" json:"id"`
	Title           string                       `gorm:"size:150;not null" json:"title"`
	Description     string                       `gorm:"type:text;not null" json:"description"`
	Location        string                       `gorm:"size:150;not null" json:"location"`
	Category        string                       `gorm:"size:80;not null;index" json:"category"`
	ProjectDate     string                       `gorm:"type:date;not null" json:"projectDate"`
	ThumbnailIndex  int                          `gorm:"not null;default:0" json:"thumbnailIndex"`
	Tags            datatypes.JSONType[[]string] `json:"tags"`
	ClientName      string                       `gorm:"size:100" json:"clientName"`
	ProjectDuration string                       `gorm:"size:50" json:"projectDuration"`
	Status          string                       `gorm:"size:20;not null;index" json:"status"`

	Images []GalleryImage `gorm:"constraint:OnDelete:CASCADE;" json:"images"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type GalleryImage struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	GalleryID  uint   `gorm:"index;not null" json:"galleryId"`
	URL        string `gorm:"size:500;not null" json:"url"`
	StorageKey string `gorm:"size:255" json:"-"`
	Caption    string `gorm:"size:200" json:"caption"`

	CreatedAt time.Time `json:"createdAt"`
}

// Portfolio is a case study of a finished job, with before/after photos.
type Portfolio struct {
	ID               uint                         `gorm:"primaryKey" json:"id"`
	Title            string                       `gorm:"size:150;not null" json:"title"`
	Description      string                       `gorm:"type:text;not null" json:"description"`
	Location         string                       `gorm:"size:150;not null" json:"location"`
	ServiceType      string                       `gorm:"size:80;not null;index" json:"serviceType"`
	ProjectDate      string                       `gorm:"type:date;not null" json:"projectDate"`
	ThumbnailIndex   int                          `gorm:"not null;default:0" json:"thumbnailIndex"`
	Tags             datatypes.JSONType[[]string] `json:"tags"`
	ClientName       string                       `gorm:"size:100" json:"clientName"`
	ClientEmail      string                       `gorm:"size:100" json:"clientEmail"`
	ClientPhone      string                       `gorm:"size:20" json:"clientPhone"`
	ProjectDuration  string                       `gorm:"size:50" json:"projectDuration"`
	ProjectBudget    string                       `gorm:"size:50" json:"projectBudget"`
	ProjectCost      decimal.Decimal              `gorm:"type:decimal(10,2);not null;default:0" json:"projectCost"`
	ProjectSize      string                       `gorm:"size:50" json:"projectSize"`
	Challenges       string                       `gorm:"type:text" json:"challenges"`
	Solutions        string                       `gorm:"type:text" json:"solutions"`
	CustomerFeedback string                       `gorm:"type:text" json:"customerFeedback"`
	Status           string                       `gorm:"size:20;not null;index" json:"status"`

	Images []PortfolioImage `gorm:"constraint:OnDelete:CASCADE;" json:"images"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PortfolioImage struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	PortfolioID uint   `gorm:"index;not null" json:"portfolioId"`
	Type        string `gorm:"size:20;not null" json:"type"`
	URL         string `gorm:"size:500;not null" json:"url"`
	StorageKey  string `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

// HeroImage is the banner of the public home page. At most one row exists.
type HeroImage struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	URL        string `gorm:"size:500;not null" json:"url"`
	StorageKey string `gorm:"size:255" json:"-"`
	Caption    string `gorm:"size:200" json:"caption"`
	Status     string `gorm:"size:20;not null" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
