package handlers

import (
	"context"
	"fmt"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/httpresp"
	"github.com/gardenpro/landscape-api/internal/middleware"
	"github.com/gardenpro/landscape-api/internal/models"
	"github.com/gardenpro/landscape-api/internal/query"
)

type ServiceHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewServiceHandler(db *gorm.DB, audit *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{db: db, audit: audit}
}

var serviceQuery = query.Options{
	Columns: map[string]string{
		"id":          "id",
		"name":        "name",
		"description": "description",
		"category":    "category",
		"duration":    "duration",
		"basePrice":   "base_price",
		"priceUnit":   "price_unit",
		"isRecurring": "is_recurring",
		"isActive":    "is_active",
		"createdAt":   "created_at",
	},
	Searchable:  []string{"name", "description"},
	DefaultSort: "-createdAt",
}

var servicePreloads = []string{"Packages", "Frequencies", "Discounts"}

// --------- Requests ---------

type ServiceRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Duration    *int             `json:"duration"`
	BasePrice   *decimal.Decimal `json:"basePrice"`
	PriceUnit   *string          `json:"priceUnit"`
	IsRecurring *bool            `json:"isRecurring"`
	ImageURL    *string          `json:"imageUrl"`
	IsActive    *bool            `json:"isActive"`

	Packages    *[]models.ServicePackage   `json:"packages"`
	Frequencies *[]models.ServiceFrequency `json:"frequencies"`
	Discounts   *[]models.ServiceDiscount  `json:"discounts"`
}

func (r *ServiceRequest) apply(s *models.Service) error {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.Description != nil {
		s.Description = *r.Description
	}
	if r.Category != nil {
		if !slices.Contains(models.ServiceCategories, *r.Category) {
			return httperr.ErrValidation(fmt.Sprintf("Invalid category %s", *r.Category))
		}
		s.Category = *r.Category
	}
	if r.Duration != nil {
		if *r.Duration < 1 {
			return httperr.ErrValidation("Duration must be at least 1 minute")
		}
		s.Duration = *r.Duration
	}
	if r.BasePrice != nil {
		if r.BasePrice.IsNegative() {
			return httperr.ErrValidation("Base price cannot be negative")
		}
		s.BasePrice = *r.BasePrice
	}
	if r.PriceUnit != nil {
		if !slices.Contains(models.PriceUnits, *r.PriceUnit) {
			return httperr.ErrValidation(fmt.Sprintf("Invalid price unit %s", *r.PriceUnit))
		}
		s.PriceUnit = *r.PriceUnit
	}
	if r.IsRecurring != nil {
		s.IsRecurring = *r.IsRecurring
	}
	if r.ImageURL != nil {
		s.ImageURL = *r.ImageURL
	}
	if r.IsActive != nil {
		s.IsActive = *r.IsActive
	}
	return nil
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	p, err := query.Parse(c.Request.URL.Query(), serviceQuery)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	services, page, err := query.Find[models.Service](c.Request.Context(), h.db, p, servicePreloads...)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.Page(c, services, page)
}

func (h *ServiceHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	svc, err := h.load(c.Request.Context(), h.db, id)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.OK(c, svc)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req ServiceRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Name == nil || *req.Name == "" || req.Category == nil || req.Duration == nil || req.BasePrice == nil {
		httperr.BadRequest(c, "Please provide name, category, duration and basePrice")
		return
	}

	svc := models.Service{PriceUnit: "flat", IsActive: true}
	if err := req.apply(&svc); err != nil {
		httperr.Handle(c, err)
		return
	}

	ctx := c.Request.Context()
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&svc).Error; err != nil {
			return err
		}
		return replaceServiceChildren(tx, svc.ID, &req)
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	created, err := h.load(ctx, h.db, svc.ID)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	writeAudit(h.audit, middleware.Actor(c), "service_created", "service", svc.ID, nil)
	httpresp.Created(c, created)
}

// Update merges scalar fields; each child list present in the body replaces
// the stored one.
func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var svc models.Service
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&svc, id).Error; err != nil {
			return httperr.NotFoundOr(err, fmt.Sprintf("Service not found with id of %d", id))
		}
		if err := req.apply(&svc); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(&svc).Error; err != nil {
			return err
		}
		return replaceServiceChildren(tx, svc.ID, &req)
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	updated, err := h.load(ctx, h.db, id)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	writeAudit(h.audit, middleware.Actor(c), "service_updated", "service", id, nil)
	httpresp.OK(c, updated)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var svc models.Service
		if err := tx.First(&svc, id).Error; err != nil {
			return httperr.NotFoundOr(err, fmt.Sprintf("Service not found with id of %d", id))
		}

		var booked int64
		if err := tx.Model(&models.Appointment{}).Where("service_id = ?", id).Count(&booked).Error; err != nil {
			return err
		}
		if booked > 0 {
			return httperr.ErrValidation("Service has appointments and cannot be deleted")
		}

		for _, child := range []any{&models.ServicePackage{}, &models.ServiceFrequency{}, &models.ServiceDiscount{}} {
			if err := tx.Where("service_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&svc).Error
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	writeAudit(h.audit, middleware.Actor(c), "service_deleted", "service", id, nil)
	httpresp.Deleted(c)
}

func (h *ServiceHandler) load(ctx context.Context, db *gorm.DB, id uint) (*models.Service, error) {
	var svc models.Service
	q := db.WithContext(ctx)
	for _, p := range servicePreloads {
		q = q.Preload(p)
	}
	if err := q.First(&svc, id).Error; err != nil {
		return nil, httperr.NotFoundOr(err, fmt.Sprintf("Service not found with id of %d", id))
	}
	return &svc, nil
}

func replaceServiceChildren(tx *gorm.DB, serviceID uint, req *ServiceRequest) error {
	if req.Packages != nil {
		if err := tx.Where("service_id = ?", serviceID).Delete(&models.ServicePackage{}).Error; err != nil {
			return err
		}
		rows := *req.Packages
		for i := range rows {
			rows[i].ID = 0
			rows[i].ServiceID = serviceID
			if rows[i].Name == "" {
				return httperr.ErrValidation("Every package needs a name")
			}
			if rows[i].PriceMultiplier.IsZero() {
				rows[i].PriceMultiplier = decimal.NewFromInt(1)
			}
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
	}

	if req.Frequencies != nil {
		if err := tx.Where("service_id = ?", serviceID).Delete(&models.ServiceFrequency{}).Error; err != nil {
			return err
		}
		rows := *req.Frequencies
		for i := range rows {
			rows[i].ID = 0
			rows[i].ServiceID = serviceID
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
	}

	if req.Discounts != nil {
		if err := tx.Where("service_id = ?", serviceID).Delete(&models.ServiceDiscount{}).Error; err != nil {
			return err
		}
		rows := *req.Discounts
		for i := range rows {
			rows[i].ID = 0
			rows[i].ServiceID = serviceID
			if rows[i].DiscountPercentage.IsNegative() || rows[i].DiscountPercentage.GreaterThan(decimal.NewFromInt(100)) {
				return httperr.ErrValidation("Discount percentage must be between 0 and 100")
			}
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
