package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/httpresp"
	"github.com/gardenpro/landscape-api/internal/middleware"
	"github.com/gardenpro/landscape-api/internal/models"
	"github.com/gardenpro/landscape-api/internal/query"
)

type ProfessionalHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewProfessionalHandler(db *gorm.DB, audit *audit.Dispatcher) *ProfessionalHandler {
	return &ProfessionalHandler{db: db, audit: audit}
}

var professionalQuery = query.Options{
	Columns: map[string]string{
		"id":              "id",
		"userId":          "user_id",
		"specialization":  "specialization",
		"rating":          "rating",
		"experienceYears": "experience_years",
		"hourlyRate":      "hourly_rate",
		"active":          "active",
		"createdAt":       "created_at",
	},
	Searchable:  []string{"specialization", "bio"},
	DefaultSort: "-createdAt",
}

type ProfessionalRequest struct {
	UserID          *uint             `json:"userId"`
	Specialization  *string           `json:"specialization"`
	Rating          *decimal.Decimal  `json:"rating"`
	ExperienceYears *int              `json:"experienceYears"`
	Bio             *string           `json:"bio"`
	Availability    datatypes.JSONMap `json:"availability"`
	HourlyRate      *decimal.Decimal  `json:"hourlyRate"`
	Certifications  *string           `json:"certifications"`
	Active          *bool             `json:"active"`
}

func (r *ProfessionalRequest) apply(p *models.Professional) error {
	if r.Specialization != nil {
		p.Specialization = *r.Specialization
	}
	if r.Rating != nil {
		if r.Rating.IsNegative() || r.Rating.GreaterThan(decimal.NewFromInt(5)) {
			return httperr.ErrValidation("Rating must be between 0 and 5")
		}
		p.Rating = *r.Rating
	}
	if r.ExperienceYears != nil {
		if *r.ExperienceYears < 0 {
			return httperr.ErrValidation("Experience cannot be negative")
		}
		p.ExperienceYears = *r.ExperienceYears
	}
	if r.Bio != nil {
		p.Bio = *r.Bio
	}
	if r.Availability != nil {
		p.Availability = r.Availability
	}
	if r.HourlyRate != nil {
		if r.HourlyRate.IsNegative() {
			return httperr.ErrValidation("Hourly rate cannot be negative")
		}
		p.HourlyRate = *r.HourlyRate
	}
	if r.Certifications != nil {
		p.Certifications = *r.Certifications
	}
	if r.Active != nil {
		p.Active = *r.Active
	}
	return nil
}

func (h *ProfessionalHandler) List(c *gin.Context) {
	p, err := query.Parse(c.Request.URL.Query(), professionalQuery)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	pros, page, err := query.Find[models.Professional](c.Request.Context(), h.db, p, "User")
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.Page(c, pros, page)
}

func (h *ProfessionalHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var pro models.Professional
	if err := h.db.WithContext(c.Request.Context()).Preload("User").First(&pro, id).Error; err != nil {
		httperr.Handle(c, httperr.NotFoundOr(err, fmt.Sprintf("Professional not found with id of %d", id)))
		return
	}
	httpresp.OK(c, pro)
}

// Create attaches a professional profile to an existing professional user.
func (h *ProfessionalHandler) Create(c *gin.Context) {
	var req ProfessionalRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.UserID == nil {
		httperr.BadRequest(c, "Please provide userId")
		return
	}

	pro := models.Professional{UserID: *req.UserID, Active: true}
	if err := req.apply(&pro); err != nil {
		httperr.Handle(c, err)
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, pro.UserID).Error; err != nil {
			return httperr.NotFoundOr(err, fmt.Sprintf("User not found with id of %d", pro.UserID))
		}
		if user.Role != models.RoleProfessional {
			return httperr.ErrValidation("User must have the professional role")
		}
		if err := tx.Omit(clause.Associations).Create(&pro).Error; err != nil {
			return err
		}
		pro.User = &user
		return nil
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	writeAudit(h.audit, middleware.Actor(c), "professional_created", "professional", pro.ID, nil)
	httpresp.Created(c, pro)
}

func (h *ProfessionalHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ProfessionalRequest
	if !bindJSON(c, &req) {
		return
	}

	var pro models.Professional
	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&pro, id).Error; err != nil {
			return httperr.NotFoundOr(err, fmt.Sprintf("Professional not found with id of %d", id))
		}
		if req.UserID != nil && *req.UserID != pro.UserID {
			return httperr.ErrValidation("userId cannot be changed")
		}
		if err := req.apply(&pro); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(&pro).Error
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	writeAudit(h.audit, middleware.Actor(c), "professional_updated", "professional", id, nil)
	httpresp.OK(c, pro)
}

// Delete removes the profile; the user account stays.
func (h *ProfessionalHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.Professional{}, id)
	if res.Error != nil {
		httperr.Handle(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, fmt.Sprintf("Professional not found with id of %d", id))
		return
	}

	writeAudit(h.audit, middleware.Actor(c), "professional_deleted", "professional", id, nil)
	httpresp.Deleted(c)
}
