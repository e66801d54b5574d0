package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/domain/schedule"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/httpresp"
	"github.com/gardenpro/landscape-api/internal/middleware"
	"github.com/gardenpro/landscape-api/internal/models"
)

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

type SettingsHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewSettingsHandler(db *gorm.DB, audit *audit.Dispatcher) *SettingsHandler {
	return &SettingsHandler{db: db, audit: audit}
}

type SettingsRequest struct {
	CompanyName          *string                    `json:"companyName"`
	Email                *string                    `json:"email"`
	Phone                *string                    `json:"phone"`
	Address              *string                    `json:"address"`
	BusinessHours        map[string]models.DayHours `json:"businessHours"`
	NotificationSettings map[string]any             `json:"notificationSettings"`
	Terms                *string                    `json:"terms"`
	Currency             *string                    `json:"currency"`
	TaxRate              *decimal.Decimal           `json:"taxRate"`
}

func (r *SettingsRequest) apply(s *models.BusinessSetting) error {
	if r.CompanyName != nil {
		if strings.TrimSpace(*r.CompanyName) == "" {
			return httperr.ErrValidation("Company name cannot be empty")
		}
		s.CompanyName = *r.CompanyName
	}
	if r.Email != nil {
		s.Email = *r.Email
	}
	if r.Phone != nil {
		s.Phone = *r.Phone
	}
	if r.Address != nil {
		s.Address = *r.Address
	}
	if r.BusinessHours != nil {
		hours := s.BusinessHours.Data()
		merged := make(map[string]models.DayHours, len(weekdays))
		for k, v := range hours {
			merged[k] = v
		}
		for day, h := range r.BusinessHours {
			if err := validateDayHours(day, h); err != nil {
				return err
			}
			merged[strings.ToLower(day)] = h
		}
		s.BusinessHours = datatypes.NewJSONType(merged)
	}
	if r.NotificationSettings != nil {
		if s.NotificationSettings == nil {
			s.NotificationSettings = datatypes.JSONMap{}
		}
		for k, v := range r.NotificationSettings {
			s.NotificationSettings[k] = v
		}
	}
	if r.Terms != nil {
		s.Terms = *r.Terms
	}
	if r.Currency != nil {
		cur := strings.ToUpper(strings.TrimSpace(*r.Currency))
		if len(cur) != 3 {
			return httperr.ErrValidation("Currency must be a 3-letter code")
		}
		s.Currency = cur
	}
	if r.TaxRate != nil {
		if r.TaxRate.IsNegative() || r.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
			return httperr.ErrValidation("Tax rate must be between 0 and 100")
		}
		s.TaxRate = *r.TaxRate
	}
	return nil
}

func validateDayHours(day string, h models.DayHours) error {
	known := false
	for _, d := range weekdays {
		if strings.EqualFold(d, day) {
			known = true
		}
	}
	if !known {
		return httperr.ErrValidation(fmt.Sprintf("Unknown weekday %s", day))
	}
	if h.Closed {
		return nil
	}
	if _, err := schedule.ParseWindow(h.Open, h.Close); err != nil {
		return httperr.ErrValidation(fmt.Sprintf("Invalid hours for %s: %v", day, err))
	}
	return nil
}

// Get returns the stored settings, or the defaults before the first save.
func (h *SettingsHandler) Get(c *gin.Context) {
	s, err := h.current(h.db.WithContext(c.Request.Context()))
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.OK(c, s)
}

func (h *SettingsHandler) Update(c *gin.Context) {
	var req SettingsRequest
	if !bindJSON(c, &req) {
		return
	}

	var saved models.BusinessSetting
	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		s, err := h.current(tx.Clauses(clause.Locking{Strength: "UPDATE"}))
		if err != nil {
			return err
		}
		if err := req.apply(s); err != nil {
			return err
		}
		s.ID = models.BusinessSettingID

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(s).Error; err != nil {
			return err
		}
		saved = *s
		return nil
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	writeAudit(h.audit, middleware.Actor(c), "settings_updated", "settings", models.BusinessSettingID, nil)
	httpresp.OK(c, saved)
}

func (h *SettingsHandler) current(db *gorm.DB) (*models.BusinessSetting, error) {
	var s models.BusinessSetting
	err := db.First(&s, models.BusinessSettingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		def := models.DefaultBusinessSetting()
		return &def, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
