package handlers

import (
	"context"
	"fmt"
	"slices"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/domain/customer"
	"github.com/gardenpro/landscape-api/internal/domain/media"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/httpresp"
	"github.com/gardenpro/landscape-api/internal/middleware"
	"github.com/gardenpro/landscape-api/internal/models"
	"github.com/gardenpro/landscape-api/internal/query"
	"github.com/gardenpro/landscape-api/internal/validators"
)

var timesOfDay = []string{"Morning", "Afternoon", "Evening", "Any"}

type CustomerHandler struct {
	db    *gorm.DB
	store media.Store
	audit *audit.Dispatcher
}

func NewCustomerHandler(db *gorm.DB, store media.Store, audit *audit.Dispatcher) *CustomerHandler {
	return &CustomerHandler{db: db, store: store, audit: audit}
}

var customerQuery = query.Options{
	Columns: map[string]string{
		"id":           "id",
		"userId":       "user_id",
		"city":         "city",
		"state":        "state",
		"zipCode":      "zip_code",
		"propertySize": "property_size",
		"createdAt":    "created_at",
	},
	Searchable:  []string{"street", "city", "zip_code"},
	DefaultSort: "-createdAt",
}

// --------- Requests ---------

// CustomerProfileRequest carries the editable property profile.
type CustomerProfileRequest struct {
	Street             *string `json:"street"`
	City               *string `json:"city"`
	State              *string `json:"state"`
	ZipCode            *string `json:"zipCode"`
	Country            *string `json:"country"`
	PropertySize       *int    `json:"propertySize"`
	HasFrontYard       *bool   `json:"hasFrontYard"`
	HasBackYard        *bool   `json:"hasBackYard"`
	HasTrees           *bool   `json:"hasTrees"`
	HasGarden          *bool   `json:"hasGarden"`
	HasSprinklerSystem *bool   `json:"hasSprinklerSystem"`
	AccessInstructions *string `json:"accessInstructions"`
	PreferredTimeOfDay *string `json:"preferredTimeOfDay"`
	NotifyByEmail      *bool   `json:"notifyByEmail"`
	NotifyBySms        *bool   `json:"notifyBySms"`
	ReminderDaysBefore *int    `json:"reminderDaysBefore"`

	// PreferredDays replaces the stored weekdays when present.
	PreferredDays *[]string `json:"preferredDays"`

	// Account fields.
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// CreateCustomerRequest creates the account and its profile in one go.
type CreateCustomerRequest struct {
	CustomerProfileRequest
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *CustomerProfileRequest) apply(cu *models.Customer) error {
	if r.Street != nil {
		cu.Street = *r.Street
	}
	if r.City != nil {
		cu.City = *r.City
	}
	if r.State != nil {
		cu.State = *r.State
	}
	if r.ZipCode != nil {
		cu.ZipCode = *r.ZipCode
	}
	if r.Country != nil {
		cu.Country = *r.Country
	}
	if r.PropertySize != nil {
		if *r.PropertySize < 0 {
			return httperr.ErrValidation("Property size cannot be negative")
		}
		cu.PropertySize = *r.PropertySize
	}
	if r.HasFrontYard != nil {
		cu.HasFrontYard = *r.HasFrontYard
	}
	if r.HasBackYard != nil {
		cu.HasBackYard = *r.HasBackYard
	}
	if r.HasTrees != nil {
		cu.HasTrees = *r.HasTrees
	}
	if r.HasGarden != nil {
		cu.HasGarden = *r.HasGarden
	}
	if r.HasSprinklerSystem != nil {
		cu.HasSprinklerSystem = *r.HasSprinklerSystem
	}
	if r.AccessInstructions != nil {
		cu.AccessInstructions = *r.AccessInstructions
	}
	if r.PreferredTimeOfDay != nil {
		if *r.PreferredTimeOfDay != "" && !slices.Contains(timesOfDay, *r.PreferredTimeOfDay) {
			return httperr.ErrValidation(fmt.Sprintf("Invalid preferredTimeOfDay %s", *r.PreferredTimeOfDay))
		}
		cu.PreferredTimeOfDay = *r.PreferredTimeOfDay
	}
	if r.NotifyByEmail != nil {
		cu.NotifyByEmail = *r.NotifyByEmail
	}
	if r.NotifyBySms != nil {
		cu.NotifyBySms = *r.NotifyBySms
	}
	if r.ReminderDaysBefore != nil {
		if *r.ReminderDaysBefore < 0 || *r.ReminderDaysBefore > 14 {
			return httperr.ErrValidation("reminderDaysBefore must be between 0 and 14")
		}
		cu.ReminderDaysBefore = *r.ReminderDaysBefore
	}
	return nil
}

// replacePreferredDays swaps the customer's weekdays for the requested ones.
func (r *CustomerProfileRequest) replacePreferredDays(tx *gorm.DB, customerID uint) error {
	if r.PreferredDays == nil {
		return nil
	}
	days, err := customer.PreferredDays(customerID, *r.PreferredDays)
	if err != nil {
		return err
	}
	if err := tx.Where("customer_id = ?", customerID).Delete(&models.CustomerPreferredDay{}).Error; err != nil {
		return err
	}
	if len(days) == 0 {
		return nil
	}
	return tx.Create(&days).Error
}

func (r *CustomerProfileRequest) applyUser(u *models.User) bool {
	changed := false
	if r.Name != nil && *r.Name != "" {
		u.Name = *r.Name
		changed = true
	}
	if r.Phone != nil {
		u.Phone = *r.Phone
		changed = true
	}
	return changed
}

// --------- Admin ---------

func (h *CustomerHandler) List(c *gin.Context) {
	p, err := query.Parse(c.Request.URL.Query(), customerQuery)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	customers, page, err := query.Find[models.Customer](c.Request.Context(), h.db, p, "User")
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.Page(c, customers, page)
}

func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	cu, err := h.load(c.Request.Context(), "id = ?", id)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.OK(c, cu)
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if req.Name == nil || *req.Name == "" || !validators.IsEmail(email) {
		httperr.BadRequest(c, "Please provide a name and a valid email")
		return
	}
	if len(req.Password) < minPasswordLength {
		httperr.BadRequest(c, "Password must be at least 6 characters")
		return
	}

	user := models.User{Email: email, Role: models.RoleCustomer, Active: true}
	req.applyUser(&user)
	if err := user.SetPassword(req.Password); err != nil {
		httperr.Handle(c, err)
		return
	}

	var profile models.Customer
	ctx := c.Request.Context()
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile = models.NewPlaceholderCustomer(user.ID)
		if err := req.apply(&profile); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&profile).Error; err != nil {
			return err
		}
		return req.replacePreferredDays(tx, profile.ID)
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	created, err := h.load(ctx, "id = ?", profile.ID)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	writeAudit(h.audit, middleware.Actor(c), "customer_created", "customer", profile.ID, nil)
	httpresp.Created(c, created)
}

func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.update(c, "id = ?", id)
}

// Delete removes the profile and its account.
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var images []models.PropertyImage
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cu models.Customer
		if err := tx.First(&cu, id).Error; err != nil {
			return httperr.NotFoundOr(err, fmt.Sprintf("Customer not found with id of %d", id))
		}

		var paid int64
		if err := tx.Model(&models.Payment{}).Where("customer_id = ?", id).Count(&paid).Error; err != nil {
			return err
		}
		if paid > 0 {
			return httperr.ErrValidation("Customer has payments and cannot be deleted")
		}

		if err := tx.Where("customer_id = ?", id).Find(&images).Error; err != nil {
			return err
		}
		for _, child := range []any{&models.PropertyImage{}, &models.CustomerPreferredDay{}} {
			if err := tx.Where("customer_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&cu).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, cu.UserID).Error
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	stored := make([]media.Stored, len(images))
	for i, img := range images {
		stored[i] = media.Stored{Key: img.StorageKey, URL: img.URL}
	}
	media.Cleanup(ctx, h.store, stored)

	writeAudit(h.audit, middleware.Actor(c), "customer_deleted", "customer", id, nil)
	httpresp.Deleted(c)
}

// --------- Self service ---------

func (h *CustomerHandler) GetMe(c *gin.Context) {
	cu, err := h.load(c.Request.Context(), "user_id = ?", middleware.Actor(c).UserID)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.OK(c, cu)
}

func (h *CustomerHandler) UpdateMe(c *gin.Context) {
	h.update(c, "user_id = ?", middleware.Actor(c).UserID)
}

// --------- Shared ---------

func (h *CustomerHandler) load(ctx context.Context, cond string, arg uint) (*models.Customer, error) {
	var cu models.Customer
	if err := h.db.WithContext(ctx).Preload("User").
		Preload("PropertyImages", func(db *gorm.DB) *gorm.DB { return db.Order("is_featured DESC, created_at DESC") }).
		Preload("PreferredDays").
		Where(cond, arg).First(&cu).Error; err != nil {
		return nil, httperr.NotFoundOr(err, "Customer not found")
	}
	return &cu, nil
}

func (h *CustomerHandler) update(c *gin.Context, cond string, arg uint) {
	var req CustomerProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	var id uint
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cu models.Customer
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where(cond, arg).First(&cu).Error; err != nil {
			return httperr.NotFoundOr(err, "Customer not found")
		}
		if err := req.apply(&cu); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(&cu).Error; err != nil {
			return err
		}
		if err := req.replacePreferredDays(tx, cu.ID); err != nil {
			return err
		}

		var user models.User
		if err := tx.First(&user, cu.UserID).Error; err != nil {
			return err
		}
		if req.applyUser(&user) {
			if err := tx.Save(&user).Error; err != nil {
				return err
			}
		}
		id = cu.ID
		return nil
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	cu, err := h.load(ctx, "id = ?", id)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	writeAudit(h.audit, middleware.Actor(c), "customer_updated", "customer", id, nil)
	httpresp.OK(c, cu)
}
