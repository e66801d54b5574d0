package handlers

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/domain/communication"
	"github.com/gardenpro/landscape-api/internal/domain/notification"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/httpresp"
	"github.com/gardenpro/landscape-api/internal/middleware"
	"github.com/gardenpro/landscape-api/internal/models"
	"github.com/gardenpro/landscape-api/internal/query"
	"github.com/gardenpro/landscape-api/internal/validators"
)

type ContactHandler struct {
	db         *gorm.DB
	notifier   notification.Notifier
	audit      *audit.Dispatcher
	adminEmail string
}

func NewContactHandler(db *gorm.DB, notifier notification.Notifier, audit *audit.Dispatcher, adminEmail string) *ContactHandler {
	return &ContactHandler{db: db, notifier: notifier, audit: audit, adminEmail: adminEmail}
}

var contactQuery = query.Options{
	Columns: map[string]string{
		"id":        "id",
		"name":      "name",
		"email":     "email",
		"subject":   "subject",
		"status":    "status",
		"createdAt": "created_at",
	},
	Searchable:  []string{"name", "email", "subject", "message"},
	DefaultSort: "-createdAt",
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// validate trims the fields and checks the required ones.
func (r *contactRequest) validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = validators.NormalizeEmail(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)

	if r.Name == "" || r.Subject == "" || r.Message == "" {
		return httperr.ErrValidation("Please provide name, email, subject and message")
	}
	if !validators.IsEmail(r.Email) {
		return httperr.ErrValidation("Please provide a valid email")
	}
	return nil
}

type contactUpdateRequest struct {
	Status   *string `json:"status"`
	Response *string `json:"response"`
}

// Submit stores a contact form message and tells the office about it.
func (h *ContactHandler) Submit(c *gin.Context) {
	var req contactRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.validate(); err != nil {
		httperr.Handle(c, err)
		return
	}

	ct := models.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
		Status:  communication.ContactNew,
	}
	ctx := c.Request.Context()
	if err := h.db.WithContext(ctx).Create(&ct).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	notification.BestEffort(ctx, h.notifier, "contact", notification.ContactReceived(h.adminEmail, &ct))
	httpresp.Created(c, ct)
}

func (h *ContactHandler) List(c *gin.Context) {
	p, err := query.Parse(c.Request.URL.Query(), contactQuery)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	items, page, err := query.Find[models.Contact](c.Request.Context(), h.db, p)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.Page(c, items, page)
}

func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var ct models.Contact
	if err := h.db.WithContext(c.Request.Context()).First(&ct, id).Error; err != nil {
		httperr.Handle(c, httperr.NotFoundOr(err, fmt.Sprintf("No contact found with id of %d", id)))
		return
	}
	httpresp.OK(c, ct)
}

// Update changes the status or records the office's response. Recording a
// response on an open contact marks it replied.
func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req contactUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	var ct models.Contact
	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ct, id).Error; err != nil {
			return httperr.NotFoundOr(err, fmt.Sprintf("No contact found with id of %d", id))
		}

		requested := ""
		if req.Status != nil {
			st, err := communication.ParseContactStatus(*req.Status)
			if err != nil {
				return err
			}
			requested = st
		}
		response := ""
		if req.Response != nil {
			response = strings.TrimSpace(*req.Response)
			ct.Response = response
		}
		ct.Status = communication.StatusAfterResponse(ct.Status, requested, response)
		return tx.Save(&ct).Error
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	writeAudit(h.audit, middleware.Actor(c), "contact_updated", "contact", id, map[string]any{"status": ct.Status})
	httpresp.OK(c, ct)
}

func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.Contact{}, id)
	if res.Error != nil {
		httperr.Handle(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httperr.Handle(c, httperr.ErrNotFound(fmt.Sprintf("No contact found with id of %d", id)))
		return
	}

	writeAudit(h.audit, middleware.Actor(c), "contact_deleted", "contact", id, nil)
	httpresp.Deleted(c)
}
