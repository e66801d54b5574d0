package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gardenpro/landscape-api/internal/domain/schedule"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/httpresp"
	"github.com/gardenpro/landscape-api/internal/models"
	"github.com/gardenpro/landscape-api/internal/query"
	"github.com/gardenpro/landscape-api/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

var auditQuery = query.Options{
	Columns: map[string]string{
		"id":        "id",
		"userId":    "user_id",
		"action":    "action",
		"entity":    "entity",
		"entityId":  "entity_id",
		"createdAt": "created_at",
	},
	Searchable:  []string{"action", "entity"},
	DefaultSort: "-createdAt",
}

// List accepts the usual list parameters plus from/to business dates.
func (h *AuditLogsHandler) List(c *gin.Context) {
	values := c.Request.URL.Query()
	fromStr, toStr := values.Get("from"), values.Get("to")
	values.Del("from")
	values.Del("to")

	p, err := query.Parse(values, auditQuery)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	q := h.db
	loc := timezone.Business()

	// --------------------------------------------------
	// Optional date range
	// --------------------------------------------------

	if fromStr != "" {
		from, err := schedule.ParseDate(fromStr, loc)
		if err != nil {
			httperr.BadRequest(c, "Invalid from date")
			return
		}
		q = q.Where("created_at >= ?", from)
	}

	if toStr != "" {
		to, err := schedule.ParseDate(toStr, loc)
		if err != nil {
			httperr.BadRequest(c, "Invalid to date")
			return
		}
		q = q.Where("created_at < ?", to.Add(24*time.Hour))
	}

	logs, page, err := query.Find[models.AuditLog](c.Request.Context(), q, p)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.Page(c, logs, page)
}
