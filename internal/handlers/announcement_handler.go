package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/domain/communication"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/httpresp"
	"github.com/gardenpro/landscape-api/internal/middleware"
	"github.com/gardenpro/landscape-api/internal/models"
	"github.com/gardenpro/landscape-api/internal/query"
	"github.com/gardenpro/landscape-api/internal/timezone"
)

type AnnouncementHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewAnnouncementHandler(db *gorm.DB, audit *audit.Dispatcher) *AnnouncementHandler {
	return &AnnouncementHandler{db: db, audit: audit, now: timezone.Now}
}

var announcementQuery = query.Options{
	Columns: map[string]string{
		"id":        "id",
		"title":     "title",
		"status":    "status",
		"type":      "type",
		"priority":  "priority",
		"startDate": "start_date",
		"endDate":   "end_date",
		"createdAt": "created_at",
	},
	Searchable:  []string{"title", "content"},
	DefaultSort: "-createdAt",
}

var announcementPreloads = []string{"CreatedBy", "ModifiedBy"}

// --------- Requests ---------

type AnnouncementRequest struct {
	Title       *string    `json:"title"`
	Content     *string    `json:"content"`
	Status      *string    `json:"status"`
	Type        *string    `json:"type"`
	Priority    *string    `json:"priority"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	TargetRoles *[]string  `json:"targetRoles"`
}

func (r *AnnouncementRequest) apply(a *models.Announcement) error {
	if r.Title != nil {
		a.Title = *r.Title
	}
	if r.Content != nil {
		a.Content = *r.Content
	}
	if a.Title == "" {
		return httperr.ErrValidation("Please add a title")
	}
	if a.Content == "" {
		return httperr.ErrValidation("Please add content")
	}

	for _, f := range []struct {
		src   *string
		dst   *string
		parse func(string) (string, error)
	}{
		{r.Status, &a.Status, communication.ParseAnnouncementStatus},
		{r.Type, &a.Type, communication.ParseAnnouncementType},
		{r.Priority, &a.Priority, communication.ParsePriority},
	} {
		if f.src == nil {
			continue
		}
		v, err := f.parse(*f.src)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	if r.StartDate != nil {
		a.StartDate = *r.StartDate
	}
	if r.EndDate != nil {
		end := *r.EndDate
		a.EndDate = &end
	}
	if r.TargetRoles != nil {
		roles, err := communication.ParseTargetRoles(*r.TargetRoles)
		if err != nil {
			return err
		}
		a.TargetRoles = datatypes.NewJSONType(roles)
	}
	return communication.ValidateWindow(a.StartDate, a.EndDate)
}

// --------- Public ---------

// Active returns the newest announcement currently shown to the caller, or
// null when there is none.
func (h *AnnouncementHandler) Active(c *gin.Context) {
	now := h.now()

	var candidates []models.Announcement
	err := h.db.WithContext(c.Request.Context()).
		Preload("CreatedBy").Preload("ModifiedBy").
		Where("status = ? AND start_date <= ?", communication.AnnouncementActive, now).
		Where("(end_date IS NULL OR end_date >= ?)", now).
		Order("created_at DESC").
		Find(&candidates).Error
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	role := middleware.Actor(c).Role
	for i := range candidates {
		a := &candidates[i]
		if communication.ActiveAt(a, now) && communication.VisibleTo(a, role) {
			httpresp.OK(c, a)
			return
		}
	}
	httpresp.OK(c, nil)
}

// --------- Admin ---------

func (h *AnnouncementHandler) List(c *gin.Context) {
	p, err := query.Parse(c.Request.URL.Query(), announcementQuery)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	items, page, err := query.Find[models.Announcement](c.Request.Context(), h.db, p, announcementPreloads...)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.Page(c, items, page)
}

func (h *AnnouncementHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	a, err := h.load(c, id)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.OK(c, a)
}

func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req AnnouncementRequest
	if !bindJSON(c, &req) {
		return
	}

	actor := middleware.Actor(c)
	a := models.Announcement{
		Status:       communication.AnnouncementActive,
		Type:         "general",
		Priority:     "medium",
		StartDate:    h.now(),
		TargetRoles:  datatypes.NewJSONType(communication.AllRoles),
		CreatedByID:  actor.UserRef(),
		ModifiedByID: actor.UserRef(),
	}
	if err := req.apply(&a); err != nil {
		httperr.Handle(c, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Omit(clause.Associations).Create(&a).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	created, err := h.load(c, a.ID)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	writeAudit(h.audit, actor, "announcement_created", "announcement", a.ID, nil)
	httpresp.Created(c, created)
}

func (h *AnnouncementHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req AnnouncementRequest
	if !bindJSON(c, &req) {
		return
	}

	actor := middleware.Actor(c)
	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var a models.Announcement
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&a, id).Error; err != nil {
			return httperr.NotFoundOr(err, fmt.Sprintf("Announcement not found with id of %d", id))
		}
		if err := req.apply(&a); err != nil {
			return err
		}
		a.ModifiedByID = actor.UserRef()
		return tx.Omit(clause.Associations).Save(&a).Error
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	updated, err := h.load(c, id)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	writeAudit(h.audit, actor, "announcement_updated", "announcement", id, nil)
	httpresp.OK(c, updated)
}

func (h *AnnouncementHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.Announcement{}, id)
	if res.Error != nil {
		httperr.Handle(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httperr.Handle(c, httperr.ErrNotFound(fmt.Sprintf("Announcement not found with id of %d", id)))
		return
	}

	writeAudit(h.audit, middleware.Actor(c), "announcement_deleted", "announcement", id, nil)
	httpresp.Deleted(c)
}

func (h *AnnouncementHandler) load(c *gin.Context, id uint) (*models.Announcement, error) {
	var a models.Announcement
	q := h.db.WithContext(c.Request.Context())
	for _, p := range announcementPreloads {
		q = q.Preload(p)
	}
	if err := q.First(&a, id).Error; err != nil {
		return nil, httperr.NotFoundOr(err, fmt.Sprintf("Announcement not found with id of %d", id))
	}
	return &a, nil
}
