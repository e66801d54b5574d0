package handlers

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/domain/content"
	"github.com/gardenpro/landscape-api/internal/domain/media"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/httpresp"
	"github.com/gardenpro/landscape-api/internal/middleware"
	"github.com/gardenpro/landscape-api/internal/models"
	"github.com/gardenpro/landscape-api/internal/query"
)

type PortfolioHandler struct {
	db        *gorm.DB
	store     media.Store
	norm      media.Normalizer
	audit     *audit.Dispatcher
	maxUpload int64
}

func NewPortfolioHandler(db *gorm.DB, store media.Store, norm media.Normalizer, audit *audit.Dispatcher, maxUpload int64) *PortfolioHandler {
	return &PortfolioHandler{db: db, store: store, norm: norm, audit: audit, maxUpload: maxUpload}
}

var portfolioQuery = query.Options{
	Columns: map[string]string{
		"id":          "id",
		"title":       "title",
		"location":    "location",
		"serviceType": "service_type",
		"projectDate": "project_date",
		"projectCost": "project_cost",
		"status":      "status",
		"createdAt":   "created_at",
	},
	Searchable:  []string{"title", "description", "location"},
	DefaultSort: "-createdAt",
}

// --------- Requests ---------

// PortfolioRequest is sent as JSON or as multipart form fields. In a
// multipart request imageTypes[i] is the before/after type of images[i].
type PortfolioRequest struct {
	Title            *string          `json:"title" form:"title"`
	Description      *string          `json:"description" form:"description"`
	Location         *string          `json:"location" form:"location"`
	ServiceType      *string          `json:"serviceType" form:"serviceType"`
	ProjectDate      *string          `json:"projectDate" form:"projectDate"`
	ThumbnailIndex   *int             `json:"thumbnailIndex" form:"thumbnailIndex"`
	Tags             *string          `json:"tags" form:"tags"`
	ClientName       *string          `json:"clientName" form:"clientName"`
	ClientEmail      *string          `json:"clientEmail" form:"clientEmail"`
	ClientPhone      *string          `json:"clientPhone" form:"clientPhone"`
	ProjectDuration  *string          `json:"projectDuration" form:"projectDuration"`
	ProjectBudget    *string          `json:"projectBudget" form:"projectBudget"`
	ProjectCost      *decimal.Decimal `json:"projectCost" form:"projectCost"`
	ProjectSize      *string          `json:"projectSize" form:"projectSize"`
	Challenges       *string          `json:"challenges" form:"challenges"`
	Solutions        *string          `json:"solutions" form:"solutions"`
	CustomerFeedback *string          `json:"customerFeedback" form:"customerFeedback"`
	Status           *string          `json:"status" form:"status"`

	ImageTypes []string `json:"-" form:"imageTypes"`
}

func (r *PortfolioRequest) apply(p *models.Portfolio) error {
	for _, f := range []struct {
		src *string
		dst *string
	}{
		{r.Title, &p.Title},
		{r.Description, &p.Description},
		{r.Location, &p.Location},
		{r.ServiceType, &p.ServiceType},
		{r.ClientName, &p.ClientName},
		{r.ClientEmail, &p.ClientEmail},
		{r.ClientPhone, &p.ClientPhone},
		{r.ProjectDuration, &p.ProjectDuration},
		{r.ProjectBudget, &p.ProjectBudget},
		{r.ProjectSize, &p.ProjectSize},
		{r.Challenges, &p.Challenges},
		{r.Solutions, &p.Solutions},
		{r.CustomerFeedback, &p.CustomerFeedback},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}

	if r.ProjectDate != nil {
		d, err := content.ParseProjectDate(*r.ProjectDate)
		if err != nil {
			return err
		}
		p.ProjectDate = d
	}
	if r.ThumbnailIndex != nil {
		p.ThumbnailIndex = *r.ThumbnailIndex
	}
	if r.Tags != nil {
		p.Tags = datatypes.NewJSONType(content.ParseTags(*r.Tags))
	}
	if r.ProjectCost != nil {
		if r.ProjectCost.IsNegative() {
			return httperr.ErrValidation("Project cost cannot be negative")
		}
		p.ProjectCost = *r.ProjectCost
	}
	if r.Status != nil {
		st, err := content.ParseStatus(*r.Status)
		if err != nil {
			return err
		}
		p.Status = st
	}
	if p.Title == "" || p.Description == "" || p.Location == "" || p.ServiceType == "" {
		return httperr.ErrValidation("Please provide title, description, location, serviceType and projectDate")
	}
	return nil
}

// imageTypes pairs every upload with its type, defaulting to after.
func (r *PortfolioRequest) imageTypes(n int) ([]string, error) {
	types := make([]string, n)
	for i := range types {
		var raw string
		if i < len(r.ImageTypes) {
			raw = r.ImageTypes[i]
		}
		t, err := content.ParseImageType(raw)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	return types, nil
}

// --------- Public ---------

// List shows published portfolios; admins see every status.
func (h *PortfolioHandler) List(c *gin.Context) {
	p, err := query.Parse(c.Request.URL.Query(), portfolioQuery)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	db := h.db
	if !middleware.Actor(c).IsAdmin() {
		db = db.Where("status = ?", content.StatusPublished)
	}

	items, page, err := query.Find[models.Portfolio](c.Request.Context(), db, p, "Images")
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.Page(c, items, page)
}

func (h *PortfolioHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	p, err := h.load(c.Request.Context(), id)
	if err == nil && p.Status != content.StatusPublished && !middleware.Actor(c).IsAdmin() {
		err = httperr.ErrNotFound(fmt.Sprintf("Portfolio not found with id of %d", id))
	}
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.OK(c, p)
}

// --------- Admin ---------

func (h *PortfolioHandler) Create(c *gin.Context) {
	var req PortfolioRequest
	if !bindBody(c, &req) {
		return
	}
	if req.ProjectDate == nil {
		httperr.BadRequest(c, "Please provide title, description, location, serviceType and projectDate")
		return
	}

	p := models.Portfolio{Status: content.StatusDraft, Tags: datatypes.NewJSONType([]string{})}
	if err := req.apply(&p); err != nil {
		httperr.Handle(c, err)
		return
	}

	uploads, types, err := h.uploads(c, &req)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	ctx := c.Request.Context()
	var stored []media.Stored
	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&p).Error; err != nil {
			return err
		}
		stored, err = h.addImages(ctx, tx, &p, uploads, types)
		return err
	})
	if err != nil {
		media.Cleanup(ctx, h.store, stored)
		httperr.Handle(c, err)
		return
	}

	created, err := h.load(ctx, p.ID)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	writeAudit(h.audit, middleware.Actor(c), "portfolio_created", "portfolio", p.ID, map[string]any{"images": len(stored)})
	httpresp.Created(c, created)
}

// Update merges the sent fields. Uploaded images are appended.
func (h *PortfolioHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req PortfolioRequest
	if !bindBody(c, &req) {
		return
	}
	uploads, types, err := h.uploads(c, &req)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	ctx := c.Request.Context()
	var stored []media.Stored
	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Portfolio
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error; err != nil {
			return httperr.NotFoundOr(err, fmt.Sprintf("Portfolio not found with id of %d", id))
		}
		if err := req.apply(&p); err != nil {
			return err
		}
		if stored, err = h.addImages(ctx, tx, &p, uploads, types); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(&p).Error
	})
	if err != nil {
		media.Cleanup(ctx, h.store, stored)
		httperr.Handle(c, err)
		return
	}

	updated, err := h.load(ctx, id)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	writeAudit(h.audit, middleware.Actor(c), "portfolio_updated", "portfolio", id, nil)
	httpresp.OK(c, updated)
}

func (h *PortfolioHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var images []models.PortfolioImage
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Portfolio
		if err := tx.First(&p, id).Error; err != nil {
			return httperr.NotFoundOr(err, fmt.Sprintf("No portfolio found with id of %d", id))
		}
		if err := tx.Where("portfolio_id = ?", id).Find(&images).Error; err != nil {
			return err
		}
		if err := tx.Where("portfolio_id = ?", id).Delete(&models.PortfolioImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&p).Error
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	media.Cleanup(ctx, h.store, portfolioStored(images))
	writeAudit(h.audit, middleware.Actor(c), "portfolio_deleted", "portfolio", id, nil)
	httpresp.Deleted(c)
}

func (h *PortfolioHandler) DeleteImage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	imageID, ok := paramID(c, "imageId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var img models.PortfolioImage
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Portfolio
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error; err != nil {
			return httperr.NotFoundOr(err, fmt.Sprintf("No portfolio found with id of %d", id))
		}
		if err := tx.Where("id = ? AND portfolio_id = ?", imageID, id).First(&img).Error; err != nil {
			return httperr.NotFoundOr(err, fmt.Sprintf("No image found with id of %d", imageID))
		}
		if err := tx.Delete(&img).Error; err != nil {
			return err
		}

		var left int64
		if err := tx.Model(&models.PortfolioImage{}).Where("portfolio_id = ?", id).Count(&left).Error; err != nil {
			return err
		}
		return tx.Model(&p).Update("thumbnail_index", content.ClampThumbnail(p.ThumbnailIndex, int(left))).Error
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	media.Cleanup(ctx, h.store, portfolioStored([]models.PortfolioImage{img}))
	writeAudit(h.audit, middleware.Actor(c), "portfolio_image_deleted", "portfolio", id, map[string]any{"imageId": imageID})
	httpresp.Deleted(c)
}

// --------- Shared ---------

func (h *PortfolioHandler) load(ctx context.Context, id uint) (*models.Portfolio, error) {
	var p models.Portfolio
	if err := h.db.WithContext(ctx).Preload("Images").First(&p, id).Error; err != nil {
		return nil, httperr.NotFoundOr(err, fmt.Sprintf("Portfolio not found with id of %d", id))
	}
	return &p, nil
}

func (h *PortfolioHandler) uploads(c *gin.Context, req *PortfolioRequest) ([]media.Upload, []string, error) {
	uploads, err := optionalUploads(c, "images", h.maxUpload)
	if err != nil {
		return nil, nil, err
	}
	if len(req.ImageTypes) == 0 && isMultipart(c) {
		req.ImageTypes = c.PostFormArray("imageTypes[]")
	}
	types, err := req.imageTypes(len(uploads))
	if err != nil {
		return nil, nil, err
	}
	return uploads, types, nil
}

// addImages stores each upload under its type, inserts the rows and clamps
// the thumbnail. The caller saves p.
func (h *PortfolioHandler) addImages(
	ctx context.Context,
	tx *gorm.DB,
	p *models.Portfolio,
	uploads []media.Upload,
	types []string,
) ([]media.Stored, error) {
	var stored []media.Stored
	for i, up := range uploads {
		s, err := media.StoreAll(ctx, h.store, h.norm, []media.Upload{up}, func(ext string) string {
			return media.PortfolioImageKey(p.ID, types[i], ext)
		})
		if err != nil {
			return stored, err
		}
		stored = append(stored, s...)

		row := models.PortfolioImage{PortfolioID: p.ID, Type: types[i], URL: s[0].URL, StorageKey: s[0].Key}
		if err := tx.Create(&row).Error; err != nil {
			return stored, err
		}
	}

	var count int64
	if err := tx.Model(&models.PortfolioImage{}).Where("portfolio_id = ?", p.ID).Count(&count).Error; err != nil {
		return stored, err
	}
	p.ThumbnailIndex = content.ClampThumbnail(p.ThumbnailIndex, int(count))
	return stored, tx.Model(p).Update("thumbnail_index", p.ThumbnailIndex).Error
}

func portfolioStored(images []models.PortfolioImage) []media.Stored {
	out := make([]media.Stored, len(images))
	for i, img := range images {
		out[i] = media.Stored{Key: img.StorageKey, URL: img.URL}
	}
	return out
}
