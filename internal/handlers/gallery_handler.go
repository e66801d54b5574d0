package handlers

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
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

type GalleryHandler struct {
	db        *gorm.DB
	store     media.Store
	norm      media.Normalizer
	audit     *audit.Dispatcher
	maxUpload int64
}

func NewGalleryHandler(db *gorm.DB, store media.Store, norm media.Normalizer, audit *audit.Dispatcher, maxUpload int64) *GalleryHandler {
	return &GalleryHandler{db: db, store: store, norm: norm, audit: audit, maxUpload: maxUpload}
}

var galleryQuery = query.Options{
	Columns: map[string]string{
		"id":          "id",
		"title":       "title",
		"location":    "location",
		"category":    "category",
		"projectDate": "project_date",
		"status":      "status",
		"createdAt":   "created_at",
	},
	Searchable:  []string{"title", "description", "location"},
	DefaultSort: "-createdAt",
}

// --------- Requests ---------

// GalleryRequest is sent as JSON or as multipart form fields next to the
// images[] files. Tags are comma separated.
type GalleryRequest struct {
	Title           *string `json:"title" form:"title"`
	Description     *string `json:"description" form:"description"`
	Location        *string `json:"location" form:"location"`
	Category        *string `json:"category" form:"category"`
	ProjectDate     *string `json:"projectDate" form:"projectDate"`
	ThumbnailIndex  *int    `json:"thumbnailIndex" form:"thumbnailIndex"`
	Tags            *string `json:"tags" form:"tags"`
	ClientName      *string `json:"clientName" form:"clientName"`
	ProjectDuration *string `json:"projectDuration" form:"projectDuration"`
	Status          *string `json:"status" form:"status"`
}

func (r *GalleryRequest) apply(g *models.Gallery) error {
	if r.Title != nil {
		g.Title = *r.Title
	}
	if r.Description != nil {
		g.Description = *r.Description
	}
	if r.Location != nil {
		g.Location = *r.Location
	}
	if r.Category != nil {
		g.Category = *r.Category
	}
	if r.ProjectDate != nil {
		d, err := content.ParseProjectDate(*r.ProjectDate)
		if err != nil {
			return err
		}
		g.ProjectDate = d
	}
	if r.ThumbnailIndex != nil {
		g.ThumbnailIndex = *r.ThumbnailIndex
	}
	if r.Tags != nil {
		g.Tags = datatypes.NewJSONType(content.ParseTags(*r.Tags))
	}
	if r.ClientName != nil {
		g.ClientName = *r.ClientName
	}
	if r.ProjectDuration != nil {
		g.ProjectDuration = *r.ProjectDuration
	}
	if r.Status != nil {
		st, err := content.ParseStatus(*r.Status)
		if err != nil {
			return err
		}
		g.Status = st
	}
	if g.Title == "" || g.Description == "" || g.Location == "" || g.Category == "" {
		return httperr.ErrValidation("Please provide title, description, location, category and projectDate")
	}
	return nil
}

// --------- Public ---------

// List shows published galleries; admins see every status.
func (h *GalleryHandler) List(c *gin.Context) {
	p, err := query.Parse(c.Request.URL.Query(), galleryQuery)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	db := h.db
	if !middleware.Actor(c).IsAdmin() {
		db = db.Where("status = ?", content.StatusPublished)
	}

	galleries, page, err := query.Find[models.Gallery](c.Request.Context(), db, p, "Images")
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.Page(c, galleries, page)
}

func (h *GalleryHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	g, err := h.load(c.Request.Context(), h.db, id)
	if err == nil && g.Status != content.StatusPublished && !middleware.Actor(c).IsAdmin() {
		err = httperr.ErrNotFound(fmt.Sprintf("Gallery not found with id of %d", id))
	}
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.OK(c, g)
}

// --------- Admin ---------

func (h *GalleryHandler) Create(c *gin.Context) {
	var req GalleryRequest
	if !bindBody(c, &req) {
		return
	}
	if req.ProjectDate == nil {
		httperr.BadRequest(c, "Please provide title, description, location, category and projectDate")
		return
	}

	g := models.Gallery{Status: content.StatusDraft, Tags: datatypes.NewJSONType([]string{})}
	if err := req.apply(&g); err != nil {
		httperr.Handle(c, err)
		return
	}

	uploads, err := optionalUploads(c, "images", h.maxUpload)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	ctx := c.Request.Context()
	var stored []media.Stored
	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&g).Error; err != nil {
			return err
		}
		stored, err = h.addImages(ctx, tx, &g, uploads)
		return err
	})
	if err != nil {
		media.Cleanup(ctx, h.store, stored)
		httperr.Handle(c, err)
		return
	}

	created, err := h.load(ctx, h.db, g.ID)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	writeAudit(h.audit, middleware.Actor(c), "gallery_created", "gallery", g.ID, map[string]any{"images": len(stored)})
	httpresp.Created(c, created)
}

// Update merges the sent fields. Uploaded images are appended.
func (h *GalleryHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req GalleryRequest
	if !bindBody(c, &req) {
		return
	}
	uploads, err := optionalUploads(c, "images", h.maxUpload)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	ctx := c.Request.Context()
	var stored []media.Stored
	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g models.Gallery
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&g, id).Error; err != nil {
			return httperr.NotFoundOr(err, fmt.Sprintf("Gallery not found with id of %d", id))
		}
		if err := req.apply(&g); err != nil {
			return err
		}
		if stored, err = h.addImages(ctx, tx, &g, uploads); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(&g).Error
	})
	if err != nil {
		media.Cleanup(ctx, h.store, stored)
		httperr.Handle(c, err)
		return
	}

	updated, err := h.load(ctx, h.db, id)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	writeAudit(h.audit, middleware.Actor(c), "gallery_updated", "gallery", id, nil)
	httpresp.OK(c, updated)
}

// Delete removes the gallery and then its stored images.
func (h *GalleryHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var images []models.GalleryImage
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g models.Gallery
		if err := tx.First(&g, id).Error; err != nil {
			return httperr.NotFoundOr(err, fmt.Sprintf("Gallery not found with id of %d", id))
		}
		if err := tx.Where("gallery_id = ?", id).Find(&images).Error; err != nil {
			return err
		}
		if err := tx.Where("gallery_id = ?", id).Delete(&models.GalleryImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&g).Error
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	media.Cleanup(ctx, h.store, galleryStored(images))
	writeAudit(h.audit, middleware.Actor(c), "gallery_deleted", "gallery", id, nil)
	httpresp.Deleted(c)
}

func (h *GalleryHandler) DeleteImage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	imageID, ok := paramID(c, "imageId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var img models.GalleryImage
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g models.Gallery
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&g, id).Error; err != nil {
			return httperr.NotFoundOr(err, fmt.Sprintf("Gallery not found with id of %d", id))
		}
		if err := tx.Where("id = ? AND gallery_id = ?", imageID, id).First(&img).Error; err != nil {
			return httperr.NotFoundOr(err, fmt.Sprintf("Image not found with id of %d", imageID))
		}
		if err := tx.Delete(&img).Error; err != nil {
			return err
		}

		var left int64
		if err := tx.Model(&models.GalleryImage{}).Where("gallery_id = ?", id).Count(&left).Error; err != nil {
			return err
		}
		g.ThumbnailIndex = content.ClampThumbnail(g.ThumbnailIndex, int(left))
		return tx.Model(&g).Update("thumbnail_index", g.ThumbnailIndex).Error
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	media.Cleanup(ctx, h.store, galleryStored([]models.GalleryImage{img}))
	writeAudit(h.audit, middleware.Actor(c), "gallery_image_deleted", "gallery", id, map[string]any{"imageId": imageID})
	httpresp.Deleted(c)
}

// --------- Shared ---------

func (h *GalleryHandler) load(ctx context.Context, db *gorm.DB, id uint) (*models.Gallery, error) {
	var g models.Gallery
	if err := db.WithContext(ctx).Preload("Images").First(&g, id).Error; err != nil {
		return nil, httperr.NotFoundOr(err, fmt.Sprintf("Gallery not found with id of %d", id))
	}
	return &g, nil
}

// addImages stores the uploads and inserts their rows, then clamps the
// thumbnail to the resulting image count. The caller saves g.
func (h *GalleryHandler) addImages(ctx context.Context, tx *gorm.DB, g *models.Gallery, uploads []media.Upload) ([]media.Stored, error) {
	var stored []media.Stored
	if len(uploads) > 0 {
		var err error
		stored, err = media.StoreAll(ctx, h.store, h.norm, uploads, func(ext string) string {
			return media.GalleryImageKey(g.ID, ext)
		})
		if err != nil {
			return nil, err
		}

		rows := make([]models.GalleryImage, len(stored))
		for i, s := range stored {
			rows[i] = models.GalleryImage{GalleryID: g.ID, URL: s.URL, StorageKey: s.Key}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return stored, err
		}
	}

	var count int64
	if err := tx.Model(&models.GalleryImage{}).Where("gallery_id = ?", g.ID).Count(&count).Error; err != nil {
		return stored, err
	}
	clamped := content.ClampThumbnail(g.ThumbnailIndex, int(count))
	if clamped != g.ThumbnailIndex {
		g.ThumbnailIndex = clamped
		if err := tx.Model(g).Update("thumbnail_index", clamped).Error; err != nil {
			return stored, err
		}
	}
	return stored, nil
}

func galleryStored(images []models.GalleryImage) []media.Stored {
	out := make([]media.Stored, len(images))
	for i, img := range images {
		out[i] = media.Stored{Key: img.StorageKey, URL: img.URL}
	}
	return out
}
