package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/domain/content"
	"github.com/gardenpro/landscape-api/internal/domain/media"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/httpresp"
	"github.com/gardenpro/landscape-api/internal/middleware"
	"github.com/gardenpro/landscape-api/internal/models"
)

// HeroHandler manages the single home page banner.
type HeroHandler struct {
	db        *gorm.DB
	store     media.Store
	norm      media.Normalizer
	audit     *audit.Dispatcher
	maxUpload int64
}

func NewHeroHandler(db *gorm.DB, store media.Store, norm media.Normalizer, audit *audit.Dispatcher, maxUpload int64) *HeroHandler {
	return &HeroHandler{db: db, store: store, norm: norm, audit: audit, maxUpload: maxUpload}
}

func defaultHero() models.HeroImage {
	return models.HeroImage{URL: content.DefaultHeroURL, Status: content.HeroActive}
}

// Get returns the current hero image, or the bundled default.
func (h *HeroHandler) Get(c *gin.Context) {
	var hero models.HeroImage
	err := h.db.WithContext(c.Request.Context()).Order("id DESC").First(&hero).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httpresp.OK(c, defaultHero())
		return
	}
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.OK(c, hero)
}

// Update replaces the hero image with the uploaded file.
func (h *HeroHandler) Update(c *gin.Context) {
	uploads, err := formUploads(c, "image", h.maxUpload)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	if len(uploads) != 1 {
		httperr.BadRequest(c, "Please upload one image")
		return
	}
	status, err := content.ParseHeroStatus(c.PostForm("status"))
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	ctx := c.Request.Context()
	stored, err := media.StoreAll(ctx, h.store, h.norm, uploads, media.HeroImageKey)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	hero := models.HeroImage{
		URL:        stored[0].URL,
		StorageKey: stored[0].Key,
		Caption:    c.PostForm("caption"),
		Status:     status,
	}

	var previous []models.HeroImage
	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Find(&previous).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&models.HeroImage{}).Error; err != nil {
			return err
		}
		return tx.Create(&hero).Error
	})
	if err != nil {
		media.Cleanup(ctx, h.store, stored)
		httperr.Handle(c, err)
		return
	}

	media.Cleanup(ctx, h.store, heroStored(previous))
	writeAudit(h.audit, middleware.Actor(c), "hero_image_updated", "hero_image", hero.ID, nil)
	httpresp.OK(c, hero)
}

// Delete removes the hero image and returns the default in its place.
func (h *HeroHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	var previous []models.HeroImage
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Find(&previous).Error; err != nil {
			return err
		}
		if len(previous) == 0 {
			return httperr.ErrNotFound("No hero image found")
		}
		return tx.Where("1 = 1").Delete(&models.HeroImage{}).Error
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	media.Cleanup(ctx, h.store, heroStored(previous))
	writeAudit(h.audit, middleware.Actor(c), "hero_image_deleted", "hero_image", previous[0].ID, nil)
	httpresp.OK(c, defaultHero())
}

func heroStored(images []models.HeroImage) []media.Stored {
	out := make([]media.Stored, len(images))
	for i, img := range images {
		out[i] = media.Stored{Key: img.StorageKey, URL: img.URL}
	}
	return out
}
