package handlers

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/domain/media"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/httpresp"
	"github.com/gardenpro/landscape-api/internal/middleware"
	"github.com/gardenpro/landscape-api/internal/models"
)

// PropertyImageHandler manages the photos on a customer profile. The /me
// routes act on the caller's profile; the others take a customer id.
type PropertyImageHandler struct {
	db        *gorm.DB
	store     media.Store
	norm      media.Normalizer
	audit     *audit.Dispatcher
	maxUpload int64
}

func NewPropertyImageHandler(db *gorm.DB, store media.Store, norm media.Normalizer, audit *audit.Dispatcher, maxUpload int64) *PropertyImageHandler {
	return &PropertyImageHandler{db: db, store: store, norm: norm, audit: audit, maxUpload: maxUpload}
}

type propertyImageRequest struct {
	Caption    *string `json:"caption"`
	IsFeatured *bool   `json:"isFeatured"`
}

// customerID resolves the profile addressed by the route.
func (h *PropertyImageHandler) customerID(c *gin.Context) (uint, bool) {
	if c.Param("id") != "" {
		id, ok := paramID(c, "id")
		if !ok {
			return 0, false
		}
		var n int64
		if err := h.db.WithContext(c.Request.Context()).Model(&models.Customer{}).Where("id = ?", id).Count(&n).Error; err != nil {
			httperr.Handle(c, err)
			return 0, false
		}
		if n == 0 {
			httperr.Handle(c, httperr.ErrNotFound(fmt.Sprintf("Customer not found with id of %d", id)))
			return 0, false
		}
		return id, true
	}

	var cu models.Customer
	err := h.db.WithContext(c.Request.Context()).Select("id").Where("user_id = ?", middleware.Actor(c).UserID).First(&cu).Error
	if err != nil {
		httperr.Handle(c, httperr.NotFoundOr(err, "Customer not found"))
		return 0, false
	}
	return cu.ID, true
}

func (h *PropertyImageHandler) List(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	images, err := h.list(c.Request.Context(), customerID)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.List(c, images)
}

// Upload stores the images[] files. The first photo of a profile becomes
// the featured one.
func (h *PropertyImageHandler) Upload(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}

	uploads, err := formUploads(c, "images", h.maxUpload)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	ctx := c.Request.Context()
	stored, err := media.StoreAll(ctx, h.store, h.norm, uploads, func(ext string) string {
		return media.PropertyImageKey(customerID, ext)
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	caption := c.PostForm("caption")
	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.PropertyImage{}).Where("customer_id = ?", customerID).Count(&existing).Error; err != nil {
			return err
		}

		rows := make([]models.PropertyImage, len(stored))
		for i, s := range stored {
			rows[i] = models.PropertyImage{
				CustomerID: customerID,
				URL:        s.URL,
				StorageKey: s.Key,
				Caption:    caption,
				IsFeatured: existing == 0 && i == 0,
			}
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		media.Cleanup(ctx, h.store, stored)
		httperr.Handle(c, err)
		return
	}

	images, err := h.list(ctx, customerID)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	writeAudit(h.audit, middleware.Actor(c), "property_images_added", "customer", customerID, map[string]any{"count": len(stored)})
	httpresp.List(c, images)
}

// Update edits the caption or features the image. Featuring one image
// unfeatures the others.
func (h *PropertyImageHandler) Update(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}
	imageID, ok := paramID(c, "imageId")
	if !ok {
		return
	}

	var req propertyImageRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	var img models.PropertyImage
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND customer_id = ?", imageID, customerID).First(&img).Error; err != nil {
			return httperr.NotFoundOr(err, fmt.Sprintf("Image not found with id of %d", imageID))
		}
		if req.Caption != nil {
			img.Caption = *req.Caption
		}
		if req.IsFeatured != nil {
			if *req.IsFeatured {
				if err := tx.Model(&models.PropertyImage{}).
					Where("customer_id = ? AND id <> ?", customerID, imageID).
					Update("is_featured", false).Error; err != nil {
					return err
				}
			}
			img.IsFeatured = *req.IsFeatured
		}
		return tx.Save(&img).Error
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	writeAudit(h.audit, middleware.Actor(c), "property_image_updated", "customer", customerID, map[string]any{"imageId": imageID})
	httpresp.OK(c, img)
}

func (h *PropertyImageHandler) Delete(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}
	imageID, ok := paramID(c, "imageId")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var img models.PropertyImage
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND customer_id = ?", imageID, customerID).First(&img).Error; err != nil {
			return httperr.NotFoundOr(err, fmt.Sprintf("Image not found with id of %d", imageID))
		}
		return tx.Delete(&img).Error
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	media.Cleanup(ctx, h.store, []media.Stored{{Key: img.StorageKey, URL: img.URL}})
	writeAudit(h.audit, middleware.Actor(c), "property_image_deleted", "customer", customerID, map[string]any{"imageId": imageID})
	httpresp.Deleted(c)
}

func (h *PropertyImageHandler) list(ctx context.Context, customerID uint) ([]models.PropertyImage, error) {
	var images []models.PropertyImage
	err := h.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("is_featured DESC, created_at DESC").
		Find(&images).Error
	return images, err
}
