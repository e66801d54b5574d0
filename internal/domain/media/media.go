// Package media describes where uploaded photos are stored.
package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Store persists objects and returns their public URL.
//
//go:generate mockgen -destination=../../mocks/media_store_mock.go -package=mocks . Store
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

const RootFolder = "landscaping"

// AppointmentPhotoKey builds a unique key for a before/after photo.
func AppointmentPhotoKey(appointmentID uint, photoType, ext string) string {
	return path.Join(RootFolder, "appointments", fmt.Sprint(appointmentID), photoType, uuid.NewString()+ext)
}

// EstimatePhotoKey builds a unique key for a property photo.
func EstimatePhotoKey(estimateID uint, category, ext string) string {
	slug := strings.ToLower(strings.ReplaceAll(category, " ", "-"))
	return path.Join(RootFolder, "estimates", fmt.Sprint(estimateID), slug, uuid.NewString()+ext)
}

// GalleryImageKey builds a unique key for a gallery photo.
func GalleryImageKey(galleryID uint, ext string) string {
	return path.Join(RootFolder, "gallery", fmt.Sprint(galleryID), uuid.NewString()+ext)
}

// PortfolioImageKey builds a unique key for a portfolio before/after photo.
func PortfolioImageKey(portfolioID uint, imageType, ext string) string {
	return path.Join(RootFolder, "portfolio", fmt.Sprint(portfolioID), imageType, uuid.NewString()+ext)
}

func HeroImageKey(ext string) string {
	return path.Join(RootFolder, "hero", uuid.NewString()+ext)
}

// PropertyImageKey builds a unique key for a photo on a customer profile.
func PropertyImageKey(customerID uint, ext string) string {
	return path.Join(RootFolder, "customers", fmt.Sprint(customerID), "property", uuid.NewString()+ext)
}
