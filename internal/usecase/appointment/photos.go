package appointment

import (
	"context"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/domain/access"
	domain "github.com/gardenpro/landscape-api/internal/domain/appointment"
	"github.com/gardenpro/landscape-api/internal/domain/media"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

const (
	PhotoBeforeService = "beforeService"
	PhotoAfterService  = "afterService"
)

type UploadPhotosInput struct {
	Actor     access.Actor
	ID        uint
	PhotoType string
	Files     []media.Upload
}

type UploadPhotos struct {
	repo  domain.Repository
	store media.Store
	norm  media.Normalizer
	audit *audit.Dispatcher
}

func NewUploadPhotos(
	repo domain.Repository,
	store media.Store,
	norm media.Normalizer,
	audit *audit.Dispatcher,
) *UploadPhotos {
	return &UploadPhotos{repo: repo, store: store, norm: norm, audit: audit}
}

func (uc *UploadPhotos) Execute(ctx context.Context, in UploadPhotosInput) ([]models.AppointmentPhoto, error) {
	if in.PhotoType != PhotoBeforeService && in.PhotoType != PhotoAfterService {
		return nil, httperr.ErrValidation("photoType must be beforeService or afterService")
	}

	ap, err := uc.repo.GetAppointment(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if domain.Status(ap.Status) != domain.StatusCompleted {
		return nil, httperr.ErrValidation("Photos can only be uploaded for completed appointments")
	}

	stored, err := media.StoreAll(ctx, uc.store, uc.norm, in.Files, func(ext string) string {
		return media.AppointmentPhotoKey(ap.ID, in.PhotoType, ext)
	})
	if err != nil {
		return nil, err
	}

	photos := make([]models.AppointmentPhoto, len(stored))
	for i, s := range stored {
		photos[i] = models.AppointmentPhoto{
			AppointmentID: ap.ID,
			Type:          in.PhotoType,
			URL:           s.URL,
			StorageKey:    s.Key,
		}
	}

	if err := uc.repo.AddPhotos(ctx, photos); err != nil {
		media.Cleanup(ctx, uc.store, stored)
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.Actor.UserRef(),
		Action:   "appointment_photos_added",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"type": in.PhotoType, "count": len(photos)},
	})

	return photos, nil
}
