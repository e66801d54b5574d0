package estimate

import (
	"context"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/domain/access"
	domain "github.com/gardenpro/landscape-api/internal/domain/estimate"
	"github.com/gardenpro/landscape-api/internal/domain/media"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

type UploadPhotosInput struct {
	Actor    access.Actor
	ID       uint
	Category string
	Caption  string
	Files    []media.Upload
}

type UploadPhotos struct {
	repo  domain.Repository
	store media.Store
	norm  media.Normalizer
	audit *audit.Dispatcher
}

func NewUploadPhotos(repo domain.Repository, store media.Store, norm media.Normalizer, audit *audit.Dispatcher) *UploadPhotos {
	return &UploadPhotos{repo: repo, store: store, norm: norm, audit: audit}
}

func (uc *UploadPhotos) Execute(ctx context.Context, in UploadPhotosInput) ([]models.EstimatePhoto, error) {
	if in.Category == "" {
		in.Category = "Other"
	}
	if !domain.IsPhotoCategory(in.Category) {
		return nil, httperr.ErrValidation("category must be Front Yard, Back Yard, Side Yard or Other")
	}

	e, err := uc.repo.Get(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if err := assertOwner(ctx, uc.repo, in.Actor, e); err != nil {
		return nil, err
	}

	stored, err := media.StoreAll(ctx, uc.store, uc.norm, in.Files, func(ext string) string {
		return media.EstimatePhotoKey(e.ID, in.Category, ext)
	})
	if err != nil {
		return nil, err
	}

	photos := make([]models.EstimatePhoto, len(stored))
	for i, s := range stored {
		photos[i] = models.EstimatePhoto{
			EstimateID: e.ID,
			Category:   in.Category,
			Caption:    in.Caption,
			URL:        s.URL,
			StorageKey: s.Key,
		}
	}
	if err := uc.repo.AddPhotos(ctx, photos); err != nil {
		media.Cleanup(ctx, uc.store, stored)
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.Actor.UserRef(),
		Action:   "estimate_photos_added",
		Entity:   "estimate",
		EntityID: &e.ID,
		Metadata: map[string]any{"category": in.Category, "count": len(photos)},
	})

	return photos, nil
}
