package media

import (
	"context"
	"io"
	"log"

	"github.com/gardenpro/landscape-api/internal/httperr"
)

// Image is a processed upload ready to store.
type Image struct {
	Body        io.Reader
	ContentType string
	Ext         string
}

// Normalizer converts an uploaded file into the stored image format.
type Normalizer interface {
	Normalize(r io.Reader) (Image, error)
}

// Upload is one file of a multipart request.
type Upload struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

type Stored struct {
	Key string
	URL string
}

// StoreAll normalises and stores every upload under keyFor(ext). If any file
// fails, the objects already written are removed and nothing is returned.
func StoreAll(
	ctx context.Context,
	store Store,
	norm Normalizer,
	uploads []Upload,
	keyFor func(ext string) string,
) ([]Stored, error) {
	if len(uploads) == 0 {
		return nil, httperr.ErrValidation("Please upload at least one photo")
	}

	stored := make([]Stored, 0, len(uploads))
	for _, up := range uploads {
		s, err := storeOne(ctx, store, norm, up, keyFor)
		if err != nil {
			Cleanup(ctx, store, stored)
			return nil, err
		}
		stored = append(stored, s)
	}
	return stored, nil
}

func storeOne(ctx context.Context, store Store, norm Normalizer, up Upload, keyFor func(string) string) (Stored, error) {
	f, err := up.Open()
	if err != nil {
		return Stored{}, err
	}
	defer f.Close()

	img, err := norm.Normalize(f)
	if err != nil {
		return Stored{}, httperr.ErrValidation(up.Filename + " is not a supported image")
	}

	key := keyFor(img.Ext)
	url, err := store.Put(ctx, key, img.Body, img.ContentType)
	if err != nil {
		return Stored{}, httperr.ErrExternal("Photo upload failed", err)
	}
	return Stored{Key: key, URL: url}, nil
}

// Cleanup deletes stored objects, logging failures.
func Cleanup(ctx context.Context, store Store, stored []Stored) {
	for _, s := range stored {
		if s.Key == "" {
			continue
		}
		if err := store.Delete(ctx, s.Key); err != nil {
			log.Printf("[media] delete %s failed: %v", s.Key, err)
		}
	}
}
