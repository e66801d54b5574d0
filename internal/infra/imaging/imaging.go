// Package imaging normalises uploaded photos to bounded-size WebP.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/gardenpro/landscape-api/internal/domain/media"
)

const (
	MaxWidth    = 1600
	Quality     = 80
	ContentType = "image/webp"
	Extension   = ".webp"
)

// ToWebP decodes a JPEG, PNG or WebP image, shrinks it to MaxWidth keeping
// the aspect ratio and re-encodes it as lossy WebP.
func ToWebP(r io.Reader) (*bytes.Reader, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("unsupported image: %w", err)
	}

	img := Fit(src, MaxWidth)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("encode %s as webp: %w", format, err)
	}
	return bytes.NewReader(buf.Bytes()), nil
}

// Fit scales src down so its width is at most maxWidth.
func Fit(src image.Image, maxWidth int) image.Image {
	b := src.Bounds()
	if b.Dx() <= maxWidth {
		return src
	}

	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// WebP implements media.Normalizer with ToWebP.
type WebP struct{}

func (WebP) Normalize(r io.Reader) (media.Image, error) {
	body, err := ToWebP(r)
	if err != nil {
		return media.Image{}, err
	}
	return media.Image{Body: body, ContentType: ContentType, Ext: Extension}, nil
}

var _ media.Normalizer = WebP{}
