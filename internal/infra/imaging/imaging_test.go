package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func pngOf(w, h int) *bytes.Buffer {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 40, G: 160, B: 60, A: 255})
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return &buf
}

func TestFit(t *testing.T) {
	small := image.NewRGBA(image.Rect(0, 0, 800, 600))
	if got := Fit(small, MaxWidth); got != small {
		t.Fatal("expected small image to be returned as is")
	}

	big := image.NewRGBA(image.Rect(0, 0, 3200, 1000))
	got := Fit(big, MaxWidth).Bounds()
	if got.Dx() != 1600 || got.Dy() != 500 {
		t.Fatalf("expected 1600x500, got %dx%d", got.Dx(), got.Dy())
	}
}

func TestToWebP(t *testing.T) {
	out, err := ToWebP(pngOf(40, 20))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	header := make([]byte, 12)
	if _, err := out.Read(header); err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WEBP" {
		t.Fatalf("expected RIFF/WEBP header, got %q", header)
	}
}

func TestToWebPRejectsNonImage(t *testing.T) {
	_, err := ToWebP(strings.NewReader("not an image"))
	if err == nil {
		t.Fatal("expected error for non-image input")
	}
}
