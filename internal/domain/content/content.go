// Package content holds the rules for the public marketing pages: galleries,
// portfolios and the home page hero image.
package content

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gardenpro/landscape-api/internal/httperr"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

var statuses = []string{StatusDraft, StatusPublished, StatusArchived}

const (
	ImageBefore = "before"
	ImageAfter  = "after"
)

// DefaultHeroURL is served while no hero image has been uploaded.
const DefaultHeroURL = "/images/landscaping-image.png"

const (
	HeroActive   = "active"
	HeroInactive = "inactive"
)

func ParseStatus(s string) (string, error) {
	if !slices.Contains(statuses, s) {
		return "", httperr.ErrValidation(fmt.Sprintf("Invalid status %s", s))
	}
	return s, nil
}

// ParseImageType defaults an empty type to after.
func ParseImageType(s string) (string, error) {
	switch s {
	case "":
		return ImageAfter, nil
	case ImageBefore, ImageAfter:
		return s, nil
	}
	return "", httperr.ErrValidation(fmt.Sprintf("Invalid image type %s", s))
}

func ParseHeroStatus(s string) (string, error) {
	switch s {
	case "":
		return HeroActive, nil
	case HeroActive, HeroInactive:
		return s, nil
	}
	return "", httperr.ErrValidation(fmt.Sprintf("Invalid status %s", s))
}

// ParseTags splits a comma separated list, dropping blanks and duplicates.
func ParseTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" && !slices.Contains(tags, t) {
			tags = append(tags, t)
		}
	}
	return tags
}

// ParseProjectDate accepts YYYY-MM-DD.
func ParseProjectDate(s string) (string, error) {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", httperr.ErrValidation("projectDate must be YYYY-MM-DD")
	}
	return s, nil
}

// ClampThumbnail keeps the thumbnail pointing at an existing image.
func ClampThumbnail(index, images int) int {
	if images == 0 || index < 0 {
		return 0
	}
	if index >= images {
		return images - 1
	}
	return index
}
