// Package communication holds the rules for announcements, direct messages
// and contact form submissions.
package communication

import (
	"fmt"
	"slices"
	"time"

	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

const (
	AnnouncementActive   = "active"
	AnnouncementInactive = "inactive"
)

var (
	announcementStatuses = []string{AnnouncementActive, AnnouncementInactive}
	announcementTypes    = []string{"general", "emergency", "update"}
	priorities           = []string{"low", "medium", "high"}
)

// AllRoles is the audience of an announcement that names none.
var AllRoles = []string{models.RoleCustomer, models.RoleProfessional, models.RoleAdmin}

func ParseAnnouncementStatus(s string) (string, error) {
	return oneOf("status", s, announcementStatuses)
}

func ParseAnnouncementType(s string) (string, error) {
	return oneOf("type", s, announcementTypes)
}

func ParsePriority(s string) (string, error) {
	return oneOf("priority", s, priorities)
}

// ParseTargetRoles validates roles; an empty list means everyone.
func ParseTargetRoles(roles []string) ([]string, error) {
	if len(roles) == 0 {
		return slices.Clone(AllRoles), nil
	}
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		if !models.IsValidRole(r) {
			return nil, httperr.ErrValidation(fmt.Sprintf("Invalid role %s", r))
		}
		if !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// ValidateWindow rejects an end date before the start date.
func ValidateWindow(start time.Time, end *time.Time) error {
	if end != nil && end.Before(start) {
		return httperr.ErrValidation("endDate must be after startDate")
	}
	return nil
}

// ActiveAt reports whether a is shown at now. A missing end date leaves the
// announcement open ended.
func ActiveAt(a *models.Announcement, now time.Time) bool {
	if a.Status != AnnouncementActive || now.Before(a.StartDate) {
		return false
	}
	return a.EndDate == nil || !now.After(*a.EndDate)
}

// VisibleTo reports whether role is in the announcement's audience. An
// anonymous visitor (empty role) sees announcements aimed at customers.
func VisibleTo(a *models.Announcement, role string) bool {
	roles := a.TargetRoles.Data()
	if len(roles) == 0 {
		return true
	}
	if role == "" {
		role = models.RoleCustomer
	}
	return slices.Contains(roles, role)
}

func oneOf(field, s string, allowed []string) (string, error) {
	if !slices.Contains(allowed, s) {
		return "", httperr.ErrValidation(fmt.Sprintf("Invalid %s %s", field, s))
	}
	return s, nil
}
