package communication

import (
	"reflect"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

func TestParseTargetRoles(t *testing.T) {
	got, err := ParseTargetRoles(nil)
	if err != nil || !reflect.DeepEqual(got, AllRoles) {
		t.Fatalf("expected every role, got %v %v", got, err)
	}

	got, err = ParseTargetRoles([]string{"admin", "customer", "admin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"admin", "customer"}) {
		t.Fatalf("expected duplicates dropped, got %v", got)
	}

	if _, err := ParseTargetRoles([]string{"guest"}); !httperr.IsBusiness(err, httperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAnnouncementEnums(t *testing.T) {
	if _, err := ParseAnnouncementStatus("active"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseAnnouncementType("emergency"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Fatal("expected error for unknown priority")
	}
}

func TestActiveAt(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	cases := []struct {
		name string
		a    models.Announcement
		want bool
	}{
		{"open ended", models.Announcement{Status: "active", StartDate: yesterday}, true},
		{"inside window", models.Announcement{Status: "active", StartDate: yesterday, EndDate: &tomorrow}, true},
		{"not started", models.Announcement{Status: "active", StartDate: tomorrow}, false},
		{"ended", models.Announcement{Status: "active", StartDate: yesterday.AddDate(0, 0, -1), EndDate: &yesterday}, false},
		{"inactive", models.Announcement{Status: "inactive", StartDate: yesterday}, false},
		{"ends now", models.Announcement{Status: "active", StartDate: yesterday, EndDate: &now}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ActiveAt(&tc.a, now); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestValidateWindow(t *testing.T) {
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	before := start.Add(-time.Hour)
	if err := ValidateWindow(start, &before); err == nil {
		t.Fatal("expected error for end before start")
	}
	if err := ValidateWindow(start, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVisibleTo(t *testing.T) {
	staffOnly := models.Announcement{TargetRoles: datatypes.NewJSONType([]string{"admin", "professional"})}
	if VisibleTo(&staffOnly, models.RoleCustomer) {
		t.Fatal("expected customers not to see a staff announcement")
	}
	if VisibleTo(&staffOnly, "") {
		t.Fatal("expected visitors not to see a staff announcement")
	}
	if !VisibleTo(&staffOnly, models.RoleProfessional) {
		t.Fatal("expected professionals to see it")
	}

	everyone := models.Announcement{}
	if !VisibleTo(&everyone, "") {
		t.Fatal("expected an announcement without roles to be public")
	}
}

func TestMessagePermissions(t *testing.T) {
	m := models.Message{SenderID: 1, ReceiverID: 2, Status: MessageSent}

	if err := CanView(&m, 3, false); !httperr.IsBusiness(err, httperr.KindForbidden) {
		t.Fatalf("expected forbidden for outsider, got %v", err)
	}
	if err := CanView(&m, 3, true); err != nil {
		t.Fatalf("expected admin to view, got %v", err)
	}
	if err := CanEdit(&m, 2); err == nil {
		t.Fatal("expected receiver not to edit")
	}
	if err := CanDelete(&m, 2); err != nil {
		t.Fatalf("expected receiver to delete, got %v", err)
	}

	if err := MarkRead(&m, 1); err == nil {
		t.Fatal("expected sender not to mark read")
	}
	if m.IsRead {
		t.Fatal("expected message to stay unread")
	}
	if err := MarkRead(&m, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.IsRead || m.Status != MessageRead {
		t.Fatalf("expected read message, got %+v", m)
	}
}

func TestParseMessageType(t *testing.T) {
	if got, _ := ParseMessageType(""); got != "text" {
		t.Fatalf("expected text default, got %q", got)
	}
	if _, err := ParseMessageType("video"); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestStatusAfterResponse(t *testing.T) {
	cases := []struct {
		name                         string
		current, requested, response string
		want                         string
	}{
		{"response marks replied", "new", "", "Thanks", "replied"},
		{"explicit status wins", "new", "closed", "Thanks", "closed"},
		{"no response keeps status", "read", "", "", "read"},
		{"closed stays closed", "closed", "", "Follow up", "closed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusAfterResponse(tc.current, tc.requested, tc.response); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
