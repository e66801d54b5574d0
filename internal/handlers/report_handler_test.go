package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestReportQueryValidation(t *testing.T) {
	r := gin.New()
	h := NewReportHandler(nil)
	pay := NewPaymentHandler(nil, nil, nil, nil, nil)
	r.GET("/reports/appointments", h.Appointments)
	r.GET("/reports/customers", h.Customers)
	r.GET("/reports/revenue", pay.Report)

	cases := []struct {
		name string
		path string
		msg  string
	}{
		{"bad start alias", "/reports/appointments?startDate=June", "Invalid from date"},
		{"end before start", "/reports/appointments?from=2024-06-10&endDate=2024-06-01", "from must not be after to"},
		{"unknown format", "/reports/appointments?format=pdf", "format must be json or xlsx"},
		{"unknown sort", "/reports/customers?sort=name", "sort must be recent, revenue or appointments"},
		{"zero limit", "/reports/customers?limit=0", "limit must be a positive integer"},
		{"revenue format", "/reports/revenue?format=csv", "format must be json or xlsx"},
		{"revenue end alias", "/reports/revenue?endDate=2024-02-30", "Invalid to date"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, http.MethodGet, tc.path, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			if msg := errorOf(t, w); msg != tc.msg {
				t.Fatalf("expected %q, got %q", tc.msg, msg)
			}
		})
	}

	if w := do(r, http.MethodGet, "/reports/appointments?status=Lost", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", w.Code)
	}
}

func TestParseRangeDefaultsToMonthToDate(t *testing.T) {
	r := gin.New()
	now := time.Date(2024, 6, 18, 15, 0, 0, 0, time.UTC)

	var got dateRange
	r.GET("/range", func(c *gin.Context) {
		if rg, ok := parseRange(c, now); ok {
			got = rg
			c.Status(http.StatusNoContent)
		}
	})

	cases := []struct {
		query    string
		from, to string
	}{
		{"", "2024-06-01", "2024-06-18"},
		{"?startDate=2024-05-01&endDate=2024-05-31", "2024-05-01", "2024-05-31"},
		{"?from=2024-04-01&startDate=2024-05-01", "2024-04-01", "2024-06-18"},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			w := do(r, http.MethodGet, "/range"+tc.query, "")
			if w.Code != http.StatusNoContent {
				t.Fatalf("expected 204, got %d", w.Code)
			}
			if got.From != tc.from || got.To != tc.to {
				t.Fatalf("expected %s..%s, got %s..%s", tc.from, tc.to, got.From, got.To)
			}
		})
	}
}
