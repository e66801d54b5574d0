package estimate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

func TestFormatNumber(t *testing.T) {
	at := time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)
	if got := FormatNumber(at, 7); got != "EST-202406-0007" {
		t.Fatalf("expected EST-202406-0007, got %s", got)
	}
	if got := FormatNumber(at, 12345); got != "EST-202406-12345" {
		t.Fatalf("expected EST-202406-12345, got %s", got)
	}
}

func TestNextSequence(t *testing.T) {
	at := time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		last string
		want int64
	}{
		{"first of the month", "", 1},
		{"after a gap", "EST-202406-0003", 4},
		{"past four digits", "EST-202406-9999", 10000},
		{"five digits", "EST-202406-10000", 10001},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NextSequence(at, tc.last)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}

	for _, bad := range []string{"EST-202405-0003", "EST-202406-", "EST-202406-00x1"} {
		if _, err := NextSequence(at, bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestNormalizePackages(t *testing.T) {
	pkgs := []models.EstimatePackage{
		{
			Name: "Basic",
			Tax:  decimal.RequireFromString("5.00"),
			LineItems: []models.EstimateLineItem{
				{Service: "Mowing", UnitPrice: decimal.RequireFromString("40"), Quantity: decimal.NewFromInt(2)},
				{Service: "Edging", UnitPrice: decimal.RequireFromString("15.50")},
			},
		},
		{
			Name:           "Premium",
			SubTotal:       decimal.RequireFromString("300"),
			DiscountAmount: decimal.RequireFromString("25"),
		},
	}

	if err := NormalizePackages(pkgs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	basic := pkgs[0]
	if !basic.LineItems[0].TotalPrice.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("expected line total 80, got %s", basic.LineItems[0].TotalPrice)
	}
	if !basic.LineItems[1].Quantity.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected default quantity 1, got %s", basic.LineItems[1].Quantity)
	}
	if !basic.SubTotal.Equal(decimal.RequireFromString("95.50")) {
		t.Fatalf("expected subtotal 95.50, got %s", basic.SubTotal)
	}
	if !basic.Total.Equal(decimal.RequireFromString("100.50")) {
		t.Fatalf("expected total 100.50, got %s", basic.Total)
	}
	if !pkgs[1].Total.Equal(decimal.NewFromInt(275)) {
		t.Fatalf("expected premium total 275, got %s", pkgs[1].Total)
	}
}

func TestNormalizePackagesRejects(t *testing.T) {
	cases := map[string][]models.EstimatePackage{
		"unknown name": {{Name: "Deluxe"}},
		"duplicate":    {{Name: "Basic"}, {Name: "Basic"}},
		"no service":   {{Name: "Basic", LineItems: []models.EstimateLineItem{{UnitPrice: decimal.NewFromInt(1)}}}},
		"negative":     {{Name: "Basic", SubTotal: decimal.NewFromInt(10), DiscountAmount: decimal.NewFromInt(20)}},
	}

	for name, pkgs := range cases {
		t.Run(name, func(t *testing.T) {
			if err := NormalizePackages(pkgs); !httperr.IsBusiness(err, httperr.KindValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCanRespond(t *testing.T) {
	for _, s := range []Status{StatusRequested, StatusInReview, StatusPrepared, StatusSent} {
		if err := CanRespond(s); err != nil {
			t.Fatalf("%s: unexpected error %v", s, err)
		}
	}
	for _, s := range []Status{StatusApproved, StatusDeclined, StatusExpired} {
		if err := CanRespond(s); err == nil {
			t.Fatalf("%s: expected error", s)
		}
	}
}
