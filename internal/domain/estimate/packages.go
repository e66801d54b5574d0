package estimate

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

const (
	PackageBasic    = "Basic"
	PackageStandard = "Standard"
	PackagePremium  = "Premium"
)

var packageNames = map[string]bool{
	PackageBasic:    true,
	PackageStandard: true,
	PackagePremium:  true,
}

var PhotoCategories = []string{"Front Yard", "Back Yard", "Side Yard", "Other"}

func IsPhotoCategory(c string) bool {
	for _, v := range PhotoCategories {
		if v == c {
			return true
		}
	}
	return false
}

// NormalizePackages validates package names and fills derived amounts:
// a line item's total defaults to unit price times quantity, a package's
// subtotal to the sum of its line items and its total to
// subtotal + tax - discount.
func NormalizePackages(pkgs []models.EstimatePackage) error {
	seen := map[string]bool{}

	for i := range pkgs {
		p := &pkgs[i]

		if !packageNames[p.Name] {
			return httperr.ErrValidation(fmt.Sprintf("Invalid package name %q, expected Basic, Standard or Premium", p.Name))
		}
		if seen[p.Name] {
			return httperr.ErrValidation(fmt.Sprintf("Duplicate package %s", p.Name))
		}
		seen[p.Name] = true

		sum := decimal.Zero
		for j := range p.LineItems {
			li := &p.LineItems[j]
			if strings.TrimSpace(li.Service) == "" {
				return httperr.ErrValidation(fmt.Sprintf("Line item %d of package %s needs a service", j+1, p.Name))
			}
			if li.Quantity.IsZero() {
				li.Quantity = decimal.NewFromInt(1)
			}
			if li.UnitPrice.IsNegative() || li.Quantity.IsNegative() {
				return httperr.ErrValidation(fmt.Sprintf("Line item %d of package %s has a negative amount", j+1, p.Name))
			}
			if li.TotalPrice.IsZero() {
				li.TotalPrice = li.UnitPrice.Mul(li.Quantity).Round(2)
			}
			sum = sum.Add(li.TotalPrice)
		}

		if p.SubTotal.IsZero() {
			p.SubTotal = sum
		}
		if p.Total.IsZero() {
			p.Total = p.SubTotal.Add(p.Tax).Sub(p.DiscountAmount)
		}
		if p.Total.IsNegative() {
			return httperr.ErrValidation(fmt.Sprintf("Package %s total cannot be negative", p.Name))
		}
	}

	return nil
}

// ValidateServices checks quantities and defaults them to one.
func ValidateServices(svcs []models.EstimateService) error {
	for i := range svcs {
		if svcs[i].ServiceID == 0 {
			return httperr.ErrValidation("Each estimate service needs a serviceId")
		}
		if svcs[i].Quantity == 0 {
			svcs[i].Quantity = 1
		}
		if svcs[i].Quantity < 0 {
			return httperr.ErrValidation("Service quantity must be positive")
		}
	}
	return nil
}
