// Package customer holds rules for the customer property profile.
package customer

import (
	"fmt"
	"slices"

	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// PreferredDays validates the weekdays and returns them in calendar order
// without duplicates.
func PreferredDays(customerID uint, days []string) ([]models.CustomerPreferredDay, error) {
	for _, d := range days {
		if !slices.Contains(weekdays, d) {
			return nil, httperr.ErrValidation(fmt.Sprintf("Invalid preferred day %s", d))
		}
	}

	out := []models.CustomerPreferredDay{}
	for _, w := range weekdays {
		if slices.Contains(days, w) {
			out = append(out, models.CustomerPreferredDay{CustomerID: customerID, Day: w})
		}
	}
	return out, nil
}
