package appointment

import "sort"

// CustomerEditableFields are the only request keys a customer may send when
// updating their own appointment.
var CustomerEditableFields = map[string]bool{
	"date":      true,
	"startTime": true,
	"endTime":   true,
}

// DisallowedCustomerFields returns the sorted request keys outside
// CustomerEditableFields.
func DisallowedCustomerFields(keys []string) []string {
	var bad []string
	for _, k := range keys {
		if !CustomerEditableFields[k] {
			bad = append(bad, k)
		}
	}
	sort.Strings(bad)
	return bad
}
