package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const customersSheet = "Customers"

// Customer sort orders.
const (
	SortRecent       = "recent"
	SortRevenue      = "revenue"
	SortAppointments = "appointments"
)

type CustomerRow struct {
	ID                    uint            `json:"id"`
	Name                  string          `json:"name"`
	Email                 string          `json:"email"`
	Phone                 string          `json:"phone"`
	CustomerSince         time.Time       `json:"customerSince"`
	TotalAppointments     int64           `json:"totalAppointments"`
	CompletedAppointments int64           `json:"completedAppointments"`
	TotalSpent            decimal.Decimal `json:"totalSpent"`
	PaymentCount          int64           `json:"paymentCount"`
}

// SortCustomers orders rows by by, newest customers first on ties, and
// keeps at most limit of them.
func SortCustomers(rows []CustomerRow, by string, limit int) []CustomerRow {
	out := append([]CustomerRow(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch by {
		case SortRevenue:
			if c := a.TotalSpent.Cmp(b.TotalSpent); c != 0 {
				return c > 0
			}
		case SortAppointments:
			if a.TotalAppointments != b.TotalAppointments {
				return a.TotalAppointments > b.TotalAppointments
			}
		}
		return a.CustomerSince.After(b.CustomerSince)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Customers renders rows as an XLSX workbook.
func Customers(rows []CustomerRow) ([]byte, error) {
	f, err := workbook(customersSheet)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header := []string{"ID", "Name", "Email", "Phone", "Since", "Appointments", "Completed", "Payments", "Total Spent"}
	data := make([][]any, len(rows))
	for i, r := range rows {
		data[i] = []any{
			r.ID, r.Name, r.Email, r.Phone, r.CustomerSince.Format("2006-01-02"),
			r.TotalAppointments, r.CompletedAppointments, r.PaymentCount, r.TotalSpent.InexactFloat64(),
		}
	}
	writeTable(f, customersSheet, header, data, 9)

	_ = f.SetColWidth(customersSheet, "B", "C", 26)
	_ = f.SetColWidth(customersSheet, "D", "I", 14)

	return bytesOf(f)
}
