package report

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/gardenpro/landscape-api/internal/domain/appointment"
	"github.com/gardenpro/landscape-api/internal/models"
)

const appointmentsSheet = "Appointments"

// AppointmentSummary counts appointments per status. Revenue is the price
// of the completed ones.
type AppointmentSummary struct {
	Total    int             `json:"total"`
	ByStatus map[string]int  `json:"byStatus"`
	Revenue  decimal.Decimal `json:"revenue"`
}

func SummarizeAppointments(list []models.Appointment) AppointmentSummary {
	s := AppointmentSummary{ByStatus: map[string]int{}}
	for _, ap := range list {
		s.Total++
		s.ByStatus[ap.Status]++
		if appointment.Status(ap.Status) == appointment.StatusCompleted {
			s.Revenue = s.Revenue.Add(ap.Price)
		}
	}
	return s
}

// Appointments renders list as an XLSX workbook, one row per appointment
// followed by the per-status counts.
func Appointments(list []models.Appointment, from, to string) ([]byte, error) {
	f, err := workbook(appointmentsSheet)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header := []string{"ID", "Date", "Start", "End", "Customer", "Email", "Phone", "Service", "Category", "Status", "Payment", "Price"}
	rows := make([][]any, 0, len(list))
	for _, ap := range list {
		var email, phone, service, category string
		if ap.Customer != nil && ap.Customer.User != nil {
			email, phone = ap.Customer.User.Email, ap.Customer.User.Phone
		}
		if ap.Service != nil {
			service, category = ap.Service.Name, ap.Service.Category
		}
		rows = append(rows, []any{
			ap.ID, ap.Date, ap.StartTime, ap.EndTime,
			ap.Customer.Name(), email, phone,
			service, category,
			ap.Status, ap.PaymentStatus, ap.Price.InexactFloat64(),
		})
	}
	writeTable(f, appointmentsSheet, header, rows, 12)

	_ = f.SetColWidth(appointmentsSheet, "A", "D", 11)
	_ = f.SetColWidth(appointmentsSheet, "E", "F", 24)
	_ = f.SetColWidth(appointmentsSheet, "G", "K", 16)

	s := SummarizeAppointments(list)
	statuses := make([]string, 0, len(s.ByStatus))
	for st := range s.ByStatus {
		statuses = append(statuses, st)
	}
	sort.Strings(statuses)

	summary := [][]any{{}, {"Period", from + " to " + to}, {"Total", s.Total}}
	for _, st := range statuses {
		summary = append(summary, []any{st, s.ByStatus[st]})
	}
	summary = append(summary, []any{"Completed revenue", s.Revenue.InexactFloat64()})

	start := len(rows) + 2
	for r, row := range summary {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, start+r)
			_ = f.SetCellValue(appointmentsSheet, cell, v)
		}
	}

	return bytesOf(f)
}
