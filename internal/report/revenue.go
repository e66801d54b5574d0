// Package report builds spreadsheet exports.
package report

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	domain "github.com/gardenpro/landscape-api/internal/domain/payment"
	"github.com/gardenpro/landscape-api/internal/models"
)

const (
	paymentsSheet = "Payments"
	summarySheet  = "Summary"
)

// Summary totals the money collected in a period.
type Summary struct {
	Count    int                        `json:"count"`
	Gross    decimal.Decimal            `json:"gross"`
	Refunded decimal.Decimal            `json:"refunded"`
	Net      decimal.Decimal            `json:"net"`
	ByMethod map[string]decimal.Decimal `json:"byMethod"`
	ByType   map[string]decimal.Decimal `json:"byType"`
}

// Summarize adds up payments that moved money. Pending payments are
// skipped; refunds are subtracted from the net.
func Summarize(payments []models.Payment) Summary {
	s := Summary{
		ByMethod: map[string]decimal.Decimal{},
		ByType:   map[string]decimal.Decimal{},
	}
	for _, p := range payments {
		if domain.Status(p.Status) == domain.StatusPending {
			continue
		}
		s.Count++
		s.Gross = s.Gross.Add(p.Amount)
		s.Refunded = s.Refunded.Add(p.Refund.Amount)

		net := p.Amount.Sub(p.Refund.Amount)
		s.ByMethod[p.Method] = s.ByMethod[p.Method].Add(net)
		s.ByType[p.PaymentType] = s.ByType[p.PaymentType].Add(net)
	}
	s.Net = s.Gross.Sub(s.Refunded)
	return s
}

// Revenue renders the payments between from and to as an XLSX workbook with
// a detail sheet and a summary sheet.
func Revenue(payments []models.Payment, from, to string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(paymentsSheet)
	if err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	_ = f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	header := []string{"ID", "Date", "Customer", "Type", "Method", "Status", "Currency", "Amount", "Refunded", "Net", "Transaction"}
	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(paymentsSheet, cell, v)
	}

	for r, p := range payments {
		values := []any{
			p.ID,
			p.CreatedAt.Format("2006-01-02"),
			p.Customer.Name(),
			p.PaymentType,
			p.Method,
			p.Status,
			p.Currency,
			p.Amount.InexactFloat64(),
			p.Refund.Amount.InexactFloat64(),
			p.Amount.Sub(p.Refund.Amount).InexactFloat64(),
			p.GatewayTransactionID,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(paymentsSheet, cell, v)
		}
	}

	_ = f.SetColWidth(paymentsSheet, "A", "A", 8)
	_ = f.SetColWidth(paymentsSheet, "B", "B", 12)
	_ = f.SetColWidth(paymentsSheet, "C", "C", 24)
	_ = f.SetColWidth(paymentsSheet, "D", "G", 16)
	_ = f.SetColWidth(paymentsSheet, "H", "J", 12)
	_ = f.SetColWidth(paymentsSheet, "K", "K", 22)

	money, _ := f.NewStyle(&excelize.Style{NumFmt: 4})
	if len(payments) > 0 {
		last, _ := excelize.CoordinatesToCellName(10, len(payments)+1)
		_ = f.SetCellStyle(paymentsSheet, "H2", last, money)
	}

	bold, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#2E7D32"}, Pattern: 1},
	})
	_ = f.SetCellStyle(paymentsSheet, "A1", "K1", bold)

	writeSummary(f, Summarize(payments), from, to, bold, money)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, s Summary, from, to string, bold, money int) {
	rows := [][]any{
		{"Period", from + " to " + to},
		{"Payments", s.Count},
		{"Gross", s.Gross.InexactFloat64()},
		{"Refunded", s.Refunded.InexactFloat64()},
		{"Net", s.Net.InexactFloat64()},
		{},
		{"By method", ""},
	}
	rows = append(rows, breakdown(s.ByMethod)...)
	rows = append(rows, []any{}, []any{"By type", ""})
	rows = append(rows, breakdown(s.ByType)...)

	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(summarySheet, cell, v)
		}
	}

	_ = f.SetColWidth(summarySheet, "A", "A", 18)
	_ = f.SetColWidth(summarySheet, "B", "B", 24)
	_ = f.SetCellStyle(summarySheet, "A1", "A5", bold)
	_ = f.SetCellStyle(summarySheet, "B3", "B5", money)
}

func breakdown(m map[string]decimal.Decimal) [][]any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]any, len(keys))
	for i, k := range keys {
		rows[i] = []any{k, m[k].InexactFloat64()}
	}
	return rows
}
