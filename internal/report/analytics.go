package report

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// MonthCount and MonthTotal are keyed by "YYYY-MM".
type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type MonthTotal struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

type DateCount struct {
	Date  string
	Count int64
}

type WeekdayCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// Months lists the n months ending with the month of now, oldest first.
func Months(now time.Time, n int) []string {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = first.AddDate(0, i-n+1, 0).Format("2006-01")
	}
	return out
}

// YearToDate lists January through the month of now.
func YearToDate(now time.Time) []string {
	return Months(now, int(now.Month()))
}

// FillCounts returns one entry per month, zero where rows has none.
func FillCounts(months []string, rows []MonthCount) []MonthCount {
	byMonth := make(map[string]int64, len(rows))
	for _, r := range rows {
		byMonth[r.Month] += r.Count
	}
	out := make([]MonthCount, len(months))
	for i, m := range months {
		out[i] = MonthCount{Month: m, Count: byMonth[m]}
	}
	return out
}

func FillTotals(months []string, rows []MonthTotal) []MonthTotal {
	byMonth := make(map[string]decimal.Decimal, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = byMonth[r.Month].Add(r.Total)
	}
	out := make([]MonthTotal, len(months))
	for i, m := range months {
		out[i] = MonthTotal{Month: m, Total: byMonth[m]}
	}
	return out
}

// ByWeekday folds per-date counts into Sunday..Saturday. Unparseable dates
// are skipped.
func ByWeekday(rows []DateCount) []WeekdayCount {
	var counts [7]int64
	for _, r := range rows {
		d, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			continue
		}
		counts[d.Weekday()] += r.Count
	}
	out := make([]WeekdayCount, 7)
	for i := range out {
		out[i] = WeekdayCount{Day: time.Weekday(i).String(), Count: counts[i]}
	}
	return out
}

// Percent is part/total as a percentage rounded to two decimals.
func Percent(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}

// Retention is the share of customers active in the previous period who
// came back in the recent one.
func Retention(previous, recent []uint) float64 {
	prev := map[uint]bool{}
	for _, id := range previous {
		prev[id] = true
	}
	back := map[uint]bool{}
	for _, id := range recent {
		if prev[id] {
			back[id] = true
		}
	}
	return Percent(int64(len(back)), int64(len(prev)))
}
