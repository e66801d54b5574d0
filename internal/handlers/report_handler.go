package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gardenpro/landscape-api/internal/domain/appointment"
	"github.com/gardenpro/landscape-api/internal/domain/schedule"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/httpresp"
	"github.com/gardenpro/landscape-api/internal/models"
	"github.com/gardenpro/landscape-api/internal/report"
	"github.com/gardenpro/landscape-api/internal/timezone"
)

const (
	formatJSON = "json"
	formatXLSX = "xlsx"

	defaultCustomerReportLimit = 50
)

type ReportHandler struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{db: db, now: timezone.Now}
}

// dateRange is an inclusive span of business days.
type dateRange struct {
	From, To   string
	Start, End time.Time
}

// parseRange reads from/to (or startDate/endDate), defaulting to the month
// of now up to today. It writes the 400 itself.
func parseRange(c *gin.Context, now time.Time) (dateRange, bool) {
	loc := timezone.Business()
	now = now.In(loc)

	r := dateRange{
		From: firstQuery(c, time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).Format(schedule.DateLayout), "from", "startDate"),
		To:   firstQuery(c, now.Format(schedule.DateLayout), "to", "endDate"),
	}

	var err error
	if r.Start, err = schedule.ParseDate(r.From, loc); err != nil {
		httperr.BadRequest(c, "Invalid from date")
		return r, false
	}
	if r.End, err = schedule.ParseDate(r.To, loc); err != nil {
		httperr.BadRequest(c, "Invalid to date")
		return r, false
	}
	if r.End.Before(r.Start) {
		httperr.BadRequest(c, "from must not be after to")
		return r, false
	}
	return r, true
}

func firstQuery(c *gin.Context, def string, keys ...string) string {
	for _, k := range keys {
		if v := c.Query(k); v != "" {
			return v
		}
	}
	return def
}

// parseFormat accepts json or xlsx.
func parseFormat(c *gin.Context, def string) (string, bool) {
	switch f := c.DefaultQuery("format", def); f {
	case formatJSON, formatXLSX:
		return f, true
	default:
		httperr.BadRequest(c, "format must be json or xlsx")
		return "", false
	}
}

func sendWorkbook(c *gin.Context, name string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// Appointments reports the appointments dated within the range, optionally
// of one status.
func (h *ReportHandler) Appointments(c *gin.Context) {
	r, ok := parseRange(c, h.now())
	if !ok {
		return
	}
	format, ok := parseFormat(c, formatJSON)
	if !ok {
		return
	}

	var status appointment.Status
	if s := c.Query("status"); s != "" {
		st, err := appointment.ParseStatus(s)
		if err != nil {
			httperr.Handle(c, err)
			return
		}
		status = st
	}

	q := h.db.WithContext(c.Request.Context()).
		Preload("Customer.User").Preload("Service").
		Where("date BETWEEN ? AND ?", r.Start.Format(schedule.DateLayout), r.End.Format(schedule.DateLayout))
	if status != "" {
		q = q.Where("status = ?", string(status))
	}

	var list []models.Appointment
	if err := q.Order("date ASC, start_time ASC").Find(&list).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	if format == formatJSON {
		httpresp.OK(c, gin.H{
			"from":         r.From,
			"to":           r.To,
			"summary":      report.SummarizeAppointments(list),
			"appointments": list,
		})
		return
	}

	data, err := report.Appointments(list, r.From, r.To)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	sendWorkbook(c, fmt.Sprintf("appointments_%s_%s.xlsx", r.From, r.To), data)
}

type customerStats struct {
	CustomerID uint
	Total      int64
	Completed  int64
}

type customerSpend struct {
	CustomerID uint
	Spent      decimal.Decimal
	Payments   int64
}

// Customers reports every customer with their appointment and payment
// totals, sorted by sort (recent, revenue or appointments).
func (h *ReportHandler) Customers(c *gin.Context) {
	format, ok := parseFormat(c, formatJSON)
	if !ok {
		return
	}

	sortBy := c.DefaultQuery("sort", report.SortRecent)
	switch sortBy {
	case report.SortRecent, report.SortRevenue, report.SortAppointments:
	default:
		httperr.BadRequest(c, "sort must be recent, revenue or appointments")
		return
	}

	limit := defaultCustomerReportLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			httperr.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = n
	}

	rows, err := h.customerRows(h.db.WithContext(c.Request.Context()))
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	rows = report.SortCustomers(rows, sortBy, limit)

	if format == formatJSON {
		httpresp.List(c, rows)
		return
	}

	data, err := report.Customers(rows)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	sendWorkbook(c, fmt.Sprintf("customers_%s.xlsx", h.now().In(timezone.Business()).Format(schedule.DateLayout)), data)
}

func (h *ReportHandler) customerRows(db *gorm.DB) ([]report.CustomerRow, error) {
	var customers []models.Customer
	if err := db.Preload("User").Find(&customers).Error; err != nil {
		return nil, err
	}

	var stats []customerStats
	err := db.Model(&models.Appointment{}).
		Select("customer_id, COUNT(*) AS total, COUNT(*) FILTER (WHERE status = ?) AS completed", string(appointment.StatusCompleted)).
		Group("customer_id").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	var spend []customerSpend
	err = moneyMoved(db.Model(&models.Payment{})).
		Select("payments.customer_id, SUM(" + netAmount + ") AS spent, COUNT(*) AS payments").
		Group("payments.customer_id").
		Scan(&spend).Error
	if err != nil {
		return nil, err
	}

	byAppt := make(map[uint]customerStats, len(stats))
	for _, s := range stats {
		byAppt[s.CustomerID] = s
	}
	bySpend := make(map[uint]customerSpend, len(spend))
	for _, s := range spend {
		bySpend[s.CustomerID] = s
	}

	rows := make([]report.CustomerRow, 0, len(customers))
	for i := range customers {
		cu := &customers[i]
		row := report.CustomerRow{
			ID:                    cu.ID,
			Name:                  cu.Name(),
			Email:                 cu.Email(),
			CustomerSince:         cu.CreatedAt,
			TotalAppointments:     byAppt[cu.ID].Total,
			CompletedAppointments: byAppt[cu.ID].Completed,
			TotalSpent:            bySpend[cu.ID].Spent,
			PaymentCount:          bySpend[cu.ID].Payments,
		}
		if cu.User != nil {
			row.Phone = cu.User.Phone
		}
		rows = append(rows, row)
	}
	return rows, nil
}
