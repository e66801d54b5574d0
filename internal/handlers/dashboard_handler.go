package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gardenpro/landscape-api/internal/domain/appointment"
	"github.com/gardenpro/landscape-api/internal/domain/estimate"
	"github.com/gardenpro/landscape-api/internal/domain/payment"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/httpresp"
	"github.com/gardenpro/landscape-api/internal/models"
	"github.com/gardenpro/landscape-api/internal/report"
	"github.com/gardenpro/landscape-api/internal/timezone"
)

const (
	// netAmount is what a payment kept after refunds.
	netAmount = "payments.amount - payments.refund_amount"

	dashboardMonths = 6
	dashboardLimit  = 5
	topCustomers    = 10
)

// DashboardHandler serves the admin analytics. Revenue counts every
// payment that moved money, net of refunds.
type DashboardHandler struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db, now: timezone.Now}
}

type dashboardCounts struct {
	Appointments  int64 `json:"appointments"`
	Estimates     int64 `json:"estimates"`
	Customers     int64 `json:"customers"`
	Services      int64 `json:"services"`
	Payments      int64 `json:"payments"`
	Users         int64 `json:"users"`
	Professionals int64 `json:"professionals"`
}

type labelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type labelTotal struct {
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}

type topCustomer struct {
	CustomerID   uint            `json:"customerId"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	TotalSpent   decimal.Decimal `json:"totalSpent"`
	PaymentCount int64           `json:"paymentCount"`
}

func (h *DashboardHandler) tz() string {
	return timezone.Business().String()
}

// monthExpr buckets a timestamp column into YYYY-MM in business time.
func (h *DashboardHandler) monthExpr(col string) string {
	return "to_char(" + col + " AT TIME ZONE '" + h.tz() + "', 'YYYY-MM')"
}

func moneyMoved(db *gorm.DB) *gorm.DB {
	return db.Where("payments.status <> ?", string(payment.StatusPending))
}

// Stats is the landing page summary.
func (h *DashboardHandler) Stats(c *gin.Context) {
	db := h.db.WithContext(c.Request.Context())
	now := h.now().In(timezone.Business())
	today := now.Format("2006-01-02")

	var counts dashboardCounts
	for _, q := range []struct {
		model any
		dst   *int64
	}{
		{&models.Appointment{}, &counts.Appointments},
		{&models.Estimate{}, &counts.Estimates},
		{&models.Customer{}, &counts.Customers},
		{&models.Service{}, &counts.Services},
		{&models.Payment{}, &counts.Payments},
		{&models.User{}, &counts.Users},
		{&models.Professional{}, &counts.Professionals},
	} {
		if err := db.Model(q.model).Count(q.dst).Error; err != nil {
			httperr.Handle(c, err)
			return
		}
	}

	var upcoming []models.Appointment
	err := db.Preload("Customer.User").Preload("Service").
		Where("date BETWEEN ? AND ?", today, now.AddDate(0, 0, 7).Format("2006-01-02")).
		Where("status <> ?", string(appointment.StatusCancelled)).
		Order("date ASC, start_time ASC").
		Limit(dashboardLimit).
		Find(&upcoming).Error
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	var pending []models.Estimate
	err = db.Preload("Customer.User").
		Where("status IN ?", []string{string(estimate.StatusRequested), string(estimate.StatusInReview)}).
		Order("created_at DESC").
		Limit(dashboardLimit).
		Find(&pending).Error
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	var recent []models.Payment
	if err := db.Preload("Customer.User").Order("created_at DESC").Limit(dashboardLimit).Find(&recent).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	months := report.Months(now, dashboardMonths)
	since := firstOfMonth(months[0], now.Location())

	revenue, err := h.revenueByMonth(db, since)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	var booked []report.MonthCount
	err = db.Model(&models.Appointment{}).
		Select("substr(date, 1, 7) AS month, COUNT(*) AS count").
		Where("date >= ?", since.Format("2006-01-02")).
		Group("month").
		Scan(&booked).Error
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	var byService []labelCount
	err = db.Model(&models.Appointment{}).
		Select("services.name AS label, COUNT(*) AS count").
		Joins("JOIN services ON services.id = appointments.service_id").
		Group("services.name").
		Order("count DESC").
		Scan(&byService).Error
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"counts":               counts,
		"upcomingAppointments": upcoming,
		"pendingEstimates":     pending,
		"recentPayments":       recent,
		"monthlyRevenue":       report.FillTotals(months, revenue),
		"appointmentsByMonth":  report.FillCounts(months, booked),
		"serviceDistribution":  byService,
	})
}

func (h *DashboardHandler) Appointments(c *gin.Context) {
	db := h.db.WithContext(c.Request.Context())

	var byStatus []labelCount
	err := db.Model(&models.Appointment{}).
		Select("status AS label, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&byStatus).Error
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	var byDate []report.DateCount
	if err := db.Model(&models.Appointment{}).Select("date, COUNT(*) AS count").Group("date").Scan(&byDate).Error; err != nil {
		httperr.Handle(c, err)
		return
	}

	var total, completed int64
	for _, s := range byStatus {
		total += s.Count
		if s.Label == string(appointment.StatusCompleted) {
			completed = s.Count
		}
	}

	httpresp.OK(c, gin.H{
		"appointmentsByStatus":    byStatus,
		"appointmentsByDayOfWeek": report.ByWeekday(byDate),
		"completionRate":          report.Percent(completed, total),
	})
}

func (h *DashboardHandler) Revenue(c *gin.Context) {
	db := h.db.WithContext(c.Request.Context())
	now := h.now().In(timezone.Business())

	var total decimal.Decimal
	err := moneyMoved(db.Model(&models.Payment{})).
		Select("COALESCE(SUM(" + netAmount + "), 0)").
		Scan(&total).Error
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	// Payments not tied to an appointment are estimate deposits and the like.
	var byCategory []labelTotal
	err = moneyMoved(db.Model(&models.Payment{})).
		Select("COALESCE(services.category, 'Other') AS label, SUM(" + netAmount + ") AS total").
		Joins("LEFT JOIN appointments ON appointments.id = payments.appointment_id").
		Joins("LEFT JOIN services ON services.id = appointments.service_id").
		Group("label").
		Order("total DESC").
		Scan(&byCategory).Error
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	months := report.YearToDate(now)
	byMonth, err := h.revenueByMonth(db, firstOfMonth(months[0], now.Location()))
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"totalRevenue":             total,
		"revenueByServiceCategory": byCategory,
		"revenueByMonth":           report.FillTotals(months, byMonth),
	})
}

func (h *DashboardHandler) Customers(c *gin.Context) {
	db := h.db.WithContext(c.Request.Context())
	now := h.now().In(timezone.Business())

	months := report.Months(now, dashboardMonths)
	var growth []report.MonthCount
	err := db.Model(&models.Customer{}).
		Select(h.monthExpr("created_at")+" AS month, COUNT(*) AS count").
		Where("created_at >= ?", firstOfMonth(months[0], now.Location())).
		Group("month").
		Scan(&growth).Error
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	var top []topCustomer
	err = moneyMoved(db.Model(&models.Payment{})).
		Select("payments.customer_id, users.name, users.email, SUM(" + netAmount + ") AS total_spent, COUNT(*) AS payment_count").
		Joins("JOIN customers ON customers.id = payments.customer_id").
		Joins("JOIN users ON users.id = customers.user_id").
		Group("payments.customer_id, users.name, users.email").
		Order("total_spent DESC").
		Limit(topCustomers).
		Scan(&top).Error
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	today := now.Format("2006-01-02")
	thirty := now.AddDate(0, 0, -30).Format("2006-01-02")
	sixty := now.AddDate(0, 0, -60).Format("2006-01-02")

	var recent, previous []uint
	if err := h.activeCustomers(db, thirty, today, &recent); err != nil {
		httperr.Handle(c, err)
		return
	}
	if err := h.activeCustomers(db, sixty, thirty, &previous); err != nil {
		httperr.Handle(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"customerGrowth": report.FillCounts(months, growth),
		"topCustomers":   top,
		"retentionRate":  report.Retention(previous, recent),
	})
}

// activeCustomers collects customers with a non-cancelled appointment on a
// date in [from, to).
func (h *DashboardHandler) activeCustomers(db *gorm.DB, from, to string, dst *[]uint) error {
	return db.Model(&models.Appointment{}).
		Distinct("customer_id").
		Where("date >= ? AND date < ? AND status <> ?", from, to, string(appointment.StatusCancelled)).
		Pluck("customer_id", dst).Error
}

func (h *DashboardHandler) revenueByMonth(db *gorm.DB, since time.Time) ([]report.MonthTotal, error) {
	var rows []report.MonthTotal
	err := moneyMoved(db.Model(&models.Payment{})).
		Select(h.monthExpr("payments.created_at")+" AS month, SUM("+netAmount+") AS total").
		Where("payments.created_at >= ?", since).
		Group("month").
		Scan(&rows).Error
	return rows, err
}

func firstOfMonth(month string, loc *time.Location) time.Time {
	t, _ := time.ParseInLocation("2006-01", month, loc)
	return t
}
