package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/httpresp"
	"github.com/gardenpro/landscape-api/internal/middleware"
	"github.com/gardenpro/landscape-api/internal/models"
	"github.com/gardenpro/landscape-api/internal/query"
	"github.com/gardenpro/landscape-api/internal/report"
	"github.com/gardenpro/landscape-api/internal/timezone"
	ucPayment "github.com/gardenpro/landscape-api/internal/usecase/payment"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PaymentHandler struct {
	db *gorm.DB

	process *ucPayment.ProcessPayment
	manual  *ucPayment.RecordManualPayment
	refund  *ucPayment.RefundPayment
	get     *ucPayment.GetPayment

	now func() time.Time
}

func NewPaymentHandler(
	db *gorm.DB,
	process *ucPayment.ProcessPayment,
	manual *ucPayment.RecordManualPayment,
	refund *ucPayment.RefundPayment,
	get *ucPayment.GetPayment,
) *PaymentHandler {
	return &PaymentHandler{
		db:      db,
		process: process,
		manual:  manual,
		refund:  refund,
		get:     get,
		now:     timezone.Now,
	}
}

var paymentQuery = query.Options{
	Columns: map[string]string{
		"id":            "id",
		"customerId":    "customer_id",
		"appointmentId": "appointment_id",
		"estimateId":    "estimate_id",
		"paymentType":   "payment_type",
		"amount":        "amount",
		"status":        "status",
		"method":        "method",
		"currency":      "currency",
		"createdAt":     "created_at",
	},
	Searchable:  []string{"notes", "gateway_transaction_id"},
	DefaultSort: "-createdAt",
}

// POST /payments/process
func (h *PaymentHandler) Process(c *gin.Context) {
	var in ucPayment.ProcessPaymentInput
	if !bindJSON(c, &in) {
		return
	}
	in.Actor = middleware.Actor(c)

	p, err := h.process.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.Created(c, p)
}

// POST /payments/manual
func (h *PaymentHandler) Manual(c *gin.Context) {
	var in ucPayment.ManualPaymentInput
	if !bindJSON(c, &in) {
		return
	}
	in.Actor = middleware.Actor(c)

	p, err := h.manual.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.Created(c, p)
}

// POST /payments/:id/refund
func (h *PaymentHandler) Refund(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var in ucPayment.RefundInput
	if c.Request.ContentLength != 0 && !bindJSON(c, &in) {
		return
	}
	in.Actor = middleware.Actor(c)
	in.ID = id

	p, err := h.refund.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.OK(c, p)
}

func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	p, err := h.get.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.OK(c, p)
}

// GET /payments (admin)
func (h *PaymentHandler) List(c *gin.Context) {
	p, err := query.Parse(c.Request.URL.Query(), paymentQuery)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	list, page, err := query.Find[models.Payment](c.Request.Context(), h.db, p, "Customer.User")
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.Page(c, list, page)
}

// GET /payments/me
func (h *PaymentHandler) Mine(c *gin.Context) {
	actor := middleware.Actor(c)

	var list []models.Payment
	err := h.db.WithContext(c.Request.Context()).
		Where("customer_id IN (?)", h.db.Model(&models.Customer{}).Select("id").Where("user_id = ?", actor.UserID)).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.List(c, list)
}

// Report exports payments created between from and to (inclusive, business
// dates) as XLSX. The range defaults to the current month.
func (h *PaymentHandler) Report(c *gin.Context) {
	r, ok := parseRange(c, h.now())
	if !ok {
		return
	}
	format, ok := parseFormat(c, formatXLSX)
	if !ok {
		return
	}

	var list []models.Payment
	err := h.db.WithContext(c.Request.Context()).
		Preload("Customer.User").
		Where("created_at >= ? AND created_at < ?", r.Start, r.End.AddDate(0, 0, 1)).
		Order("created_at ASC").
		Find(&list).Error
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	if format == formatJSON {
		httpresp.OK(c, gin.H{
			"from":     r.From,
			"to":       r.To,
			"summary":  report.Summarize(list),
			"payments": list,
		})
		return
	}

	data, err := report.Revenue(list, r.From, r.To)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	sendWorkbook(c, fmt.Sprintf("revenue_%s_%s.xlsx", r.From, r.To), data)
}
