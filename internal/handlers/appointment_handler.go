package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	domain "github.com/gardenpro/landscape-api/internal/domain/appointment"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/httpresp"
	"github.com/gardenpro/landscape-api/internal/middleware"
	"github.com/gardenpro/landscape-api/internal/models"
	"github.com/gardenpro/landscape-api/internal/query"
	ucAppointment "github.com/gardenpro/landscape-api/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db *gorm.DB

	availability *ucAppointment.GetAvailability
	calendar     *ucAppointment.Calendar
	create       *ucAppointment.CreateAppointment
	get          *ucAppointment.GetAppointment
	update       *ucAppointment.UpdateAppointment
	delete       *ucAppointment.DeleteAppointment
	reschedule   *ucAppointment.RequestReschedule
	photos       *ucAppointment.UploadPhotos

	maxUpload int64
}

type AppointmentUseCases struct {
	Availability *ucAppointment.GetAvailability
	Calendar     *ucAppointment.Calendar
	Create       *ucAppointment.CreateAppointment
	Get          *ucAppointment.GetAppointment
	Update       *ucAppointment.UpdateAppointment
	Delete       *ucAppointment.DeleteAppointment
	Reschedule   *ucAppointment.RequestReschedule
	Photos       *ucAppointment.UploadPhotos
}

func NewAppointmentHandler(db *gorm.DB, uc AppointmentUseCases, maxUpload int64) *AppointmentHandler {
	return &AppointmentHandler{
		db:           db,
		availability: uc.Availability,
		calendar:     uc.Calendar,
		create:       uc.Create,
		get:          uc.Get,
		update:       uc.Update,
		delete:       uc.Delete,
		reschedule:   uc.Reschedule,
		photos:       uc.Photos,
		maxUpload:    maxUpload,
	}
}

var appointmentQuery = query.Options{
	Columns: map[string]string{
		"id":                 "id",
		"customerId":         "customer_id",
		"serviceId":          "service_id",
		"date":               "date",
		"startTime":          "start_time",
		"endTime":            "end_time",
		"status":             "status",
		"paymentStatus":      "payment_status",
		"leadProfessionalId": "lead_professional_id",
		"price":              "price",
		"createdAt":          "created_at",
	},
	Searchable:  []string{"notes"},
	DefaultSort: "date,startTime",
}

var appointmentPreloads = []string{"Customer.User", "Service", "LeadProfessional", "Crew.User"}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	CustomerID *uint            `json:"customerId"`
	ServiceID  uint             `json:"serviceId"`
	Date       string           `json:"date"`
	StartTime  string           `json:"startTime"`
	EndTime    string           `json:"endTime"`
	Notes      string           `json:"notes"`
	Price      *decimal.Decimal `json:"price"`
}

type UpdateAppointmentRequest struct {
	Date      *string          `json:"date"`
	StartTime *string          `json:"startTime"`
	EndTime   *string          `json:"endTime"`
	Status    *string          `json:"status"`
	ServiceID *uint            `json:"serviceId"`
	Notes     *string          `json:"notes"`
	Price     *decimal.Decimal `json:"price"`
}

type RescheduleRequest struct {
	RequestedDate string `json:"requestedDate"`
	RequestedTime string `json:"requestedTime"`
	Reason        string `json:"reason"`
}

// ======================================================
// AVAILABILITY / CALENDAR
// ======================================================

// GET /appointments/availability?date&serviceId
func (h *AppointmentHandler) Availability(c *gin.Context) {
	var serviceID uint
	if raw := c.Query("serviceId"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "Invalid serviceId")
			return
		}
		serviceID = uint(n)
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		Date:      c.Query("date"),
		ServiceID: serviceID,
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.List(c, slots)
}

// GET /appointments/calendar?start&end
func (h *AppointmentHandler) Calendar(c *gin.Context) {
	events, err := h.calendar.Execute(c.Request.Context(), ucAppointment.CalendarInput{
		Actor: middleware.Actor(c),
		Start: c.Query("start"),
		End:   c.Query("end"),
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.List(c, events)
}

// ======================================================
// CRUD
// ======================================================

// List scopes the query to the caller: customers see their own
// appointments, professionals the ones they lead or crew.
func (h *AppointmentHandler) List(c *gin.Context) {
	p, err := query.Parse(c.Request.URL.Query(), appointmentQuery)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	actor := middleware.Actor(c)
	db := h.db
	switch actor.Role {
	case models.RoleCustomer:
		db = db.Where("customer_id IN (?)",
			h.db.Model(&models.Customer{}).Select("id").Where("user_id = ?", actor.UserID))
	case models.RoleProfessional:
		db = db.Where("(lead_professional_id = ? OR id IN (?))", actor.UserID,
			h.db.Model(&models.AppointmentCrew{}).Select("appointment_id").Where("user_id = ?", actor.UserID))
	}

	aps, page, err := query.Find[models.Appointment](c.Request.Context(), db, p, appointmentPreloads...)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.Page(c, aps, page)
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		Actor:      middleware.Actor(c),
		CustomerID: req.CustomerID,
		ServiceID:  req.ServiceID,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Notes:      req.Notes,
		Price:      req.Price,
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.Created(c, ap)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ap, err := h.get.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.OK(c, ap)
}

// Update passes the set of body keys along so the customer allow-list is
// checked against what was sent, not against what decoded to non-nil.
func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(bytes.TrimSpace(body)) == 0 {
		httperr.BadRequest(c, "Request body is required")
		return
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		httperr.BadRequest(c, "Invalid request body")
		return
	}
	var req UpdateAppointmentRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httperr.BadRequest(c, "Invalid request body")
		return
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ap, err := h.update.Execute(c.Request.Context(), ucAppointment.UpdateAppointmentInput{
		Actor:     middleware.Actor(c),
		ID:        id,
		Keys:      keys,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    req.Status,
		ServiceID: req.ServiceID,
		Notes:     req.Notes,
		Price:     req.Price,
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.delete.Execute(c.Request.Context(), middleware.Actor(c), id); err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.Deleted(c)
}

// ======================================================
// RESCHEDULE / PHOTOS
// ======================================================

func (h *AppointmentHandler) RequestReschedule(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req RescheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	ap, err := h.reschedule.Execute(c.Request.Context(), ucAppointment.RescheduleRequestInput{
		Actor:         middleware.Actor(c),
		ID:            id,
		RequestedDate: req.RequestedDate,
		RequestedTime: req.RequestedTime,
		Reason:        req.Reason,
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.OK(c, ap)
}

// POST /appointments/:id/photos, multipart photos[] + photoType.
func (h *AppointmentHandler) UploadPhotos(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	files, err := formUploads(c, "photos", h.maxUpload)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	photos, err := h.photos.Execute(c.Request.Context(), ucAppointment.UploadPhotosInput{
		Actor:     middleware.Actor(c),
		ID:        id,
		PhotoType: c.PostForm("photoType"),
		Files:     files,
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.List(c, photos)
}
