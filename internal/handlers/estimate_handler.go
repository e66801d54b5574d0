package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/httpresp"
	"github.com/gardenpro/landscape-api/internal/middleware"
	"github.com/gardenpro/landscape-api/internal/models"
	"github.com/gardenpro/landscape-api/internal/query"
	ucEstimate "github.com/gardenpro/landscape-api/internal/usecase/estimate"
)

type EstimateHandler struct {
	db *gorm.DB

	create  *ucEstimate.CreateEstimate
	update  *ucEstimate.UpdateEstimate
	delete  *ucEstimate.DeleteEstimate
	get     *ucEstimate.GetEstimate
	mine    *ucEstimate.ListMyEstimates
	approve *ucEstimate.ApproveEstimate
	decline *ucEstimate.DeclineEstimate
	photos  *ucEstimate.UploadPhotos

	maxUpload int64
}

type EstimateUseCases struct {
	Create  *ucEstimate.CreateEstimate
	Update  *ucEstimate.UpdateEstimate
	Delete  *ucEstimate.DeleteEstimate
	Get     *ucEstimate.GetEstimate
	Mine    *ucEstimate.ListMyEstimates
	Approve *ucEstimate.ApproveEstimate
	Decline *ucEstimate.DeclineEstimate
	Photos  *ucEstimate.UploadPhotos
}

func NewEstimateHandler(db *gorm.DB, uc EstimateUseCases, maxUpload int64) *EstimateHandler {
	return &EstimateHandler{
		db:        db,
		create:    uc.Create,
		update:    uc.Update,
		delete:    uc.Delete,
		get:       uc.Get,
		mine:      uc.Mine,
		approve:   uc.Approve,
		decline:   uc.Decline,
		photos:    uc.Photos,
		maxUpload: maxUpload,
	}
}

var estimateQuery = query.Options{
	Columns: map[string]string{
		"id":              "id",
		"estimateNumber":  "estimate_number",
		"customerId":      "customer_id",
		"status":          "status",
		"approvedPackage": "approved_package",
		"expiryDate":      "expiry_date",
		"assignedToId":    "assigned_to_id",
		"propertyCity":    "property_city",
		"budgetMin":       "budget_min",
		"budgetMax":       "budget_max",
		"createdAt":       "created_at",
	},
	Searchable:  []string{"estimate_number", "property_street", "property_city", "customer_notes"},
	DefaultSort: "-createdAt",
}

// approvedPackage is the older name of packageName and is still accepted.
type approveRequest struct {
	PackageName     string `json:"packageName"`
	ApprovedPackage string `json:"approvedPackage"`
}

func (r approveRequest) name() string {
	if r.PackageName != "" {
		return r.PackageName
	}
	return r.ApprovedPackage
}

// GET /estimates (admin)
func (h *EstimateHandler) List(c *gin.Context) {
	p, err := query.Parse(c.Request.URL.Query(), estimateQuery)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	estimates, page, err := query.Find[models.Estimate](c.Request.Context(), h.db, p, "Customer.User", "Packages")
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.Page(c, estimates, page)
}

// Create serves both POST /estimates (admin) and POST /estimates/request
// (customer); the use case narrows what a customer may set.
func (h *EstimateHandler) Create(c *gin.Context) {
	var in ucEstimate.CreateEstimateInput
	if !bindJSON(c, &in) {
		return
	}
	in.Actor = middleware.Actor(c)

	e, err := h.create.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.Created(c, e)
}

func (h *EstimateHandler) Mine(c *gin.Context) {
	list, err := h.mine.Execute(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *EstimateHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	e, err := h.get.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.OK(c, e)
}

func (h *EstimateHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var in ucEstimate.UpdateEstimateInput
	if !bindJSON(c, &in) {
		return
	}
	in.Actor = middleware.Actor(c)
	in.ID = id

	e, err := h.update.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.OK(c, e)
}

func (h *EstimateHandler) Delete(c *gin.Context) {
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

// PUT /estimates/:id/approve {packageName}
func (h *EstimateHandler) Approve(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req approveRequest
	if !bindJSON(c, &req) {
		return
	}

	e, err := h.approve.Execute(c.Request.Context(), middleware.Actor(c), id, req.name())
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.OK(c, e)
}

func (h *EstimateHandler) Decline(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	e, err := h.decline.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.OK(c, e)
}

// POST /estimates/:id/photos, multipart photos[] + category + caption.
func (h *EstimateHandler) UploadPhotos(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	files, err := formUploads(c, "photos", h.maxUpload)
	if err != nil {
		httperr.Handle(c, err)
		return
	}

	photos, err := h.photos.Execute(c.Request.Context(), ucEstimate.UploadPhotosInput{
		Actor:    middleware.Actor(c),
		ID:       id,
		Category: c.PostForm("category"),
		Caption:  c.PostForm("caption"),
		Files:    files,
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.List(c, photos)
}
