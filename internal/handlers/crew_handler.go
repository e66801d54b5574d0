package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/httpresp"
	"github.com/gardenpro/landscape-api/internal/middleware"
	ucCrew "github.com/gardenpro/landscape-api/internal/usecase/crew"
)

type CrewHandler struct {
	assign    *ucCrew.Assign
	addMember *ucCrew.AddMember
	setLead   *ucCrew.SetLead
	remove    *ucCrew.RemoveMember
	mine      *ucCrew.MyAssignments
	available *ucCrew.AvailableProfessionals
	workload  *ucCrew.Workload
}

func NewCrewHandler(
	assign *ucCrew.Assign,
	addMember *ucCrew.AddMember,
	setLead *ucCrew.SetLead,
	remove *ucCrew.RemoveMember,
	mine *ucCrew.MyAssignments,
	available *ucCrew.AvailableProfessionals,
	workload *ucCrew.Workload,
) *CrewHandler {
	return &CrewHandler{
		assign:    assign,
		addMember: addMember,
		setLead:   setLead,
		remove:    remove,
		mine:      mine,
		available: available,
		workload:  workload,
	}
}

type crewMemberRequest struct {
	UserID uint `json:"userId"`
}

type assignRequest struct {
	UserID *uint `json:"userId"`
	IsLead bool  `json:"isLead"`
}

// POST /appointments/:id/crew
func (h *CrewHandler) AddMember(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req crewMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.addMember.Execute(c.Request.Context(), middleware.Actor(c), id, req.UserID)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.OK(c, res)
}

// DELETE /appointments/:id/crew/:userId
func (h *CrewHandler) RemoveMember(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	if err := h.remove.Execute(c.Request.Context(), middleware.Actor(c), id, userID); err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.Deleted(c)
}

// PUT /appointments/:id/lead
func (h *CrewHandler) SetLead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req crewMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.setLead.Execute(c.Request.Context(), middleware.Actor(c), id, req.UserID)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.OK(c, res)
}

// PUT /professionals/:id/assign/:appointmentId
func (h *CrewHandler) Assign(c *gin.Context) {
	proID, ok := paramID(c, "id")
	if !ok {
		return
	}
	apID, ok := paramID(c, "appointmentId")
	if !ok {
		return
	}

	var req assignRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	res, err := h.assign.Execute(c.Request.Context(), ucCrew.AssignInput{
		Actor:          middleware.Actor(c),
		ProfessionalID: proID,
		AppointmentID:  apID,
		UserID:         req.UserID,
		IsLead:         req.IsLead,
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.OK(c, res)
}

// GET /professionals/me/assignments
func (h *CrewHandler) MyAssignments(c *gin.Context) {
	aps, err := h.mine.Execute(c.Request.Context(), middleware.Actor(c).UserID)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.List(c, aps)
}

// GET /professionals/available?date&startTime&endTime
func (h *CrewHandler) Available(c *gin.Context) {
	pros, err := h.available.Execute(c.Request.Context(), ucCrew.AvailableInput{
		Date:      c.Query("date"),
		StartTime: c.Query("startTime"),
		EndTime:   c.Query("endTime"),
	})
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.List(c, pros)
}

// GET /professionals/:id/workload
func (h *CrewHandler) Workload(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	w, err := h.workload.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Handle(c, err)
		return
	}
	httpresp.OK(c, w)
}
