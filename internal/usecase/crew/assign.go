package crew

import (
	"context"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/domain/access"
	domain "github.com/gardenpro/landscape-api/internal/domain/crew"
	"github.com/gardenpro/landscape-api/internal/httperr"
	"github.com/gardenpro/landscape-api/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type AssignInput struct {
	Actor          access.Actor
	ProfessionalID uint
	AppointmentID  uint

	// UserID overrides the professional's own user.
	UserID *uint
	IsLead bool
}

type AssignResult struct {
	Appointment *models.Appointment     `json:"appointment"`
	Member      *models.AppointmentCrew `json:"member,omitempty"`
}

// ======================================================
// USE CASE
// ======================================================

// Assign places a professional on an appointment, as lead or as crew.
// The conflict check and the insert run in one transaction holding a lock
// on the professional, so two concurrent assignments cannot both pass.
type Assign struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewAssign(repo domain.Repository, audit *audit.Dispatcher) *Assign {
	return &Assign{repo: repo, audit: audit}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *Assign) Execute(ctx context.Context, in AssignInput) (*AssignResult, error) {
	var userID uint
	if in.UserID != nil {
		userID = *in.UserID
	} else {
		pro, err := uc.repo.GetProfessional(ctx, in.ProfessionalID)
		if err != nil {
			return nil, err
		}
		userID = pro.UserID
	}

	if err := assertStaff(ctx, uc.repo, userID); err != nil {
		return nil, err
	}

	var res *AssignResult
	err := uc.repo.Transaction(ctx, func(repo domain.Repository) error {
		var err error
		if in.IsLead {
			res, err = placeLead(ctx, repo, in.AppointmentID, userID)
		} else {
			res, err = placeCrew(ctx, repo, in.AppointmentID, userID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	action := "crew_member_added"
	if in.IsLead {
		action = "lead_professional_set"
	}
	uc.audit.Dispatch(audit.Event{
		UserID:   in.Actor.UserRef(),
		Action:   action,
		Entity:   "appointment",
		EntityID: &in.AppointmentID,
		Metadata: map[string]uint{"professionalUserId": userID},
	})

	return res, nil
}

// AddMember adds userID to the appointment's crew.
type AddMember struct {
	assign *Assign
}

func NewAddMember(repo domain.Repository, audit *audit.Dispatcher) *AddMember {
	return &AddMember{assign: NewAssign(repo, audit)}
}

func (uc *AddMember) Execute(ctx context.Context, actor access.Actor, appointmentID, userID uint) (*AssignResult, error) {
	if userID == 0 {
		return nil, httperr.ErrValidation("Please provide userId")
	}
	return uc.assign.Execute(ctx, AssignInput{Actor: actor, AppointmentID: appointmentID, UserID: &userID})
}

// SetLead makes userID the appointment's lead professional.
type SetLead struct {
	assign *Assign
}

func NewSetLead(repo domain.Repository, audit *audit.Dispatcher) *SetLead {
	return &SetLead{assign: NewAssign(repo, audit)}
}

func (uc *SetLead) Execute(ctx context.Context, actor access.Actor, appointmentID, userID uint) (*AssignResult, error) {
	if userID == 0 {
		return nil, httperr.ErrValidation("Please provide userId")
	}
	return uc.assign.Execute(ctx, AssignInput{Actor: actor, AppointmentID: appointmentID, UserID: &userID, IsLead: true})
}

func assertStaff(ctx context.Context, repo domain.Repository, userID uint) error {
	u, err := repo.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if !u.IsStaff() {
		return httperr.ErrValidation("User must be a professional or admin")
	}
	return nil
}

// checkFree locks the professional and their day, then runs the conflict check.
func checkFree(ctx context.Context, repo domain.Repository, ap *models.Appointment, userID uint) error {
	if err := repo.LockProfessional(ctx, userID); err != nil {
		return err
	}
	assigned, err := repo.ListAssignedOn(ctx, userID, ap.Date, true)
	if err != nil {
		return err
	}
	return domain.CanAssign(ap, assigned)
}

func placeCrew(ctx context.Context, repo domain.Repository, appointmentID, userID uint) (*AssignResult, error) {
	ap, err := repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	member, err := repo.IsCrewMember(ctx, appointmentID, userID)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, httperr.ErrConflict("Professional is already assigned to this appointment")
	}

	if err := checkFree(ctx, repo, ap, userID); err != nil {
		return nil, err
	}

	m := &models.AppointmentCrew{AppointmentID: appointmentID, UserID: userID}
	if err := repo.AddCrewMember(ctx, m); err != nil {
		return nil, err
	}
	ap.Crew = append(ap.Crew, *m)

	return &AssignResult{Appointment: ap, Member: m}, nil
}

// placeLead sets the lead and makes sure the lead is also crew.
func placeLead(ctx context.Context, repo domain.Repository, appointmentID, userID uint) (*AssignResult, error) {
	ap, err := repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := checkFree(ctx, repo, ap, userID); err != nil {
		return nil, err
	}

	if err := repo.SetLead(ctx, appointmentID, &userID); err != nil {
		return nil, err
	}
	ap.LeadProfessionalID = &userID

	res := &AssignResult{Appointment: ap}

	member, err := repo.IsCrewMember(ctx, appointmentID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		m := &models.AppointmentCrew{AppointmentID: appointmentID, UserID: userID}
		if err := repo.AddCrewMember(ctx, m); err != nil {
			return nil, err
		}
		ap.Crew = append(ap.Crew, *m)
		res.Member = m
	}

	return res, nil
}
