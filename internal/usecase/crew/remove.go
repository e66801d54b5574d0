package crew

import (
	"context"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/domain/access"
	domain "github.com/gardenpro/landscape-api/internal/domain/crew"
)

// RemoveMember takes userID off the crew. Removing the lead clears the lead.
type RemoveMember struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRemoveMember(repo domain.Repository, audit *audit.Dispatcher) *RemoveMember {
	return &RemoveMember{repo: repo, audit: audit}
}

func (uc *RemoveMember) Execute(ctx context.Context, actor access.Actor, appointmentID, userID uint) error {
	err := uc.repo.Transaction(ctx, func(repo domain.Repository) error {
		ap, err := repo.GetAppointment(ctx, appointmentID)
		if err != nil {
			return err
		}
		if err := repo.RemoveCrewMember(ctx, appointmentID, userID); err != nil {
			return err
		}
		if ap.LeadProfessionalID != nil && *ap.LeadProfessionalID == userID {
			return repo.SetLead(ctx, appointmentID, nil)
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   actor.UserRef(),
		Action:   "crew_member_removed",
		Entity:   "appointment",
		EntityID: &appointmentID,
		Metadata: map[string]uint{"professionalUserId": userID},
	})
	return nil
}
