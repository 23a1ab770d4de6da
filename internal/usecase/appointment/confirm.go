package appointment

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/advoga-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/advoga-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/collaboration"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

type ConfirmAppointmentInput struct {
	AppointmentID string
	ActorID       string

	FinalPrice    decimal.Decimal
	VideoCallLink string

	// opcional: outro advogado da página assume o atendimento
	AssignedLawyerID string
}

type ConfirmAppointment struct {
	repo   domain.Repository
	access collaboration.Resolver
	audit  *audit.Dispatcher
}

func NewConfirmAppointment(
	repo domain.Repository,
	access collaboration.Resolver,
	audit *audit.Dispatcher,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		repo:   repo,
		access: access,
		audit:  audit,
	}
}

func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	in ConfirmAppointmentInput,
) (*models.Appointment, error) {

	ap, err := getAppointment(ctx, uc.repo, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	if err := requireManage(ctx, uc.access, ap, in.ActorID); err != nil {
		return nil, err
	}

	if assignee := strings.TrimSpace(in.AssignedLawyerID); assignee != "" {
		a, err := uc.access.Resolve(ctx, assignee, ap.PageID)
		if err != nil {
			return nil, err
		}
		if !a.HasAccess() {
			return nil, httperr.ErrBusiness(domain.ErrInvalidAssignee)
		}
		if assignee != ap.LawyerID {
			ap.AssignedLawyerID = &assignee
		}
	}

	if err := domain.Confirm(ap, in.FinalPrice, in.VideoCallLink); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		PageID:   ap.PageID,
		UserID:   in.ActorID,
		Action:   "appointment_confirmed",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]string{"final_price": ap.FinalPrice.StringFixed(2)},
	})

	return ap, nil
}
