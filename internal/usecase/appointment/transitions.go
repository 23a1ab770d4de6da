package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/advoga-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/advoga-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/collaboration"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

// ======================================================
// ACKNOWLEDGE (paid → confirmed)
// ======================================================

type AcknowledgeAppointment struct {
	repo   domain.Repository
	access collaboration.Resolver
	audit  *audit.Dispatcher
}

func NewAcknowledgeAppointment(
	repo domain.Repository,
	access collaboration.Resolver,
	audit *audit.Dispatcher,
) *AcknowledgeAppointment {
	return &AcknowledgeAppointment{repo: repo, access: access, audit: audit}
}

func (uc *AcknowledgeAppointment) Execute(
	ctx context.Context,
	actorID string,
	appointmentID string,
) (*models.Appointment, error) {

	ap, err := getAppointment(ctx, uc.repo, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := requireManage(ctx, uc.access, ap, actorID); err != nil {
		return nil, err
	}

	if err := domain.Acknowledge(ap); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		PageID:   ap.PageID,
		UserID:   actorID,
		Action:   "appointment_acknowledged",
		Entity:   "appointment",
		EntityID: ap.ID,
	})

	return ap, nil
}

// ======================================================
// CANCEL
// ======================================================

type CancelAppointment struct {
	repo   domain.Repository
	access collaboration.Resolver
	audit  *audit.Dispatcher
	now    func() time.Time
}

func NewCancelAppointment(
	repo domain.Repository,
	access collaboration.Resolver,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:   repo,
		access: access,
		audit:  audit,
		now:    time.Now,
	}
}

// Execute: qualquer das partes cancela um agendamento não terminal.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	actorID string,
	appointmentID string,
	reason string,
) (*models.Appointment, error) {

	ap, err := getAppointment(ctx, uc.repo, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := requireParty(ctx, uc.access, ap, actorID); err != nil {
		return nil, err
	}

	if err := domain.Cancel(ap, actorID, reason, uc.now()); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		PageID:   ap.PageID,
		UserID:   actorID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]string{"reason": ap.CancelReason},
	})

	return ap, nil
}

// ======================================================
// FINALIZE
// ======================================================

type FinalizeAppointment struct {
	repo   domain.Repository
	access collaboration.Resolver
	audit  *audit.Dispatcher
	now    func() time.Time
}

func NewFinalizeAppointment(
	repo domain.Repository,
	access collaboration.Resolver,
	audit *audit.Dispatcher,
) *FinalizeAppointment {
	return &FinalizeAppointment{
		repo:   repo,
		access: access,
		audit:  audit,
		now:    time.Now,
	}
}

func (uc *FinalizeAppointment) Execute(
	ctx context.Context,
	actorID string,
	appointmentID string,
) (*models.Appointment, error) {

	ap, err := getAppointment(ctx, uc.repo, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := requireParty(ctx, uc.access, ap, actorID); err != nil {
		return nil, err
	}

	if err := domain.Finalize(ap, actorID, uc.now()); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		PageID:   ap.PageID,
		UserID:   actorID,
		Action:   "appointment_finalized",
		Entity:   "appointment",
		EntityID: ap.ID,
	})

	return ap, nil
}
