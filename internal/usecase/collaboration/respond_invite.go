package collaboration

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/advoga-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/advoga-scheduler/internal/domain/collaboration"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/infra/events"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

func getInvite(ctx context.Context, repo domain.Repository, inviteID string) (*models.CollaborationInvite, error) {
	inv, err := repo.GetInvite(ctx, inviteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(domain.ErrInviteNotFound)
		}
		return nil, err
	}
	return inv, nil
}

// ======================================================
// ACCEPT
// ======================================================

type AcceptInvite struct {
	repo   domain.Repository
	notify notifier
	audit  *audit.Dispatcher
	now    func() time.Time
}

func NewAcceptInvite(
	repo domain.Repository,
	broker events.Broker,
	audit *audit.Dispatcher,
	log zerolog.Logger,
) *AcceptInvite {
	return &AcceptInvite{
		repo:   repo,
		notify: notifier{broker: broker, log: log},
		audit:  audit,
		now:    time.Now,
	}
}

// Execute cria a colaboração e fecha o convite numa única escrita do repositório.
func (uc *AcceptInvite) Execute(
	ctx context.Context,
	userID string,
	inviteID string,
) (*models.Collaboration, error) {

	inv, err := getInvite(ctx, uc.repo, inviteID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.FindCollaboration(ctx, userID, inv.PageID); err == nil {
		return nil, httperr.ErrBusiness(domain.ErrAlreadyCollaborator)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := uc.now()
	collab, err := domain.Accept(inv, userID, uuid.NewString(), now)
	if err != nil {
		return nil, err
	}
	collab.CreatedAt = now

	if err := uc.repo.AcceptInvite(ctx, inv, collab); err != nil {
		return nil, err
	}

	uc.notify.publish(ctx, events.InviteAccepted, inv, now)

	uc.audit.Dispatch(audit.Event{
		PageID:   inv.PageID,
		UserID:   userID,
		Action:   "invite_accepted",
		Entity:   "collaboration",
		EntityID: collab.ID,
		Metadata: map[string]string{"role": collab.Role, "invite_id": inv.ID},
	})

	return collab, nil
}

// ======================================================
// DECLINE
// ======================================================

type DeclineInvite struct {
	repo   domain.Repository
	notify notifier
	audit  *audit.Dispatcher
	now    func() time.Time
}

func NewDeclineInvite(
	repo domain.Repository,
	broker events.Broker,
	audit *audit.Dispatcher,
	log zerolog.Logger,
) *DeclineInvite {
	return &DeclineInvite{
		repo:   repo,
		notify: notifier{broker: broker, log: log},
		audit:  audit,
		now:    time.Now,
	}
}

func (uc *DeclineInvite) Execute(
	ctx context.Context,
	userID string,
	inviteID string,
) (*models.CollaborationInvite, error) {

	inv, err := getInvite(ctx, uc.repo, inviteID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	if err := domain.Decline(inv, userID, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateInvite(ctx, inv); err != nil {
		return nil, err
	}

	uc.notify.publish(ctx, events.InviteDeclined, inv, now)

	uc.audit.Dispatch(audit.Event{
		PageID:   inv.PageID,
		UserID:   userID,
		Action:   "invite_declined",
		Entity:   "collaboration_invite",
		EntityID: inv.ID,
	})

	return inv, nil
}

// ======================================================
// DELETE
// ======================================================

type DeleteInvite struct {
	repo   domain.Repository
	notify notifier
	audit  *audit.Dispatcher
	now    func() time.Time
}

func NewDeleteInvite(
	repo domain.Repository,
	broker events.Broker,
	audit *audit.Dispatcher,
	log zerolog.Logger,
) *DeleteInvite {
	return &DeleteInvite{
		repo:   repo,
		notify: notifier{broker: broker, log: log},
		audit:  audit,
		now:    time.Now,
	}
}

// Execute: o dono apaga um convite enviado em qualquer status.
func (uc *DeleteInvite) Execute(
	ctx context.Context,
	ownerID string,
	inviteID string,
) error {

	inv, err := getInvite(ctx, uc.repo, inviteID)
	if err != nil {
		return err
	}
	if inv.OwnerID != ownerID {
		return httperr.ErrBusiness(domain.ErrForbidden)
	}

	if err := uc.repo.DeleteInvite(ctx, inv.ID); err != nil {
		return err
	}

	uc.notify.publish(ctx, events.InviteDeleted, inv, uc.now())

	uc.audit.Dispatch(audit.Event{
		PageID:   inv.PageID,
		UserID:   ownerID,
		Action:   "invite_deleted",
		Entity:   "collaboration_invite",
		EntityID: inv.ID,
	})

	return nil
}
