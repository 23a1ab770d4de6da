package collaboration

import (
	"context"
	"errors"
	"strings"
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

// ======================================================
// INPUT
// ======================================================

type SendInviteInput struct {
	OwnerID string
	PageID  string

	// um dos dois identifica o convidado; o código tem prioridade
	TargetCode  string
	TargetEmail string

	Role string
}

// ======================================================
// USE CASE
// ======================================================

type SendInvite struct {
	repo   domain.Repository
	notify notifier
	audit  *audit.Dispatcher
	now    func() time.Time
}

func NewSendInvite(
	repo domain.Repository,
	broker events.Broker,
	audit *audit.Dispatcher,
	log zerolog.Logger,
) *SendInvite {
	return &SendInvite{
		repo:   repo,
		notify: notifier{broker: broker, log: log},
		audit:  audit,
		now:    time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *SendInvite) Execute(
	ctx context.Context,
	in SendInviteInput,
) (*models.CollaborationInvite, error) {

	// --------------------------------------------------
	// Papel
	// --------------------------------------------------
	role := domain.Role(strings.TrimSpace(in.Role))
	if !role.Invitable() {
		return nil, httperr.ErrBusiness(domain.ErrInvalidRole)
	}

	// --------------------------------------------------
	// Página + permissão de convite
	// --------------------------------------------------
	page, err := loadPage(ctx, uc.repo, in.PageID)
	if err != nil {
		return nil, err
	}
	if !domain.Resolve(page, in.OwnerID, nil).CanInvite() {
		return nil, httperr.ErrBusiness(domain.ErrForbidden)
	}

	// --------------------------------------------------
	// Convidado
	// --------------------------------------------------
	target, err := uc.findTarget(ctx, in)
	if err != nil {
		return nil, err
	}
	if target.ID == page.OwnerID {
		return nil, httperr.ErrBusiness(domain.ErrSelfInvite)
	}

	if _, err := uc.repo.FindCollaboration(ctx, target.ID, page.ID); err == nil {
		return nil, httperr.ErrBusiness(domain.ErrAlreadyCollaborator)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pending, err := uc.repo.HasPendingInvite(ctx, page.ID, target.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, httperr.ErrBusiness(domain.ErrInvitePending)
	}

	// --------------------------------------------------
	// Criação
	// --------------------------------------------------
	now := uc.now()
	inv := &models.CollaborationInvite{
		ID:           uuid.NewString(),
		PageID:       page.ID,
		OwnerID:      page.OwnerID,
		TargetUserID: target.ID,
		TargetEmail:  target.Email,
		Role:         string(role),
		Status:       string(domain.InvitePending),
		CreatedAt:    now,
	}

	if err := uc.repo.CreateInvite(ctx, inv); err != nil {
		return nil, err
	}

	uc.notify.publish(ctx, events.InviteSent, inv, now)

	uc.audit.Dispatch(audit.Event{
		PageID:   page.ID,
		UserID:   in.OwnerID,
		Action:   "invite_sent",
		Entity:   "collaboration_invite",
		EntityID: inv.ID,
		Metadata: map[string]string{"role": inv.Role, "target_user_id": target.ID},
	})

	return inv, nil
}

func (uc *SendInvite) findTarget(ctx context.Context, in SendInviteInput) (*models.User, error) {
	var (
		user *models.User
		err  error
	)

	switch {
	case strings.TrimSpace(in.TargetCode) != "":
		user, err = uc.repo.FindUserByCode(ctx, strings.TrimSpace(in.TargetCode))
	case strings.TrimSpace(in.TargetEmail) != "":
		user, err = uc.repo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(in.TargetEmail)))
	default:
		return nil, httperr.ErrBusiness(domain.ErrTargetNotFound)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(domain.ErrTargetNotFound)
		}
		return nil, err
	}
	return user, nil
}
