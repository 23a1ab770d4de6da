package collaboration

import (
	"time"

	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteDeclined InviteStatus = "declined"
)

// ===============================
// Error codes
// ===============================

const (
	ErrPageNotFound          = "page_not_found"
	ErrForbidden             = "forbidden"
	ErrInvalidRole           = "invalid_role"
	ErrTargetNotFound        = "target_user_not_found"
	ErrSelfInvite            = "self_invite"
	ErrAlreadyCollaborator   = "already_collaborator"
	ErrInvitePending         = "invite_already_pending"
	ErrInviteNotFound        = "invite_not_found"
	ErrInviteNotPending      = "invite_not_pending"
	ErrCollaborationNotFound = "collaboration_not_found"
)

func respond(inv *models.CollaborationInvite, userID string, status InviteStatus, now time.Time) error {
	if inv.TargetUserID != userID {
		return httperr.ErrBusiness(ErrForbidden)
	}
	if InviteStatus(inv.Status) != InvitePending {
		return httperr.ErrBusiness(ErrInviteNotPending)
	}

	inv.Status = string(status)
	inv.RespondedAt = &now
	return nil
}

// Accept marca o convite e devolve a colaboração a ser criada.
func Accept(inv *models.CollaborationInvite, userID, collabID string, now time.Time) (*models.Collaboration, error) {
	if err := respond(inv, userID, InviteAccepted, now); err != nil {
		return nil, err
	}

	role := Role(inv.Role)
	return &models.Collaboration{
		ID:          collabID,
		PageID:      inv.PageID,
		UserID:      userID,
		Role:        string(role),
		Permissions: PermissionStrings(role),
		InvitedBy:   inv.OwnerID,
	}, nil
}

func Decline(inv *models.CollaborationInvite, userID string, now time.Time) error {
	return respond(inv, userID, InviteDeclined, now)
}

// ChangeRole mantém permissions sempre igual à tabela do papel.
func ChangeRole(c *models.Collaboration, role Role) error {
	if !role.Invitable() {
		return httperr.ErrBusiness(ErrInvalidRole)
	}
	c.Role = string(role)
	c.Permissions = PermissionStrings(role)
	return nil
}
