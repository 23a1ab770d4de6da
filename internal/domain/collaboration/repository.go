package collaboration

import (
	"context"

	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

type Repository interface {
	// -------- Page / User --------
	GetPage(ctx context.Context, pageID string) (*models.LawyerPage, error)
	FindUserByCode(ctx context.Context, code string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)

	// -------- Collaboration --------
	FindCollaboration(ctx context.Context, userID, pageID string) (*models.Collaboration, error)
	GetCollaboration(ctx context.Context, id string) (*models.Collaboration, error)
	ListCollaborators(ctx context.Context, pageID string) ([]models.Collaboration, error)
	ListUserCollaborations(ctx context.Context, userID string) ([]models.Collaboration, error)
	UpdateCollaboration(ctx context.Context, c *models.Collaboration) error
	DeleteCollaboration(ctx context.Context, id string) error

	// -------- Invites --------
	CreateInvite(ctx context.Context, inv *models.CollaborationInvite) error
	GetInvite(ctx context.Context, id string) (*models.CollaborationInvite, error)
	HasPendingInvite(ctx context.Context, pageID, targetUserID string) (bool, error)
	ListInvitesForUser(ctx context.Context, userID string) ([]models.CollaborationInvite, error)
	ListInvitesByOwner(ctx context.Context, ownerID string) ([]models.CollaborationInvite, error)
	ListInvitesByPage(ctx context.Context, pageID string) ([]models.CollaborationInvite, error)
	UpdateInvite(ctx context.Context, inv *models.CollaborationInvite) error
	DeleteInvite(ctx context.Context, id string) error

	// AcceptInvite cria a colaboração e atualiza o convite na mesma transação.
	AcceptInvite(ctx context.Context, inv *models.CollaborationInvite, c *models.Collaboration) error
}
