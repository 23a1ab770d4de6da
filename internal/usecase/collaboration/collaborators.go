package collaboration

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/advoga-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/advoga-scheduler/internal/domain/collaboration"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

func getPageCollaboration(
	ctx context.Context,
	repo domain.Repository,
	pageID string,
	collabID string,
) (*models.Collaboration, error) {

	c, err := repo.GetCollaboration(ctx, collabID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(domain.ErrCollaborationNotFound)
		}
		return nil, err
	}
	if c.PageID != pageID {
		return nil, httperr.ErrBusiness(domain.ErrCollaborationNotFound)
	}
	return c, nil
}

// ======================================================
// CHANGE ROLE
// ======================================================

type ChangeRole struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewChangeRole(repo domain.Repository, audit *audit.Dispatcher) *ChangeRole {
	return &ChangeRole{repo: repo, audit: audit}
}

// Execute vale na próxima resolução de permissões do colaborador.
func (uc *ChangeRole) Execute(
	ctx context.Context,
	ownerID string,
	pageID string,
	collabID string,
	role string,
) (*models.Collaboration, error) {

	page, err := loadPage(ctx, uc.repo, pageID)
	if err != nil {
		return nil, err
	}
	if !domain.Resolve(page, ownerID, nil).IsOwner() {
		return nil, httperr.ErrBusiness(domain.ErrForbidden)
	}

	c, err := getPageCollaboration(ctx, uc.repo, pageID, collabID)
	if err != nil {
		return nil, err
	}

	previous := c.Role
	if err := domain.ChangeRole(c, domain.Role(role)); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateCollaboration(ctx, c); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		PageID:   pageID,
		UserID:   ownerID,
		Action:   "collaborator_role_changed",
		Entity:   "collaboration",
		EntityID: c.ID,
		Metadata: map[string]string{"from": previous, "to": c.Role},
	})

	return c, nil
}

// ======================================================
// REMOVE
// ======================================================

type RemoveCollaborator struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRemoveCollaborator(repo domain.Repository, audit *audit.Dispatcher) *RemoveCollaborator {
	return &RemoveCollaborator{repo: repo, audit: audit}
}

// Execute: o dono remove qualquer colaborador; o colaborador pode sair sozinho.
func (uc *RemoveCollaborator) Execute(
	ctx context.Context,
	actorID string,
	pageID string,
	collabID string,
) error {

	page, err := loadPage(ctx, uc.repo, pageID)
	if err != nil {
		return err
	}

	c, err := getPageCollaboration(ctx, uc.repo, pageID, collabID)
	if err != nil {
		return err
	}

	if c.UserID != actorID && !domain.Resolve(page, actorID, nil).IsOwner() {
		return httperr.ErrBusiness(domain.ErrForbidden)
	}

	if err := uc.repo.DeleteCollaboration(ctx, c.ID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		PageID:   pageID,
		UserID:   actorID,
		Action:   "collaborator_removed",
		Entity:   "collaboration",
		EntityID: c.ID,
		Metadata: map[string]string{"user_id": c.UserID, "role": c.Role},
	})

	return nil
}

// ======================================================
// QUERIES
// ======================================================

type MyCollaboration struct {
	models.Collaboration
	PageName string `json:"page_name"`
	PageSlug string `json:"page_slug"`
}

type ListCollaborations struct {
	repo   domain.Repository
	access domain.Resolver
}

func NewListCollaborations(repo domain.Repository, access domain.Resolver) *ListCollaborations {
	return &ListCollaborations{repo: repo, access: access}
}

// ForPage exige algum acesso à página.
func (uc *ListCollaborations) ForPage(
	ctx context.Context,
	actorID string,
	pageID string,
) ([]models.Collaboration, error) {

	a, err := uc.access.Resolve(ctx, actorID, pageID)
	if err != nil {
		return nil, err
	}
	if !a.HasAccess() {
		return nil, httperr.ErrBusiness(domain.ErrForbidden)
	}

	return uc.repo.ListCollaborators(ctx, pageID)
}

func (uc *ListCollaborations) ForUser(
	ctx context.Context,
	userID string,
) ([]MyCollaboration, error) {

	list, err := uc.repo.ListUserCollaborations(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]MyCollaboration, 0, len(list))
	for _, c := range list {
		item := MyCollaboration{Collaboration: c}
		page, err := uc.repo.GetPage(ctx, c.PageID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if page != nil {
			item.PageName = page.Name
			item.PageSlug = page.Slug
		}
		out = append(out, item)
	}

	return out, nil
}

const (
	BoxInbox  = "inbox"
	BoxOutbox = "outbox"
)

type ListInvites struct {
	repo domain.Repository
}

func NewListInvites(repo domain.Repository) *ListInvites {
	return &ListInvites{repo: repo}
}

// ForUser devolve a caixa de entrada (convites recebidos) ou de saída (enviados).
func (uc *ListInvites) ForUser(
	ctx context.Context,
	userID string,
	box string,
) ([]models.CollaborationInvite, error) {

	if box == BoxOutbox {
		return uc.repo.ListInvitesByOwner(ctx, userID)
	}
	return uc.repo.ListInvitesForUser(ctx, userID)
}

func (uc *ListInvites) ForPage(
	ctx context.Context,
	ownerID string,
	pageID string,
) ([]models.CollaborationInvite, error) {

	page, err := loadPage(ctx, uc.repo, pageID)
	if err != nil {
		return nil, err
	}
	if !domain.Resolve(page, ownerID, nil).CanInvite() {
		return nil, httperr.ErrBusiness(domain.ErrForbidden)
	}

	return uc.repo.ListInvitesByPage(ctx, pageID)
}
