package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/collaboration"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

type CollaborationGormRepository struct {
	db *gorm.DB
}

func NewCollaborationGormRepository(db *gorm.DB) *CollaborationGormRepository {
	return &CollaborationGormRepository{db: db}
}

// --------------------------------------------------
// Page / Users
// --------------------------------------------------

func (r *CollaborationGormRepository) GetPage(ctx context.Context, pageID string) (*models.LawyerPage, error) {
	var p models.LawyerPage
	if err := r.db.WithContext(ctx).Where("id = ?", pageID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CollaborationGormRepository) FindUserByCode(ctx context.Context, code string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("UPPER(code) = UPPER(?)", code).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *CollaborationGormRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// --------------------------------------------------
// Collaborations
// --------------------------------------------------

func (r *CollaborationGormRepository) FindCollaboration(ctx context.Context, userID, pageID string) (*models.Collaboration, error) {
	var c models.Collaboration
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND page_id = ?", userID, pageID).
		First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CollaborationGormRepository) GetCollaboration(ctx context.Context, id string) (*models.Collaboration, error) {
	var c models.Collaboration
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CollaborationGormRepository) ListCollaborators(ctx context.Context, pageID string) ([]models.Collaboration, error) {
	var list []models.Collaboration
	if err := r.db.WithContext(ctx).
		Where("page_id = ?", pageID).
		Order("created_at ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CollaborationGormRepository) ListUserCollaborations(ctx context.Context, userID string) ([]models.Collaboration, error) {
	var list []models.Collaboration
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CollaborationGormRepository) UpdateCollaboration(ctx context.Context, c *models.Collaboration) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CollaborationGormRepository) DeleteCollaboration(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Collaboration{}).Error
}

// --------------------------------------------------
// Invites
// --------------------------------------------------

func (r *CollaborationGormRepository) CreateInvite(ctx context.Context, inv *models.CollaborationInvite) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *CollaborationGormRepository) GetInvite(ctx context.Context, id string) (*models.CollaborationInvite, error) {
	var inv models.CollaborationInvite
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *CollaborationGormRepository) HasPendingInvite(ctx context.Context, pageID, targetUserID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CollaborationInvite{}).
		Where(
			"page_id = ? AND target_user_id = ? AND status = ?",
			pageID, targetUserID, string(collaboration.InvitePending),
		).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *CollaborationGormRepository) listInvites(ctx context.Context, query string, args ...any) ([]models.CollaborationInvite, error) {
	var list []models.CollaborationInvite
	if err := r.db.WithContext(ctx).
		Where(query, args...).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CollaborationGormRepository) ListInvitesForUser(ctx context.Context, userID string) ([]models.CollaborationInvite, error) {
	return r.listInvites(ctx, "target_user_id = ?", userID)
}

func (r *CollaborationGormRepository) ListInvitesByOwner(ctx context.Context, ownerID string) ([]models.CollaborationInvite, error) {
	return r.listInvites(ctx, "owner_id = ?", ownerID)
}

func (r *CollaborationGormRepository) ListInvitesByPage(ctx context.Context, pageID string) ([]models.CollaborationInvite, error) {
	return r.listInvites(ctx, "page_id = ?", pageID)
}

func (r *CollaborationGormRepository) UpdateInvite(ctx context.Context, inv *models.CollaborationInvite) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *CollaborationGormRepository) DeleteInvite(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CollaborationInvite{}).Error
}

// AcceptInvite cria a colaboração e fecha o convite na mesma transação.
func (r *CollaborationGormRepository) AcceptInvite(
	ctx context.Context,
	inv *models.CollaborationInvite,
	c *models.Collaboration,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			if httperr.IsUniqueViolation(err) {
				return httperr.ErrBusiness(collaboration.ErrAlreadyCollaborator)
			}
			return err
		}
		return tx.Save(inv).Error
	})
}

var _ collaboration.Repository = (*CollaborationGormRepository)(nil)
