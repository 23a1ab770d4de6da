package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/page"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

type PageGormRepository struct {
	db *gorm.DB
}

func NewPageGormRepository(db *gorm.DB) *PageGormRepository {
	return &PageGormRepository{db: db}
}

// --------------------------------------------------
// Page
// --------------------------------------------------

func (r *PageGormRepository) CreatePage(ctx context.Context, p *models.LawyerPage) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if httperr.IsUniqueViolation(err) {
		return httperr.ErrBusiness(page.ErrSlugTaken)
	}
	return err
}

func (r *PageGormRepository) GetPage(ctx context.Context, id string) (*models.LawyerPage, error) {
	var p models.LawyerPage
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PageGormRepository) GetPageBySlug(ctx context.Context, slug string) (*models.LawyerPage, error) {
	var p models.LawyerPage
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PageGormRepository) ListPagesByOwner(ctx context.Context, ownerID string) ([]models.LawyerPage, error) {
	var pages []models.LawyerPage
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&pages).Error; err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *PageGormRepository) UpdatePage(ctx context.Context, p *models.LawyerPage) error {
	err := r.db.WithContext(ctx).Save(p).Error
	if httperr.IsUniqueViolation(err) {
		return httperr.ErrBusiness(page.ErrSlugTaken)
	}
	return err
}

// DeletePage remove a página com seus horários, colaborações e convites.
// Agendamentos e lançamentos financeiros ficam preservados.
func (r *PageGormRepository) DeletePage(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("page_id = ?", id).Delete(&models.PageAvailability{}).Error; err != nil {
			return err
		}
		if err := tx.Where("page_id = ?", id).Delete(&models.Collaboration{}).Error; err != nil {
			return err
		}
		if err := tx.Where("page_id = ?", id).Delete(&models.CollaborationInvite{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.LawyerPage{}).Error
	})
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *PageGormRepository) ListAvailability(ctx context.Context, pageID string) ([]models.PageAvailability, error) {
	var days []models.PageAvailability
	if err := r.db.WithContext(ctx).
		Where("page_id = ?", pageID).
		Order("weekday ASC").
		Find(&days).Error; err != nil {
		return nil, err
	}
	return days, nil
}

func (r *PageGormRepository) ReplaceAvailability(ctx context.Context, pageID string, days []models.PageAvailability) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("page_id = ?", pageID).Delete(&models.PageAvailability{}).Error; err != nil {
			return err
		}
		if len(days) == 0 {
			return nil
		}
		return tx.Create(&days).Error
	})
}

// --------------------------------------------------
// Clients
// --------------------------------------------------

func (r *PageGormRepository) ListClients(ctx context.Context, professionalID string, query string) ([]models.Client, error) {
	db := r.db.WithContext(ctx).Where("professional_id = ?", professionalID)

	if q := strings.TrimSpace(query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", like, like, like)
	}

	var clients []models.Client
	if err := db.Order("created_at DESC").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *PageGormRepository) ListPageClients(ctx context.Context, pageID string, query string) ([]models.Client, error) {
	db := r.db.WithContext(ctx).Where(`EXISTS (
        SELECT 1 FROM appointments a
        WHERE a.page_id = ?
          AND a.paid_at IS NOT NULL
          AND LOWER(a.client_email) = clients.email
          AND COALESCE(a.assigned_lawyer_id, a.lawyer_id) = clients.professional_id
    )`, pageID)

	if q := strings.TrimSpace(query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", like, like, like)
	}

	var clients []models.Client
	if err := db.Order("created_at DESC").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

var _ page.Repository = (*PageGormRepository)(nil)
