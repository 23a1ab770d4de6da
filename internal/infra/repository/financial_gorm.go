package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/financial"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

type FinancialGormRepository struct {
	db *gorm.DB
}

func NewFinancialGormRepository(db *gorm.DB) *FinancialGormRepository {
	return &FinancialGormRepository{db: db}
}

func (r *FinancialGormRepository) GetPage(ctx context.Context, pageID string) (*models.LawyerPage, error) {
	var p models.LawyerPage
	if err := r.db.WithContext(ctx).Where("id = ?", pageID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *FinancialGormRepository) ListEntries(
	ctx context.Context,
	filter financial.EntryFilter,
) ([]models.FinancialEntry, error) {

	db := r.db.WithContext(ctx)
	if filter.ProfessionalID != "" {
		db = db.Where("professional_id = ?", filter.ProfessionalID)
	}
	if filter.PageID != "" {
		db = db.Where("page_id = ?", filter.PageID)
	}
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}

	var entries []models.FinancialEntry
	if err := db.Order("occurred_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *FinancialGormRepository) GetEntry(ctx context.Context, entryID string) (*models.FinancialEntry, error) {
	var e models.FinancialEntry
	if err := r.db.WithContext(ctx).Where("id = ?", entryID).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *FinancialGormRepository) CreateEntry(ctx context.Context, entry *models.FinancialEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *FinancialGormRepository) UpdateEntry(ctx context.Context, entry *models.FinancialEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

var _ financial.Repository = (*FinancialGormRepository)(nil)
