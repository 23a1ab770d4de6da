package financial

import (
	"context"

	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

type EntryFilter struct {
	ProfessionalID string
	PageID         string
	Type           string
}

type Repository interface {
	GetPage(ctx context.Context, pageID string) (*models.LawyerPage, error)

	ListEntries(ctx context.Context, filter EntryFilter) ([]models.FinancialEntry, error)
	GetEntry(ctx context.Context, entryID string) (*models.FinancialEntry, error)
	CreateEntry(ctx context.Context, entry *models.FinancialEntry) error
	UpdateEntry(ctx context.Context, entry *models.FinancialEntry) error
}
