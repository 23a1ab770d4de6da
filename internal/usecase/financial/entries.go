package financial

import (
	"context"

	domain "github.com/BruksfildServices01/advoga-scheduler/internal/domain/financial"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

type ListEntries struct {
	repo domain.Repository
}

func NewListEntries(repo domain.Repository) *ListEntries {
	return &ListEntries{repo: repo}
}

// Execute lista o extrato do profissional; pageID e entryType são filtros opcionais.
func (uc *ListEntries) Execute(
	ctx context.Context,
	professionalID string,
	pageID string,
	entryType string,
) ([]models.FinancialEntry, error) {

	return uc.repo.ListEntries(ctx, domain.EntryFilter{
		ProfessionalID: professionalID,
		PageID:         pageID,
		Type:           entryType,
	})
}
