package financial

import (
	"context"
	"time"

	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/collaboration"
	domain "github.com/BruksfildServices01/advoga-scheduler/internal/domain/financial"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
	"github.com/BruksfildServices01/advoga-scheduler/internal/timezone"
)

// GetSummary aplica a regra D+30 a todo o extrato do profissional.
type GetSummary struct {
	repo domain.Repository
	tz   string
	now  func() time.Time
}

func NewGetSummary(repo domain.Repository, tz string) *GetSummary {
	return &GetSummary{repo: repo, tz: tz, now: time.Now}
}

func (uc *GetSummary) Execute(ctx context.Context, professionalID string) (domain.Summary, error) {
	entries, err := uc.repo.ListEntries(ctx, domain.EntryFilter{ProfessionalID: professionalID})
	if err != nil {
		return domain.Summary{}, err
	}

	// o mês corrente é o do fuso configurado
	now := uc.now().In(timezone.Location(uc.tz))
	return domain.Summarize(entries, now), nil
}

// GetPageSummary mostra as receitas originadas na página.
type GetPageSummary struct {
	repo   domain.Repository
	access collaboration.Resolver
	now    func() time.Time
}

func NewGetPageSummary(repo domain.Repository, access collaboration.Resolver) *GetPageSummary {
	return &GetPageSummary{repo: repo, access: access, now: time.Now}
}

func (uc *GetPageSummary) Execute(
	ctx context.Context,
	actorID string,
	pageID string,
) (domain.PageIncome, error) {

	if _, err := collaboration.Require(ctx, uc.access, actorID, pageID, collaboration.CapFinancial); err != nil {
		if httperr.IsBusiness(err, collaboration.ErrForbidden) {
			return domain.PageIncome{}, httperr.ErrBusiness(domain.ErrForbidden)
		}
		return domain.PageIncome{}, err
	}

	page, err := uc.repo.GetPage(ctx, pageID)
	if err != nil {
		return domain.PageIncome{}, err
	}

	entries, err := uc.repo.ListEntries(ctx, domain.EntryFilter{
		PageID: page.ID,
		Type:   models.EntryTypeIncome,
	})
	if err != nil {
		return domain.PageIncome{}, err
	}

	now := uc.now().In(timezone.Location(page.Timezone))
	return domain.SummarizePageIncome(page.ID, entries, now), nil
}
