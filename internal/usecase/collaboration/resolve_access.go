package collaboration

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/advoga-scheduler/internal/domain/collaboration"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

// ResolveAccess é o ponto único de resolução de permissões de página.
type ResolveAccess struct {
	repo domain.Repository
}

func NewResolveAccess(repo domain.Repository) *ResolveAccess {
	return &ResolveAccess{repo: repo}
}

func (uc *ResolveAccess) Resolve(
	ctx context.Context,
	userID string,
	pageID string,
) (domain.Access, error) {

	page, err := loadPage(ctx, uc.repo, pageID)
	if err != nil {
		return domain.NoAccess(userID, pageID), err
	}

	c, err := uc.repo.FindCollaboration(ctx, userID, pageID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NoAccess(userID, pageID), err
		}
		c = nil
	}

	return domain.Resolve(page, userID, c), nil
}

func loadPage(ctx context.Context, repo domain.Repository, pageID string) (*models.LawyerPage, error) {
	page, err := repo.GetPage(ctx, pageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(domain.ErrPageNotFound)
		}
		return nil, err
	}
	return page, nil
}

var _ domain.Resolver = (*ResolveAccess)(nil)
