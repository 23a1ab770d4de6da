package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/advoga-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/collaboration"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

// ListAppointments devolve agendamentos do mais novo para o mais antigo.
type ListAppointments struct {
	repo   domain.Repository
	access collaboration.Resolver
}

func NewListAppointments(repo domain.Repository, access collaboration.Resolver) *ListAppointments {
	return &ListAppointments{repo: repo, access: access}
}

func (uc *ListAppointments) ForClient(ctx context.Context, clientID string) ([]models.Appointment, error) {
	apps, err := uc.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(apps)
	return apps, nil
}

// ForProfessional inclui os agendamentos reatribuídos ao profissional.
func (uc *ListAppointments) ForProfessional(ctx context.Context, lawyerID string) ([]models.Appointment, error) {
	apps, err := uc.repo.ListByLawyer(ctx, lawyerID)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(apps)
	return apps, nil
}

func (uc *ListAppointments) ForPage(ctx context.Context, actorID, pageID string) ([]models.Appointment, error) {
	if _, err := collaboration.Require(ctx, uc.access, actorID, pageID, collaboration.CapAppointments); err != nil {
		if httperr.IsBusiness(err, collaboration.ErrForbidden) {
			return nil, httperr.ErrBusiness(domain.ErrForbidden)
		}
		return nil, err
	}

	apps, err := uc.repo.ListByPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(apps)
	return apps, nil
}
