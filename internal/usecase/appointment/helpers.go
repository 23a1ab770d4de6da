package appointment

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/advoga-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/collaboration"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

// lockWait limita a espera pela trava de horário.
const lockWait = 5 * time.Second

func getAppointment(ctx context.Context, repo domain.Repository, id string) (*models.Appointment, error) {
	ap, err := repo.GetAppointment(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(domain.ErrNotFound)
		}
		return nil, err
	}
	return ap, nil
}

func getPage(ctx context.Context, repo domain.Repository, id string) (*models.LawyerPage, error) {
	page, err := repo.GetPage(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(domain.ErrPageNotFound)
		}
		return nil, err
	}
	return page, nil
}

// canManage: capacidade appointments na página de origem, ou ser o advogado responsável.
func canManage(ctx context.Context, access collaboration.Resolver, ap *models.Appointment, actorID string) (bool, error) {
	if actorID == "" {
		return false, nil
	}
	if ap.ResponsibleLawyerID() == actorID {
		return true, nil
	}

	a, err := access.Resolve(ctx, actorID, ap.PageID)
	if err != nil {
		if httperr.IsBusiness(err, collaboration.ErrPageNotFound) {
			return ap.LawyerID == actorID, nil
		}
		return false, err
	}
	return a.Can(collaboration.CapAppointments), nil
}

func requireManage(ctx context.Context, access collaboration.Resolver, ap *models.Appointment, actorID string) error {
	ok, err := canManage(ctx, access, ap, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return httperr.ErrBusiness(domain.ErrForbidden)
	}
	return nil
}

// requireParty aceita o cliente do agendamento ou quem pode gerenciá-lo.
func requireParty(ctx context.Context, access collaboration.Resolver, ap *models.Appointment, actorID string) error {
	if actorID != "" && ap.ClientID == actorID {
		return nil
	}
	return requireManage(ctx, access, ap, actorID)
}

func sortNewestFirst(apps []models.Appointment) {
	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].CreatedAt.After(apps[j].CreatedAt)
	})
}
