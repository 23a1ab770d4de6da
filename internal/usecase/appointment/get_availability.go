package appointment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/advoga-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/advoga-scheduler/internal/timezone"
)

type GetAvailability struct {
	repo domain.Repository
	now  func() time.Time
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo, now: time.Now}
}

// Execute aplica o modelo semanal da página ao dia pedido.
// in.Date deve estar no timezone da página.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	page, err := getPage(ctx, uc.repo, in.PageID)
	if err != nil {
		return nil, err
	}

	template, err := uc.repo.GetAvailability(ctx, page.ID, int(in.Date.Weekday()))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []domain.TimeSlot{}, nil
		}
		return nil, err
	}
	if !template.Active {
		return []domain.TimeSlot{}, nil
	}

	dayStart, dayEnd := timezone.DayBounds(in.Date)

	booked, err := uc.repo.ListForDay(ctx, page.ID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	return domain.AvailableSlots(template, in.Date, booked, uc.now()), nil
}
