package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/advoga-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/advoga-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
	"github.com/BruksfildServices01/advoga-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	PageID string

	ClientID    string
	ClientName  string
	ClientEmail string
	ClientPhone string

	// zero usa o preço de consulta da página
	ProposedPrice decimal.Decimal

	Date string
	Time string

	CaseDescription string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo   domain.Repository
	locker lock.Locker
	audit  *audit.Dispatcher
	now    func() time.Time
}

func NewCreateAppointment(
	repo domain.Repository,
	locker lock.Locker,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:   repo,
		locker: locker,
		audit:  audit,
		now:    time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Página
	// --------------------------------------------------
	page, err := getPage(ctx, uc.repo, in.PageID)
	if err != nil {
		return nil, err
	}
	if !page.Active {
		return nil, httperr.ErrBusiness(domain.ErrPageInactive)
	}

	// --------------------------------------------------
	// 2️⃣ Contato e valor
	// --------------------------------------------------
	name := strings.TrimSpace(in.ClientName)
	email := strings.ToLower(strings.TrimSpace(in.ClientEmail))
	if in.ClientID == "" || name == "" || email == "" {
		return nil, httperr.ErrBusiness(domain.ErrMissingContact)
	}

	price := in.ProposedPrice
	if price.IsZero() {
		price = page.ConsultationPrice
	}
	if price.IsNegative() {
		return nil, httperr.ErrBusiness(domain.ErrInvalidPrice)
	}

	// --------------------------------------------------
	// 3️⃣ Data / hora no timezone da página
	// --------------------------------------------------
	scheduledAt, err := timezone.ParseDateTime(in.Date, in.Time, page.Timezone)
	if err != nil {
		return nil, httperr.ErrBusiness(domain.ErrInvalidSchedule)
	}

	now := uc.now()
	if !scheduledAt.After(now) {
		return nil, httperr.ErrBusiness(domain.ErrInvalidSchedule)
	}

	// --------------------------------------------------
	// 4️⃣ Modelo semanal
	// --------------------------------------------------
	template, err := uc.repo.GetAvailability(ctx, page.ID, int(scheduledAt.Weekday()))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if !domain.InTemplate(template, scheduledAt) {
		return nil, httperr.ErrBusiness(domain.ErrSlotUnavailable)
	}

	// --------------------------------------------------
	// 5️⃣ Horário livre + criação, sob trava
	// --------------------------------------------------
	lockCtx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()

	release, err := uc.locker.Acquire(lockCtx, lock.SlotKey(page.ID, scheduledAt.Unix()))
	if err != nil {
		return nil, err
	}
	defer release()

	taken, err := uc.repo.HasActiveAt(ctx, page.ID, scheduledAt)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, httperr.ErrBusiness(domain.ErrSlotTaken)
	}

	ap := &models.Appointment{
		ID:              uuid.NewString(),
		PageID:          page.ID,
		ClientID:        in.ClientID,
		ClientName:      name,
		ClientEmail:     email,
		ClientPhone:     strings.TrimSpace(in.ClientPhone),
		LawyerID:        page.OwnerID,
		CaseDescription: strings.TrimSpace(in.CaseDescription),
		ProposedPrice:   price,
		ScheduledAt:     scheduledAt,
		Status:          string(domain.InitialStatus()),
		Version:         1,
		CreatedAt:       now,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 6️⃣ Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		PageID:   page.ID,
		UserID:   in.ClientID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: ap.ID,
	})

	return ap, nil
}
