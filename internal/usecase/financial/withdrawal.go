package financial

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/advoga-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/advoga-scheduler/internal/domain/financial"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

const lockWait = 5 * time.Second

// ======================================================
// REQUEST
// ======================================================

type RequestWithdrawalInput struct {
	ProfessionalID string
	Amount         decimal.Decimal
	Bank           models.BankDetails
	Description    string
}

type RequestWithdrawal struct {
	repo   domain.Repository
	locker lock.Locker
	audit  *audit.Dispatcher
	now    func() time.Time
}

func NewRequestWithdrawal(
	repo domain.Repository,
	locker lock.Locker,
	audit *audit.Dispatcher,
) *RequestWithdrawal {
	return &RequestWithdrawal{
		repo:   repo,
		locker: locker,
		audit:  audit,
		now:    time.Now,
	}
}

// Execute valida o saldo e grava o saque sob a mesma trava do profissional,
// então dois pedidos simultâneos nunca validam contra o mesmo saldo.
func (uc *RequestWithdrawal) Execute(
	ctx context.Context,
	in RequestWithdrawalInput,
) (*models.FinancialEntry, error) {

	lockCtx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()

	release, err := uc.locker.Acquire(lockCtx, lock.WithdrawalKey(in.ProfessionalID))
	if err != nil {
		return nil, err
	}
	defer release()

	entries, err := uc.repo.ListEntries(ctx, domain.EntryFilter{ProfessionalID: in.ProfessionalID})
	if err != nil {
		return nil, err
	}

	now := uc.now()
	summary := domain.Summarize(entries, now)

	if err := domain.ValidateWithdrawal(in.Amount, in.Bank, summary); err != nil {
		return nil, err
	}

	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		desc = "Solicitação de saque"
	}

	bank := datatypes.NewJSONType(in.Bank)
	entry := &models.FinancialEntry{
		ID:             uuid.NewString(),
		ProfessionalID: in.ProfessionalID,
		Type:           models.EntryTypeWithdrawal,
		Amount:         in.Amount,
		Status:         string(domain.WithdrawalRequested),
		BankDetails:    &bank,
		Description:    desc,
		OccurredAt:     now,
		CreatedAt:      now,
	}

	if err := uc.repo.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.ProfessionalID,
		Action:   "withdrawal_requested",
		Entity:   "financial",
		EntityID: entry.ID,
		Metadata: map[string]string{"amount": in.Amount.StringFixed(2)},
	})

	return entry, nil
}

// ======================================================
// STATUS
// ======================================================

type UpdateWithdrawalStatusInput struct {
	EntryID      string
	ActorID      string
	ActorIsAdmin bool
	Status       string
}

type UpdateWithdrawalStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewUpdateWithdrawalStatus(repo domain.Repository, audit *audit.Dispatcher) *UpdateWithdrawalStatus {
	return &UpdateWithdrawalStatus{repo: repo, audit: audit, now: time.Now}
}

// Execute: o profissional só cancela o próprio saque ainda "requested";
// processamento e conclusão são da plataforma (admin).
func (uc *UpdateWithdrawalStatus) Execute(
	ctx context.Context,
	in UpdateWithdrawalStatusInput,
) (*models.FinancialEntry, error) {

	entry, err := uc.repo.GetEntry(ctx, in.EntryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(domain.ErrEntryNotFound)
		}
		return nil, err
	}
	if entry.Type != models.EntryTypeWithdrawal {
		return nil, httperr.ErrBusiness(domain.ErrEntryNotFound)
	}
	if !in.ActorIsAdmin && entry.ProfessionalID != in.ActorID {
		return nil, httperr.ErrBusiness(domain.ErrEntryNotFound)
	}

	current := domain.WithdrawalStatus(entry.Status)
	next := domain.WithdrawalStatus(in.Status)

	if !domain.CanTransitionWithdrawal(current, next) {
		return nil, httperr.ErrBusiness(domain.ErrInvalidState)
	}

	selfCancel := next == domain.WithdrawalCancelled &&
		current == domain.WithdrawalRequested &&
		entry.ProfessionalID == in.ActorID
	if !in.ActorIsAdmin && !selfCancel {
		return nil, httperr.ErrBusiness(domain.ErrForbidden)
	}

	now := uc.now()
	entry.Status = string(next)
	entry.ProcessedAt = &now

	if err := uc.repo.UpdateEntry(ctx, entry); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.ActorID,
		Action:   "withdrawal_" + string(next),
		Entity:   "financial",
		EntityID: entry.ID,
		Metadata: map[string]string{"from": string(current)},
	})

	return entry, nil
}
