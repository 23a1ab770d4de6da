package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/advoga-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/advoga-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
	"github.com/BruksfildServices01/advoga-scheduler/internal/payment"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type ConfirmPaymentInput struct {
	AppointmentID string

	// vazio quando a confirmação vem do webhook do gateway
	ActorID string

	Gateway       string
	TransactionID string
	Method        string

	// zero dispensa a conferência com o valor final
	Amount decimal.Decimal
}

type PaymentResult struct {
	Appointment        *models.Appointment    `json:"appointment"`
	Income             *models.FinancialEntry `json:"income,omitempty"`
	Client             *models.Client         `json:"client,omitempty"`
	ClientRecordSynced bool                   `json:"client_record_synced"`
}

// ======================================================
// USE CASE
// ======================================================

type ConfirmPayment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	log   zerolog.Logger
	now   func() time.Time
}

func NewConfirmPayment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	log zerolog.Logger,
) *ConfirmPayment {
	return &ConfirmPayment{
		repo:  repo,
		audit: audit,
		log:   log,
		now:   time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *ConfirmPayment) Execute(
	ctx context.Context,
	in ConfirmPaymentInput,
) (*PaymentResult, error) {

	ap, err := getAppointment(ctx, uc.repo, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if in.ActorID != "" && ap.ClientID != in.ActorID {
		return nil, httperr.ErrBusiness(domain.ErrForbidden)
	}
	if !in.Amount.IsZero() && !in.Amount.Equal(ap.FinalPrice) {
		return nil, httperr.ErrBusiness(domain.ErrPaymentMismatch)
	}

	now := uc.now()

	gateway := in.Gateway
	if gateway == "" {
		gateway = "simulated"
	}

	// --------------------------------------------------
	// 1️⃣ Transição + receita, na mesma escrita
	// --------------------------------------------------
	meta := models.PaymentMetadata{
		Gateway:       gateway,
		TransactionID: payment.TransactionID(in.TransactionID, now),
		Method:        in.Method,
		Amount:        ap.FinalPrice,
		Status:        payment.StatusApproved,
	}
	if err := domain.MarkPaid(ap, meta, now); err != nil {
		return nil, err
	}

	income := domain.IncomeEntry(ap, uuid.NewString(), now)
	if err := uc.repo.MarkPaid(ctx, ap, income); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		PageID:   ap.PageID,
		UserID:   in.ActorID,
		Action:   "appointment_paid",
		Entity:   "appointment",
		EntityID: ap.ID,
		Metadata: map[string]string{"transaction_id": meta.TransactionID, "gateway": gateway},
	})

	result := &PaymentResult{Appointment: ap, Income: income}

	// --------------------------------------------------
	// 2️⃣ Ficha do cliente (fora da transação)
	// --------------------------------------------------
	client, err := uc.repo.UpsertClient(ctx, domain.ClientRecord(ap, uuid.NewString(), now))
	if err != nil {
		// o pagamento já está gravado: registra a falha para reconciliação
		uc.log.Error().Err(err).
			Str("appointment_id", ap.ID).
			Msg("client record upsert failed after payment")

		uc.audit.Dispatch(audit.Event{
			PageID:   ap.PageID,
			Action:   "client_record_failed",
			Entity:   "appointment",
			EntityID: ap.ID,
			Metadata: map[string]string{"error": err.Error()},
		})
		return result, nil
	}

	result.Client = client
	result.ClientRecordSynced = true
	return result, nil
}
