package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/advoga-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/payment"
)

const (
	NotificationPaid        = "paid"
	NotificationAlreadyPaid = "already_paid"
	NotificationIgnored     = "ignored"
)

type NotificationResult struct {
	Outcome string         `json:"outcome"`
	Payment *PaymentResult `json:"payment,omitempty"`
}

// ProcessPaymentNotification trata o aviso do gateway: consulta o pagamento
// e, se aprovado, confirma o agendamento da external_reference.
type ProcessPaymentNotification struct {
	repo    domain.Repository
	gateway payment.Gateway
	confirm *ConfirmPayment
	log     zerolog.Logger
}

func NewProcessPaymentNotification(
	repo domain.Repository,
	gateway payment.Gateway,
	confirm *ConfirmPayment,
	log zerolog.Logger,
) *ProcessPaymentNotification {
	return &ProcessPaymentNotification{
		repo:    repo,
		gateway: gateway,
		confirm: confirm,
		log:     log,
	}
}

func (uc *ProcessPaymentNotification) Execute(
	ctx context.Context,
	paymentID string,
) (*NotificationResult, error) {

	p, err := uc.gateway.FetchPayment(ctx, paymentID)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentNotFound) {
			return nil, httperr.ErrBusiness(domain.ErrPaymentNotApproved)
		}
		return nil, fmt.Errorf("fetch payment %s: %w", paymentID, err)
	}

	if !p.Approved() {
		uc.log.Info().
			Str("payment_id", p.ID).
			Str("status", p.Status).
			Msg("payment notification ignored")
		return &NotificationResult{Outcome: NotificationIgnored}, nil
	}

	ap, err := getAppointment(ctx, uc.repo, p.ExternalReference)
	if err != nil {
		return nil, err
	}

	// reentrega do mesmo aviso: o agendamento já saiu de awaiting_payment
	switch domain.Status(ap.Status) {
	case domain.StatusPaid, domain.StatusConfirmed, domain.StatusFinalized:
		return &NotificationResult{Outcome: NotificationAlreadyPaid}, nil
	}

	res, err := uc.confirm.Execute(ctx, ConfirmPaymentInput{
		AppointmentID: ap.ID,
		Gateway:       uc.gateway.Name(),
		TransactionID: p.ID,
		Method:        p.Method,
		Amount:        p.Amount,
	})
	if err != nil {
		return nil, err
	}

	return &NotificationResult{Outcome: NotificationPaid, Payment: res}, nil
}
