package appointment

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Confirm registra a resposta do advogado: valor final e link da videochamada.
func Confirm(ap *models.Appointment, finalPrice decimal.Decimal, videoCallLink string) error {
	if err := assertTransition(Status(ap.Status), StatusAwaitingPayment); err != nil {
		return err
	}
	if finalPrice.IsNegative() {
		return httperr.ErrBusiness(ErrInvalidPrice)
	}

	ap.Status = string(StatusAwaitingPayment)
	ap.FinalPrice = finalPrice
	ap.VideoCallLink = strings.TrimSpace(videoCallLink)
	return nil
}

func MarkPaid(ap *models.Appointment, meta models.PaymentMetadata, now time.Time) error {
	if err := assertTransition(Status(ap.Status), StatusPaid); err != nil {
		return err
	}

	payment := datatypes.NewJSONType(meta)
	ap.Status = string(StatusPaid)
	ap.Payment = &payment
	ap.PaidAt = &now
	return nil
}

// Acknowledge é o aceite do advogado depois do pagamento.
func Acknowledge(ap *models.Appointment) error {
	if err := assertTransition(Status(ap.Status), StatusConfirmed); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	return nil
}

func Cancel(ap *models.Appointment, actorID, reason string, now time.Time) error {
	if err := assertTransition(Status(ap.Status), StatusCancelled); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelReason = strings.TrimSpace(reason)
	ap.CancelledBy = actorID
	ap.CancelledAt = &now
	return nil
}

func Finalize(ap *models.Appointment, actorID string, now time.Time) error {
	if err := assertTransition(Status(ap.Status), StatusFinalized); err != nil {
		return err
	}

	ap.Status = string(StatusFinalized)
	ap.FinalizedBy = actorID
	ap.FinalizedAt = &now
	return nil
}

// IncomeEntry monta o lançamento de receita gerado pelo pagamento.
// Devolve nil quando o valor final não é positivo.
func IncomeEntry(ap *models.Appointment, id string, now time.Time) *models.FinancialEntry {
	if !ap.FinalPrice.IsPositive() {
		return nil
	}

	apID, pageID := ap.ID, ap.PageID
	return &models.FinancialEntry{
		ID:             id,
		ProfessionalID: ap.ResponsibleLawyerID(),
		PageID:         &pageID,
		AppointmentID:  &apID,
		Type:           models.EntryTypeIncome,
		Amount:         ap.FinalPrice,
		Status:         "received",
		Description:    "Consulta " + ap.ClientName,
		OccurredAt:     now,
	}
}

func IsParticipant(ap *models.Appointment, userID string) bool {
	return userID != "" && (ap.ClientID == userID || ap.LawyerID == userID || ap.ResponsibleLawyerID() == userID)
}

// LGPD: base legal da ficha criada a partir da contratação da consulta.
const ClientConsentBasis = "execucao_de_contrato"

// ClientRecord monta a ficha do cliente referente a um agendamento pago.
func ClientRecord(ap *models.Appointment, id string, now time.Time) *models.Client {
	return &models.Client{
		ID:                id,
		ProfessionalID:    ap.ResponsibleLawyerID(),
		Email:             strings.ToLower(strings.TrimSpace(ap.ClientEmail)),
		Name:              ap.ClientName,
		Phone:             ap.ClientPhone,
		TotalAppointments: 1,
		TotalSpent:        ap.FinalPrice,
		LastAppointmentAt: &now,
		ConsentGiven:      true,
		ConsentAt:         &now,
		ConsentBasis:      ClientConsentBasis,
		Source:            "appointment",
	}
}
