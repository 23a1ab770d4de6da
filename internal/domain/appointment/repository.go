package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

type Repository interface {
	// -------- Page --------
	GetPage(
		ctx context.Context,
		pageID string,
	) (*models.LawyerPage, error)

	GetAvailability(
		ctx context.Context,
		pageID string,
		weekday int,
	) (*models.PageAvailability, error)

	// -------- Appointment (create / conflict) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	HasActiveAt(
		ctx context.Context,
		pageID string,
		scheduledAt time.Time,
	) (bool, error)

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		appointmentID string,
	) (*models.Appointment, error)

	// UpdateAppointment grava com checagem de versão; versão divergente → ErrConcurrentUpdate.
	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// MarkPaid grava o pagamento e o lançamento de receita numa única transação.
	MarkPaid(
		ctx context.Context,
		ap *models.Appointment,
		income *models.FinancialEntry,
	) error

	// -------- Queries --------
	ListByClient(
		ctx context.Context,
		clientID string,
	) ([]models.Appointment, error)

	ListByLawyer(
		ctx context.Context,
		lawyerID string,
	) ([]models.Appointment, error)

	ListByPage(
		ctx context.Context,
		pageID string,
	) ([]models.Appointment, error)

	ListForDay(
		ctx context.Context,
		pageID string,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Client record --------
	// UpsertClient cria a ficha ou soma os totais de rec à ficha existente
	// de (profissional, e-mail).
	UpsertClient(
		ctx context.Context,
		rec *models.Client,
	) (*models.Client, error)
}
