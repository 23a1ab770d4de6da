package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/advoga-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Page
// --------------------------------------------------

func (r *AppointmentGormRepository) GetPage(
	ctx context.Context,
	pageID string,
) (*models.LawyerPage, error) {

	var page models.LawyerPage
	if err := r.db.WithContext(ctx).
		Where("id = ?", pageID).
		First(&page).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *AppointmentGormRepository) GetAvailability(
	ctx context.Context,
	pageID string,
	weekday int,
) (*models.PageAvailability, error) {

	var day models.PageAvailability
	if err := r.db.WithContext(ctx).
		Where("page_id = ? AND weekday = ?", pageID, weekday).
		First(&day).Error; err != nil {
		return nil, err
	}
	return &day, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	if ap.Version == 0 {
		ap.Version = 1
	}

	err := r.db.WithContext(ctx).Create(ap).Error
	if httperr.IsUniqueViolation(err) {
		return httperr.ErrBusiness(domain.ErrSlotTaken)
	}
	return err
}

func (r *AppointmentGormRepository) HasActiveAt(
	ctx context.Context,
	pageID string,
	scheduledAt time.Time,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"page_id = ? AND scheduled_at = ? AND status <> ?",
			pageID,
			scheduledAt,
			string(domain.StatusCancelled),
		).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	appointmentID string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ?", appointmentID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

// updateVersioned grava o agendamento apenas se a versão lida ainda for a atual.
func updateVersioned(tx *gorm.DB, ap *models.Appointment) error {
	expected := ap.Version
	ap.Version++

	res := tx.Model(ap).
		Where("version = ?", expected).
		Select("*").
		Omit("created_at").
		Updates(ap)
	if res.Error != nil {
		ap.Version = expected
		return res.Error
	}
	if res.RowsAffected == 0 {
		ap.Version = expected
		return httperr.ErrBusiness(domain.ErrConcurrentUpdate)
	}
	return nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return updateVersioned(r.db.WithContext(ctx), ap)
}

// MarkPaid persiste a transição para pago e o lançamento de receita na mesma transação.
func (r *AppointmentGormRepository) MarkPaid(
	ctx context.Context,
	ap *models.Appointment,
	income *models.FinancialEntry,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateVersioned(tx, ap); err != nil {
			return err
		}
		if income == nil {
			return nil
		}

		err := tx.Create(income).Error
		if httperr.IsUniqueViolation(err) {
			return httperr.ErrBusiness(domain.ErrInvalidState)
		}
		return err
	})
}

func (r *AppointmentGormRepository) listWhere(
	ctx context.Context,
	query string,
	args ...any,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(query, args...).
		Order("created_at DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListByClient(
	ctx context.Context,
	clientID string,
) ([]models.Appointment, error) {
	return r.listWhere(ctx, "client_id = ?", clientID)
}

func (r *AppointmentGormRepository) ListByLawyer(
	ctx context.Context,
	lawyerID string,
) ([]models.Appointment, error) {
	return r.listWhere(ctx, "lawyer_id = ? OR assigned_lawyer_id = ?", lawyerID, lawyerID)
}

func (r *AppointmentGormRepository) ListByPage(
	ctx context.Context,
	pageID string,
) ([]models.Appointment, error) {
	return r.listWhere(ctx, "page_id = ?", pageID)
}

func (r *AppointmentGormRepository) ListForDay(
	ctx context.Context,
	pageID string,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "scheduled_at", "status").
		Where(
			"page_id = ? AND status <> ? AND scheduled_at >= ? AND scheduled_at < ?",
			pageID, string(domain.StatusCancelled), start, end,
		).
		Order("scheduled_at ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

// UpsertClient cria a ficha ou acumula totais na ficha existente (profissional + e-mail).
func (r *AppointmentGormRepository) UpsertClient(
	ctx context.Context,
	rec *models.Client,
) (*models.Client, error) {

	db := r.db.WithContext(ctx)

	var existing models.Client
	err := db.
		Where("professional_id = ? AND email = ?", rec.ProfessionalID, rec.Email).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		created := *rec
		err = db.Create(&created).Error
		if err == nil {
			return &created, nil
		}
		if !httperr.IsUniqueViolation(err) {
			return nil, err
		}
		// corrida com outro pagamento: cai no incremento
		if err := db.
			Where("professional_id = ? AND email = ?", rec.ProfessionalID, rec.Email).
			First(&existing).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"total_appointments":  gorm.Expr("total_appointments + ?", rec.TotalAppointments),
		"total_spent":         gorm.Expr("total_spent + ?", rec.TotalSpent),
		"last_appointment_at": rec.LastAppointmentAt,
		"name":                rec.Name,
	}
	if rec.Phone != "" {
		updates["phone"] = rec.Phone
	}

	if err := db.Model(&existing).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := db.First(&existing, "id = ?", existing.ID).Error; err != nil {
		return nil, err
	}

	return &existing, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
