package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/advoga-scheduler/internal/config"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

func NewDB(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsDev() {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	log.Info().Msg("database connected")
	return db, nil
}

// Migrate cria/atualiza as tabelas e os índices que o AutoMigrate não expressa.
func Migrate(db *gorm.DB, log zerolog.Logger) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.LawyerPage{},
		&models.PageAvailability{},
		&models.Appointment{},
		&models.FinancialEntry{},
		&models.Collaboration{},
		&models.CollaborationInvite{},
		&models.Client{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// um único agendamento não cancelado por horário da página
	if err := db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_active_slot
        ON appointments (page_id, scheduled_at)
        WHERE status <> 'cancelled'
    `).Error; err != nil {
		return fmt.Errorf("create slot index: %w", err)
	}

	if err := db.Exec(`
        UPDATE lawyer_pages
        SET timezone = 'America/Sao_Paulo'
        WHERE timezone IS NULL OR timezone = ''
    `).Error; err != nil {
		return fmt.Errorf("backfill timezone: %w", err)
	}

	log.Info().Msg("migrations applied")
	return nil
}
