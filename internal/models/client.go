package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client é a ficha do cliente no CRM do profissional, criada no primeiro pagamento.
type Client struct {
	ID             string `gorm:"type:uuid;primaryKey" json:"id"`
	ProfessionalID string `gorm:"type:uuid;uniqueIndex:idx_client_prof_email;not null" json:"professional_id"`
	Email          string `gorm:"size:100;uniqueIndex:idx_client_prof_email;not null" json:"email"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20" json:"phone"`

	TotalAppointments int             `json:"total_appointments"`
	TotalSpent        decimal.Decimal `gorm:"type:numeric(12,2)" json:"total_spent"`
	LastAppointmentAt *time.Time      `json:"last_appointment_at"`

	// LGPD
	ConsentGiven bool       `json:"lgpd_consent"`
	ConsentAt    *time.Time `json:"lgpd_consent_at"`
	ConsentBasis string     `gorm:"size:100" json:"lgpd_purpose"`
	Source       string     `gorm:"size:30" json:"source"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
