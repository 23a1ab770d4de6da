package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PaymentMetadata struct {
	Gateway       string          `json:"gateway"`
	TransactionID string          `json:"transaction_id"`
	Method        string          `json:"method,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status,omitempty"`
}

type Appointment struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	PageID string `gorm:"type:uuid;index" json:"page_id"`

	ClientID    string `gorm:"type:uuid;index" json:"client_id"`
	ClientName  string `gorm:"size:100" json:"client_name"`
	ClientEmail string `gorm:"size:100" json:"client_email"`
	ClientPhone string `gorm:"size:20" json:"client_phone"`

	LawyerID         string  `gorm:"type:uuid;index" json:"lawyer_id"`
	AssignedLawyerID *string `gorm:"type:uuid;index" json:"assigned_lawyer_id,omitempty"`

	CaseDescription string          `gorm:"type:text" json:"case_description"`
	ProposedPrice   decimal.Decimal `gorm:"type:numeric(12,2)" json:"proposed_price"`
	FinalPrice      decimal.Decimal `gorm:"type:numeric(12,2)" json:"final_price"`

	ScheduledAt time.Time `gorm:"index" json:"scheduled_at"`
	Status      string    `gorm:"size:20;default:'pending'" json:"status"`

	VideoCallLink string                               `gorm:"size:255" json:"video_call_link,omitempty"`
	Payment       *datatypes.JSONType[PaymentMetadata] `json:"payment,omitempty"`
	PaidAt        *time.Time                           `json:"paid_at,omitempty"`

	CancelReason string     `gorm:"size:255" json:"cancel_reason,omitempty"`
	CancelledBy  string     `gorm:"size:36" json:"cancelled_by,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	FinalizedBy  string     `gorm:"size:36" json:"finalized_by,omitempty"`
	FinalizedAt  *time.Time `json:"finalized_at,omitempty"`

	Version int `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ResponsibleLawyerID considera a reatribuição explícita do atendimento.
func (a *Appointment) ResponsibleLawyerID() string {
	if a.AssignedLawyerID != nil && *a.AssignedLawyerID != "" {
		return *a.AssignedLawyerID
	}
	return a.LawyerID
}
