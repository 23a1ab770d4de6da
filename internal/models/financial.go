package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	EntryTypeIncome     = "income"
	EntryTypeWithdrawal = "withdrawal"
)

type BankDetails struct {
	BankName       string `json:"bank_name"`
	Agency         string `json:"agency"`
	Account        string `json:"account"`
	AccountType    string `json:"account_type,omitempty"`
	HolderName     string `json:"holder_name"`
	HolderDocument string `json:"holder_document"`
	PixKey         string `json:"pix_key,omitempty"`
}

// FinancialEntry é um lançamento do extrato do profissional (tabela "financial").
type FinancialEntry struct {
	ID             string  `gorm:"type:uuid;primaryKey" json:"id"`
	ProfessionalID string  `gorm:"type:uuid;index;not null" json:"professional_id"`
	PageID         *string `gorm:"type:uuid;index" json:"page_id,omitempty"` // nil em saques
	AppointmentID  *string `gorm:"type:uuid;uniqueIndex" json:"appointment_id,omitempty"`

	Type   string          `gorm:"size:20;index;not null" json:"type"`
	Amount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Status string          `gorm:"size:20;not null" json:"status"`

	BankDetails *datatypes.JSONType[BankDetails] `json:"bank_details,omitempty"`
	Description string                           `gorm:"size:255" json:"description"`

	OccurredAt  time.Time  `gorm:"index" json:"occurred_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (FinancialEntry) TableName() string {
	return "financial"
}
