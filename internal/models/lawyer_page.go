package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// LawyerPage é o perfil público do advogado e a superfície de agendamento.
type LawyerPage struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID string `gorm:"type:uuid;index;not null" json:"owner_id"`

	Slug        string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Name        string `gorm:"size:100;not null" json:"name"`
	OABNumber   string `gorm:"size:20" json:"oab_number"`
	Specialties string `gorm:"size:255" json:"specialties"`
	Bio         string `gorm:"type:text" json:"bio"`
	City        string `gorm:"size:100" json:"city"`
	State       string `gorm:"size:2" json:"state"`

	ConsultationPrice decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"consultation_price"`
	Timezone          string          `gorm:"size:50;default:'America/Sao_Paulo'" json:"timezone"`
	Active            bool            `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PageAvailability é o modelo semanal: por dia da semana, ativo + horários "HH:MM".
type PageAvailability struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	PageID string `gorm:"type:uuid;uniqueIndex:idx_page_weekday;not null" json:"page_id"`

	Weekday int                         `gorm:"uniqueIndex:idx_page_weekday" json:"weekday"`
	Active  bool                        `json:"active"`
	Slots   datatypes.JSONSlice[string] `json:"slots"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
