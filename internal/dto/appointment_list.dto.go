package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

// AppointmentListItem é a linha das listagens de agenda (cliente, profissional, página).
type AppointmentListItem struct {
	ID     string `json:"id"`
	PageID string `json:"page_id"`

	ClientName          string `json:"client_name"`
	ResponsibleLawyerID string `json:"responsible_lawyer_id"`

	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"`

	ProposedPrice decimal.Decimal `json:"proposed_price"`
	FinalPrice    decimal.Decimal `json:"final_price"`

	VideoCallLink string `json:"video_call_link,omitempty"`
	Paid          bool   `json:"paid"`
}

func AppointmentList(apps []models.Appointment) []AppointmentListItem {
	out := make([]AppointmentListItem, 0, len(apps))
	for i := range apps {
		ap := &apps[i]
		out = append(out, AppointmentListItem{
			ID:                  ap.ID,
			PageID:              ap.PageID,
			ClientName:          ap.ClientName,
			ResponsibleLawyerID: ap.ResponsibleLawyerID(),
			ScheduledAt:         ap.ScheduledAt,
			Status:              ap.Status,
			ProposedPrice:       ap.ProposedPrice,
			FinalPrice:          ap.FinalPrice,
			VideoCallLink:       ap.VideoCallLink,
			Paid:                ap.PaidAt != nil,
		})
	}
	return out
}
