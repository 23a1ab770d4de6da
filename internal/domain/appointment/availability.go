package appointment

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

type AvailabilityInput struct {
	PageID string
	Date   time.Time
}

type TimeSlot struct {
	Time     string    `json:"time"`
	StartsAt time.Time `json:"starts_at"`
}

// AvailableSlots aplica o modelo semanal ao dia pedido, removendo horários
// passados e horários ocupados por agendamentos não cancelados.
func AvailableSlots(
	template *models.PageAvailability,
	day time.Time,
	booked []models.Appointment,
	now time.Time,
) []TimeSlot {

	if template == nil || !template.Active {
		return []TimeSlot{}
	}

	taken := make(map[int64]bool, len(booked))
	for _, ap := range booked {
		if Status(ap.Status).Occupies() {
			taken[ap.ScheduledAt.Unix()] = true
		}
	}

	loc := day.Location()
	slots := make([]TimeSlot, 0, len(template.Slots))

	for _, hm := range template.Slots {
		start, ok := SlotTime(day, hm, loc)
		if !ok {
			continue
		}
		if start.Before(now) || taken[start.Unix()] {
			continue
		}
		slots = append(slots, TimeSlot{Time: start.Format("15:04"), StartsAt: start})
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartsAt.Before(slots[j].StartsAt)
	})

	return slots
}

// SlotTime combina o dia com um horário "HH:MM" do modelo semanal.
func SlotTime(day time.Time, hm string, loc *time.Location) (time.Time, bool) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), true
}

// InTemplate confere se o instante corresponde a um horário ativo do modelo.
func InTemplate(template *models.PageAvailability, at time.Time) bool {
	if template == nil || !template.Active || int(at.Weekday()) != template.Weekday {
		return false
	}
	for _, hm := range template.Slots {
		if slot, ok := SlotTime(at, hm, at.Location()); ok && slot.Equal(at) {
			return true
		}
	}
	return false
}
