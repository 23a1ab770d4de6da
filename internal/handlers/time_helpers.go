package handlers

import (
	"time"

	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
	"github.com/BruksfildServices01/advoga-scheduler/internal/timezone"
)

// --------------------------------------------------
// Datas sempre no fuso da página
// --------------------------------------------------

func pageLocation(p *models.LawyerPage) *time.Location {
	if p == nil {
		return timezone.Location(timezone.DefaultTimezone)
	}
	return timezone.Location(p.Timezone)
}

func todayInPage(p *models.LawyerPage) time.Time {
	now := time.Now().In(pageLocation(p))
	start, _ := timezone.DayBounds(now)
	return start
}

// parseDateInPage aceita "YYYY-MM-DD"; vazio significa hoje.
func parseDateInPage(p *models.LawyerPage, date string) (time.Time, error) {
	if date == "" {
		return todayInPage(p), nil
	}
	return time.ParseInLocation("2006-01-02", date, pageLocation(p))
}

// parseDayFilter converte "YYYY-MM-DD" em limite de dia; vazio ou inválido → nil.
func parseDayFilter(date string, endOfDay bool) *time.Time {
	if date == "" {
		return nil
	}
	t, err := timezone.ParseDate(date, timezone.DefaultTimezone)
	if err != nil {
		return nil
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1)
	}
	return &t
}
