package page

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

const (
	ErrPageNotFound   = "page_not_found"
	ErrSlugTaken      = "slug_already_exists"
	ErrInvalidSlug    = "invalid_slug"
	ErrInvalidWeekday = "invalid_weekday"
	ErrInvalidSlot    = "invalid_slot"
	ErrForbidden      = "forbidden"
)

type Repository interface {
	CreatePage(ctx context.Context, p *models.LawyerPage) error
	GetPage(ctx context.Context, id string) (*models.LawyerPage, error)
	GetPageBySlug(ctx context.Context, slug string) (*models.LawyerPage, error)
	ListPagesByOwner(ctx context.Context, ownerID string) ([]models.LawyerPage, error)
	UpdatePage(ctx context.Context, p *models.LawyerPage) error
	DeletePage(ctx context.Context, id string) error

	ListAvailability(ctx context.Context, pageID string) ([]models.PageAvailability, error)
	ReplaceAvailability(ctx context.Context, pageID string, days []models.PageAvailability) error

	ListClients(ctx context.Context, professionalID string, query string) ([]models.Client, error)
	// ListPageClients devolve as fichas com ao menos uma consulta paga na página,
	// seja do dono ou do colaborador responsável.
	ListPageClients(ctx context.Context, pageID string, query string) ([]models.Client, error)
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func NormalizeSlug(raw string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(raw))
	if len(slug) < 3 || len(slug) > 100 || !slugPattern.MatchString(slug) {
		return "", httperr.ErrBusiness(ErrInvalidSlug)
	}
	return slug, nil
}

type DayTemplate struct {
	Weekday int      `json:"weekday"`
	Active  bool     `json:"active"`
	Slots   []string `json:"slots"`
}

// BuildAvailability valida o modelo semanal: dia 0–6, horários "HH:MM",
// sem repetição, ordenados.
func BuildAvailability(pageID string, days []DayTemplate) ([]models.PageAvailability, error) {
	seenDay := map[int]bool{}
	out := make([]models.PageAvailability, 0, len(days))

	for _, d := range days {
		if d.Weekday < 0 || d.Weekday > 6 || seenDay[d.Weekday] {
			return nil, httperr.ErrBusiness(ErrInvalidWeekday)
		}
		seenDay[d.Weekday] = true

		seen := map[string]bool{}
		slots := make([]string, 0, len(d.Slots))
		for _, s := range d.Slots {
			t, err := time.Parse("15:04", strings.TrimSpace(s))
			if err != nil {
				return nil, httperr.ErrBusiness(ErrInvalidSlot)
			}
			hm := t.Format("15:04")
			if seen[hm] {
				continue
			}
			seen[hm] = true
			slots = append(slots, hm)
		}
		sort.Strings(slots)

		out = append(out, models.PageAvailability{
			PageID:  pageID,
			Weekday: d.Weekday,
			Active:  d.Active,
			Slots:   slots,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Weekday < out[j].Weekday })
	return out, nil
}
