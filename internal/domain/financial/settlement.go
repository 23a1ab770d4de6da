package financial

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
	"github.com/BruksfildServices01/advoga-scheduler/internal/timezone"
)

// HoldDays é a retenção D+30 antes de uma receita ficar disponível para saque.
const HoldDays = 30

type Release struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

type Summary struct {
	TotalReceived          decimal.Decimal `json:"total_received"`
	TotalWithdrawn         decimal.Decimal `json:"total_withdrawn"`
	Balance                decimal.Decimal `json:"balance"`
	MonthlyReceived        decimal.Decimal `json:"monthly_received"`
	ReleasedTotal          decimal.Decimal `json:"released_total"`
	AvailableForWithdrawal decimal.Decimal `json:"available_for_withdrawal"`
	PendingAmount          decimal.Decimal `json:"pending_amount"`
	UpcomingReleases       []Release       `json:"upcoming_releases"`
}

func ReleaseDate(occurredAt time.Time) time.Time {
	return occurredAt.AddDate(0, 0, HoldDays)
}

// IsReleased: a liberação é inclusiva, now == releaseDate já está disponível.
func IsReleased(occurredAt, now time.Time) bool {
	return !now.Before(ReleaseDate(occurredAt))
}

// CountsAsWithdrawn: saques cancelados não abatem o saldo.
func CountsAsWithdrawn(e models.FinancialEntry) bool {
	return e.Type == models.EntryTypeWithdrawal && WithdrawalStatus(e.Status) != WithdrawalCancelled
}

// Summarize é puro: mesmos lançamentos e mesmo now produzem o mesmo resumo.
// Saques são abatidos do total liberado de forma agregada, sem casar com receitas.
func Summarize(entries []models.FinancialEntry, now time.Time) Summary {
	s := Summary{
		TotalReceived:          decimal.Zero,
		TotalWithdrawn:         decimal.Zero,
		MonthlyReceived:        decimal.Zero,
		ReleasedTotal:          decimal.Zero,
		AvailableForWithdrawal: decimal.Zero,
		PendingAmount:          decimal.Zero,
		UpcomingReleases:       []Release{},
	}

	monthStart, monthEnd := timezone.MonthBounds(now)
	pendingByDay := map[string]decimal.Decimal{}

	for _, e := range entries {
		switch e.Type {
		case models.EntryTypeIncome:
			s.TotalReceived = s.TotalReceived.Add(e.Amount)

			at := e.OccurredAt.In(now.Location())
			if !at.Before(monthStart) && at.Before(monthEnd) {
				s.MonthlyReceived = s.MonthlyReceived.Add(e.Amount)
			}

			if IsReleased(e.OccurredAt, now) {
				s.ReleasedTotal = s.ReleasedTotal.Add(e.Amount)
			} else {
				s.PendingAmount = s.PendingAmount.Add(e.Amount)
				day := ReleaseDate(e.OccurredAt).In(now.Location()).Format("2006-01-02")
				pendingByDay[day] = pendingByDay[day].Add(e.Amount)
			}

		case models.EntryTypeWithdrawal:
			if CountsAsWithdrawn(e) {
				s.TotalWithdrawn = s.TotalWithdrawn.Add(e.Amount)
			}
		}
	}

	s.Balance = s.TotalReceived.Sub(s.TotalWithdrawn)
	s.AvailableForWithdrawal = decimal.Max(decimal.Zero, s.ReleasedTotal.Sub(s.TotalWithdrawn))

	for day, amount := range pendingByDay {
		s.UpcomingReleases = append(s.UpcomingReleases, Release{Date: day, Amount: amount})
	}
	sort.Slice(s.UpcomingReleases, func(i, j int) bool {
		return s.UpcomingReleases[i].Date < s.UpcomingReleases[j].Date
	})

	return s
}

// PageIncome é a visão de uma página: só receitas. Saques pertencem ao
// profissional, então saldo e disponível para saque ficam no resumo dele.
type PageIncome struct {
	PageID           string          `json:"page_id"`
	TotalReceived    decimal.Decimal `json:"total_received"`
	MonthlyReceived  decimal.Decimal `json:"monthly_received"`
	ReleasedTotal    decimal.Decimal `json:"released_total"`
	PendingAmount    decimal.Decimal `json:"pending_amount"`
	UpcomingReleases []Release       `json:"upcoming_releases"`
}

func SummarizePageIncome(pageID string, entries []models.FinancialEntry, now time.Time) PageIncome {
	income := make([]models.FinancialEntry, 0, len(entries))
	for _, e := range entries {
		if e.Type == models.EntryTypeIncome && e.PageID != nil && *e.PageID == pageID {
			income = append(income, e)
		}
	}

	s := Summarize(income, now)
	return PageIncome{
		PageID:           pageID,
		TotalReceived:    s.TotalReceived,
		MonthlyReceived:  s.MonthlyReceived,
		ReleasedTotal:    s.ReleasedTotal,
		PendingAmount:    s.PendingAmount,
		UpcomingReleases: s.UpcomingReleases,
	}
}
