package financial

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

func income(amount int64, at time.Time) models.FinancialEntry {
	return models.FinancialEntry{Type: models.EntryTypeIncome, Amount: decimal.NewFromInt(amount), Status: "received", OccurredAt: at}
}

func withdrawal(amount int64, status WithdrawalStatus) models.FinancialEntry {
	return models.FinancialEntry{Type: models.EntryTypeWithdrawal, Amount: decimal.NewFromInt(amount), Status: string(status)}
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertDec(t *testing.T, name string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Fatalf("%s: want %s, got %s", name, want, got)
	}
}

func TestSummarize_BoundaryIsInclusive(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

	s := Summarize([]models.FinancialEntry{
		income(100, now.AddDate(0, 0, -30)),
		income(50, now.AddDate(0, 0, -30).Add(time.Second)),
	}, now)

	assertDec(t, "available", s.AvailableForWithdrawal, dec(100))
	assertDec(t, "pending", s.PendingAmount, dec(50))
	if len(s.UpcomingReleases) != 1 || s.UpcomingReleases[0].Date != "2026-03-31" {
		t.Fatalf("unexpected releases %+v", s.UpcomingReleases)
	}
}

func TestSummarize_SumInvariant(t *testing.T) {
	now := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	ledgers := [][]models.FinancialEntry{
		nil,
		{income(300, now.AddDate(0, 0, -31))},
		{income(300, now.AddDate(0, 0, -1)), withdrawal(10, WithdrawalRequested)},
		{income(120, now.AddDate(0, -3, 0)), income(80, now), income(45, now.AddDate(0, 0, -29)), withdrawal(500, WithdrawalCompleted)},
	}

	for i, entries := range ledgers {
		s := Summarize(entries, now)
		if !s.ReleasedTotal.Add(s.PendingAmount).Equal(s.TotalReceived) {
			t.Fatalf("ledger %d: released %s + pending %s != received %s", i, s.ReleasedTotal, s.PendingAmount, s.TotalReceived)
		}
		if s.AvailableForWithdrawal.IsNegative() {
			t.Fatalf("ledger %d: available must never be negative", i)
		}
	}
}

func TestSummarize_AggregateWithdrawals(t *testing.T) {
	now := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	s := Summarize([]models.FinancialEntry{
		income(300, now.AddDate(0, -2, 0)),
		income(200, now.AddDate(0, 0, -2)),
		withdrawal(100, WithdrawalCompleted),
		withdrawal(40, WithdrawalProcessing),
		withdrawal(999, WithdrawalCancelled),
	}, now)

	assertDec(t, "received", s.TotalReceived, dec(500))
	assertDec(t, "withdrawn", s.TotalWithdrawn, dec(140))
	assertDec(t, "balance", s.Balance, dec(360))
	assertDec(t, "available", s.AvailableForWithdrawal, dec(160))
	assertDec(t, "pending", s.PendingAmount, dec(200))
	assertDec(t, "monthly", s.MonthlyReceived, dec(200))
}

func TestSummarize_Idempotent(t *testing.T) {
	now := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	entries := []models.FinancialEntry{
		income(70, now.AddDate(0, 0, -3)),
		income(30, now.AddDate(0, 0, -5)),
		income(10, now.AddDate(0, 0, -3)),
	}

	a := Summarize(entries, now)
	b := Summarize(entries, now)

	assertDec(t, "available", a.AvailableForWithdrawal, b.AvailableForWithdrawal)
	assertDec(t, "pending", a.PendingAmount, b.PendingAmount)
	if len(a.UpcomingReleases) != 2 || len(b.UpcomingReleases) != 2 {
		t.Fatalf("expected 2 release days, got %d and %d", len(a.UpcomingReleases), len(b.UpcomingReleases))
	}
	for i := range a.UpcomingReleases {
		if a.UpcomingReleases[i].Date != b.UpcomingReleases[i].Date || !a.UpcomingReleases[i].Amount.Equal(b.UpcomingReleases[i].Amount) {
			t.Fatal("release schedule differs between calls")
		}
	}
	if a.UpcomingReleases[0].Date > a.UpcomingReleases[1].Date {
		t.Fatal("releases must be ascending")
	}
}

func TestValidateWithdrawal(t *testing.T) {
	bank := models.BankDetails{BankName: "Banco do Brasil", Agency: "0001", Account: "12345-6", HolderName: "Ana", HolderDocument: "123.456.789-09"}
	s := Summary{AvailableForWithdrawal: dec(300)}

	cases := []struct {
		name   string
		amount decimal.Decimal
		bank   models.BankDetails
		code   string
	}{
		{"ok", dec(300), bank, ""},
		{"zero", dec(0), bank, ErrInvalidAmount},
		{"negative", dec(-5), bank, ErrInvalidAmount},
		{"too much", dec(301), bank, ErrInsufficientFunds},
		{"missing agency", dec(10), models.BankDetails{BankName: "x", Account: "1", HolderName: "a", HolderDocument: "d"}, ErrMissingBankDetails},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateWithdrawal(tc.amount, tc.bank, s)
			if tc.code == "" {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			if !httperr.IsBusiness(err, tc.code) {
				t.Fatalf("want %s, got %v", tc.code, err)
			}
		})
	}
}

func TestWithdrawalTransitions(t *testing.T) {
	if !CanTransitionWithdrawal(WithdrawalRequested, WithdrawalProcessing) ||
		!CanTransitionWithdrawal(WithdrawalProcessing, WithdrawalCompleted) ||
		!CanTransitionWithdrawal(WithdrawalRequested, WithdrawalCancelled) {
		t.Fatal("expected forward transitions to be allowed")
	}
	if CanTransitionWithdrawal(WithdrawalCompleted, WithdrawalCancelled) ||
		CanTransitionWithdrawal(WithdrawalCancelled, WithdrawalRequested) ||
		CanTransitionWithdrawal(WithdrawalRequested, WithdrawalCompleted) {
		t.Fatal("unexpected transition allowed")
	}
}

func TestSummarizePageIncome_OnlyThatPage(t *testing.T) {
	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	p1, p2 := "p1", "p2"

	released := income(300, now.AddDate(0, 0, -31))
	released.PageID = &p1
	held := income(120, now.AddDate(0, 0, -2))
	held.PageID = &p1
	other := income(999, now.AddDate(0, 0, -40))
	other.PageID = &p2

	s := SummarizePageIncome("p1", []models.FinancialEntry{released, held, other, withdrawal(300, WithdrawalRequested)}, now)

	assertDec(t, "total", s.TotalReceived, dec(420))
	assertDec(t, "released", s.ReleasedTotal, dec(300))
	assertDec(t, "pending", s.PendingAmount, dec(120))
	if len(s.UpcomingReleases) != 1 || s.UpcomingReleases[0].Date != "2026-06-17" {
		t.Fatalf("unexpected releases %+v", s.UpcomingReleases)
	}
}
