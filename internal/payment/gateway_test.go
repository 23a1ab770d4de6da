package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTransactionID(t *testing.T) {
	now := time.Unix(0, 1700000000123)

	if got := TransactionID(" tx-42 ", now); got != "tx-42" {
		t.Fatalf("expected supplied id, got %s", got)
	}
	if got := TransactionID("", now); got != "sim_1700000000123" {
		t.Fatalf("expected derived id, got %s", got)
	}
}

func TestSimulatedGateway(t *testing.T) {
	g := NewSimulated()
	ctx := context.Background()

	if _, err := g.FetchPayment(ctx, "nope"); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	g.Approve("pay-1", "ap-1", decimal.NewFromInt(300))
	p, err := g.FetchPayment(ctx, "pay-1")
	if err != nil {
		t.Fatal(err)
	}
	if !p.Approved() || p.ExternalReference != "ap-1" || !p.Amount.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("unexpected payment %+v", p)
	}

	co, err := g.CreateCheckout(ctx, CheckoutInput{AppointmentID: "ap-1"})
	if err != nil || co.URL == "" {
		t.Fatalf("unexpected checkout %+v, %v", co, err)
	}
}
