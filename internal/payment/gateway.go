// Package payment abstrai o provedor de pagamento das consultas.
package payment

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusApproved = "approved"
	StatusPending  = "pending"
	StatusRejected = "rejected"
)

var ErrPaymentNotFound = errors.New("payment: not found")

type CheckoutInput struct {
	AppointmentID string
	Title         string
	PayerEmail    string
	Amount        decimal.Decimal
}

type Checkout struct {
	PreferenceID string `json:"preference_id"`
	URL          string `json:"checkout_url"`
}

type Payment struct {
	ID                string
	Status            string
	StatusDetail      string
	Method            string
	ExternalReference string
	Amount            decimal.Decimal
}

func (p *Payment) Approved() bool {
	return p.Status == StatusApproved
}

type Gateway interface {
	Name() string
	CreateCheckout(ctx context.Context, in CheckoutInput) (*Checkout, error)
	FetchPayment(ctx context.Context, paymentID string) (*Payment, error)
}

// TransactionID usa o id informado pelo chamador ou deriva um do relógio.
func TransactionID(supplied string, now time.Time) string {
	if s := strings.TrimSpace(supplied); s != "" {
		return s
	}
	return "sim_" + strconv.FormatInt(now.UnixNano(), 10)
}

// ======================================================
// SIMULADO
// ======================================================

// Simulated aprova pagamentos registrados via Approve; usado em dev e testes.
type Simulated struct {
	mu       sync.Mutex
	payments map[string]Payment
}

func NewSimulated() *Simulated {
	return &Simulated{payments: map[string]Payment{}}
}

func (s *Simulated) Name() string { return "simulated" }

func (s *Simulated) CreateCheckout(_ context.Context, in CheckoutInput) (*Checkout, error) {
	return &Checkout{
		PreferenceID: "sim-pref-" + in.AppointmentID,
		URL:          "/api/appointments/" + in.AppointmentID + "/pay",
	}, nil
}

func (s *Simulated) FetchPayment(_ context.Context, paymentID string) (*Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[paymentID]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	return &p, nil
}

func (s *Simulated) Approve(paymentID, appointmentID string, amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.payments[paymentID] = Payment{
		ID:                paymentID,
		Status:            StatusApproved,
		Method:            "pix",
		ExternalReference: appointmentID,
		Amount:            amount,
	}
}
