package payment

import (
	"context"
	"fmt"
	"strconv"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/shopspring/decimal"
)

type MercadoPago struct {
	payments    mppayment.Client
	preferences preference.Client
	notifyURL   string
}

func NewMercadoPago(accessToken, notifyURL string) (*MercadoPago, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &MercadoPago{
		payments:    mppayment.NewClient(cfg),
		preferences: preference.NewClient(cfg),
		notifyURL:   notifyURL,
	}, nil
}

func (m *MercadoPago) Name() string { return "mercadopago" }

func (m *MercadoPago) CreateCheckout(ctx context.Context, in CheckoutInput) (*Checkout, error) {
	req := preference.Request{
		ExternalReference: in.AppointmentID,
		NotificationURL:   m.notifyURL,
		Items: []preference.ItemRequest{
			{
				ID:         in.AppointmentID,
				Title:      in.Title,
				Quantity:   1,
				UnitPrice:  in.Amount.InexactFloat64(),
				CurrencyID: "BRL",
			},
		},
	}
	if in.PayerEmail != "" {
		req.Payer = &preference.PayerRequest{Email: in.PayerEmail}
	}

	res, err := m.preferences.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("mercadopago preference: %w", err)
	}

	return &Checkout{PreferenceID: res.ID, URL: res.InitPoint}, nil
}

func (m *MercadoPago) FetchPayment(ctx context.Context, paymentID string) (*Payment, error) {
	id, err := strconv.Atoi(paymentID)
	if err != nil {
		return nil, ErrPaymentNotFound
	}

	res, err := m.payments.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("mercadopago payment %d: %w", id, err)
	}

	return &Payment{
		ID:                strconv.Itoa(res.ID),
		Status:            res.Status,
		StatusDetail:      res.StatusDetail,
		Method:            res.PaymentMethodID,
		ExternalReference: res.ExternalReference,
		Amount:            decimal.NewFromFloat(res.TransactionAmount),
	}, nil
}
