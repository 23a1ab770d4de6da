package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/advoga-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/payment"
)

// Checkout abre a cobrança no gateway para um agendamento aguardando pagamento.
type Checkout struct {
	repo    domain.Repository
	gateway payment.Gateway
}

func NewCheckout(repo domain.Repository, gateway payment.Gateway) *Checkout {
	return &Checkout{repo: repo, gateway: gateway}
}

func (uc *Checkout) Execute(
	ctx context.Context,
	clientID string,
	appointmentID string,
) (*payment.Checkout, error) {

	ap, err := getAppointment(ctx, uc.repo, appointmentID)
	if err != nil {
		return nil, err
	}
	if ap.ClientID != clientID {
		return nil, httperr.ErrBusiness(domain.ErrForbidden)
	}
	if domain.Status(ap.Status) != domain.StatusAwaitingPayment {
		return nil, httperr.ErrBusiness(domain.ErrInvalidState)
	}
	if !ap.FinalPrice.IsPositive() {
		return nil, httperr.ErrBusiness(domain.ErrInvalidPrice)
	}

	title := "Consulta jurídica"
	if page, err := uc.repo.GetPage(ctx, ap.PageID); err == nil {
		title += " - " + page.Name
	}

	return uc.gateway.CreateCheckout(ctx, payment.CheckoutInput{
		AppointmentID: ap.ID,
		Title:         title,
		PayerEmail:    ap.ClientEmail,
		Amount:        ap.FinalPrice,
	})
}
