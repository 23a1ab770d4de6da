package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/advoga-scheduler/internal/usecase/appointment"
)

type WebhookHandler struct {
	process *appointment.ProcessPaymentNotification
}

func NewWebhookHandler(process *appointment.ProcessPaymentNotification) *WebhookHandler {
	return &WebhookHandler{process: process}
}

// paymentNotification cobre o formato webhook ({type, data.id}).
type paymentNotification struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// MercadoPago aceita webhook (corpo JSON) e IPN (?topic=payment&id=).
// Avisos que não são de pagamento respondem 200 para o gateway não reenviar.
func (h *WebhookHandler) MercadoPago(c *gin.Context) {
	var body paymentNotification
	_ = c.ShouldBindJSON(&body)

	kind := firstNonEmpty(body.Type, c.Query("type"), c.Query("topic"))
	paymentID := firstNonEmpty(body.Data.ID, c.Query("data.id"), c.Query("id"))

	if kind != "" && kind != "payment" {
		httpresp.OK(c, appointment.NotificationResult{Outcome: appointment.NotificationIgnored})
		return
	}
	if paymentID == "" {
		httperr.BadRequest(c, "missing_payment_id", "Notificação sem id de pagamento.")
		return
	}

	res, err := h.process.Execute(c.Request.Context(), paymentID)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, res)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
