package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/advoga-scheduler/internal/dto"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/advoga-scheduler/internal/middleware"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
	"github.com/BruksfildServices01/advoga-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	users account.Repository

	create      *appointment.CreateAppointment
	confirm     *appointment.ConfirmAppointment
	pay         *appointment.ConfirmPayment
	checkout    *appointment.Checkout
	acknowledge *appointment.AcknowledgeAppointment
	cancel      *appointment.CancelAppointment
	finalize    *appointment.FinalizeAppointment
	list        *appointment.ListAppointments
	calendar    *appointment.ExportCalendar

	// com gateway real o pagamento só é confirmado pelo webhook
	directPayment bool
}

type AppointmentUseCases struct {
	Create      *appointment.CreateAppointment
	Confirm     *appointment.ConfirmAppointment
	Pay         *appointment.ConfirmPayment
	Checkout    *appointment.Checkout
	Acknowledge *appointment.AcknowledgeAppointment
	Cancel      *appointment.CancelAppointment
	Finalize    *appointment.FinalizeAppointment
	List        *appointment.ListAppointments
	Calendar    *appointment.ExportCalendar
}

func NewAppointmentHandler(
	users account.Repository,
	uc AppointmentUseCases,
	directPayment bool,
) *AppointmentHandler {
	return &AppointmentHandler{
		users:         users,
		create:        uc.Create,
		confirm:       uc.Confirm,
		pay:           uc.Pay,
		checkout:      uc.Checkout,
		acknowledge:   uc.Acknowledge,
		cancel:        uc.Cancel,
		finalize:      uc.Finalize,
		list:          uc.List,
		calendar:      uc.Calendar,
		directPayment: directPayment,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	PageID          string          `json:"page_id" binding:"required"`
	ClientName      string          `json:"client_name"`
	ClientEmail     string          `json:"client_email"`
	ClientPhone     string          `json:"client_phone"`
	ProposedPrice   decimal.Decimal `json:"proposed_price"`
	Date            string          `json:"date" binding:"required"` // YYYY-MM-DD
	Time            string          `json:"time" binding:"required"` // HH:mm
	CaseDescription string          `json:"case_description"`
}

type ConfirmAppointmentRequest struct {
	FinalPrice       decimal.Decimal `json:"final_price"`
	VideoCallLink    string          `json:"video_call_link"`
	AssignedLawyerID string          `json:"assigned_lawyer_id"`
}

type PayAppointmentRequest struct {
	TransactionID string          `json:"transaction_id"`
	Method        string          `json:"method"`
	Amount        decimal.Decimal `json:"amount"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

// ======================================================
// CREATE
// ======================================================

// Create: o cliente logado agenda; contato ausente vem do perfil.
func (h *AppointmentHandler) Create(c *gin.Context) {
	clientID := middleware.UserID(c)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	if req.ClientName == "" || (req.ClientEmail == "" && req.ClientPhone == "") {
		if u, err := h.users.GetUser(c.Request.Context(), clientID); err == nil {
			if req.ClientName == "" {
				req.ClientName = u.Name
			}
			if req.ClientEmail == "" {
				req.ClientEmail = u.Email
			}
			if req.ClientPhone == "" {
				req.ClientPhone = u.Phone
			}
		}
	}

	ap, err := h.create.Execute(c.Request.Context(), appointment.CreateAppointmentInput{
		PageID:          req.PageID,
		ClientID:        clientID,
		ClientName:      req.ClientName,
		ClientEmail:     req.ClientEmail,
		ClientPhone:     req.ClientPhone,
		ProposedPrice:   req.ProposedPrice,
		Date:            req.Date,
		Time:            req.Time,
		CaseDescription: req.CaseDescription,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// LIST
// ======================================================

// ListMine: ?as=client (padrão) ou ?as=professional.
func (h *AppointmentHandler) ListMine(c *gin.Context) {
	userID := middleware.UserID(c)

	var (
		apps []models.Appointment
		err  error
	)
	switch c.DefaultQuery("as", "client") {
	case "client":
		apps, err = h.list.ForClient(c.Request.Context(), userID)
	case "professional":
		apps, err = h.list.ForProfessional(c.Request.Context(), userID)
	default:
		httperr.BadRequest(c, "invalid_view", "Use as=client ou as=professional.")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.List(c, dto.AppointmentList(apps))
}

func (h *AppointmentHandler) ListForPage(c *gin.Context) {
	apps, err := h.list.ForPage(c.Request.Context(), middleware.UserID(c), c.Param("pageID"))
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.List(c, dto.AppointmentList(apps))
}

// ======================================================
// TRANSITIONS
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	var req ConfirmAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	ap, err := h.confirm.Execute(c.Request.Context(), appointment.ConfirmAppointmentInput{
		AppointmentID:    c.Param("id"),
		ActorID:          middleware.UserID(c),
		FinalPrice:       req.FinalPrice,
		VideoCallLink:    req.VideoCallLink,
		AssignedLawyerID: req.AssignedLawyerID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// Pay confirma o pagamento sem gateway externo (provedor simulado).
func (h *AppointmentHandler) Pay(c *gin.Context) {
	if !h.directPayment {
		httperr.Write(c, http.StatusConflict, "use_checkout", "Pague pelo checkout; a confirmação chega pelo gateway.")
		return
	}

	var req PayAppointmentRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	res, err := h.pay.Execute(c.Request.Context(), appointment.ConfirmPaymentInput{
		AppointmentID: c.Param("id"),
		ActorID:       middleware.UserID(c),
		TransactionID: req.TransactionID,
		Method:        req.Method,
		Amount:        req.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, res)
}

func (h *AppointmentHandler) Checkout(c *gin.Context) {
	out, err := h.checkout.Execute(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, out)
}

func (h *AppointmentHandler) Acknowledge(c *gin.Context) {
	ap, err := h.acknowledge.Execute(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	var req CancelAppointmentRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Finalize(c *gin.Context) {
	ap, err := h.finalize.Execute(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

// ======================================================
// CALENDAR
// ======================================================

func (h *AppointmentHandler) CalendarICS(c *gin.Context) {
	file, err := h.calendar.Build(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", file.Body)
}

func (h *AppointmentHandler) CalendarExport(c *gin.Context) {
	file, err := h.calendar.Upload(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, file)
}
