package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/advoga-scheduler/internal/audit"
	"github.com/BruksfildServices01/advoga-scheduler/internal/config"
	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/account"
	domainAppointment "github.com/BruksfildServices01/advoga-scheduler/internal/domain/appointment"
	domainCollab "github.com/BruksfildServices01/advoga-scheduler/internal/domain/collaboration"
	domainFinancial "github.com/BruksfildServices01/advoga-scheduler/internal/domain/financial"
	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/page"
	"github.com/BruksfildServices01/advoga-scheduler/internal/handlers"
	"github.com/BruksfildServices01/advoga-scheduler/internal/infra/events"
	"github.com/BruksfildServices01/advoga-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/advoga-scheduler/internal/infra/objectstore"
	"github.com/BruksfildServices01/advoga-scheduler/internal/middleware"
	"github.com/BruksfildServices01/advoga-scheduler/internal/payment"
	ucAppointment "github.com/BruksfildServices01/advoga-scheduler/internal/usecase/appointment"
	ucCollab "github.com/BruksfildServices01/advoga-scheduler/internal/usecase/collaboration"
	ucFinancial "github.com/BruksfildServices01/advoga-scheduler/internal/usecase/financial"
)

// Deps reúne a infraestrutura já construída pelo main (ou pelos testes).
type Deps struct {
	Config *config.Config
	Log    zerolog.Logger

	Accounts      account.Repository
	Pages         page.Repository
	Appointments  domainAppointment.Repository
	Financial     domainFinancial.Repository
	Collaboration domainCollab.Repository

	Locker  lock.Locker
	Broker  events.Broker
	Objects objectstore.Store
	Gateway payment.Gateway

	Audit       *audit.Dispatcher
	AuditReader audit.Reader

	// Shutdown termina quando o servidor começa a desligar.
	Shutdown context.Context
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// 🔧 PERMISSÕES
	// ======================================================
	access := ucCollab.NewResolveAccess(d.Collaboration)

	requireAny := middleware.RequirePageAccess(access)
	requireCap := func(capability domainCollab.Capability) gin.HandlerFunc {
		return middleware.RequirePageCapability(access, capability)
	}

	// ======================================================
	// 🧠 USE CASES — APPOINTMENTS
	// ======================================================
	confirmPaymentUC := ucAppointment.NewConfirmPayment(d.Appointments, d.Audit, d.Log)

	appointmentUC := handlers.AppointmentUseCases{
		Create:      ucAppointment.NewCreateAppointment(d.Appointments, d.Locker, d.Audit),
		Confirm:     ucAppointment.NewConfirmAppointment(d.Appointments, access, d.Audit),
		Pay:         confirmPaymentUC,
		Checkout:    ucAppointment.NewCheckout(d.Appointments, d.Gateway),
		Acknowledge: ucAppointment.NewAcknowledgeAppointment(d.Appointments, access, d.Audit),
		Cancel:      ucAppointment.NewCancelAppointment(d.Appointments, access, d.Audit),
		Finalize:    ucAppointment.NewFinalizeAppointment(d.Appointments, access, d.Audit),
		List:        ucAppointment.NewListAppointments(d.Appointments, access),
		Calendar:    ucAppointment.NewExportCalendar(d.Appointments, access, d.Objects),
	}

	notificationUC := ucAppointment.NewProcessPaymentNotification(
		d.Appointments,
		d.Gateway,
		confirmPaymentUC,
		d.Log,
	)

	// ======================================================
	// 🧠 USE CASES — COLLABORATION
	// ======================================================
	collabUC := handlers.CollaborationUseCases{
		Send:          ucCollab.NewSendInvite(d.Collaboration, d.Broker, d.Audit, d.Log),
		Accept:        ucCollab.NewAcceptInvite(d.Collaboration, d.Broker, d.Audit, d.Log),
		Decline:       ucCollab.NewDeclineInvite(d.Collaboration, d.Broker, d.Audit, d.Log),
		DeleteInvite:  ucCollab.NewDeleteInvite(d.Collaboration, d.Broker, d.Audit, d.Log),
		ChangeRole:    ucCollab.NewChangeRole(d.Collaboration, d.Audit),
		Remove:        ucCollab.NewRemoveCollaborator(d.Collaboration, d.Audit),
		Collaborators: ucCollab.NewListCollaborations(d.Collaboration, access),
		Invites:       ucCollab.NewListInvites(d.Collaboration),
	}

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.Accounts, cfg)
	meHandler := handlers.NewMeHandler(d.Accounts)
	pageHandler := handlers.NewPageHandler(d.Pages, access, d.Audit)
	clientHandler := handlers.NewClientHandler(d.Pages)
	publicHandler := handlers.NewPublicHandler(d.Pages, ucAppointment.NewGetAvailability(d.Appointments))

	appointmentHandler := handlers.NewAppointmentHandler(
		d.Accounts,
		appointmentUC,
		d.Gateway.Name() == config.PaymentSimulated,
	)
	webhookHandler := handlers.NewWebhookHandler(notificationUC)

	financialHandler := handlers.NewFinancialHandler(
		ucFinancial.NewGetSummary(d.Financial, cfg.Timezone),
		ucFinancial.NewGetPageSummary(d.Financial, access),
		ucFinancial.NewListEntries(d.Financial),
		ucFinancial.NewRequestWithdrawal(d.Financial, d.Locker, d.Audit),
		ucFinancial.NewUpdateWithdrawalStatus(d.Financial, d.Audit),
	)

	collaborationHandler := handlers.NewCollaborationHandler(collabUC, d.Broker, d.Shutdown, d.Log)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.AuditReader)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/pages/:slug", publicHandler.GetPage)
			publicAPI.GET("/pages/:slug/availability", publicHandler.Availability)
		}

		api.POST("/webhooks/mercadopago", webhookHandler.MercadoPago)

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/pages", pageHandler.ListMine)
			secured.GET("/me/appointments", appointmentHandler.ListMine)
			secured.GET("/me/collaborations", collaborationHandler.MyCollaborations)
			secured.GET("/me/invites", collaborationHandler.MyInvites)
			secured.GET("/me/invites/stream", collaborationHandler.Stream)

			secured.GET("/me/financial/summary", financialHandler.MySummary)
			secured.GET("/me/financial/entries", financialHandler.Entries)
			secured.POST("/me/financial/withdrawals", financialHandler.RequestWithdrawal)
			secured.PATCH("/financial/withdrawals/:id", financialHandler.UpdateWithdrawal)

			// ------------------------------
			// PAGES
			// ------------------------------
			secured.POST("/pages", pageHandler.Create)

			pages := secured.Group("/pages/:pageID")
			{
				pages.GET("/access", pageHandler.Access)
				pages.PATCH("", requireCap(domainCollab.CapEdit), pageHandler.Update)
				pages.DELETE("", requireCap(domainCollab.CapDelete), pageHandler.Delete)
				pages.POST("/deactivate", requireCap(domainCollab.CapDeactivate), pageHandler.Deactivate)

				pages.GET("/availability", requireAny, pageHandler.GetAvailability)
				pages.PUT("/availability", requireCap(domainCollab.CapEdit), pageHandler.UpdateAvailability)

				pages.GET("/appointments", appointmentHandler.ListForPage)
				pages.GET("/clients", requireCap(domainCollab.CapClients), clientHandler.List)
				pages.GET("/financial/summary", financialHandler.PageSummary)
				pages.GET("/audit-logs", requireAny, auditLogsHandler.List)

				pages.GET("/invites", collaborationHandler.ListPageInvites)
				pages.POST("/invites", collaborationHandler.SendInvite)
				pages.GET("/collaborators", collaborationHandler.ListCollaborators)
				pages.PATCH("/collaborators/:collabID", collaborationHandler.ChangeRole)
				pages.DELETE("/collaborators/:collabID", collaborationHandler.RemoveCollaborator)
			}

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)

			appointments := secured.Group("/appointments/:id")
			{
				appointments.POST("/confirm", appointmentHandler.Confirm)
				appointments.POST("/pay", appointmentHandler.Pay)
				appointments.POST("/checkout", appointmentHandler.Checkout)
				appointments.POST("/acknowledge", appointmentHandler.Acknowledge)
				appointments.POST("/cancel", appointmentHandler.Cancel)
				appointments.POST("/finalize", appointmentHandler.Finalize)
				appointments.GET("/calendar.ics", appointmentHandler.CalendarICS)
				appointments.POST("/calendar/export", appointmentHandler.CalendarExport)
			}

			// ------------------------------
			// INVITES
			// ------------------------------
			secured.POST("/invites/:id/accept", collaborationHandler.Accept)
			secured.POST("/invites/:id/decline", collaborationHandler.Decline)
			secured.DELETE("/invites/:id", collaborationHandler.DeleteInvite)
		}
	}
}
