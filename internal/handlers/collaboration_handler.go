package handlers

import (
	"context"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/advoga-scheduler/internal/infra/events"
	"github.com/BruksfildServices01/advoga-scheduler/internal/middleware"
	"github.com/BruksfildServices01/advoga-scheduler/internal/usecase/collaboration"
)

const streamHeartbeat = 25 * time.Second

// ======================================================
// HANDLER
// ======================================================

type CollaborationHandler struct {
	send          *collaboration.SendInvite
	accept        *collaboration.AcceptInvite
	decline       *collaboration.DeclineInvite
	deleteInvite  *collaboration.DeleteInvite
	changeRole    *collaboration.ChangeRole
	remove        *collaboration.RemoveCollaborator
	collaborators *collaboration.ListCollaborations
	invites       *collaboration.ListInvites

	broker events.Broker
	log    zerolog.Logger

	// encerrado no desligamento do servidor; fecha os streams abertos
	shutdown context.Context
}

type CollaborationUseCases struct {
	Send          *collaboration.SendInvite
	Accept        *collaboration.AcceptInvite
	Decline       *collaboration.DeclineInvite
	DeleteInvite  *collaboration.DeleteInvite
	ChangeRole    *collaboration.ChangeRole
	Remove        *collaboration.RemoveCollaborator
	Collaborators *collaboration.ListCollaborations
	Invites       *collaboration.ListInvites
}

func NewCollaborationHandler(
	uc CollaborationUseCases,
	broker events.Broker,
	shutdown context.Context,
	log zerolog.Logger,
) *CollaborationHandler {
	if shutdown == nil {
		shutdown = context.Background()
	}
	return &CollaborationHandler{
		send:          uc.Send,
		accept:        uc.Accept,
		decline:       uc.Decline,
		deleteInvite:  uc.DeleteInvite,
		changeRole:    uc.ChangeRole,
		remove:        uc.Remove,
		collaborators: uc.Collaborators,
		invites:       uc.Invites,
		broker:        broker,
		log:           log,
		shutdown:      shutdown,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type SendInviteRequest struct {
	TargetCode  string `json:"target_code"`
	TargetEmail string `json:"target_email"`
	Role        string `json:"role" binding:"required"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ======================================================
// PAGE SCOPE
// ======================================================

func (h *CollaborationHandler) SendInvite(c *gin.Context) {
	var req SendInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	inv, err := h.send.Execute(c.Request.Context(), collaboration.SendInviteInput{
		OwnerID:     middleware.UserID(c),
		PageID:      c.Param("pageID"),
		TargetCode:  req.TargetCode,
		TargetEmail: req.TargetEmail,
		Role:        req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Created(c, inv)
}

func (h *CollaborationHandler) ListPageInvites(c *gin.Context) {
	list, err := h.invites.ForPage(c.Request.Context(), middleware.UserID(c), c.Param("pageID"))
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *CollaborationHandler) ListCollaborators(c *gin.Context) {
	list, err := h.collaborators.ForPage(c.Request.Context(), middleware.UserID(c), c.Param("pageID"))
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *CollaborationHandler) ChangeRole(c *gin.Context) {
	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	collab, err := h.changeRole.Execute(
		c.Request.Context(),
		middleware.UserID(c),
		c.Param("pageID"),
		c.Param("collabID"),
		req.Role,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, collab)
}

func (h *CollaborationHandler) RemoveCollaborator(c *gin.Context) {
	err := h.remove.Execute(
		c.Request.Context(),
		middleware.UserID(c),
		c.Param("pageID"),
		c.Param("collabID"),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.NoContent(c)
}

// ======================================================
// USER SCOPE
// ======================================================

// MyInvites: ?box=inbox (padrão) ou ?box=outbox.
func (h *CollaborationHandler) MyInvites(c *gin.Context) {
	box := c.DefaultQuery("box", collaboration.BoxInbox)
	if box != collaboration.BoxInbox && box != collaboration.BoxOutbox {
		httperr.BadRequest(c, "invalid_box", "Use box=inbox ou box=outbox.")
		return
	}

	list, err := h.invites.ForUser(c.Request.Context(), middleware.UserID(c), box)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *CollaborationHandler) MyCollaborations(c *gin.Context) {
	list, err := h.collaborators.ForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *CollaborationHandler) Accept(c *gin.Context) {
	collab, err := h.accept.Execute(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, collab)
}

func (h *CollaborationHandler) Decline(c *gin.Context) {
	inv, err := h.decline.Execute(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, inv)
}

func (h *CollaborationHandler) DeleteInvite(c *gin.Context) {
	if err := h.deleteInvite.Execute(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	httpresp.NoContent(c)
}

// ======================================================
// STREAM (SSE)
// ======================================================

// Stream envia os eventos de convite do usuário enquanto a conexão durar.
// A assinatura é cancelada junto com o contexto da requisição.
func (h *CollaborationHandler) Stream(c *gin.Context) {
	userID := middleware.UserID(c)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	stop := context.AfterFunc(h.shutdown, cancel)
	defer stop()

	ch, err := h.broker.Subscribe(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("ready", gin.H{"user_id": userID})
	c.Writer.Flush()

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Type, ev)
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		case <-ctx.Done():
			return false
		}
	})

	h.log.Debug().Str("user_id", userID).Msg("invite stream closed")
}
