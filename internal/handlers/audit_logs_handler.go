package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/advoga-scheduler/internal/audit"
	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/collaboration"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/advoga-scheduler/internal/middleware"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	reader audit.Reader
}

func NewAuditLogsHandler(reader audit.Reader) *AuditLogsHandler {
	return &AuditLogsHandler{reader: reader}
}

// List é exclusivo do dono; a rota já resolveu o acesso à página.
func (h *AuditLogsHandler) List(c *gin.Context) {
	access, ok := middleware.PageAccess(c)
	if !ok || !access.IsOwner() {
		httperr.Forbidden(c, collaboration.ErrForbidden, "Somente o dono da página vê o histórico.")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	// --------------------------------------------------
	// Filtros opcionais
	// --------------------------------------------------
	filter := audit.Filter{
		PageID: c.Param("pageID"),
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		From:   parseDayFilter(c.Query("from"), false),
		To:     parseDayFilter(c.Query("to"), true),
		Page:   page,
		Limit:  limit,
	}

	logs, total, err := h.reader.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
