package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/page"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httpresp"
)

type ClientHandler struct {
	pages page.Repository
}

func NewClientHandler(pages page.Repository) *ClientHandler {
	return &ClientHandler{pages: pages}
}

// ======================================================
// LIST CLIENTS (PÁGINA)
// ======================================================

// List devolve as fichas dos clientes atendidos pela página, inclusive por
// colaboradores; ?query= filtra por nome, e-mail ou telefone.
func (h *ClientHandler) List(c *gin.Context) {
	p, err := h.pages.GetPage(c.Request.Context(), c.Param("pageID"))
	if err != nil {
		respondError(c, err)
		return
	}

	clients, err := h.pages.ListPageClients(c.Request.Context(), p.ID, c.Query("query"))
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.List(c, clients)
}
