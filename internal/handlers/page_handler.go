package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/advoga-scheduler/internal/audit"
	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/collaboration"
	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/page"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/advoga-scheduler/internal/middleware"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
	"github.com/BruksfildServices01/advoga-scheduler/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type PageHandler struct {
	pages  page.Repository
	access collaboration.Resolver
	audit  *audit.Dispatcher
}

func NewPageHandler(
	pages page.Repository,
	access collaboration.Resolver,
	audit *audit.Dispatcher,
) *PageHandler {
	return &PageHandler{pages: pages, access: access, audit: audit}
}

// ======================================================
// REQUESTS
// ======================================================

type CreatePageRequest struct {
	Slug              string          `json:"slug" binding:"required"`
	Name              string          `json:"name" binding:"required"`
	OABNumber         string          `json:"oab_number"`
	Specialties       string          `json:"specialties"`
	Bio               string          `json:"bio"`
	City              string          `json:"city"`
	State             string          `json:"state"`
	ConsultationPrice decimal.Decimal `json:"consultation_price"`
	Timezone          string          `json:"timezone"`
}

// UpdatePageRequest: campos ausentes ficam como estão.
type UpdatePageRequest struct {
	Slug              *string          `json:"slug"`
	Name              *string          `json:"name"`
	OABNumber         *string          `json:"oab_number"`
	Specialties       *string          `json:"specialties"`
	Bio               *string          `json:"bio"`
	City              *string          `json:"city"`
	State             *string          `json:"state"`
	ConsultationPrice *decimal.Decimal `json:"consultation_price"`
	Timezone          *string          `json:"timezone"`
}

type AvailabilityRequest struct {
	Days []page.DayTemplate `json:"days" binding:"required"`
}

// ======================================================
// HELPERS
// ======================================================

func (h *PageHandler) load(c *gin.Context) (*models.LawyerPage, bool) {
	p, err := h.pages.GetPage(c.Request.Context(), c.Param("pageID"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, httperr.ErrBusiness(page.ErrPageNotFound))
			return nil, false
		}
		respondError(c, err)
		return nil, false
	}
	return p, true
}

func normalizeState(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ======================================================
// CRUD
// ======================================================

func (h *PageHandler) Create(c *gin.Context) {
	ownerID := middleware.UserID(c)

	var req CreatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	slug, err := page.NormalizeSlug(req.Slug)
	if err != nil {
		respondError(c, err)
		return
	}
	if req.ConsultationPrice.IsNegative() {
		httperr.BadRequest(c, "invalid_price", "Valor de consulta inválido.")
		return
	}

	tz := timezone.DefaultTimezone
	if timezone.IsValid(req.Timezone) {
		tz = req.Timezone
	}

	p := models.LawyerPage{
		ID:                uuid.NewString(),
		OwnerID:           ownerID,
		Slug:              slug,
		Name:              strings.TrimSpace(req.Name),
		OABNumber:         strings.TrimSpace(req.OABNumber),
		Specialties:       req.Specialties,
		Bio:               req.Bio,
		City:              req.City,
		State:             normalizeState(req.State),
		ConsultationPrice: req.ConsultationPrice,
		Timezone:          tz,
		Active:            true,
	}

	if err := h.pages.CreatePage(c.Request.Context(), &p); err != nil {
		respondError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		PageID:   p.ID,
		UserID:   ownerID,
		Action:   "page_created",
		Entity:   "page",
		EntityID: p.ID,
	})

	httpresp.Created(c, p)
}

func (h *PageHandler) ListMine(c *gin.Context) {
	pages, err := h.pages.ListPagesByOwner(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.List(c, pages)
}

func (h *PageHandler) Update(c *gin.Context) {
	p, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	if req.Slug != nil {
		slug, err := page.NormalizeSlug(*req.Slug)
		if err != nil {
			respondError(c, err)
			return
		}
		p.Slug = slug
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.OABNumber != nil {
		p.OABNumber = strings.TrimSpace(*req.OABNumber)
	}
	if req.Specialties != nil {
		p.Specialties = *req.Specialties
	}
	if req.Bio != nil {
		p.Bio = *req.Bio
	}
	if req.City != nil {
		p.City = *req.City
	}
	if req.State != nil {
		p.State = normalizeState(*req.State)
	}
	if req.ConsultationPrice != nil {
		if req.ConsultationPrice.IsNegative() {
			httperr.BadRequest(c, "invalid_price", "Valor de consulta inválido.")
			return
		}
		p.ConsultationPrice = *req.ConsultationPrice
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
			return
		}
		p.Timezone = *req.Timezone
	}

	if err := h.pages.UpdatePage(c.Request.Context(), p); err != nil {
		respondError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		PageID:   p.ID,
		UserID:   middleware.UserID(c),
		Action:   "page_updated",
		Entity:   "page",
		EntityID: p.ID,
	})

	httpresp.OK(c, p)
}

// Deactivate tira a página do ar; agendamentos existentes seguem válidos.
func (h *PageHandler) Deactivate(c *gin.Context) {
	p, ok := h.load(c)
	if !ok {
		return
	}

	p.Active = false
	if err := h.pages.UpdatePage(c.Request.Context(), p); err != nil {
		respondError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		PageID:   p.ID,
		UserID:   middleware.UserID(c),
		Action:   "page_deactivated",
		Entity:   "page",
		EntityID: p.ID,
	})

	httpresp.OK(c, p)
}

func (h *PageHandler) Delete(c *gin.Context) {
	p, ok := h.load(c)
	if !ok {
		return
	}

	if err := h.pages.DeletePage(c.Request.Context(), p.ID); err != nil {
		respondError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		PageID:   p.ID,
		UserID:   middleware.UserID(c),
		Action:   "page_deleted",
		Entity:   "page",
		EntityID: p.ID,
		Metadata: map[string]string{"slug": p.Slug},
	})

	httpresp.NoContent(c)
}

// Access devolve papel e capacidades do usuário logado na página.
// Sem acesso não é erro: a resposta traz a lista vazia.
func (h *PageHandler) Access(c *gin.Context) {
	a, err := h.access.Resolve(c.Request.Context(), middleware.UserID(c), c.Param("pageID"))
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, a)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *PageHandler) GetAvailability(c *gin.Context) {
	days, err := h.pages.ListAvailability(c.Request.Context(), c.Param("pageID"))
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.List(c, days)
}

func (h *PageHandler) UpdateAvailability(c *gin.Context) {
	pageID := c.Param("pageID")

	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	days, err := page.BuildAvailability(pageID, req.Days)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.pages.ReplaceAvailability(c.Request.Context(), pageID, days); err != nil {
		respondError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		PageID: pageID,
		UserID: middleware.UserID(c),
		Action: "availability_updated",
		Entity: "page",
	})

	httpresp.List(c, days)
}
