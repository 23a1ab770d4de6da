package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/advoga-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/advoga-scheduler/internal/domain/page"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
	"github.com/BruksfildServices01/advoga-scheduler/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	pages        page.Repository
	availability *appointment.GetAvailability
}

func NewPublicHandler(pages page.Repository, availability *appointment.GetAvailability) *PublicHandler {
	return &PublicHandler{pages: pages, availability: availability}
}

// loadActive só expõe páginas no ar.
func (h *PublicHandler) loadActive(c *gin.Context) (*models.LawyerPage, bool) {
	p, err := h.pages.GetPageBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, httperr.ErrBusiness(page.ErrPageNotFound))
			return nil, false
		}
		respondError(c, err)
		return nil, false
	}
	if !p.Active {
		respondError(c, httperr.ErrBusiness(page.ErrPageNotFound))
		return nil, false
	}
	return p, true
}

////////////////////////////////////////////////////////
// PAGE
////////////////////////////////////////////////////////

func (h *PublicHandler) GetPage(c *gin.Context) {
	p, ok := h.loadActive(c)
	if !ok {
		return
	}

	days, err := h.pages.ListAvailability(c.Request.Context(), p.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"page":         p,
		"availability": days,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

// Availability: ?date=YYYY-MM-DD no fuso da página; sem data, hoje.
func (h *PublicHandler) Availability(c *gin.Context) {
	p, ok := h.loadActive(c)
	if !ok {
		return
	}

	date, err := parseDateInPage(p, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	slots, err := h.availability.Execute(
		c.Request.Context(),
		domain.AvailabilityInput{PageID: p.ID, Date: date},
	)
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"date":     date.Format("2006-01-02"),
		"timezone": p.Timezone,
		"slots":    slots,
	})
}
