package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/advoga-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/advoga-scheduler/internal/middleware"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
	"github.com/BruksfildServices01/advoga-scheduler/internal/usecase/financial"
)

// ======================================================
// HANDLER
// ======================================================

type FinancialHandler struct {
	summary     *financial.GetSummary
	pageSummary *financial.GetPageSummary
	entries     *financial.ListEntries
	withdraw    *financial.RequestWithdrawal
	status      *financial.UpdateWithdrawalStatus
}

func NewFinancialHandler(
	summary *financial.GetSummary,
	pageSummary *financial.GetPageSummary,
	entries *financial.ListEntries,
	withdraw *financial.RequestWithdrawal,
	status *financial.UpdateWithdrawalStatus,
) *FinancialHandler {
	return &FinancialHandler{
		summary:     summary,
		pageSummary: pageSummary,
		entries:     entries,
		withdraw:    withdraw,
		status:      status,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type WithdrawalRequest struct {
	Amount      decimal.Decimal    `json:"amount"`
	BankDetails models.BankDetails `json:"bank_details"`
	Description string             `json:"description"`
}

type WithdrawalStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// QUERIES
// ======================================================

func (h *FinancialHandler) MySummary(c *gin.Context) {
	s, err := h.summary.Execute(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, s)
}

// Entries: ?page_id= e ?type=income|withdrawal filtram o extrato.
func (h *FinancialHandler) Entries(c *gin.Context) {
	list, err := h.entries.Execute(
		c.Request.Context(),
		middleware.UserID(c),
		c.Query("page_id"),
		c.Query("type"),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.List(c, list)
}

func (h *FinancialHandler) PageSummary(c *gin.Context) {
	s, err := h.pageSummary.Execute(c.Request.Context(), middleware.UserID(c), c.Param("pageID"))
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.OK(c, s)
}

// ======================================================
// WITHDRAWALS
// ======================================================

func (h *FinancialHandler) RequestWithdrawal(c *gin.Context) {
	var req WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	entry, err := h.withdraw.Execute(c.Request.Context(), financial.RequestWithdrawalInput{
		ProfessionalID: middleware.UserID(c),
		Amount:         req.Amount,
		Bank:           req.BankDetails,
		Description:    req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.Created(c, entry)
}

func (h *FinancialHandler) UpdateWithdrawal(c *gin.Context) {
	var req WithdrawalStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	entry, err := h.status.Execute(c.Request.Context(), financial.UpdateWithdrawalStatusInput{
		EntryID:      c.Param("id"),
		ActorID:      middleware.UserID(c),
		ActorIsAdmin: middleware.IsAdmin(c),
		Status:       req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httpresp.OK(c, entry)
}
