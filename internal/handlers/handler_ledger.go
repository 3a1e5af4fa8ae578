package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/installment_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/installment_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/installment_ledger_app/internal/dto"
	"github.com/SscSPs/installment_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles ledger lifecycle and approval requests.
type ledgerHandler struct {
	ledgerService   portssvc.LedgerSvcFacade
	approvalService portssvc.ApprovalSvc
	now             func() time.Time
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade, as portssvc.ApprovalSvc) *ledgerHandler {
	return &ledgerHandler{
		ledgerService:   ls,
		approvalService: as,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// RegisterLedgerRoutes registers ledger routes on the authenticated v1 group.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, approvalService portssvc.ApprovalSvc) {
	h := newLedgerHandler(ledgerService, approvalService)

	ledgers := rg.Group("/ledgers")
	{
		ledgers.POST("", h.createLedger)
		ledgers.GET("/:ledgerID", h.getLedger)
		ledgers.POST("/:ledgerID/obligations/:ordinal/submit", h.submitObligation)
		ledgers.POST("/:ledgerID/obligations/:ordinal/decision", middleware.RequireAdmin(), h.decideObligation)
		ledgers.POST("/:ledgerID/decision", middleware.RequireAdmin(), h.decidePayment)
		ledgers.POST("/:ledgerID/complete", h.completeLedger)
	}
	rg.GET("/accounts/:accountID/ledgers", h.listLedgers)
}

func (h *ledgerHandler) respondLedger(c *gin.Context, status int, ledger *domain.Ledger) {
	c.JSON(status, dto.ToLedgerResponse(ledger, h.now()))
}

// createLedger godoc
// @Summary Start a purchase
// @Description Builds the payment plan for a purchase in full or installment mode. Payers always create ledgers for their own account.
// @Tags ledgers
// @Accept  json
// @Produce  json
// @Param   ledger body dto.CreateLedgerRequest true "Ledger details"
// @Success 201 {object} dto.LedgerResponse
// @Failure 400 {object} map[string]string "Invalid input or split template"
// @Failure 404 {object} map[string]string "Account or purchase not found"
// @Failure 409 {object} map[string]string "Duplicate external reference"
// @Failure 422 {object} map[string]string "Account ineligible or purchase inactive"
// @Security BearerAuth
// @Router /ledgers [post]
func (h *ledgerHandler) createLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.CreateLedgerRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	logger.Info("Received request to create ledger", slog.String("purchase_id", req.PurchaseID), slog.String("mode", req.Mode))
	ledger, err := h.ledgerService.CreateLedger(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create ledger")
		return
	}

	logger.Info("Ledger created successfully", slog.String("ledger_id", ledger.LedgerID))
	h.respondLedger(c, http.StatusCreated, ledger)
}

// getLedger godoc
// @Summary Get a ledger snapshot
// @Tags ledgers
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Success 200 {object} dto.LedgerResponse
// @Failure 404 {object} map[string]string "Ledger not found"
// @Security BearerAuth
// @Router /ledgers/{ledgerID} [get]
func (h *ledgerHandler) getLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	ledgerID := c.Param("ledgerID")

	ledger, err := h.ledgerService.GetLedgerByID(c.Request.Context(), ledgerID, actor)
	if err != nil {
		respondError(c, logger.With(slog.String("ledger_id", ledgerID)), err, "Failed to retrieve ledger")
		return
	}
	h.respondLedger(c, http.StatusOK, ledger)
}

// listLedgers godoc
// @Summary List an account's ledgers
// @Description Newest first, paged with an opaque nextToken.
// @Tags ledgers
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Page size (max 100)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListLedgersResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID}/ledgers [get]
func (h *ledgerHandler) listLedgers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var params dto.ListLedgersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	accountID := c.Param("accountID")

	resp, err := h.ledgerService.ListLedgersByAccount(c.Request.Context(), accountID, actor, params)
	if err != nil {
		respondError(c, logger.With(slog.String("account_id", accountID)), err, "Failed to list ledgers")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// submitObligation godoc
// @Summary Submit proof of payment for an obligation
// @Tags approvals
// @Accept  json
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   ordinal path int true "Obligation ordinal (1-based)"
// @Param   submission body dto.SubmitObligationRequest true "Transaction reference"
// @Success 200 {object} dto.LedgerResponse
// @Failure 403 {object} map[string]string "Not the ledger owner"
// @Failure 409 {object} map[string]string "Already paid or duplicate reference"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/obligations/{ordinal}/submit [post]
func (h *ledgerHandler) submitObligation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	ordinal, ok := ordinalParam(c, logger)
	if !ok {
		return
	}
	var req dto.SubmitObligationRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	ledgerID := c.Param("ledgerID")
	logger = logger.With(slog.String("ledger_id", ledgerID), slog.Int("ordinal", ordinal))

	ledger, err := h.approvalService.SubmitObligation(c.Request.Context(), ledgerID, ordinal, req.ExternalRef, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to submit obligation")
		return
	}
	logger.Info("Obligation submitted")
	h.respondLedger(c, http.StatusOK, ledger)
}

// decideObligation godoc
// @Summary Approve or reject a submitted obligation
// @Tags approvals
// @Accept  json
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   ordinal path int true "Obligation ordinal (1-based)"
// @Param   decision body dto.DecisionRequest true "Decision"
// @Success 200 {object} dto.LedgerResponse
// @Failure 403 {object} map[string]string "Administrator role required"
// @Failure 409 {object} map[string]string "Not submitted, already paid or concurrent modification"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/obligations/{ordinal}/decision [post]
func (h *ledgerHandler) decideObligation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	ordinal, ok := ordinalParam(c, logger)
	if !ok {
		return
	}
	var req dto.DecisionRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	ledgerID := c.Param("ledgerID")
	logger = logger.With(slog.String("ledger_id", ledgerID), slog.Int("ordinal", ordinal), slog.String("decision", req.Decision))

	ledger, err := h.approvalService.DecideObligation(c.Request.Context(), ledgerID, ordinal, domain.Decision(req.Decision), req.Notes, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to decide obligation")
		return
	}
	logger.Info("Obligation decided")
	h.respondLedger(c, http.StatusOK, ledger)
}

// decidePayment godoc
// @Summary Approve or reject a full-mode payment
// @Tags approvals
// @Accept  json
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Param   decision body dto.DecisionRequest true "Decision"
// @Success 200 {object} dto.LedgerResponse
// @Failure 403 {object} map[string]string "Administrator role required"
// @Failure 409 {object} map[string]string "Already approved or concurrent modification"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/decision [post]
func (h *ledgerHandler) decidePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.DecisionRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	ledgerID := c.Param("ledgerID")
	logger = logger.With(slog.String("ledger_id", ledgerID), slog.String("decision", req.Decision))

	ledger, err := h.approvalService.DecidePayment(c.Request.Context(), ledgerID, domain.Decision(req.Decision), req.Notes, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to decide payment")
		return
	}
	logger.Info("Payment decided")
	h.respondLedger(c, http.StatusOK, ledger)
}

// completeLedger godoc
// @Summary Mark a ledger completed
// @Tags ledgers
// @Produce  json
// @Param   ledgerID path string true "Ledger ID"
// @Success 200 {object} dto.LedgerResponse
// @Failure 404 {object} map[string]string "Ledger not found"
// @Security BearerAuth
// @Router /ledgers/{ledgerID}/complete [post]
func (h *ledgerHandler) completeLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	ledgerID := c.Param("ledgerID")

	ledger, err := h.ledgerService.MarkCompleted(c.Request.Context(), ledgerID, actor)
	if err != nil {
		respondError(c, logger.With(slog.String("ledger_id", ledgerID)), err, "Failed to complete ledger")
		return
	}
	h.respondLedger(c, http.StatusOK, ledger)
}
