package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/installment_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/installment_ledger_app/internal/dto"
	"github.com/SscSPs/installment_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{accountService: as}
}

// RegisterAccountRoutes registers account reads on v1 and the eligibility
// mutators on the administrator group.
func RegisterAccountRoutes(v1 *gin.RouterGroup, admin *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	registerValidations()
	h := newAccountHandler(accountService)

	v1.GET("/accounts/:accountID", h.getAccount)

	accounts := admin.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.PUT("/:accountID/installments", h.setInstallmentsEnabled)
		accounts.PUT("/:accountID/split-template", h.setSplitTemplate)
		accounts.PUT("/:accountID/suspicion", h.setSuspicion)
		accounts.DELETE("/:accountID", h.deleteAccount)
	}
}

// createAccount godoc
// @Summary Register an account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input or split template"
// @Failure 403 {object} map[string]string "Administrator role required"
// @Failure 409 {object} map[string]string "Account already exists"
// @Security BearerAuth
// @Router /admin/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.CreateAccountRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account and its installment eligibility
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	accountID := c.Param("accountID")

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID, actor)
	if err != nil {
		respondError(c, logger.With(slog.String("account_id", accountID)), err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// setInstallmentsEnabled godoc
// @Summary Enable or disable installment plans for an account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   body body dto.SetInstallmentsEnabledRequest true "Flag"
// @Success 200 {object} dto.AccountResponse
// @Failure 409 {object} map[string]string "Account is suspicious or was modified concurrently"
// @Security BearerAuth
// @Router /admin/accounts/{accountID}/installments [put]
func (h *accountHandler) setInstallmentsEnabled(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.SetInstallmentsEnabledRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	accountID := c.Param("accountID")
	logger = logger.With(slog.String("account_id", accountID), slog.Bool("enabled", *req.Enabled))

	account, err := h.accountService.SetInstallmentsEnabled(c.Request.Context(), accountID, *req.Enabled, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to update installment eligibility")
		return
	}
	logger.Info("Installment eligibility updated")
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// setSplitTemplate godoc
// @Summary Replace an account's installment split template
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   body body dto.SetSplitTemplateRequest true "Split template"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Percentages must add up to 100"
// @Security BearerAuth
// @Router /admin/accounts/{accountID}/split-template [put]
func (h *accountHandler) setSplitTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.SetSplitTemplateRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	accountID := c.Param("accountID")

	account, err := h.accountService.SetSplitTemplate(c.Request.Context(), accountID, dto.ToSplitTemplate(req.SplitTemplate), actor)
	if err != nil {
		respondError(c, logger.With(slog.String("account_id", accountID)), err, "Failed to update split template")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// setSuspicion godoc
// @Summary Set or clear the suspicious flag
// @Description Marking an account suspicious also disables installment plans.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   body body dto.SetSuspicionRequest true "Flag and reason"
// @Success 200 {object} dto.AccountResponse
// @Security BearerAuth
// @Router /admin/accounts/{accountID}/suspicion [put]
func (h *accountHandler) setSuspicion(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.SetSuspicionRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	accountID := c.Param("accountID")
	logger = logger.With(slog.String("account_id", accountID), slog.Bool("suspicious", *req.Suspicious))

	account, err := h.accountService.SetSuspicious(c.Request.Context(), accountID, *req.Suspicious, req.Reason, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to update suspicion flag")
		return
	}
	logger.Info("Suspicion flag updated")
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deleteAccount godoc
// @Summary Delete an account and all of its ledgers
// @Tags accounts
// @Param   accountID path string true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /admin/accounts/{accountID} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	accountID := c.Param("accountID")
	logger = logger.With(slog.String("account_id", accountID))

	if err := h.accountService.DeleteAccount(c.Request.Context(), accountID, actor); err != nil {
		respondError(c, logger, err, "Failed to delete account")
		return
	}
	logger.Info("Account deleted")
	c.Status(http.StatusNoContent)
}
