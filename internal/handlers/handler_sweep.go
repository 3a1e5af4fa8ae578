package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/installment_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/installment_ledger_app/internal/dto"
	"github.com/SscSPs/installment_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterSweepRoutes registers the on-demand overdue sweep on the administrator group.
func RegisterSweepRoutes(admin *gin.RouterGroup, sweepService portssvc.SweepSvc) {
	admin.POST("/sweeps/overdue", runOverdueSweep(sweepService))
}

// runOverdueSweep godoc
// @Summary Run the overdue and trust sweep
// @Description Flags accounts holding overdue installments as suspicious. Per-ledger failures are reported in the body.
// @Tags sweeps
// @Produce  json
// @Success 200 {object} dto.SweepResponse
// @Failure 403 {object} map[string]string "Administrator role required"
// @Security BearerAuth
// @Router /admin/sweeps/overdue [post]
func runOverdueSweep(sweepService portssvc.SweepSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())

		result, err := sweepService.RunOverdueSweep(c.Request.Context())
		if err != nil {
			respondError(c, logger, err, "Failed to run overdue sweep")
			return
		}
		logger.Info("Overdue sweep finished",
			slog.Int("ledgers_scanned", result.LedgersScanned),
			slog.Int("accounts_flagged", len(result.FlaggedAccounts)),
			slog.Int("failures", len(result.Failures)),
		)
		c.JSON(http.StatusOK, dto.ToSweepResponse(result))
	}
}
