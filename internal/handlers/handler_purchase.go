package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/installment_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/installment_ledger_app/internal/dto"
	"github.com/SscSPs/installment_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type purchaseHandler struct {
	purchaseService portssvc.PurchaseSvcFacade
}

// RegisterPurchaseRoutes registers the purchase registry routes.
func RegisterPurchaseRoutes(v1 *gin.RouterGroup, admin *gin.RouterGroup, purchaseService portssvc.PurchaseSvcFacade) {
	h := &purchaseHandler{purchaseService: purchaseService}

	v1.GET("/purchases/:purchaseID", h.getPurchase)
	admin.POST("/purchases", h.createPurchase)
}

// createPurchase godoc
// @Summary Register a purchasable service
// @Tags purchases
// @Accept  json
// @Produce  json
// @Param   purchase body dto.CreatePurchaseRequest true "Purchase details"
// @Success 201 {object} dto.PurchaseResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /admin/purchases [post]
func (h *purchaseHandler) createPurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	var req dto.CreatePurchaseRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	purchase, err := h.purchaseService.CreatePurchase(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create purchase")
		return
	}
	logger.Info("Purchase created", slog.String("purchase_id", purchase.PurchaseID))
	c.JSON(http.StatusCreated, dto.ToPurchaseResponse(purchase))
}

// getPurchase godoc
// @Summary Get a purchase
// @Tags purchases
// @Produce  json
// @Param   purchaseID path string true "Purchase ID"
// @Success 200 {object} dto.PurchaseResponse
// @Failure 404 {object} map[string]string "Purchase not found"
// @Security BearerAuth
// @Router /purchases/{purchaseID} [get]
func (h *purchaseHandler) getPurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	purchaseID := c.Param("purchaseID")

	purchase, err := h.purchaseService.GetPurchaseByID(c.Request.Context(), purchaseID)
	if err != nil {
		respondError(c, logger.With(slog.String("purchase_id", purchaseID)), err, "Failed to retrieve purchase")
		return
	}
	c.JSON(http.StatusOK, dto.ToPurchaseResponse(purchase))
}
