package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jeffgoval/arena-sub003/internal/apperrors"
	portssvc "github.com/jeffgoval/arena-sub003/internal/core/ports/services"
	"github.com/jeffgoval/arena-sub003/internal/dto"
	"github.com/jeffgoval/arena-sub003/internal/middleware"
	"github.com/jeffgoval/arena-sub003/internal/platform/ratelimit"
)

// checkoutHandler handles the reservation settlement entry point.
type checkoutHandler struct {
	settlementService portssvc.SettlementSvcFacade
}

func newCheckoutHandler(ss portssvc.SettlementSvcFacade) *checkoutHandler {
	return &checkoutHandler{settlementService: ss}
}

// registerCheckoutRoutes registers the checkout route under the payment
// rate limit policy.
func registerCheckoutRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade, limiter *ratelimit.Limiter) {
	h := newCheckoutHandler(settlementService)

	rg.POST("/checkout", middleware.RateLimit(limiter, ratelimit.PolicyPayment), h.checkout)
}

// checkout godoc
// @Summary Settle a reservation checkout
// @Description Computes the participant split, applies elected credits and places the deposit hold in one operation
// @Tags checkout
// @Accept  json
// @Produce  json
// @Param   checkout body dto.CheckoutRequest true "Checkout details"
// @Success 200 {object} dto.SettlementResult
// @Failure 400 {object} map[string]string "Invalid input or unbalanced split"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 402 {object} map[string]string "Card declined or gateway failure"
// @Failure 422 {object} map[string]string "Insufficient credit balance"
// @Failure 500 {object} map[string]string "Failed to settle checkout"
// @Security BearerAuth
// @Router /checkout [post]
func (h *checkoutHandler) checkout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for checkout", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	customerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Customer ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("reservation_id", req.ReservationID))
	logger.Info("Received checkout request", slog.String("mode", string(req.Mode)))

	result, err := h.settlementService.Checkout(c.Request.Context(), req, customerID)
	if err != nil {
		var insufficientErr *apperrors.InsufficientBalanceError
		switch {
		case errors.As(err, &insufficientErr):
			logger.Warn("Checkout rejected for insufficient balance", slog.String("shortfall", insufficientErr.Shortfall().String()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":     "Insufficient credit balance",
				"requested": insufficientErr.Requested,
				"available": insufficientErr.Available,
			})
		case errors.Is(err, apperrors.ErrRateioImbalance):
			logger.Warn("Checkout rejected for unbalanced split", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrGateway):
			logger.Warn("Checkout failed at payment gateway", slog.String("error", err.Error()))
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "Deposit hold failed: " + err.Error()})
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidMode):
			logger.Warn("Checkout validation failed", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to settle checkout", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to settle checkout"})
		}
		return
	}

	logger.Info("Checkout settled successfully", slog.String("credits_applied", result.CreditsApplied.String()))
	c.JSON(http.StatusOK, result)
}
