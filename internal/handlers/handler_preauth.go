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

// preAuthHandler handles HTTP requests related to deposit holds.
type preAuthHandler struct {
	preAuthService portssvc.PreAuthSvcFacade
}

func newPreAuthHandler(ps portssvc.PreAuthSvcFacade) *preAuthHandler {
	return &preAuthHandler{preAuthService: ps}
}

// registerPreAuthRoutes registers routes related to pre-authorizations.
// Capture and release move money, so they carry the payment policy.
func registerPreAuthRoutes(rg *gin.RouterGroup, preAuthService portssvc.PreAuthSvcFacade, limiter *ratelimit.Limiter) {
	h := newPreAuthHandler(preAuthService)

	preauth := rg.Group("/preauth")
	{
		preauth.GET("/:preauthID", h.getPreAuth)
		preauth.POST("/:preauthID/capture", middleware.RateLimit(limiter, ratelimit.PolicyPayment), h.capturePreAuth)
		preauth.POST("/:preauthID/release", middleware.RateLimit(limiter, ratelimit.PolicyPayment), h.releasePreAuth)
	}
}

// getPreAuth godoc
// @Summary Get a pre-authorization
// @Description Retrieves the current state of a deposit hold
// @Tags preauth
// @Produce  json
// @Param   preauthID path string true "Pre-authorization ID"
// @Success 200 {object} dto.PreAuthResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Pre-authorization not found"
// @Failure 500 {object} map[string]string "Failed to retrieve pre-authorization"
// @Security BearerAuth
// @Router /preauth/{preauthID} [get]
func (h *preAuthHandler) getPreAuth(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	preAuthID := c.Param("preauthID")

	preAuth, err := h.preAuthService.GetByID(c.Request.Context(), preAuthID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pre-authorization not found"})
		} else {
			logger.Error("Failed to get pre-authorization", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve pre-authorization"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPreAuthResponse(preAuth))
}

// capturePreAuth godoc
// @Summary Capture part of a held deposit
// @Description Converts part of a HELD deposit into a charge; the remainder lapses at the gateway
// @Tags preauth
// @Accept  json
// @Produce  json
// @Param   preauthID path string true "Pre-authorization ID"
// @Param   capture body dto.CapturePreAuthRequest true "Capture details"
// @Success 200 {object} dto.PreAuthResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 402 {object} map[string]string "Gateway failure"
// @Failure 404 {object} map[string]string "Pre-authorization not found"
// @Failure 409 {object} map[string]string "Not in a capturable state"
// @Failure 500 {object} map[string]string "Failed to capture"
// @Security BearerAuth
// @Router /preauth/{preauthID}/capture [post]
func (h *preAuthHandler) capturePreAuth(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	preAuthID := c.Param("preauthID")

	var req dto.CapturePreAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for capture", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("preauth_id", preAuthID), slog.String("actor_id", actorID))
	logger.Info("Received request to capture pre-authorization", slog.String("amount", req.Amount.String()))

	preAuth, err := h.preAuthService.Capture(c.Request.Context(), preAuthID, req.Amount, actorID)
	if err != nil {
		h.writeTransitionError(c, logger, err, "capture")
		return
	}

	logger.Info("Pre-authorization captured successfully")
	c.JSON(http.StatusOK, dto.ToPreAuthResponse(preAuth))
}

// releasePreAuth godoc
// @Summary Release a held deposit
// @Description Voids the hold at the gateway; releasing an already terminal hold is a no-op success
// @Tags preauth
// @Produce  json
// @Param   preauthID path string true "Pre-authorization ID"
// @Success 200 {object} dto.PreAuthResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 402 {object} map[string]string "Gateway failure"
// @Failure 404 {object} map[string]string "Pre-authorization not found"
// @Failure 500 {object} map[string]string "Failed to release"
// @Security BearerAuth
// @Router /preauth/{preauthID}/release [post]
func (h *preAuthHandler) releasePreAuth(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	preAuthID := c.Param("preauthID")

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("preauth_id", preAuthID), slog.String("actor_id", actorID))
	logger.Info("Received request to release pre-authorization")

	preAuth, err := h.preAuthService.Release(c.Request.Context(), preAuthID, actorID)
	if err != nil {
		h.writeTransitionError(c, logger, err, "release")
		return
	}

	logger.Info("Pre-authorization release handled", slog.String("status", string(preAuth.Status)))
	c.JSON(http.StatusOK, dto.ToPreAuthResponse(preAuth))
}

func (h *preAuthHandler) writeTransitionError(c *gin.Context, logger *slog.Logger, err error, op string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Pre-authorization not found"})
	case errors.Is(err, apperrors.ErrInvalidState):
		logger.Warn("Invalid state for "+op, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error on "+op, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrGateway):
		logger.Warn("Gateway failure on "+op, slog.String("error", err.Error()))
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to "+op+" pre-authorization", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + op + " pre-authorization"})
	}
}
