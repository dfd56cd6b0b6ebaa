package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jeffgoval/arena-sub003/internal/apperrors"
	portssvc "github.com/jeffgoval/arena-sub003/internal/core/ports/services"
	"github.com/jeffgoval/arena-sub003/internal/dto"
	"github.com/jeffgoval/arena-sub003/internal/middleware"
)

// ledgerHandler handles HTTP requests related to the credit ledger.
type ledgerHandler struct {
	creditService portssvc.CreditLedgerSvcFacade
}

func newLedgerHandler(cs portssvc.CreditLedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{creditService: cs}
}

// registerLedgerRoutes registers routes related to the credit ledger.
func registerLedgerRoutes(rg *gin.RouterGroup, creditService portssvc.CreditLedgerSvcFacade) {
	h := newLedgerHandler(creditService)

	ledger := rg.Group("/ledger")
	{
		ledger.GET("/:ownerID", h.getLedger)
		ledger.POST("/:ownerID/grant", h.grantCredit)
	}
}

// getLedger godoc
// @Summary Get an owner's credit ledger
// @Description Retrieves the owner's active balance, the portion expiring soon, and paginated entry history
// @Tags ledger
// @Produce  json
// @Param   ownerID path string true "Owner ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token"
// @Param   expiringWithinDays query int false "Expiry warning window in days" default(7)
// @Success 200 {object} dto.LedgerResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to retrieve ledger"
// @Security BearerAuth
// @Router /ledger/{ownerID} [get]
func (h *ledgerHandler) getLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID := c.Param("ownerID")

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	expiringWithinDays, _ := strconv.Atoi(c.DefaultQuery("expiringWithinDays", "7"))

	logger = logger.With(slog.String("owner_id", ownerID))

	balance, err := h.creditService.GetBalance(c.Request.Context(), ownerID, expiringWithinDays)
	if err != nil {
		logger.Error("Failed to get credit balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ledger"})
		return
	}

	entries, nextToken, err := h.creditService.ListEntries(c.Request.Context(), ownerID, params)
	if err != nil {
		logger.Error("Failed to list ledger entries", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ledger"})
		return
	}

	c.JSON(http.StatusOK, dto.LedgerResponse{
		OwnerID:        ownerID,
		Active:         balance.Active,
		ExpiringWithin: balance.ExpiringWithin,
		Entries:        dto.ToCreditEntryResponses(entries),
		NextToken:      nextToken,
	})
}

// grantCredit godoc
// @Summary Grant credit to an owner
// @Description Appends a positive entry to the owner's credit ledger (privileged operation)
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   ownerID path string true "Owner ID"
// @Param   grant body dto.GrantCreditRequest true "Grant details"
// @Success 201 {object} dto.CreditEntryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to grant credit"
// @Security BearerAuth
// @Router /ledger/{ownerID}/grant [post]
func (h *ledgerHandler) grantCredit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ownerID := c.Param("ownerID")

	var req dto.GrantCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for grant", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Actor user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("owner_id", ownerID), slog.String("actor_id", actorID))
	logger.Info("Received request to grant credit", slog.String("kind", string(req.Kind)))

	entry, err := h.creditService.Grant(c.Request.Context(), ownerID, req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error granting credit", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to grant credit", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to grant credit"})
		}
		return
	}

	logger.Info("Credit granted successfully", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToCreditEntryResponse(entry))
}
