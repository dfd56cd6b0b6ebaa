package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/jeffgoval/arena-sub003/internal/core/ports/services"
	"github.com/jeffgoval/arena-sub003/internal/dto"
	"github.com/jeffgoval/arena-sub003/internal/middleware"
	"github.com/jeffgoval/arena-sub003/internal/platform/ratelimit"
)

// auditHandler handles HTTP requests against the audit log.
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

func newAuditHandler(as portssvc.AuditSvcFacade) *auditHandler {
	return &auditHandler{auditService: as}
}

// registerAuditRoutes registers audit query and export routes. Export is an
// expensive scan, so it sits behind the dashboard policy.
func registerAuditRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvcFacade, limiter *ratelimit.Limiter) {
	h := newAuditHandler(auditService)

	audit := rg.Group("/audit")
	{
		audit.GET("", h.queryAudit)
		audit.GET("/export", middleware.RateLimit(limiter, ratelimit.PolicyDashboard), h.exportAudit)
	}
}

// queryAudit godoc
// @Summary Query the audit log
// @Description Retrieves audit entries matching the filter, newest first
// @Tags audit
// @Produce  json
// @Param   actorID query string false "Filter by actor"
// @Param   action query string false "Filter by action"
// @Param   targetID query string false "Filter by target"
// @Param   targetType query string false "Filter by target type"
// @Param   from query string false "Lower time bound (RFC3339)"
// @Param   to query string false "Upper time bound (RFC3339)"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListAuditResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to query audit log"
// @Security BearerAuth
// @Router /audit [get]
func (h *auditHandler) queryAudit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.AuditQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind audit query params", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	entries, nextToken, err := h.auditService.Query(c.Request.Context(), params.ToAuditFilter(), params.Limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to query audit log", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query audit log"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListAuditResponse(entries, nextToken))
}

// exportAudit godoc
// @Summary Export the audit log
// @Description Streams all entries matching the filter as CSV or JSON
// @Tags audit
// @Produce  text/csv
// @Produce  json
// @Param   format query string false "Export format (csv or json)" default(csv)
// @Param   actorID query string false "Filter by actor"
// @Param   action query string false "Filter by action"
// @Param   targetID query string false "Filter by target"
// @Param   targetType query string false "Filter by target type"
// @Param   from query string false "Lower time bound (RFC3339)"
// @Param   to query string false "Upper time bound (RFC3339)"
// @Success 200 {string} string "Exported entries"
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to export audit log"
// @Security BearerAuth
// @Router /audit/export [get]
func (h *auditHandler) exportAudit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.AuditQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind audit export params", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	filter := params.ToAuditFilter()

	format := c.DefaultQuery("format", "csv")
	switch format {
	case "csv":
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="audit_export.csv"`)
		if err := h.auditService.ExportCSV(c.Request.Context(), filter, c.Writer); err != nil {
			logger.Error("Failed to export audit log as CSV", slog.String("error", err.Error()))
		}
	case "json":
		c.Header("Content-Type", "application/json")
		c.Header("Content-Disposition", `attachment; filename="audit_export.json"`)
		if err := h.auditService.ExportJSON(c.Request.Context(), filter, c.Writer); err != nil {
			logger.Error("Failed to export audit log as JSON", slog.String("error", err.Error()))
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported export format: " + format})
	}
}
