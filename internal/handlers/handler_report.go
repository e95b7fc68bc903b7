package handlers

import (
	"net/http"
	"strconv"
	"time"

	portssvc "github.com/complianceos/cos_backend/internal/core/ports/services"
	"github.com/complianceos/cos_backend/internal/dto"
	"github.com/complianceos/cos_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportHandler handles HTTP requests for derived aggregate views.
type reportHandler struct {
	reportService portssvc.ReportSvcFacade
}

// newReportHandler creates a new reportHandler.
func newReportHandler(rs portssvc.ReportSvcFacade) *reportHandler {
	return &reportHandler{reportService: rs}
}

// registerReportRoutes registers read-only aggregate routes nested under a
// tenant.
func registerReportRoutes(rg *gin.RouterGroup, reportService portssvc.ReportSvcFacade) {
	h := newReportHandler(reportService)

	rg.GET("/stats", h.getStats)
	rg.GET("/coverage", h.getCoverage)
	rg.GET("/compliance-score", h.getComplianceScore)
	rg.GET("/coverage-report", h.getCoverageReport)
}

// getStats godoc
// @Summary Get work item stats
// @Description Returns counts by status plus overdue, upcoming and escalated totals. horizonDays bounds the upcoming bucket; omit for the configured default.
// @Tags reports
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   horizonDays query int false "Upcoming horizon in days"
// @Param   window query string false "Set to 'calendar' for the wider calendar window"
// @Success 200 {object} dto.StatsResponse
// @Failure 403 {object} ErrorResponse "Not a member"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/stats [get]
func (h *reportHandler) getStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	tenantID := c.Param("tenant_id")

	var horizon time.Duration
	if raw := c.Query("horizonDays"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "horizonDays must be a positive integer"})
			return
		}
		horizon = time.Duration(days) * 24 * time.Hour
	} else if c.Query("window") == "calendar" {
		stats, err := h.reportService.GetCalendarStats(c.Request.Context(), tenantID, userID)
		if err != nil {
			respondWithError(c, logger, err, "Failed to compute stats")
			return
		}
		c.JSON(http.StatusOK, dto.ToStatsResponse(tenantID, stats))
		return
	}

	stats, err := h.reportService.GetStats(c.Request.Context(), tenantID, userID, horizon)
	if err != nil {
		respondWithError(c, logger, err, "Failed to compute stats")
		return
	}

	c.JSON(http.StatusOK, dto.ToStatsResponse(tenantID, stats))
}

// getCoverage godoc
// @Summary Get assignment coverage
// @Description Returns assigned/total counts and the percentage for every coverage kind.
// @Tags reports
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Success 200 {array} dto.CoverageResponse
// @Failure 403 {object} ErrorResponse "Not a member"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/coverage [get]
func (h *reportHandler) getCoverage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	coverage, err := h.reportService.GetCoverage(c.Request.Context(), c.Param("tenant_id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to compute coverage")
		return
	}

	resp := make([]dto.CoverageResponse, len(coverage))
	for i := range coverage {
		resp[i] = dto.ToCoverageResponse(&coverage[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getComplianceScore godoc
// @Summary Get the compliance score
// @Description Returns the tenant's mean engagement progress, 0 when no engagements exist.
// @Tags reports
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Success 200 {object} dto.ComplianceScoreResponse
// @Failure 403 {object} ErrorResponse "Not a member"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/compliance-score [get]
func (h *reportHandler) getComplianceScore(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	tenantID := c.Param("tenant_id")
	score, err := h.reportService.GetComplianceScore(c.Request.Context(), tenantID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to compute compliance score")
		return
	}

	c.JSON(http.StatusOK, dto.ComplianceScoreResponse{TenantID: tenantID, Score: score})
}

// getCoverageReport godoc
// @Summary Export the coverage report
// @Description Combines stats, per-kind coverage and the compliance score into the payload handed to downstream document generation.
// @Tags reports
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Success 200 {object} dto.CoverageReportResponse
// @Failure 403 {object} ErrorResponse "Not a member"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/coverage-report [get]
func (h *reportHandler) getCoverageReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	report, err := h.reportService.ExportCoverageReport(c.Request.Context(), c.Param("tenant_id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to export coverage report")
		return
	}

	c.JSON(http.StatusOK, dto.ToCoverageReportResponse(report))
}
