package handlers

import (
	"net/http"

	portssvc "github.com/complianceos/cos_backend/internal/core/ports/services"
	"github.com/complianceos/cos_backend/internal/dto"
	"github.com/complianceos/cos_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// gapHandler handles HTTP requests related to gap assessments.
type gapHandler struct {
	gapService    portssvc.GapSvcFacade
	reportService portssvc.ReportSvcFacade
}

// newGapHandler creates a new gapHandler.
func newGapHandler(gs portssvc.GapSvcFacade, rs portssvc.ReportSvcFacade) *gapHandler {
	return &gapHandler{gapService: gs, reportService: rs}
}

// registerGapRoutes registers assessment routes nested under a tenant. The
// prioritized view reads through the report facade since ranking is a
// derived aggregate.
func registerGapRoutes(rg *gin.RouterGroup, gapService portssvc.GapSvcFacade, reportService portssvc.ReportSvcFacade) {
	h := newGapHandler(gapService, reportService)

	assessments := rg.Group("/assessments/:assessment_id")
	{
		assessments.PUT("/responses", h.upsertGapResponse)
		assessments.GET("/responses", h.listGapResponses)
		assessments.GET("/prioritized", h.getPrioritizedGaps)
		assessments.POST("/responses/:control_id/promote", h.promoteGapResponse)
	}
}

// upsertGapResponse godoc
// @Summary Record a gap response
// @Description Creates or updates the response for one control under an assessment. The first insert for a control also opens a linked review work item.
// @Tags assessments
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   assessment_id path string true "Assessment ID"
// @Param   response body dto.UpsertGapResponseRequest true "Control status and ratings"
// @Success 200 {object} dto.GapResponseDTO
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 403 {object} ErrorResponse "Module disabled or insufficient role"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/assessments/{assessment_id}/responses [put]
func (h *gapHandler) upsertGapResponse(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpsertGapResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	response, err := h.gapService.UpsertGapResponse(c.Request.Context(), c.Param("tenant_id"), c.Param("assessment_id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to record gap response")
		return
	}

	c.JSON(http.StatusOK, dto.ToGapResponseDTO(response))
}

// listGapResponses godoc
// @Summary List gap responses
// @Description Retrieves every recorded response of an assessment.
// @Tags assessments
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   assessment_id path string true "Assessment ID"
// @Success 200 {array} dto.GapResponseDTO
// @Failure 403 {object} ErrorResponse "Not a member"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/assessments/{assessment_id}/responses [get]
func (h *gapHandler) listGapResponses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	responses, err := h.gapService.ListGapResponses(c.Request.Context(), c.Param("tenant_id"), c.Param("assessment_id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list gap responses")
		return
	}

	resp := make([]dto.GapResponseDTO, len(responses))
	for i := range responses {
		resp[i] = dto.ToGapResponseDTO(&responses[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getPrioritizedGaps godoc
// @Summary Get the prioritized remediation queue
// @Description Ranks the assessment's open gap responses by remediation score, highest first.
// @Tags assessments
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   assessment_id path string true "Assessment ID"
// @Success 200 {object} dto.PrioritizedGapsResponse
// @Failure 403 {object} ErrorResponse "Not a member"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/assessments/{assessment_id}/prioritized [get]
func (h *gapHandler) getPrioritizedGaps(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	assessmentID := c.Param("assessment_id")
	ranked, err := h.reportService.GetPrioritizedGaps(c.Request.Context(), c.Param("tenant_id"), assessmentID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to prioritize gap responses")
		return
	}

	c.JSON(http.StatusOK, dto.ToPrioritizedGapsResponse(assessmentID, ranked))
}

// promoteGapResponse godoc
// @Summary Promote a gap finding
// @Description Promotes an open gap finding into a tracked risk or a remediation task via the downstream service.
// @Tags assessments
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   assessment_id path string true "Assessment ID"
// @Param   control_id path string true "Control ID"
// @Param   promotion body dto.PromoteGapRequest true "Promotion target"
// @Success 200 {object} dto.PromoteGapResponseResult
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Gap response not found"
// @Failure 409 {object} ErrorResponse "Gap is not open"
// @Failure 503 {object} ErrorResponse "Downstream service failed"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/assessments/{assessment_id}/responses/{control_id}/promote [post]
func (h *gapHandler) promoteGapResponse(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PromoteGapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	refID, err := h.gapService.PromoteGapResponse(c.Request.Context(), c.Param("tenant_id"), c.Param("assessment_id"), c.Param("control_id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to promote gap response")
		return
	}

	c.JSON(http.StatusOK, dto.PromoteGapResponseResult{Target: req.Target, ReferenceID: refID})
}
