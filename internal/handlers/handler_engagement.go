package handlers

import (
	"net/http"

	portssvc "github.com/complianceos/cos_backend/internal/core/ports/services"
	"github.com/complianceos/cos_backend/internal/dto"
	"github.com/complianceos/cos_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// engagementHandler handles HTTP requests related to compliance engagements.
type engagementHandler struct {
	engagementService portssvc.EngagementSvcFacade
}

// newEngagementHandler creates a new engagementHandler.
func newEngagementHandler(es portssvc.EngagementSvcFacade) *engagementHandler {
	return &engagementHandler{engagementService: es}
}

// registerEngagementRoutes registers engagement routes nested under a tenant.
func registerEngagementRoutes(rg *gin.RouterGroup, engagementService portssvc.EngagementSvcFacade) {
	h := newEngagementHandler(engagementService)

	engagements := rg.Group("/engagements")
	{
		engagements.POST("", h.createEngagement)
		engagements.GET("", h.listEngagements)
		engagements.GET("/:engagement_id", h.getEngagement)
		engagements.PATCH("/:engagement_id", h.updateEngagement)
	}
}

// createEngagement godoc
// @Summary Create an engagement
// @Description Creates a compliance engagement in stage planned with progress 0.
// @Tags engagements
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   engagement body dto.CreateEngagementRequest true "Engagement details"
// @Success 201 {object} dto.EngagementResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 403 {object} ErrorResponse "Insufficient role"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/engagements [post]
func (h *engagementHandler) createEngagement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEngagementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	engagement, err := h.engagementService.CreateEngagement(c.Request.Context(), c.Param("tenant_id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create engagement")
		return
	}

	c.JSON(http.StatusCreated, dto.ToEngagementResponse(engagement))
}

// listEngagements godoc
// @Summary List engagements
// @Description Retrieves all engagements of the tenant.
// @Tags engagements
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Success 200 {object} dto.ListEngagementsResponse
// @Failure 403 {object} ErrorResponse "Not a member"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/engagements [get]
func (h *engagementHandler) listEngagements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	engagements, err := h.engagementService.ListEngagements(c.Request.Context(), c.Param("tenant_id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list engagements")
		return
	}

	c.JSON(http.StatusOK, dto.ToListEngagementsResponse(engagements))
}

// getEngagement godoc
// @Summary Get an engagement
// @Description Retrieves a single engagement within the tenant.
// @Tags engagements
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   engagement_id path string true "Engagement ID"
// @Success 200 {object} dto.EngagementResponse
// @Failure 404 {object} ErrorResponse "Engagement not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/engagements/{engagement_id} [get]
func (h *engagementHandler) getEngagement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	engagement, err := h.engagementService.GetEngagement(c.Request.Context(), c.Param("tenant_id"), c.Param("engagement_id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to get engagement")
		return
	}

	c.JSON(http.StatusOK, dto.ToEngagementResponse(engagement))
}

// updateEngagement godoc
// @Summary Update an engagement
// @Description Advances the engagement stage (forward only) and/or sets the 0-100 progress value.
// @Tags engagements
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   engagement_id path string true "Engagement ID"
// @Param   update body dto.UpdateEngagementRequest true "Stage and/or progress"
// @Success 200 {object} dto.EngagementResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Engagement not found"
// @Failure 409 {object} ErrorResponse "Stage cannot move backwards"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/engagements/{engagement_id} [patch]
func (h *engagementHandler) updateEngagement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateEngagementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	engagement, err := h.engagementService.UpdateEngagement(c.Request.Context(), c.Param("tenant_id"), c.Param("engagement_id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update engagement")
		return
	}

	c.JSON(http.StatusOK, dto.ToEngagementResponse(engagement))
}
