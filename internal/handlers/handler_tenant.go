package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/complianceos/cos_backend/internal/core/ports/services"
	"github.com/complianceos/cos_backend/internal/dto"
	"github.com/complianceos/cos_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// tenantHandler handles HTTP requests related to tenants, module flags and
// memberships.
type tenantHandler struct {
	tenantService portssvc.TenantSvcFacade
}

// newTenantHandler creates a new tenantHandler.
func newTenantHandler(ts portssvc.TenantSvcFacade) *tenantHandler {
	return &tenantHandler{tenantService: ts}
}

// registerTenantRoutes registers routes for tenants and their nested
// resources.
func registerTenantRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newTenantHandler(services.Tenant)

	tenants := rg.Group("/tenants")
	{
		tenants.POST("", h.createTenant)
		tenants.GET("", h.listUserTenants)
	}

	tenantSpecific := rg.Group("/tenants/:tenant_id")
	{
		tenantSpecific.GET("", h.getTenant)
		tenantSpecific.POST("/modules", h.setModuleFlag)
		tenantSpecific.GET("/modules", h.listModuleFlags)
		tenantSpecific.POST("/members", h.addMember)

		registerWorkItemRoutes(tenantSpecific, services.WorkItem)
		registerAssignmentRoutes(tenantSpecific, services.Assignment)
		registerEngagementRoutes(tenantSpecific, services.Engagement)
		registerGapRoutes(tenantSpecific, services.Gap, services.Report)
		registerReportRoutes(tenantSpecific, services.Report)
	}
}

// createTenant godoc
// @Summary Create a new tenant
// @Description Creates a tenant, enables the governance module and assigns the creator as tenant admin.
// @Tags tenants
// @Accept  json
// @Produce  json
// @Param   tenant body dto.CreateTenantRequest true "Tenant details"
// @Success 201 {object} dto.TenantResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to create tenant"
// @Security BearerAuth
// @Router /tenants [post]
func (h *tenantHandler) createTenant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	tenant, err := h.tenantService.CreateTenant(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create tenant")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTenantResponse(tenant))
}

// listUserTenants godoc
// @Summary List tenants for current user
// @Description Retrieves the tenants the authenticated user belongs to.
// @Tags tenants
// @Produce  json
// @Success 200 {object} dto.ListTenantsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list tenants"
// @Security BearerAuth
// @Router /tenants [get]
func (h *tenantHandler) listUserTenants(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	tenants, err := h.tenantService.ListUserTenants(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list tenants")
		return
	}

	c.JSON(http.StatusOK, dto.ToListTenantsResponse(tenants))
}

// getTenant godoc
// @Summary Get a tenant
// @Description Retrieves a tenant the authenticated user is a member of.
// @Tags tenants
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Success 200 {object} dto.TenantResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Not a member"
// @Failure 404 {object} ErrorResponse "Tenant not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id} [get]
func (h *tenantHandler) getTenant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	tenant, err := h.tenantService.GetTenant(c.Request.Context(), c.Param("tenant_id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to get tenant")
		return
	}

	c.JSON(http.StatusOK, dto.ToTenantResponse(tenant))
}

// setModuleFlag godoc
// @Summary Enable or disable a module
// @Description Sets a per-tenant module flag (tenant admin only).
// @Tags tenants
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   flag body dto.SetModuleFlagRequest true "Module flag"
// @Success 200 {object} dto.ModuleFlagResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 403 {object} ErrorResponse "Requires tenant admin"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/modules [post]
func (h *tenantHandler) setModuleFlag(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetModuleFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	flag, err := h.tenantService.SetModuleFlag(c.Request.Context(), c.Param("tenant_id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to set module flag")
		return
	}

	logger.Info("Module flag set",
		slog.String("module", string(flag.Module)),
		slog.Bool("enabled", flag.Enabled))
	c.JSON(http.StatusOK, dto.ToModuleFlagResponse(flag))
}

// listModuleFlags godoc
// @Summary List module flags
// @Description Retrieves the tenant's module flags. Modules without a recorded flag are disabled.
// @Tags tenants
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Success 200 {object} dto.ListModuleFlagsResponse
// @Failure 403 {object} ErrorResponse "Not a member"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/modules [get]
func (h *tenantHandler) listModuleFlags(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	tenantID := c.Param("tenant_id")
	flags, err := h.tenantService.ListModuleFlags(c.Request.Context(), tenantID, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list module flags")
		return
	}

	resp := dto.ListModuleFlagsResponse{TenantID: tenantID}
	for i := range flags {
		resp.Modules = append(resp.Modules, dto.ToModuleFlagResponse(&flags[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// addMember godoc
// @Summary Add a member to a tenant
// @Description Adds a user to the tenant with a role (tenant admin only).
// @Tags tenants
// @Accept  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   member body dto.AddMemberRequest true "User ID and role"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 403 {object} ErrorResponse "Requires tenant admin"
// @Failure 404 {object} ErrorResponse "User not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/members [post]
func (h *tenantHandler) addMember(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.tenantService.AddMember(c.Request.Context(), c.Param("tenant_id"), req, userID); err != nil {
		respondWithError(c, logger, err, "Failed to add member")
		return
	}

	c.Status(http.StatusNoContent)
}
