package handlers

import (
	"net/http"

	"github.com/complianceos/cos_backend/internal/core/domain"
	portssvc "github.com/complianceos/cos_backend/internal/core/ports/services"
	"github.com/complianceos/cos_backend/internal/dto"
	"github.com/complianceos/cos_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// assignmentHandler handles HTTP requests related to the governed item
// catalog and RACI assignments.
type assignmentHandler struct {
	assignmentService portssvc.AssignmentSvcFacade
}

// newAssignmentHandler creates a new assignmentHandler.
func newAssignmentHandler(as portssvc.AssignmentSvcFacade) *assignmentHandler {
	return &assignmentHandler{assignmentService: as}
}

// registerAssignmentRoutes registers catalog and assignment routes nested
// under a tenant.
func registerAssignmentRoutes(rg *gin.RouterGroup, assignmentService portssvc.AssignmentSvcFacade) {
	h := newAssignmentHandler(assignmentService)

	items := rg.Group("/items")
	{
		items.POST("", h.createGovernanceItem)
		items.GET("", h.listGovernanceItems)
	}

	assignments := rg.Group("/assignments")
	{
		assignments.PUT("", h.upsertAssignment)
		assignments.GET("", h.listAssignments)
		assignments.DELETE("/:assignment_id", h.deleteAssignment)
	}
}

// createGovernanceItem godoc
// @Summary Catalog a governed item
// @Description Adds a control, policy, evidence or task to the tenant's governed item catalog.
// @Tags assignments
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   item body dto.CreateGovernanceItemRequest true "Item details"
// @Success 201 {object} dto.GovernanceItemResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 403 {object} ErrorResponse "Insufficient role"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/items [post]
func (h *assignmentHandler) createGovernanceItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateGovernanceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	item, err := h.assignmentService.CreateGovernanceItem(c.Request.Context(), c.Param("tenant_id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create governance item")
		return
	}

	c.JSON(http.StatusCreated, dto.ToGovernanceItemResponse(item))
}

// listGovernanceItems godoc
// @Summary List governed items
// @Description Retrieves the tenant's governed item catalog, optionally filtered by kind.
// @Tags assignments
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   kind query string false "Item kind filter"
// @Success 200 {array} dto.GovernanceItemResponse
// @Failure 403 {object} ErrorResponse "Not a member"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/items [get]
func (h *assignmentHandler) listGovernanceItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var kind *domain.ItemKind
	if raw := c.Query("kind"); raw != "" {
		k := domain.ItemKind(raw)
		if !k.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unknown item kind: " + raw})
			return
		}
		kind = &k
	}

	items, err := h.assignmentService.ListGovernanceItems(c.Request.Context(), c.Param("tenant_id"), userID, kind)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list governance items")
		return
	}

	resp := make([]dto.GovernanceItemResponse, len(items))
	for i := range items {
		resp[i] = dto.ToGovernanceItemResponse(&items[i])
	}
	c.JSON(http.StatusOK, resp)
}

// upsertAssignment godoc
// @Summary Assign a person to a governed item
// @Description Creates or refreshes a RACI assignment. At most one Accountable assignee may exist per item.
// @Tags assignments
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   assignment body dto.UpsertAssignmentRequest true "Assignment details"
// @Success 200 {object} dto.AssignmentResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Item not cataloged"
// @Failure 409 {object} ErrorResponse "Item already has an accountable assignee"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/assignments [put]
func (h *assignmentHandler) upsertAssignment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpsertAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	assignment, err := h.assignmentService.UpsertAssignment(c.Request.Context(), c.Param("tenant_id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to upsert assignment")
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentResponse(assignment))
}

// listAssignments godoc
// @Summary List assignments
// @Description Retrieves RACI assignments matching the optional filters.
// @Tags assignments
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   itemKind query string false "Item kind filter"
// @Param   itemID query string false "Item filter"
// @Param   userID query string false "User filter"
// @Success 200 {object} dto.ListAssignmentsResponse
// @Failure 403 {object} ErrorResponse "Not a member"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/assignments [get]
func (h *assignmentHandler) listAssignments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListAssignmentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	assignments, err := h.assignmentService.ListAssignments(c.Request.Context(), c.Param("tenant_id"), userID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list assignments")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAssignmentsResponse(assignments))
}

// deleteAssignment godoc
// @Summary Delete an assignment
// @Description Removes a RACI assignment.
// @Tags assignments
// @Param   tenant_id path string true "Tenant ID"
// @Param   assignment_id path string true "Assignment ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse "Assignment not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/assignments/{assignment_id} [delete]
func (h *assignmentHandler) deleteAssignment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.assignmentService.DeleteAssignment(c.Request.Context(), c.Param("tenant_id"), c.Param("assignment_id"), userID); err != nil {
		respondWithError(c, logger, err, "Failed to delete assignment")
		return
	}

	c.Status(http.StatusNoContent)
}
