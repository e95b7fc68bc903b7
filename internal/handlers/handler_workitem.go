package handlers

import (
	"net/http"

	portssvc "github.com/complianceos/cos_backend/internal/core/ports/services"
	"github.com/complianceos/cos_backend/internal/dto"
	"github.com/complianceos/cos_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// workItemHandler handles HTTP requests related to work items and their
// escalations.
type workItemHandler struct {
	workItemService portssvc.WorkItemSvcFacade
}

// newWorkItemHandler creates a new workItemHandler.
func newWorkItemHandler(ws portssvc.WorkItemSvcFacade) *workItemHandler {
	return &workItemHandler{workItemService: ws}
}

// registerWorkItemRoutes registers work item routes nested under a tenant.
func registerWorkItemRoutes(rg *gin.RouterGroup, workItemService portssvc.WorkItemSvcFacade) {
	h := newWorkItemHandler(workItemService)

	workItems := rg.Group("/work-items")
	{
		workItems.POST("", h.createWorkItem)
		workItems.GET("", h.listWorkItems)
		workItems.GET("/:item_id", h.getWorkItem)
		workItems.PATCH("/:item_id/status", h.updateWorkItemStatus)
		workItems.POST("/:item_id/escalate", h.escalateWorkItem)
		workItems.POST("/:item_id/escalation", h.respondToEscalation)
		workItems.GET("/:item_id/events", h.listWorkItemEvents)
	}
}

// createWorkItem godoc
// @Summary Create a work item
// @Description Creates a work item in status pending. The module gating the item's type must be enabled for the tenant.
// @Tags work-items
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   work_item body dto.CreateWorkItemRequest true "Work item details"
// @Success 201 {object} dto.WorkItemResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 403 {object} ErrorResponse "Module disabled or insufficient role"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/work-items [post]
func (h *workItemHandler) createWorkItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateWorkItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	item, err := h.workItemService.CreateWorkItem(c.Request.Context(), c.Param("tenant_id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create work item")
		return
	}

	c.JSON(http.StatusCreated, dto.ToWorkItemResponse(item))
}

// listWorkItems godoc
// @Summary List work items
// @Description Retrieves a filtered page of the tenant's work items with the total match count. All filters combine with AND.
// @Tags work-items
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   status query []string false "Status filter"
// @Param   type query []string false "Type filter"
// @Param   priority query []string false "Priority filter"
// @Param   assigneeID query string false "Assignee filter"
// @Param   assignedToMe query bool false "Only items assigned to the caller"
// @Param   escalated query bool false "Escalated filter"
// @Param   limit query int false "Page size (max 100)"
// @Param   offset query int false "Page offset"
// @Success 200 {object} dto.ListWorkItemsResponse
// @Failure 403 {object} ErrorResponse "Not a member"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/work-items [get]
func (h *workItemHandler) listWorkItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListWorkItemsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.workItemService.ListWorkItems(c.Request.Context(), c.Param("tenant_id"), userID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list work items")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getWorkItem godoc
// @Summary Get a work item
// @Description Retrieves a single work item within the tenant.
// @Tags work-items
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   item_id path string true "Work Item ID"
// @Success 200 {object} dto.WorkItemResponse
// @Failure 404 {object} ErrorResponse "Work item not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/work-items/{item_id} [get]
func (h *workItemHandler) getWorkItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	item, err := h.workItemService.GetWorkItem(c.Request.Context(), c.Param("tenant_id"), c.Param("item_id"), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to get work item")
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkItemResponse(item))
}

// updateWorkItemStatus godoc
// @Summary Update work item status
// @Description Applies a status transition, appending a timeline event in the same transaction. Transitions outside the status machine fail with 409.
// @Tags work-items
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   item_id path string true "Work Item ID"
// @Param   transition body dto.UpdateWorkItemStatusRequest true "Target status and optional note"
// @Success 200 {object} dto.WorkItemResponse
// @Failure 404 {object} ErrorResponse "Work item not found"
// @Failure 409 {object} ErrorResponse "Invalid transition or concurrent update"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/work-items/{item_id}/status [patch]
func (h *workItemHandler) updateWorkItemStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateWorkItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	item, err := h.workItemService.UpdateWorkItemStatus(c.Request.Context(), c.Param("tenant_id"), c.Param("item_id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update work item status")
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkItemResponse(item))
}

// escalateWorkItem godoc
// @Summary Escalate a work item
// @Description Moves a non-terminal work item to escalated and opens an escalation episode. Intended for the SLA rule engine and operators.
// @Tags work-items
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   item_id path string true "Work Item ID"
// @Param   escalation body dto.EscalateWorkItemRequest true "Escalation reason"
// @Success 200 {object} dto.WorkItemResponse
// @Failure 404 {object} ErrorResponse "Work item not found"
// @Failure 409 {object} ErrorResponse "Item terminal or already escalated"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/work-items/{item_id}/escalate [post]
func (h *workItemHandler) escalateWorkItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.EscalateWorkItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	item, err := h.workItemService.EscalateWorkItem(c.Request.Context(), c.Param("tenant_id"), c.Param("item_id"), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to escalate work item")
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkItemResponse(item))
}

// respondToEscalation godoc
// @Summary Respond to an escalation
// @Description Acknowledges or resolves the open escalation episode. Acknowledge is idempotent; resolve completes the work item.
// @Tags work-items
// @Accept  json
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   item_id path string true "Work Item ID"
// @Param   response body dto.RespondToEscalationRequest true "Escalation response action"
// @Success 200 {object} dto.WorkItemResponse
// @Failure 404 {object} ErrorResponse "Work item or escalation not found"
// @Failure 409 {object} ErrorResponse "Work item not escalated"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/work-items/{item_id}/escalation [post]
func (h *workItemHandler) respondToEscalation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RespondToEscalationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	item, err := h.workItemService.RespondToEscalation(c.Request.Context(), c.Param("tenant_id"), c.Param("item_id"), req.Action, userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to respond to escalation")
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkItemResponse(item))
}

// listWorkItemEvents godoc
// @Summary List work item timeline
// @Description Retrieves the item's status timeline newest-first with keyset pagination.
// @Tags work-items
// @Produce  json
// @Param   tenant_id path string true "Tenant ID"
// @Param   item_id path string true "Work Item ID"
// @Param   limit query int false "Page size (max 200)"
// @Param   nextToken query string false "Continuation token"
// @Success 200 {object} dto.ListWorkItemEventsResponse
// @Failure 404 {object} ErrorResponse "Work item not found"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/work-items/{item_id}/events [get]
func (h *workItemHandler) listWorkItemEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListWorkItemEventsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.workItemService.ListWorkItemEvents(c.Request.Context(), c.Param("tenant_id"), c.Param("item_id"), userID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list work item events")
		return
	}

	c.JSON(http.StatusOK, resp)
}
