package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xinwork/repair-order-api/internal/dto"
	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xinwork/repair-order-api/internal/models"
	"github.com/xinwork/repair-order-api/internal/repository"
	"github.com/xinwork/repair-order-api/internal/services"
	"github.com/xinwork/repair-order-api/internal/utils"
)

type WorkItemHandler struct {
	workItemService *services.WorkItemService
}

func NewWorkItemHandler(workItemService *services.WorkItemService) *WorkItemHandler {
	return &WorkItemHandler{workItemService: workItemService}
}

// ListCategories returns the selectable work item categories
func (h *WorkItemHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.workItemService.Categories()})
}

// ListWorkItems returns catalog work items filtered by category, project_number, name and is_active
func (h *WorkItemHandler) ListWorkItems(c *gin.Context) {
	isActive, ok := queryBool(c, "is_active")
	if !ok {
		return
	}
	category, ok := queryEnum(c, "category", models.ParseWorkItemCategory)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	items, total, err := h.workItemService.List(c.Request.Context(), repository.WorkItemFilter{
		IsActive:      isActive,
		Category:      category,
		ProjectNumber: c.Query("project_number"),
		Name:          c.Query("name"),
		Pagination:    params,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(items, params, total))
}

// GetWorkItem returns one work item
func (h *WorkItemHandler) GetWorkItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	item, err := h.workItemService.Get(c.Request.Context(), id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// CreateWorkItem adds a work item to the catalog
func (h *WorkItemHandler) CreateWorkItem(c *gin.Context) {
	var req dto.WorkItemRequest
	if !bindJSON(c, &req) {
		return
	}

	var category models.WorkItemCategory
	if req.Category != "" {
		parsed, ok := optionalEnum(c, &req.Category, models.ParseWorkItemCategory)
		if !ok {
			return
		}
		category = *parsed
	}

	item, err := h.workItemService.Create(c.Request.Context(), services.WorkItemInput{
		Category:           category,
		ProjectNumber:      req.ProjectNumber,
		Name:               req.Name,
		Description:        req.Description,
		Unit:               req.Unit,
		SkilledLaborDays:   req.SkilledLaborDays,
		UnskilledLaborDays: req.UnskilledLaborDays,
		UnitPrice:          req.UnitPrice,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// UpdateWorkItem applies a partial update
func (h *WorkItemHandler) UpdateWorkItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateWorkItemRequest
	if !bindJSON(c, &req) {
		return
	}
	category, ok := optionalEnum(c, req.Category, models.ParseWorkItemCategory)
	if !ok {
		return
	}

	item, err := h.workItemService.Update(c.Request.Context(), id, services.UpdateWorkItemInput{
		Category:           category,
		ProjectNumber:      req.ProjectNumber,
		Name:               req.Name,
		Description:        req.Description,
		Unit:               req.Unit,
		SkilledLaborDays:   req.SkilledLaborDays,
		UnskilledLaborDays: req.UnskilledLaborDays,
		UnitPrice:          req.UnitPrice,
		IsActive:           req.IsActive,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteWorkItem removes an unused work item or deactivates a used one
func (h *WorkItemHandler) DeleteWorkItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	outcome, err := h.workItemService.Delete(c.Request.Context(), id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDeleteResponse("work item", id, outcome))
}
