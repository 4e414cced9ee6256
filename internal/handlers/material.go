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

type MaterialHandler struct {
	materialService *services.MaterialService
}

func NewMaterialHandler(materialService *services.MaterialService) *MaterialHandler {
	return &MaterialHandler{materialService: materialService}
}

// ListMaterials returns catalog materials filtered by is_active, category, supply_type, code and name
func (h *MaterialHandler) ListMaterials(c *gin.Context) {
	isActive, ok := queryBool(c, "is_active")
	if !ok {
		return
	}
	supplyType, ok := queryEnum(c, "supply_type", models.ParseSupplyType)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	materials, total, err := h.materialService.List(c.Request.Context(), repository.MaterialFilter{
		IsActive:   isActive,
		Category:   c.Query("category"),
		SupplyType: supplyType,
		Code:       c.Query("code"),
		Name:       c.Query("name"),
		Pagination: params,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(materials, params, total))
}

// GetMaterial returns one material
func (h *MaterialHandler) GetMaterial(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	material, err := h.materialService.Get(c.Request.Context(), id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, material)
}

// CreateMaterial adds a material to the catalog
func (h *MaterialHandler) CreateMaterial(c *gin.Context) {
	var req dto.MaterialRequest
	if !bindJSON(c, &req) {
		return
	}

	var supplyType models.SupplyType
	if req.SupplyType != "" {
		parsed, ok := optionalEnum(c, &req.SupplyType, models.ParseSupplyType)
		if !ok {
			return
		}
		supplyType = *parsed
	}

	material, err := h.materialService.Create(c.Request.Context(), services.MaterialInput{
		Category:    req.Category,
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Unit:        req.Unit,
		UnitPrice:   req.UnitPrice,
		SupplyType:  supplyType,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, material)
}

// UpdateMaterial applies a partial update
func (h *MaterialHandler) UpdateMaterial(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateMaterialRequest
	if !bindJSON(c, &req) {
		return
	}
	supplyType, ok := optionalEnum(c, req.SupplyType, models.ParseSupplyType)
	if !ok {
		return
	}

	material, err := h.materialService.Update(c.Request.Context(), id, services.UpdateMaterialInput{
		Category:    req.Category,
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Unit:        req.Unit,
		UnitPrice:   req.UnitPrice,
		SupplyType:  supplyType,
		IsActive:    req.IsActive,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, material)
}

// DeleteMaterial removes an unused material or deactivates a used one
func (h *MaterialHandler) DeleteMaterial(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	outcome, err := h.materialService.Delete(c.Request.Context(), id)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewDeleteResponse("material", id, outcome))
}
