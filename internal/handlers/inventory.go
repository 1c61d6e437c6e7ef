// internal/handlers/inventory.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ismaelcabanas/home-inventory-backend/internal/services"
	"github.com/ismaelcabanas/home-inventory-backend/internal/utils"
)

type InventoryHandler struct {
	inventoryService *services.InventoryService
}

func NewInventoryHandler(inventoryService *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

type AddProductRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// GET /v1/products
func (h *InventoryHandler) GetProducts(c *gin.Context) {
	products, err := h.inventoryService.SearchProducts(c.Request.Context(), c.Query("q"))
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.SuccessResponse(c, products)
}

// POST /v1/products
func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	var req AddProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	product, err := h.inventoryService.AddProduct(c.Request.Context(), req.Name)
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.CreatedResponse(c, product)
}

// GET /v1/products/:id
func (h *InventoryHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product id", nil)
		return
	}

	product, err := h.inventoryService.GetProduct(c.Request.Context(), id)
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.SuccessResponse(c, product)
}

// PATCH /v1/products/:id
func (h *InventoryHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product id", nil)
		return
	}

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	req, err := services.ParseUpdateRequest(fields)
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}

	product, err := h.inventoryService.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.SuccessResponse(c, product)
}

// DELETE /v1/products/:id
func (h *InventoryHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product id", nil)
		return
	}

	// deleting a missing product is a no-op by contract
	if err := h.inventoryService.DeleteProduct(c.Request.Context(), id); err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"deleted": true})
}

// POST /v1/products/:id/cycle-stock
func (h *InventoryHandler) CycleStockLevel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product id", nil)
		return
	}

	product, err := h.inventoryService.CycleStockLevel(c.Request.Context(), id)
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.SuccessResponse(c, product)
}
