// internal/handlers/shopping_list.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ismaelcabanas/home-inventory-backend/internal/services"
	"github.com/ismaelcabanas/home-inventory-backend/internal/utils"
)

type ShoppingListHandler struct {
	shoppingListService *services.ShoppingListService
}

func NewShoppingListHandler(shoppingListService *services.ShoppingListService) *ShoppingListHandler {
	return &ShoppingListHandler{shoppingListService: shoppingListService}
}

type CheckedStateRequest struct {
	Checked *bool `json:"checked" validate:"required"`
}

type ShoppingModeRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// GET /v1/shopping-list
func (h *ShoppingListHandler) GetListItems(c *gin.Context) {
	items, err := h.shoppingListService.GetListItems(c.Request.Context())
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.SuccessResponse(c, items)
}

// GET /v1/shopping-list/count
func (h *ShoppingListHandler) GetListCount(c *gin.Context) {
	count, err := h.shoppingListService.GetListCount(c.Request.Context())
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"count": count})
}

// GET /v1/shopping-list/progress
func (h *ShoppingListHandler) GetProgress(c *gin.Context) {
	progress, err := h.shoppingListService.GetProgress(c.Request.Context())
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.SuccessResponse(c, progress)
}

// POST /v1/shopping-list/:id
func (h *ShoppingListHandler) AddToList(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product id", nil)
		return
	}

	product, err := h.shoppingListService.AddToList(c.Request.Context(), id)
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.SuccessResponse(c, product)
}

// DELETE /v1/shopping-list/:id
func (h *ShoppingListHandler) RemoveFromList(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product id", nil)
		return
	}

	product, err := h.shoppingListService.RemoveFromList(c.Request.Context(), id)
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.SuccessResponse(c, product)
}

// PUT /v1/shopping-list/:id/checked
// Only reachable in shopping mode; planning mode has no checkboxes.
func (h *ShoppingListHandler) UpdateCheckedState(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product id", nil)
		return
	}

	var req CheckedStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	shoppingMode, err := h.shoppingListService.GetShoppingMode(c.Request.Context())
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}
	if !shoppingMode {
		utils.BadRequestResponse(c, "Checked state can only change in shopping mode", nil)
		return
	}

	product, err := h.shoppingListService.UpdateCheckedState(c.Request.Context(), id, *req.Checked)
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.SuccessResponse(c, product)
}

// GET /v1/shopping-list/mode
func (h *ShoppingListHandler) GetShoppingMode(c *gin.Context) {
	enabled, err := h.shoppingListService.GetShoppingMode(c.Request.Context())
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"enabled": enabled})
}

// PUT /v1/shopping-list/mode
func (h *ShoppingListHandler) SetShoppingMode(c *gin.Context) {
	var req ShoppingModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	if err := h.shoppingListService.SetShoppingMode(c.Request.Context(), *req.Enabled); err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"enabled": *req.Enabled})
}
