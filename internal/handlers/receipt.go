// internal/handlers/receipt.go
package handlers

import (
	"encoding/base64"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ismaelcabanas/home-inventory-backend/internal/services"
	"github.com/ismaelcabanas/home-inventory-backend/internal/utils"
)

type ReceiptHandler struct {
	receiptService *services.ReceiptService
}

func NewReceiptHandler(receiptService *services.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

type SubmitImageRequest struct {
	// ImageBase64 is the capture collaborator's payload, a base64 JPEG.
	ImageBase64 string `json:"image_base64" validate:"required"`
}

type CandidateRequest struct {
	Name string `json:"name" validate:"required"`
}

// POST /v1/receipts
func (h *ReceiptHandler) SubmitImage(c *gin.Context) {
	var req SubmitImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		utils.BadRequestResponse(c, "Image payload is not valid base64", nil)
		return
	}

	session, err := h.receiptService.SubmitImage(c.Request.Context(), image)
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.CreatedResponse(c, session)
}

// GET /v1/receipts/sessions
func (h *ReceiptHandler) GetReviewSessions(c *gin.Context) {
	utils.SuccessResponse(c, h.receiptService.ReviewSessions())
}

// GET /v1/receipts/sessions/:id
func (h *ReceiptHandler) GetSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid session id", nil)
		return
	}

	session, err := h.receiptService.GetSession(id)
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.SuccessResponse(c, session)
}

// POST /v1/receipts/sessions/:id/candidates
func (h *ReceiptHandler) AddCandidate(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid session id", nil)
		return
	}

	var req CandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	session, err := h.receiptService.AddCandidate(sessionID, req.Name)
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.SuccessResponse(c, session)
}

// PUT /v1/receipts/sessions/:id/candidates/:candidateId
func (h *ReceiptHandler) EditCandidate(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid session id", nil)
		return
	}
	candidateID, err := uuid.Parse(c.Param("candidateId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid candidate id", nil)
		return
	}

	var req CandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	session, err := h.receiptService.EditCandidate(sessionID, candidateID, req.Name)
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.SuccessResponse(c, session)
}

// DELETE /v1/receipts/sessions/:id/candidates/:candidateId
func (h *ReceiptHandler) RemoveCandidate(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid session id", nil)
		return
	}
	candidateID, err := uuid.Parse(c.Param("candidateId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid candidate id", nil)
		return
	}

	session, err := h.receiptService.RemoveCandidate(sessionID, candidateID)
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.SuccessResponse(c, session)
}

// POST /v1/receipts/sessions/:id/confirm
func (h *ReceiptHandler) ConfirmReview(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid session id", nil)
		return
	}

	session, err := h.receiptService.ConfirmReview(sessionID)
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.SuccessResponse(c, session)
}

// POST /v1/receipts/sessions/:id/commit
func (h *ReceiptHandler) CommitToInventory(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid session id", nil)
		return
	}

	session, err := h.receiptService.CommitToInventory(c.Request.Context(), sessionID)
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.SuccessResponse(c, session)
}

// POST /v1/receipts/sessions/:id/retry
func (h *ReceiptHandler) RetryCommit(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid session id", nil)
		return
	}

	session, err := h.receiptService.RetryCommit(c.Request.Context(), sessionID)
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.SuccessResponse(c, session)
}

// POST /v1/receipts/sessions/:id/clear-error
func (h *ReceiptHandler) ClearError(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid session id", nil)
		return
	}

	session, err := h.receiptService.ClearError(sessionID)
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.SuccessResponse(c, session)
}

// GET /v1/receipts/pending-count
func (h *ReceiptHandler) GetPendingCount(c *gin.Context) {
	count, err := h.receiptService.GetPendingCount(c.Request.Context())
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"count": count})
}

// POST /v1/receipts/drain
func (h *ReceiptHandler) DrainOfflineQueue(c *gin.Context) {
	result, err := h.receiptService.DrainOfflineQueue(c.Request.Context())
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.SuccessResponse(c, result)
}

// GET /v1/receipts/scans
func (h *ReceiptHandler) GetScans(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	scans, err := h.receiptService.ListScans(c.Request.Context(), limit)
	if err != nil {
		utils.MapDomainError(c, err)
		return
	}
	utils.SuccessResponse(c, scans)
}
