package handler

import (
	"custodial-wallet-backend/internal/adapter/http/dto"
	"custodial-wallet-backend/internal/core/domain"
	"custodial-wallet-backend/internal/core/ports"
	"custodial-wallet-backend/pkg/apperror"
	"custodial-wallet-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EbookHandler handles the user's reading note endpoints.
type EbookHandler struct {
	ebookSvc ports.EbookService
}

// NewEbookHandler creates a new EbookHandler.
func NewEbookHandler(ebookSvc ports.EbookService) *EbookHandler {
	return &EbookHandler{ebookSvc: ebookSvc}
}

// Create handles POST /api/v1/ebooks.
func (h *EbookHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.EbookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	created, err := h.ebookSvc.Create(c.Request.Context(), &domain.Ebook{
		UserID:  userID,
		Title:   req.Title,
		Author:  req.Author,
		Content: req.Content,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, created)
}

// Get handles GET /api/v1/ebooks/:id.
func (h *EbookHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid ebook id"))
		return
	}

	ebook, err := h.ebookSvc.Get(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, ebook)
}

// List handles GET /api/v1/ebooks.
func (h *EbookHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	ebooks, err := h.ebookSvc.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, ebooks)
}

// Update handles PUT /api/v1/ebooks/:id.
func (h *EbookHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid ebook id"))
		return
	}

	var req dto.EbookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	updated, err := h.ebookSvc.Update(c.Request.Context(), &domain.Ebook{
		ID:      id,
		UserID:  userID,
		Title:   req.Title,
		Author:  req.Author,
		Content: req.Content,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, updated)
}

// Delete handles DELETE /api/v1/ebooks/:id.
func (h *EbookHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid ebook id"))
		return
	}

	if err := h.ebookSvc.Delete(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
