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

// StatementHandler handles the user's periodic statement endpoints.
type StatementHandler struct {
	stmtSvc ports.StatementService
}

// NewStatementHandler creates a new StatementHandler.
func NewStatementHandler(stmtSvc ports.StatementService) *StatementHandler {
	return &StatementHandler{stmtSvc: stmtSvc}
}

// Save handles POST /api/v1/statements. Saving a statement for a period
// that already has one replaces it.
func (h *StatementHandler) Save(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.StatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	saved, err := h.stmtSvc.Save(c.Request.Context(), &domain.Statement{
		UserID:  userID,
		Period:  req.Period,
		Summary: req.Summary,
		Details: req.Details,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, saved)
}

// Update handles PUT /api/v1/statements/:id.
func (h *StatementHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid statement id"))
		return
	}

	var req dto.StatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	updated, err := h.stmtSvc.Update(c.Request.Context(), &domain.Statement{
		ID:      id,
		UserID:  userID,
		Period:  req.Period,
		Summary: req.Summary,
		Details: req.Details,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, updated)
}

// Get handles GET /api/v1/statements/:id.
func (h *StatementHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid statement id"))
		return
	}

	stmt, err := h.stmtSvc.Get(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, stmt)
}

// List handles GET /api/v1/statements.
func (h *StatementHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	stmts, err := h.stmtSvc.List(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, stmts)
}

// Delete handles DELETE /api/v1/statements/:id.
func (h *StatementHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid statement id"))
		return
	}

	if err := h.stmtSvc.Delete(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
