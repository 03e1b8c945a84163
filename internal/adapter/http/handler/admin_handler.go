package handler

import (
	"strconv"

	"custodial-wallet-backend/internal/adapter/http/dto"
	"custodial-wallet-backend/internal/core/domain"
	"custodial-wallet-backend/internal/core/ports"
	"custodial-wallet-backend/pkg/apperror"
	"custodial-wallet-backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler handles the back-office surface.
type AdminHandler struct {
	authSvc ports.AuthService
	userSvc ports.UserService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(authSvc ports.AuthService, userSvc ports.UserService) *AdminHandler {
	return &AdminHandler{authSvc: authSvc, userSvc: userSvc}
}

// Register handles POST /api/v1/admin/auth/register. Creating admin
// accounts requires an existing admin token.
func (h *AdminHandler) Register(c *gin.Context) {
	var req dto.AdminRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	created, err := h.authSvc.RegisterAdmin(c.Request.Context(), &domain.Admin{
		Email: req.Email,
		Name:  req.Name,
		Role:  domain.AdminRole(req.Role),
	}, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewAdminResponse(created))
}

// Login handles POST /api/v1/admin/auth/login.
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	admin, token, err := h.authSvc.LoginAdmin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.AdminLoginResponse{
		Token: token,
		Admin: dto.NewAdminResponse(admin),
	})
}

// GetProfile handles GET /api/v1/admin/me.
func (h *AdminHandler) GetProfile(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	admin, err := h.authSvc.GetAdminProfile(c.Request.Context(), adminID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewAdminResponse(admin))
}

// ListAdmins handles GET /api/v1/admin/admins.
func (h *AdminHandler) ListAdmins(c *gin.Context) {
	admins, err := h.authSvc.ListAdmins(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.AdminResponse, 0, len(admins))
	for i := range admins {
		out = append(out, dto.NewAdminResponse(&admins[i]))
	}
	response.OK(c, out)
}

// ListUsers handles GET /api/v1/admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	users, total, err := h.userSvc.ListUsers(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	response.OK(c, dto.UserListResponse{
		Items:      out,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: dto.TotalPages(total, pageSize),
	})
}

// SetUserStatus handles PATCH /api/v1/admin/users/:id/status.
func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid user id"))
		return
	}

	var req dto.SetUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	user, err := h.userSvc.SetUserStatus(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewUserResponse(user))
}
