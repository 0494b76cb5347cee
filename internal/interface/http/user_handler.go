package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"devcamp-api/internal/application"
	"devcamp-api/internal/domain/entity"
	"devcamp-api/pkg/response"
)

// UserHandler backs the admin-only /users endpoints.
type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type adminCreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Role     string `json:"role" binding:"omitempty,oneof=user publisher admin"`
}

type adminUpdateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,pwd"`
	Role     string `json:"role" binding:"omitempty,oneof=user publisher admin"`
}

// List GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.SuccessList(c, http.StatusOK, users, len(users))
}

// Get GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

// Create POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req adminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), application.AdminUserInput{
		Name: req.Name, Email: req.Email, Password: req.Password, Role: entity.Role(req.Role),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, u)
}

// Update PUT /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req adminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), c.Param("id"), application.AdminUserInput{
		Name: req.Name, Email: req.Email, Password: req.Password, Role: entity.Role(req.Role),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

// Delete DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
