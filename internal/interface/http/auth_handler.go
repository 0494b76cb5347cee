package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"devcamp-api/internal/application"
	"devcamp-api/internal/domain/entity"
	"devcamp-api/internal/interface/middleware"
	"devcamp-api/pkg/helpers"
	"devcamp-api/pkg/response"
)

type AuthHandler struct {
	Svc     *application.AuthService
	Cookies *helpers.CookieManager
	Logger  *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, cookies *helpers.CookieManager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Cookies: cookies, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Role     string `json:"role" binding:"omitempty,role"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type updateDetailsRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"omitempty,email"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,pwd"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required,pwd"`
}

// sendToken sets the session cookie and returns the token in the body.
func (h *AuthHandler) sendToken(c *gin.Context, sess application.Session) {
	h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
	response.Token(c, http.StatusOK, sess.Token)
}

// Register POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}
	_, sess, err := h.Svc.Register(c.Request.Context(), req.Name, req.Email, req.Password, entity.Role(req.Role))
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.sendToken(c, sess)
}

// Login POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}
	_, sess, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.sendToken(c, sess)
}

// Logout GET /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, gin.H{})
}

// Me GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	u, _ := middleware.Principal(c)
	response.Success(c, http.StatusOK, u)
}

// UpdateDetails PUT /api/v1/auth/updatedetails
func (h *AuthHandler) UpdateDetails(c *gin.Context) {
	u, _ := middleware.Principal(c)
	var req updateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}
	updated, err := h.Svc.UpdateDetails(c.Request.Context(), u.ID, req.Name, req.Email)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

// UpdatePassword PUT /api/v1/auth/updatepassword
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	u, _ := middleware.Principal(c)
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}
	sess, err := h.Svc.UpdatePassword(c.Request.Context(), u.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.sendToken(c, sess)
}

// ForgotPassword POST /api/v1/auth/forgotpassword
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.Svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Email sent")
}

// ResetPassword PUT /api/v1/auth/resetpassword/:resettoken
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}
	_, sess, err := h.Svc.ResetPassword(c.Request.Context(), c.Param("resettoken"), req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.sendToken(c, sess)
}
