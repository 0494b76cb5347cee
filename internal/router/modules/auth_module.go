package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"devcamp-api/internal/container"
	"devcamp-api/internal/domain/repository"
	handlers "devcamp-api/internal/interface/http"
	"devcamp-api/internal/interface/middleware"
	"devcamp-api/pkg/token"
)

// AuthModule wires the authentication routes.
// Public: register, login, forgotpassword, resetpassword.
// Protected: logout, me, updatedetails, updatepassword.

type AuthModule struct {
	Handler *handlers.AuthHandler
	Tokens  *token.Manager
	Users   repository.UserRepository
}

func NewAuthModule(h *handlers.AuthHandler, tokens *token.Manager, users repository.UserRepository) *AuthModule {
	return &AuthModule{Handler: h, Tokens: tokens, Users: users}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")

	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP())
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP())
	forgotLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath())
	resetLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath())

	auth.POST("/register", registerLimiter, m.Handler.Register)
	auth.POST("/login", loginLimiter, m.Handler.Login)
	auth.POST("/forgotpassword", forgotLimiter, m.Handler.ForgotPassword)
	auth.PUT("/resetpassword/:resettoken", resetLimiter, m.Handler.ResetPassword)

	protected := auth.Group("/")
	protected.Use(middleware.Protect(m.Tokens, m.Users))
	protected.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUser()))
	{
		protected.GET("/logout", m.Handler.Logout)
		protected.GET("/me", m.Handler.Me)
		protected.PUT("/updatedetails", m.Handler.UpdateDetails)
		protected.PUT("/updatepassword", m.Handler.UpdatePassword)
	}
}
