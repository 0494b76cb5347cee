package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"devcamp-api/internal/container"
	"devcamp-api/internal/domain/entity"
	"devcamp-api/internal/domain/repository"
	handlers "devcamp-api/internal/interface/http"
	"devcamp-api/internal/interface/middleware"
	"devcamp-api/pkg/token"
)

// UserModule wires the admin-only user management routes.

type UserModule struct {
	Handler *handlers.UserHandler
	Tokens  *token.Manager
	Users   repository.UserRepository
}

func NewUserModule(h *handlers.UserHandler, tokens *token.Manager, users repository.UserRepository) *UserModule {
	return &UserModule{Handler: h, Tokens: tokens, Users: users}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.Protect(m.Tokens, m.Users))
	users.Use(middleware.Authorize(entity.RoleAdmin))
	users.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUser()))
	{
		users.GET("", m.Handler.List)
		users.GET("/:id", m.Handler.Get)
		users.POST("", m.Handler.Create)
		users.PUT("/:id", m.Handler.Update)
		users.DELETE("/:id", m.Handler.Delete)
	}
}
