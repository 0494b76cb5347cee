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

// CourseModule wires the top-level course routes. Creation happens through
// the nested bootcamp route; this group covers list, get, update and delete.

type CourseModule struct {
	Handler *handlers.CourseHandler
	Tokens  *token.Manager
	Users   repository.UserRepository
}

func NewCourseModule(h *handlers.CourseHandler, tokens *token.Manager, users repository.UserRepository) *CourseModule {
	return &CourseModule{Handler: h, Tokens: tokens, Users: users}
}

func (m *CourseModule) Register(rg *gin.RouterGroup) {
	courses := rg.Group("/courses")
	courses.Use(middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP()))

	courses.GET("", m.Handler.List)
	courses.GET("/:id", m.Handler.Get)

	writes := courses.Group("/")
	writes.Use(middleware.Protect(m.Tokens, m.Users))
	writes.Use(middleware.Authorize(entity.RolePublisher, entity.RoleAdmin))
	{
		writes.PUT("/:id", m.Handler.Update)
		writes.DELETE("/:id", m.Handler.Delete)
	}
}
