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

// BootcampModule wires bootcamp routes, including the nested course routes
// under /bootcamps/:id/courses. Reads are public; writes require the
// publisher or admin role.

type BootcampModule struct {
	Handler *handlers.BootcampHandler
	Courses *handlers.CourseHandler
	Tokens  *token.Manager
	Users   repository.UserRepository
}

func NewBootcampModule(h *handlers.BootcampHandler, courses *handlers.CourseHandler, tokens *token.Manager, users repository.UserRepository) *BootcampModule {
	return &BootcampModule{Handler: h, Courses: courses, Tokens: tokens, Users: users}
}

func (m *BootcampModule) Register(rg *gin.RouterGroup) {
	bc := rg.Group("/bootcamps")
	bc.Use(middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP()))

	bc.GET("", m.Handler.List)
	bc.GET("/search", m.Handler.Search)
	bc.GET("/radius/:zipcode/:distance", m.Handler.WithinRadius)
	bc.GET("/:id", m.Handler.Get)
	bc.GET("/:id/courses", m.Courses.ListByBootcamp)

	writes := bc.Group("")
	writes.Use(middleware.Protect(m.Tokens, m.Users))
	writes.Use(middleware.Authorize(entity.RolePublisher, entity.RoleAdmin))
	{
		writes.POST("", m.Handler.Create)
		writes.PUT("/:id", m.Handler.Update)
		writes.DELETE("/:id", m.Handler.Delete)
		writes.PUT("/:id/photo", m.Handler.UploadPhoto)
		writes.POST("/:id/courses", m.Courses.Create)
	}
}
