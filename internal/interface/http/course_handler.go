package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"devcamp-api/internal/application"
	"devcamp-api/internal/domain/entity"
	"devcamp-api/internal/interface/middleware"
	"devcamp-api/pkg/response"
)

type CourseHandler struct {
	Svc    *application.CourseService
	Logger *logrus.Logger
}

func NewCourseHandler(svc *application.CourseService, logger *logrus.Logger) *CourseHandler {
	return &CourseHandler{Svc: svc, Logger: logger}
}

type courseRequest struct {
	Title                string `json:"title" binding:"required"`
	Description          string `json:"description" binding:"required"`
	Weeks                int    `json:"weeks" binding:"required,gt=0"`
	Tuition              int    `json:"tuition" binding:"required,gte=0"`
	MinimumSkill         string `json:"minimum_skill" binding:"required,skill"`
	ScholarshipAvailable *bool  `json:"scholarship_available"`
}

type courseUpdateRequest struct {
	Title                string `json:"title"`
	Description          string `json:"description"`
	Weeks                int    `json:"weeks" binding:"omitempty,gt=0"`
	Tuition              int    `json:"tuition" binding:"omitempty,gte=0"`
	MinimumSkill         string `json:"minimum_skill" binding:"omitempty,skill"`
	ScholarshipAvailable *bool  `json:"scholarship_available"`
}

// List GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	items, total, err := h.Svc.List(c.Request.Context(), listParams(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.SuccessList(c, http.StatusOK, items, total)
}

// ListByBootcamp GET /api/v1/bootcamps/:id/courses
func (h *CourseHandler) ListByBootcamp(c *gin.Context) {
	items, err := h.Svc.ListByBootcamp(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.SuccessList(c, http.StatusOK, items, len(items))
}

// Get GET /api/v1/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, course)
}

// Create POST /api/v1/bootcamps/:id/courses
func (h *CourseHandler) Create(c *gin.Context) {
	u, _ := middleware.Principal(c)
	var req courseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}
	course, err := h.Svc.Create(c.Request.Context(), u, c.Param("id"), application.CourseInput{
		Title: req.Title, Description: req.Description, Weeks: req.Weeks,
		Tuition: req.Tuition, MinimumSkill: entity.MinimumSkill(req.MinimumSkill),
		ScholarshipAvailable: req.ScholarshipAvailable,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, course)
}

// Update PUT /api/v1/courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	u, _ := middleware.Principal(c)
	var req courseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}
	course, err := h.Svc.Update(c.Request.Context(), u, c.Param("id"), application.CourseInput{
		Title: req.Title, Description: req.Description, Weeks: req.Weeks,
		Tuition: req.Tuition, MinimumSkill: entity.MinimumSkill(req.MinimumSkill),
		ScholarshipAvailable: req.ScholarshipAvailable,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, course)
}

// Delete DELETE /api/v1/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	u, _ := middleware.Principal(c)
	if err := h.Svc.Delete(c.Request.Context(), u, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
