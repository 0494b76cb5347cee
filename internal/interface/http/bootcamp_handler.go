package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"devcamp-api/internal/application"
	"devcamp-api/internal/domain/repository"
	"devcamp-api/internal/interface/middleware"
	"devcamp-api/pkg/apierror"
	"devcamp-api/pkg/response"
)

type BootcampHandler struct {
	Svc    *application.BootcampService
	Logger *logrus.Logger
}

func NewBootcampHandler(svc *application.BootcampService, logger *logrus.Logger) *BootcampHandler {
	return &BootcampHandler{Svc: svc, Logger: logger}
}

type bootcampRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description" binding:"required"`
	Website       string   `json:"website" binding:"omitempty,url"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email" binding:"omitempty,email"`
	Address       string   `json:"address" binding:"required"`
	Careers       []string `json:"careers"`
	Housing       *bool    `json:"housing"`
	JobAssistance *bool    `json:"job_assistance"`
	JobGuarantee  *bool    `json:"job_guarantee"`
	AcceptGi      *bool    `json:"accept_gi"`
}

type bootcampUpdateRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Website       string   `json:"website" binding:"omitempty,url"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email" binding:"omitempty,email"`
	Address       string   `json:"address"`
	Careers       []string `json:"careers"`
	Housing       *bool    `json:"housing"`
	JobAssistance *bool    `json:"job_assistance"`
	JobGuarantee  *bool    `json:"job_guarantee"`
	AcceptGi      *bool    `json:"accept_gi"`
}

func listParams(c *gin.Context) repository.ListParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
	return repository.ListParams{Page: page, Limit: limit, Sort: c.Query("sort")}
}

// List GET /api/v1/bootcamps
func (h *BootcampHandler) List(c *gin.Context) {
	items, total, err := h.Svc.List(c.Request.Context(), listParams(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.SuccessList(c, http.StatusOK, items, total)
}

// Get GET /api/v1/bootcamps/:id
func (h *BootcampHandler) Get(c *gin.Context) {
	b, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// Create POST /api/v1/bootcamps
func (h *BootcampHandler) Create(c *gin.Context) {
	u, _ := middleware.Principal(c)
	var req bootcampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}
	b, err := h.Svc.Create(c.Request.Context(), u, application.BootcampInput{
		Name: req.Name, Description: req.Description, Website: req.Website,
		Phone: req.Phone, Email: req.Email, Address: req.Address, Careers: req.Careers,
		Housing: req.Housing, JobAssistance: req.JobAssistance,
		JobGuarantee: req.JobGuarantee, AcceptGi: req.AcceptGi,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

// Update PUT /api/v1/bootcamps/:id
func (h *BootcampHandler) Update(c *gin.Context) {
	u, _ := middleware.Principal(c)
	var req bootcampUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}
	b, err := h.Svc.Update(c.Request.Context(), u, c.Param("id"), application.BootcampInput{
		Name: req.Name, Description: req.Description, Website: req.Website,
		Phone: req.Phone, Email: req.Email, Address: req.Address, Careers: req.Careers,
		Housing: req.Housing, JobAssistance: req.JobAssistance,
		JobGuarantee: req.JobGuarantee, AcceptGi: req.AcceptGi,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

// Delete DELETE /api/v1/bootcamps/:id
func (h *BootcampHandler) Delete(c *gin.Context) {
	u, _ := middleware.Principal(c)
	if err := h.Svc.Delete(c.Request.Context(), u, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// WithinRadius GET /api/v1/bootcamps/radius/:zipcode/:distance
func (h *BootcampHandler) WithinRadius(c *gin.Context) {
	distance, err := strconv.ParseFloat(c.Param("distance"), 64)
	if err != nil {
		_ = c.Error(apierror.BadRequest("Distance must be a number of miles"))
		return
	}
	items, err := h.Svc.WithinRadius(c.Request.Context(), c.Param("zipcode"), distance)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.SuccessList(c, http.StatusOK, items, len(items))
}

// UploadPhoto PUT /api/v1/bootcamps/:id/photo
func (h *BootcampHandler) UploadPhoto(c *gin.Context) {
	u, _ := middleware.Principal(c)
	file, err := c.FormFile("file")
	if err != nil {
		_ = c.Error(apierror.BadRequest("Please upload a file"))
		return
	}
	src, err := file.Open()
	if err != nil {
		_ = c.Error(err)
		return
	}
	defer func() { _ = src.Close() }()

	url, err := h.Svc.UploadPhoto(c.Request.Context(), u, c.Param("id"),
		file.Filename, file.Header.Get("Content-Type"), file.Size, src)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, url)
}

// Search GET /api/v1/bootcamps/search?q=
func (h *BootcampHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		_ = c.Error(apierror.BadRequest("Please provide a search query"))
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.SuccessList(c, http.StatusOK, hits, len(hits))
}
