package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx/types"

	"github.com/CataldiDonato/catalogo-autos/internal/model"
	"github.com/CataldiDonato/catalogo-autos/internal/repository"
	"github.com/CataldiDonato/catalogo-autos/internal/service"
)

// PublicationHandler serves the public catalog reads and the
// authenticated admin CRUD.
type PublicationHandler struct {
	Repo *repository.PublicationRepository
}

func (h *PublicationHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/publications", h.List)
	rg.GET("/publications/:id", h.Get)
}

func (h *PublicationHandler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/publications", h.Create)
	rg.PUT("/publications/:id", h.Update)
	rg.DELETE("/publications/:id", h.Delete)
}

// GET /api/publications?category=
func (h *PublicationHandler) List(c *gin.Context) {
	category := c.Query("category")
	if category != "" {
		parsed, ok := model.ParseCategory(category)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
			return
		}
		category = string(parsed)
	}

	pubs, err := h.Repo.GetAll(c.Request.Context(), category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load publications"})
		return
	}
	c.JSON(http.StatusOK, pubs)
}

// GET /api/publications/:id
func (h *PublicationHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid publication id"})
		return
	}

	pub, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "publication not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load publication"})
		return
	}
	c.JSON(http.StatusOK, pub)
}

type createPublicationRequest struct {
	Title       string                 `json:"title"`
	Price       float64                `json:"price" binding:"gte=0"`
	Currency    string                 `json:"currency"`
	Description string                 `json:"description"`
	Category    string                 `json:"category" binding:"required"`
	Specs       map[string]interface{} `json:"specs"`
	Images      []string               `json:"images"`
}

// POST /api/publications
// Only category is mandatory; everything else has a documented default.
// Image paths come from a prior POST /api/upload.
func (h *PublicationHandler) Create(c *gin.Context) {
	var req createPublicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category is required"})
		return
	}

	category, ok := model.ParseCategory(req.Category)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
		return
	}

	if req.Title == "" {
		req.Title = service.DefaultTitle
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}
	if req.Specs == nil {
		req.Specs = map[string]interface{}{}
	}
	specsJSON, err := json.Marshal(req.Specs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid specs"})
		return
	}

	pub := &model.Publication{
		Title:       req.Title,
		Price:       req.Price,
		Currency:    req.Currency,
		Description: req.Description,
		Category:    category,
		Specs:       types.JSONText(specsJSON),
	}
	if err := h.Repo.Create(c.Request.Context(), pub, req.Images); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create publication"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": pub})
}

type updatePublicationRequest struct {
	Title       *string                `json:"title"`
	Price       *float64               `json:"price" binding:"omitempty,gte=0"`
	Currency    *string                `json:"currency"`
	Description *string                `json:"description"`
	Category    *string                `json:"category"`
	Specs       map[string]interface{} `json:"specs"`
	Images      []string               `json:"images"`
}

// PUT /api/publications/:id
// Partial update: absent fields keep their stored values. A non-empty
// images list replaces the whole image set; an absent one leaves it
// alone.
func (h *PublicationHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid publication id"})
		return
	}

	var req updatePublicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	patch := repository.PublicationPatch{
		Title:       req.Title,
		Price:       req.Price,
		Currency:    req.Currency,
		Description: req.Description,
	}
	if req.Category != nil {
		category, ok := model.ParseCategory(*req.Category)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
			return
		}
		patch.Category = &category
	}
	if req.Specs != nil {
		specsJSON, err := json.Marshal(req.Specs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid specs"})
			return
		}
		patch.Specs = types.JSONText(specsJSON)
	}

	pub, err := h.Repo.Update(c.Request.Context(), id, patch, req.Images)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "publication not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update publication"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": pub})
}

// DELETE /api/publications/:id
func (h *PublicationHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid publication id"})
		return
	}

	if err := h.Repo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "publication not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete publication"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "publication deleted"})
}
