package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CataldiDonato/catalogo-autos/internal/model"
	"github.com/CataldiDonato/catalogo-autos/internal/repository"
)

// ContactHandler stores messages from the public contact form.
type ContactHandler struct {
	Repo *repository.ContactRepository
}

func (h *ContactHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/contact", h.Create)
}

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

// POST /api/contact
func (h *ContactHandler) Create(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, a valid email and message are required"})
		return
	}

	contact := &model.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	}
	if err := h.Repo.Insert(c.Request.Context(), contact); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save message"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": contact})
}
