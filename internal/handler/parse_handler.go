package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CataldiDonato/catalogo-autos/internal/parser"
)

// ParseHandler exposes the free-text parser as a preview endpoint; it
// persists nothing.
type ParseHandler struct{}

func (h *ParseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bot/parse", h.Parse)
}

type parseRequest struct {
	Text string `json:"text" binding:"required"`
}

// POST /api/bot/parse
func (h *ParseHandler) Parse(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": parser.Parse(req.Text)})
}
