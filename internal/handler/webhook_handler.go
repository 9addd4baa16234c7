package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CataldiDonato/catalogo-autos/internal/service"
	"github.com/CataldiDonato/catalogo-autos/internal/storage"
)

// WebhookHandler is the keyed ingestion entry point for external
// automation. The route itself is guarded by the API-key middleware.
type WebhookHandler struct {
	Svc *service.IngestService
}

func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhook/ingest", h.Ingest)
}

// POST /api/webhook/ingest
// Multipart (text + manual fields + "images" files) or plain JSON.
// Manual fields override parsed ones field-by-field.
func (h *WebhookHandler) Ingest(c *gin.Context) {
	var in service.WebhookInput
	var files []*multipart.FileHeader

	if c.ContentType() == "multipart/form-data" {
		if err := c.ShouldBind(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form payload"})
			return
		}
		if form, err := c.MultipartForm(); err == nil && form != nil {
			files = form.File["images"]
		}
	} else {
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}
	}

	pub, err := h.Svc.IngestWebhook(c.Request.Context(), in, files)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, storage.ErrUnsupportedMedia):
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
		case errors.Is(err, storage.ErrFileTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process webhook"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": pub})
}
