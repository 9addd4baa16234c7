package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CataldiDonato/catalogo-autos/internal/storage"
)

// UploadHandler accepts image batches from the admin panel and returns
// the public paths to reference in a publication create/update.
type UploadHandler struct {
	Store *storage.ImageStore
}

func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.Upload)
}

// POST /api/upload — multipart, field "images"
func (h *UploadHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form is required"})
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded"})
		return
	}

	saved, err := h.Store.SaveBatch(files)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUnsupportedMedia):
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
		case errors.Is(err, storage.ErrFileTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store files"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "files": saved})
}
