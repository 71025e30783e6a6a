package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/BseoY/120EastState3/internal/services"

	"github.com/gin-gonic/gin"
)

// MediaHandler exposes the standalone upload probe the frontend uses
// for previews before a post is submitted.
type MediaHandler struct {
	storage services.Uploader
}

func NewMediaHandler(storage services.Uploader) *MediaHandler {
	return &MediaHandler{storage: storage}
}

func (h *MediaHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if header.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty filename"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	result, err := h.storage.Upload(c.Request.Context(), file, header.Filename)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedMedia) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
			return
		}
		log.Printf("upload failed (%s): %v", header.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	// Keyed per kind, e.g. image_url / video_url, which is what the
	// frontend's preview components expect.
	c.JSON(http.StatusOK, gin.H{
		result.MediaType + "_url": result.URL,
		"media_type":              result.MediaType,
		"public_id":               result.PublicID,
		"filename":                result.Filename,
	})
}
