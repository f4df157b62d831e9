package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timmy/memeboard/internal/imageproxy"
)

// ImageHandler streams origin images through the local cache.
type ImageHandler struct {
	proxy *imageproxy.Service
}

// NewImageHandler creates a new image proxy handler.
func NewImageHandler(proxy *imageproxy.Service) *ImageHandler {
	return &ImageHandler{proxy: proxy}
}

// Serve handles GET /img?url=...
func (h *ImageHandler) Serve(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url query parameter is required"})
		return
	}

	result, err := h.proxy.Fetch(c.Request.Context(), rawURL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
