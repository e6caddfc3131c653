package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/velourstudio/studio-api/internal/storage"
)

// ServeImage streams an uploaded file back to the client. The name is a
// single path segment; anything that looks like a path is rejected.
func (h *Handler) ServeImage(c *gin.Context) {
	name := c.Param("name")
	if name == "" || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
		return
	}

	file, contentType, err := h.Storage.Open(c.Request.Context(), name)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
		return
	}
	if err != nil {
		log.Printf("ServeImage: open %s: %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read image"})
		return
	}
	defer file.Close()

	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, file); err != nil {
		log.Printf("ServeImage: stream %s: %v", name, err)
	}
}
