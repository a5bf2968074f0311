package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/clipforge/internal/domain"
	"github.com/timmy/clipforge/internal/service"
)

// ClipHandler serves, lists, and deletes clip artifacts.
type ClipHandler struct {
	artifacts *service.ArtifactService
}

// NewClipHandler creates a new clip artifact handler.
// Parameters:
//   - artifacts: artifact service backing the endpoints.
// Returns:
//   - *ClipHandler: initialized handler.
func NewClipHandler(artifacts *service.ArtifactService) *ClipHandler {
	return &ClipHandler{artifacts: artifacts}
}

// Serve handles GET /clips/:filename. With a local backend the file is
// streamed directly; remote backends get a redirect to the public URL.
// Parameters:
//   - c: Gin request context.
func (h *ClipHandler) Serve(c *gin.Context) {
	name := c.Param("filename")
	if err := h.artifacts.ValidateName(name); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filename"})
		return
	}

	if path := h.artifacts.LocalPath(name); path != "" {
		c.File(path)
		return
	}

	c.Redirect(http.StatusFound, h.artifacts.URL(name))
}

// List handles GET /api/v1/clips.
// Parameters:
//   - c: Gin request context.
func (h *ClipHandler) List(c *gin.Context) {
	artifacts, err := h.artifacts.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list clips"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clips": artifacts,
		"total": len(artifacts),
	})
}

// Delete handles DELETE /api/v1/clips/:filename.
// Parameters:
//   - c: Gin request context.
func (h *ClipHandler) Delete(c *gin.Context) {
	name := c.Param("filename")

	if err := h.artifacts.Delete(c.Request.Context(), name); err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filename"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete clip"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": name})
}
