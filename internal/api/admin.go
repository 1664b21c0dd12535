package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"collection/internal/reference"
)

type reloadReq struct {
	Dir string `json:"dir"` // директория со справочниками types/categories
}

// POST /api/admin/reload-reference
func AdminReloadHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reloadReq
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			badRequest(c, "Invalid JSON")
			return
		}
		dir := strings.TrimSpace(req.Dir)
		if dir == "" {
			dir = s.ReferenceDir
		}
		if dir == "" {
			dir = "reference"
		}

		seed, err := reference.Load(dir)
		if err != nil {
			badRequest(c, "reference load error: "+err.Error())
			return
		}
		if err := s.Reference.Seed(c.Request.Context(), seed.Types, seed.Categories); err != nil {
			respondError(c, err)
			return
		}
		s.Log.Info("reference reloaded", "dir", dir, "types", len(seed.Types), "categories", len(seed.Categories))
		c.JSON(http.StatusOK, gin.H{
			"ok":         true,
			"dir":        dir,
			"types":      len(seed.Types),
			"categories": len(seed.Categories),
		})
	}
}
