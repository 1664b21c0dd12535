package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"collection/internal/blob"
	"collection/internal/catalog"
)

const logoField = "image"

// bindRoot читает RootInput из JSON или multipart/form-data (поле image, логотип).
// Возвращает ключ записанного логотипа: его нужно удалить, если запись в БД не удалась.
func bindRoot(c *gin.Context, s *Server, h catalog.Hierarchy) (catalog.RootInput, string, bool) {
	var in catalog.RootInput
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "Invalid JSON")
			return in, "", false
		}
		return in, "", true
	}

	in.Name = c.PostForm("name")
	in.Description = optString(c.PostForm("description"))
	in.URI = optString(c.PostForm("uri"))
	rawCat := c.PostForm("categoryId")
	if rawCat == "" {
		rawCat = c.PostForm("category_id")
	}
	cat, err := optInt64(rawCat)
	if err != nil {
		badRequest(c, fmt.Sprintf("invalid categoryId '%s'", rawCat))
		return in, "", false
	}
	in.CategoryID = cat

	file, hdr, err := c.Request.FormFile(logoField)
	if errors.Is(err, http.ErrMissingFile) {
		return in, "", true
	}
	if err != nil {
		badRequest(c, "multipart file is unreadable (field name 'image')")
		return in, "", false
	}
	defer file.Close()

	if !h.ServiceRoot {
		badRequest(c, fmt.Sprintf("%s does not accept a logo", h.RootLabel))
		return in, "", false
	}
	if s.Blob == nil {
		c.JSON(http.StatusInternalServerError, errorEnvelope{Error: apiError{
			Code: string(catalog.KindInternal), Message: "blob store not configured",
		}})
		return in, "", false
	}
	key, err := s.Blob.Put(c.Request.Context(), blob.NewKey(hdr.Filename), file, hdr.Size, hdr.Header.Get("Content-Type"))
	if err != nil {
		s.blobFailed("put", key, err)
		c.JSON(http.StatusInternalServerError, errorEnvelope{Error: apiError{
			Code: string(catalog.KindInternal), Message: "store error",
		}})
		return in, "", false
	}
	in.Logo = &key
	return in, key, true
}

// dropLogo удаляет логотип без учёта ошибки запроса; сбой только логируется.
func (s *Server) dropLogo(key string) {
	if key == "" || s.Blob == nil {
		return
	}
	if err := s.Blob.Delete(context.Background(), key); err != nil && !errors.Is(err, blob.ErrNotFound) {
		s.blobFailed("delete", key, err)
	}
}

func (s *Server) blobFailed(action, key string, err error) {
	if s.Metrics != nil {
		s.Metrics.BlobFailure(action)
	}
	s.Log.Warn("blob store call failed", "action", action, "key", key, "error", err.Error())
}

// GET /api/services/:id/logo
func LogoHandler(s *Server, e *catalog.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		root, err := e.GetRoot(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		if root.Logo == nil || *root.Logo == "" || s.Blob == nil {
			notFound(c, "logo not found")
			return
		}
		rc, info, err := s.Blob.Open(c.Request.Context(), *root.Logo)
		if errors.Is(err, blob.ErrNotFound) {
			notFound(c, "logo not found")
			return
		}
		if err != nil {
			s.blobFailed("open", *root.Logo, err)
			c.JSON(http.StatusInternalServerError, errorEnvelope{Error: apiError{
				Code: string(catalog.KindInternal), Message: "store error",
			}})
			return
		}
		defer rc.Close()
		c.DataFromReader(http.StatusOK, info.Size, info.ContentType, rc, nil)
	}
}
