package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"collection/internal/catalog"
)

// parseID читает положительный int64 из параметра пути; при ошибке сам отвечает 400.
func parseID(c *gin.Context, name string) (int64, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, fmt.Sprintf("invalid %s '%s'", name, raw))
		return 0, false
	}
	return id, true
}

// aggregateJSON: форма ответа: {"component": {...}, "functions": [...]} или {"service": ..., "service_points": ...}.
func aggregateJSON(h catalog.Hierarchy, agg catalog.RootAggregate) gin.H {
	return gin.H{
		h.RootLabel:     agg.Root,
		h.MidCollection: agg.Mids,
	}
}

func optString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func optInt64(s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
