package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"collection/internal/catalog"
)

// ===== META HANDLERS =====

type metaHierarchy struct {
	Name   string   `json:"name"`
	Root   metaPath `json:"root"`
	Mid    metaPath `json:"mid"`
	Leaf   metaPath `json:"leaf"`
	Label  string   `json:"label"`
	Nested string   `json:"nested"`

	HasLogo      bool `json:"hasLogo"`
	LeafRequired bool `json:"leafRequired"`
}

type metaPath struct {
	Path  string `json:"path"`
	Table string `json:"table"`
}

func describe(h catalog.Hierarchy) metaHierarchy {
	return metaHierarchy{
		Name:         h.Name,
		Root:         metaPath{Path: "/api/" + h.RootPath, Table: h.RootTable},
		Mid:          metaPath{Path: "/api/" + h.MidPath, Table: h.MidTable},
		Leaf:         metaPath{Path: "/api/" + h.LeafPath, Table: h.LeafTable},
		Label:        h.RootLabel,
		Nested:       h.MidCollection,
		HasLogo:      h.ServiceRoot,
		LeafRequired: h.LeafRequired,
	}
}

// GET /api/meta
func MetaListHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		hs := catalog.Hierarchies()
		out := make([]metaHierarchy, 0, len(hs))
		for _, h := range hs {
			out = append(out, describe(h))
		}
		c.JSON(http.StatusOK, out)
	}
}

// GET /api/meta/:hierarchy
func MetaHierarchyHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		h, ok := catalog.Lookup(c.Param("hierarchy"))
		if !ok {
			notFound(c, "hierarchy not found")
			return
		}
		c.JSON(http.StatusOK, describe(h))
	}
}
