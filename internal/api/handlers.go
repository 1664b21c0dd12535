package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"collection/internal/catalog"
)

// ===== ROOT =====

// GET /api/{roots}
func ListRootsHandler(e *catalog.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		roots, err := e.ListRootsFlat(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, roots)
	}
}

// POST /api/{roots}
func CreateRootHandler(s *Server, e *catalog.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		in, logoKey, ok := bindRoot(c, s, e.Hierarchy())
		if !ok {
			return
		}
		root, err := e.CreateRoot(c.Request.Context(), in)
		if err != nil {
			s.dropLogo(logoKey)
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, root)
	}
}

// GET /api/{roots}/:id
func GetAggregateHandler(e *catalog.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		agg, err := e.GetFullAggregate(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, aggregateJSON(e.Hierarchy(), agg))
	}
}

// GET /api/services/by-name/:name
func GetAggregateByNameHandler(e *catalog.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.Param("name"))
		if name == "" {
			badRequest(c, "name is required")
			return
		}
		agg, err := e.GetFullAggregateByName(c.Request.Context(), name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, aggregateJSON(e.Hierarchy(), agg))
	}
}

// PUT /api/{roots}/:id
func UpdateRootHandler(s *Server, e *catalog.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()
		var oldLogo *string
		in, logoKey, ok := bindRoot(c, s, e.Hierarchy())
		if !ok {
			return
		}
		if logoKey != "" {
			prev, err := e.GetRoot(ctx, id)
			if err != nil {
				s.dropLogo(logoKey)
				respondError(c, err)
				return
			}
			oldLogo = prev.Logo
		}
		root, err := e.UpdateRoot(ctx, id, in)
		if err != nil {
			s.dropLogo(logoKey)
			respondError(c, err)
			return
		}
		if oldLogo != nil && *oldLogo != logoKey {
			s.dropLogo(*oldLogo)
		}
		c.JSON(http.StatusOK, root)
	}
}

// DELETE /api/{roots}/:id
func DeleteRootHandler(s *Server, e *catalog.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		root, err := e.DeleteRootCascade(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		if root.Logo != nil {
			s.dropLogo(*root.Logo)
		}
		c.JSON(http.StatusOK, gin.H{"deleted": root.ID})
	}
}

// ===== MID =====

// GET /api/{roots}/:id/{mids}
func ListMidsHandler(e *catalog.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		mids, err := e.ListMidAggregates(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, mids)
	}
}

// POST /api/{roots}/:id/{mids}
func AddMidHandler(e *catalog.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var in catalog.MidInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "Invalid JSON")
			return
		}
		mid, err := e.AddMidWithLeaves(c.Request.Context(), id, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, mid)
	}
}

// GET /api/{mids}/:id
func GetMidHandler(e *catalog.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		mid, err := e.GetMidAggregate(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, mid)
	}
}

// PUT /api/{mids}/:id
func ReplaceMidHandler(e *catalog.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var in catalog.MidInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "Invalid JSON")
			return
		}
		mid, err := e.ReplaceMidLeaves(c.Request.Context(), id, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, mid)
	}
}

// DELETE /api/{mids}/:id
func DeleteMidHandler(e *catalog.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		if err := e.DeleteMidCascade(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": id})
	}
}

// ===== LEAF =====

// DELETE /api/{leaves}/:id
func DeleteLeafHandler(e *catalog.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		deleted, err := e.DeleteLeaf(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": deleted})
	}
}

// DELETE /api/{mids}/:id/{leaves}/:leafId
func DeleteLeafOfMidHandler(e *catalog.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		midID, ok := parseID(c, "id")
		if !ok {
			return
		}
		leafID, ok := parseID(c, "leafId")
		if !ok {
			return
		}
		deleted, err := e.DeleteLeafOfMid(c.Request.Context(), midID, leafID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": deleted})
	}
}

// ===== REFERENCE =====

// GET /api/types
func ListTypesHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		types, err := s.Reference.ListTypes(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, types)
	}
}

type addTypeReq struct {
	Name string `json:"name" binding:"required"`
}

// POST /api/types
func AddTypeHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addTypeReq
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "field 'name' is required")
			return
		}
		t, err := s.Reference.AddType(c.Request.Context(), req.Name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// GET /api/categories
func ListCategoriesHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		cats, err := s.Reference.ListCategories(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cats)
	}
}

// GET /healthz
func HealthHandler(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.DB != nil {
			if err := s.DB.PingContext(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "db": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
