// api/router.go
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// NewRouter регистрирует одинаковый набор маршрутов для каждой иерархии.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(s), RequestLogger(s.Log), CORS(s.CORSOrigins))
	if s.Metrics != nil {
		r.Use(s.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(s.Metrics.Handler()))
	}
	r.GET("/healthz", HealthHandler(s))

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/meta", MetaListHandler())
		apiGroup.GET("/meta/:hierarchy", MetaHierarchyHandler())

		apiGroup.GET("/types", ListTypesHandler(s))
		apiGroup.POST("/types", AddTypeHandler(s))
		apiGroup.GET("/categories", ListCategoriesHandler(s))
		apiGroup.POST("/admin/reload-reference", AdminReloadHandler(s))

		for _, e := range s.Engines {
			h := e.Hierarchy()
			roots := apiGroup.Group("/" + h.RootPath)
			// статические маршруты, СНАЧАЛА
			if h.ServiceRoot {
				roots.GET("/by-name/:name", GetAggregateByNameHandler(e))
				roots.GET("/:id/logo", LogoHandler(s, e))
			}
			roots.GET("", ListRootsHandler(e))
			roots.POST("", CreateRootHandler(s, e))
			roots.GET("/:id", GetAggregateHandler(e))
			roots.PUT("/:id", UpdateRootHandler(s, e))
			roots.DELETE("/:id", DeleteRootHandler(s, e))
			roots.GET("/:id/"+h.MidPath, ListMidsHandler(e))
			roots.POST("/:id/"+h.MidPath, AddMidHandler(e))

			mids := apiGroup.Group("/" + h.MidPath)
			mids.GET("/:id", GetMidHandler(e))
			mids.PUT("/:id", ReplaceMidHandler(e))
			mids.DELETE("/:id", DeleteMidHandler(e))
			mids.DELETE("/:id/"+h.LeafPath+"/:leafId", DeleteLeafOfMidHandler(e))

			apiGroup.DELETE("/"+h.LeafPath+"/:id", DeleteLeafHandler(e))
		}
	}
	return r
}

// RunServer обслуживает handler до отмены ctx, затем корректно завершает соединения.
func RunServer(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
