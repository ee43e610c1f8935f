// Package router 组装 gin 路由与中间件
package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"coloringbook/internal/apperr"
	"coloringbook/internal/config"
	"coloringbook/internal/handler"
	"coloringbook/internal/middleware"
)

// Handlers 路由依赖的处理器
type Handlers struct {
	Book   *handler.BookHandler
	Tool   *handler.ToolHandler
	Health *handler.HealthHandler
}

// New 创建 gin 引擎
func New(cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	if cfg.Observability.Tracing.Enabled {
		r.Use(middleware.Trace(cfg.App.Name))
		r.Use(middleware.TraceContext())
	}
	r.Use(middleware.AccessLog())
	if cfg.Observability.Metrics.Enabled {
		r.Use(middleware.Metrics())
	}
	r.Use(middleware.CORS(cfg.Security.CORS))

	r.GET("/health", h.Health.Health)
	if cfg.Observability.Metrics.Enabled {
		r.GET(cfg.Observability.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	api := r.Group("/api")
	api.Use(middleware.Deadline(cfg.Server.RequestTimeout))
	{
		api.POST("/generate-book", h.Book.GenerateBook)
		api.POST("/generate-images", h.Book.GenerateImages)
		api.POST("/export-pdf", h.Book.ExportPDF)

		api.GET("/tools", h.Tool.List)
		api.POST("/tools/:name", h.Tool.Invoke)
	}

	r.NoRoute(staticFallback(cfg.Server.StaticDir))
	return r
}

// staticFallback 提供静态资源，未知的非 API GET 请求返回 index.html
func staticFallback(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || path == "/api" ||
			(c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			notFound(c)
			return
		}
		if dir == "" {
			notFound(c)
			return
		}

		// Clean 一个以 / 开头的路径后不会再包含 ..，拼接结果始终位于 dir 之内
		file := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+path)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}

		index := filepath.Join(dir, "index.html")
		if _, err := os.Stat(index); err == nil {
			c.File(index)
			return
		}
		notFound(c)
	}
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, handler.ErrorResponse{Error: "not found", Code: apperr.CodeNotFound})
}
