// Package server 提供 HTTP 服务层，路由和请求处理
package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options 路由配置
type Options struct {
	Env            string   // dev/prod，prod 下 gin 走 release 模式
	AllowedOrigins []string // CORS 白名单，空则允许所有来源
}

// NewRouter 组装 gin 引擎
func NewRouter(h *Handler, opts Options) *gin.Engine {
	if opts.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware(opts.AllowedOrigins))

	api := engine.Group("/api")
	{
		api.POST("/chat", h.Chat)
		api.POST("/papers/download", h.Download)
		api.GET("/downloads", h.ListDownloads)
		api.GET("/health", h.Health)
	}

	return engine
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
