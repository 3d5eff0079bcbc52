package router

import (
	"net/http"

	"github.com/easyq-blog/internal/cache"
	"github.com/easyq-blog/internal/config"
	adminhandlers "github.com/easyq-blog/internal/http/handlers/admin"
	publichandlers "github.com/easyq-blog/internal/http/handlers/public"
	"github.com/easyq-blog/internal/http/response"
	"github.com/easyq-blog/internal/logger"
	"github.com/easyq-blog/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按公开/管理分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	loginRule := RateLimitRule{
		Prefix:        cache.Key("rate:admin_login"),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "Too many login attempts, retry in %d seconds",
	}
	adminAuth := AdminJWTAuthMiddleware(c.AuthService)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 公开读接口
	r.GET("/posts", publicHandler.ListPosts)
	r.GET("/posts/:slug", publicHandler.GetPost)
	r.GET("/home", publicHandler.Home)
	r.GET("/revalidate", publicHandler.Revalidate)
	r.GET("/healthz", publicHandler.Healthz)

	// 写接口（需管理员令牌）
	r.POST("/posts", adminAuth, adminHandler.CreatePost)
	r.PUT("/posts", adminAuth, adminHandler.UpdatePost)
	r.DELETE("/posts", adminAuth, adminHandler.DeletePost)

	// 管理员认证
	admin := r.Group("/admin")
	{
		admin.POST("/authenticate", RateLimitMiddleware(cache.Client(), loginRule, KeyByIP), adminHandler.Authenticate)
		admin.GET("/verify", adminAuth, adminHandler.Verify)
	}

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		response.Error(c, http.StatusMethodNotAllowed, "Method not allowed")
	})
	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Not found")
	})

	return r
}
