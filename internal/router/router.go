package router

import (
	"time"

	"github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/moments/config"
	_ "github.com/d60-Lab/moments/docs"
	"github.com/d60-Lab/moments/internal/api/handler"
	"github.com/d60-Lab/moments/internal/api/middleware"
	"github.com/d60-Lab/moments/internal/auth"
)

// Deps 路由需要的依赖
type Deps struct {
	Config        *config.Config
	Handler       *handler.Handler
	Tokens        *auth.TokenManager
	Redis         *redis.Client
	SentryEnabled bool
}

func Setup(d Deps) *gin.Engine {
	cfg := d.Config
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())
	if d.SentryEnabled {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(
		middleware.Metrics(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.Server.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})),
		middleware.Auth(d.Tokens, cfg.Session.CookieName),
	)

	h := d.Handler
	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if cfg.Media.Driver == "local" {
		r.Static("/uploads", cfg.Media.LocalDir)
	}

	limited := r.Group("/", middleware.RateLimit(cfg.RateLimit, d.Redis))
	limited.POST("/graphql", middleware.BodyLimit(cfg.Server.MaxBodyBytes), h.GraphQL)

	v1 := limited.Group("/api/v1")
	{
		v1.GET("/users/:username/following", h.ListFollowing)
		v1.GET("/users/:username/followers", h.ListFollowers)
	}
	return r
}
