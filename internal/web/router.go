package web

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/timmy/memeboard/internal/backend"
	"github.com/timmy/memeboard/internal/feed"
	"github.com/timmy/memeboard/internal/generate"
	"github.com/timmy/memeboard/internal/imageproxy"
	"github.com/timmy/memeboard/internal/logger"
	"github.com/timmy/memeboard/internal/web/handler"
	"github.com/timmy/memeboard/internal/web/middleware"
)

// RouterConfig bundles everything the HTTP surface depends on.
type RouterConfig struct {
	Mode     string
	CORS     middleware.CORSConfig
	Gap      float64
	Overscan int
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	client *backend.Client,
	feeds *feed.Manager,
	poller *generate.Poller,
	proxy *imageproxy.Service,
	log *logger.Logger,
	cfg RouterConfig,
) *gin.Engine {
	// Set Gin mode
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(cfg.CORS))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	feedHandler := handler.NewFeedHandler(feeds, proxy, cfg.Gap, cfg.Overscan)
	createHandler := handler.NewCreateHandler(client, poller)
	authHandler := handler.NewAuthHandler(client)
	imageHandler := handler.NewImageHandler(proxy)

	// Health check
	r.GET("/health", healthHandler.Health)

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Image proxy
	r.GET("/img", imageHandler.Serve)

	// API routes
	api := r.Group("/api")
	{
		// Feed
		api.GET("/feed", feedHandler.Snapshot)
		api.POST("/feed/next", feedHandler.Next)
		api.PUT("/feed/search", feedHandler.Search)
		api.GET("/feed/layout", feedHandler.Layout)

		// Creation
		api.GET("/styles", createHandler.Styles)
		api.POST("/generate", createHandler.Generate)
		api.GET("/generate/status", createHandler.Status)

		// Auth
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/logout", authHandler.Logout)
	}

	return r
}
