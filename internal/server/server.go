// Package server exposes the widget renderer over HTTP.
//
// Image endpoints always answer with a PNG: upstream failures are absorbed
// by the resolver and rendered from the placeholder record. JSON endpoints
// surface the same failures as classified errors.
package server

import (
	"context"
	"image"
	"net/http"
	"time"

	"github.com/arran4/gh2png"
	"github.com/arran4/gh2png/internal/resolver"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Resolver supplies widget data. *resolver.Service implements it.
type Resolver interface {
	Resolve(ctx context.Context, login string, req resolver.TagRequest) resolver.Resolution
	Report(ctx context.Context, login string) (resolver.TechReport, error)
}

// ImageLoader fetches avatar images. *gh2png.AvatarLoader implements it.
type ImageLoader interface {
	Load(ctx context.Context, dest string) (image.Image, error)
}

// Options configure a Server.
type Options struct {
	Resolver Resolver
	Avatars  ImageLoader
	Fonts    gh2png.Fonts
	Logger   *zap.Logger

	CORSOrigins  []string
	RateLimitRPS int
	// PublicURL is the base used in embed snippets. When empty it is taken
	// from the incoming request.
	PublicURL string
}

// Server holds the handlers' dependencies.
type Server struct {
	opts   Options
	logger *zap.Logger
}

// New creates a Server. Fonts are loaded from the bundled faces when
// opts.Fonts is empty.
func New(opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Fonts.Regular == nil || opts.Fonts.Bold == nil {
		fonts, err := gh2png.LoadFonts(gh2png.FontConfig{})
		if err != nil {
			return nil, err
		}
		opts.Fonts = fonts
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	return &Server{opts: opts, logger: opts.Logger}, nil
}

// Router builds the gin engine. ctx bounds background work such as rate
// limiter cleanup.
func (s *Server) Router(ctx context.Context) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:  s.opts.CORSOrigins,
		AllowMethods:  []string{"GET"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(requestID())
	router.Use(PrometheusMiddleware())
	if s.opts.RateLimitRPS > 0 {
		router.Use(RateLimiter(ctx, s.opts.RateLimitRPS, s.opts.RateLimitRPS*2))
	}
	router.Use(requestLogger(s.logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", MetricsHandler())

	api := router.Group("/api")
	{
		api.GET("/profile", imageCORS(), s.renderProfile)
		api.GET("/tech", imageCORS(), s.renderTech)
		api.GET("/user", s.getUser)
		api.GET("/user-tech", s.getUserTech)
		api.GET("/embed", s.getEmbed)
	}
	return router
}
