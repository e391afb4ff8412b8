package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/pantrychef/backend/config"
	"github.com/pageza/pantrychef/backend/internal/api"
	"github.com/pageza/pantrychef/backend/internal/logging"
	"github.com/pageza/pantrychef/backend/internal/metrics"
	"github.com/pageza/pantrychef/backend/internal/middleware"
	"github.com/pageza/pantrychef/backend/internal/recommend"
	"github.com/pageza/pantrychef/backend/internal/service"
)

// Deps are the long-lived collaborators the server is built from. Redis and
// Presigner may be nil.
type Deps struct {
	DB        *gorm.DB
	Redis     *redis.Client
	Engine    *recommend.Engine
	Presigner service.Presigner
}

// Server represents the HTTP server
type Server struct {
	cfg     *config.Config
	router  *gin.Engine
	http    *http.Server
	metrics *metrics.Metrics

	// Recommendations is exposed so callers can swap its clock in tests.
	Recommendations *service.RecommendationService
}

// New wires services, middleware and routes.
func New(cfg *config.Config, deps Deps) (*Server, error) {
	m := metrics.NewMetrics()
	registry, err := metrics.NewRegistry(m)
	if err != nil {
		return nil, err
	}

	authService := service.NewAuthService(deps.DB, cfg.JWTSecret)
	images := service.NewImageService(deps.Presigner, cfg.ImageURLTTL)
	recommendations := service.NewRecommendationService(deps.DB, deps.Engine, images, m)

	var limiter *middleware.RateLimiter
	if deps.Redis != nil && cfg.ProposalRateLimit > 0 {
		limiter = middleware.NewRateLimiter(deps.Redis, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     cfg.ProposalRateLimit,
			KeyPrefix: "ratelimit:propose",
		}, m)
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(m),
		middleware.CORS(cfg.CORSOrigins),
	)

	router.GET("/health", api.NewHealthHandler(deps.DB, deps.Redis).HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler(registry)))

	v1 := router.Group("/api/v1")
	api.NewAuthHandler(authService).RegisterRoutes(v1)
	api.NewRecipeHandler(service.NewCatalogService(deps.DB), images).RegisterRoutes(v1)
	api.NewRecommendationHandler(recommendations, authService, limiter, m).RegisterRoutes(v1)

	return &Server{
		cfg:             cfg,
		router:          router,
		metrics:         m,
		Recommendations: recommendations,
	}, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", s.http.Addr).Msg("starting server")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Stop(shutdownCtx)
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
