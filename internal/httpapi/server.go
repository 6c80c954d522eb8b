// Package httpapi exposes the credential core over the small HTTP
// contract consumed by the browser client: signup, login, and cookie
// introspection, plus operational probes.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/samber/oops"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/internal/config"
	"github.com/gatehouse/gatehouse/internal/observability"
)

// AuthService is the slice of the auth core the HTTP layer depends on.
type AuthService interface {
	Register(ctx context.Context, email, username, secret string) (*auth.Account, string, error)
	Authenticate(ctx context.Context, email, secret string) (*auth.Account, string, error)
	Introspect(ctx context.Context, carrier string) (auth.Introspection, error)
	TokenTTL() time.Duration
}

// Pinger reports storage connectivity for the health probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wires the auth service into a gin router.
type Server struct {
	svc     AuthService
	cfg     *config.Config
	metrics *observability.Metrics
	pinger  Pinger
	logger  *slog.Logger
}

// NewServer creates an HTTP server facade. metrics and pinger are
// optional; logger falls back to slog.Default.
func NewServer(svc AuthService, cfg *config.Config, metrics *observability.Metrics, pinger Pinger, logger *slog.Logger) (*Server, error) {
	if svc == nil {
		return nil, oops.Code("HTTP_NIL_DEPENDENCY").Errorf("auth service is required")
	}
	if cfg == nil {
		return nil, oops.Code("HTTP_NIL_DEPENDENCY").Errorf("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		svc:     svc,
		cfg:     cfg,
		metrics: metrics,
		pinger:  pinger,
		logger:  logger,
	}, nil
}

// Router builds the gin engine with CORS, recovery, and request logging.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())

	// The client and API live on different origins, so credentialed
	// cross-origin requests must be allowed for the cookie to travel.
	router.Use(cors.New(cors.Config{
		AllowOrigins:     s.cfg.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.POST("/api/signup", s.handleSignup)
	router.POST("/api/login", s.handleLogin)
	router.POST("/", s.handleVerify)
	router.GET("/health", s.handleHealth)
	router.GET("/api/cors-test", s.handleCORSTest)

	return router
}

// requestLogger logs each request with latency and status.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}

// count increments a metric label if metrics are wired.
func (s *Server) count(inc func(m *observability.Metrics)) {
	if s.metrics != nil {
		inc(s.metrics)
	}
}
