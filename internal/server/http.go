package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/Emmanuel-365/chezflora-api/internal/auth"
	"github.com/Emmanuel-365/chezflora-api/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Routes is implemented by every domain HTTP handler.
type Routes interface {
	Register(r, admin *gin.RouterGroup)
}

// RoutesFunc adapts handlers that only expose caller-scoped routes.
type RoutesFunc func(r, admin *gin.RouterGroup)

func (f RoutesFunc) Register(r, admin *gin.RouterGroup) { f(r, admin) }

type HTTPConfig struct {
	Addr            string
	Development     bool
	RateLimitPerSec float64
	RateLimitBurst  int
}

// NewRouter mounts every handler under /api/v1 behind bearer authentication;
// admin routes live under /api/v1/admin.
func NewRouter(cfg HTTPConfig, verifier *auth.Verifier, log logger.ZapLogger, routes ...Routes) *gin.Engine {
	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))
	if cfg.RateLimitPerSec > 0 {
		r.Use(newIPRateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst).middleware())
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1", auth.GinMiddleware(verifier))
	admin := api.Group("/admin", auth.RequireAdmin())
	for _, rt := range routes {
		rt.Register(api, admin)
	}
	return r
}

func NewHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

func requestLogger(log logger.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newIPRateLimiter(limit rate.Limit, burst int) *ipRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &ipRateLimiter{limiters: make(map[string]*rate.Limiter), limit: limit, burst: burst}
}

func (l *ipRateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = lim
	}
	return lim
}

func (l *ipRateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate_limited", "detail": "too many requests"})
			return
		}
		c.Next()
	}
}
