package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/fvnks/konecte-relay/internal/config"
	"github.com/fvnks/konecte-relay/internal/http/middleware"
	"github.com/fvnks/konecte-relay/internal/metrics"
	"github.com/fvnks/konecte-relay/internal/repository"
	"github.com/fvnks/konecte-relay/internal/service/access"
	"github.com/fvnks/konecte-relay/internal/service/relay"
	echo "github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type Server struct{ e *echo.Echo }

// NewServer wires the relay routes. rds and auditRepo may be nil: the rate
// limiter fails open without redis, and the audit report answers 503 when
// auditing is disabled.
func NewServer(cfg config.Config, relaySvc *relay.Service, accessSvc *access.Service, auditRepo repository.AuditRepository, rds *redis.Client) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMid.Recover(), echoMid.Logger())

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// middlewares
	botMW := middleware.BotTokenMiddleware(cfg.Bot.Token)
	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:  rds,
		RPS:    cfg.RateLimit.RPS,
		Window: time.Second,
	})

	v1 := e.Group("/v1")

	// user-facing
	v1.POST("/messages", submitMessageHandler(relaySvc), rlMW)
	v1.GET("/conversations/:phone", conversationHandler(relaySvc))

	// bot-facing (pre-shared token)
	v1.POST("/replies", submitReplyHandler(relaySvc), botMW)
	v1.POST("/webhooks/whatsapp", submitReplyHandler(relaySvc), botMW)
	v1.GET("/messages/pending", pollHandler(relaySvc), botMW)
	v1.GET("/admin/audit", listAuditHandler(auditRepo), botMW)

	// access control
	v1.GET("/access/users/:id", checkAccessByIDHandler(accessSvc))
	v1.GET("/access/phones/:phone", checkAccessByPhoneHandler(accessSvc))

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	log.Printf("http: listening on %s", addr)
	return s.e.Start(addr)
}
func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
