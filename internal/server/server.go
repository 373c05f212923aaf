package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditservice "github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/audit/service"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/clock"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/config"
	invoicedomain "github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/invoice/domain"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/observability/logger"
	"github.com/Kuldeep2963/TeleCore-Backend-sub002/internal/observability/metrics"
)

type Server struct {
	cfg config.Config
	db  *gorm.DB
	log *zap.Logger
	clk clock.Clock

	invoiceSvc invoicedomain.Service
	auditSvc   *auditservice.Service

	jobLimiter *rateLimiter
}

type Params struct {
	fx.In

	Cfg        config.Config
	DB         *gorm.DB
	Log        *zap.Logger
	Clock      clock.Clock
	InvoiceSvc invoicedomain.Service
	AuditSvc   *auditservice.Service `optional:"true"`
}

func NewServer(p Params) *Server {
	return &Server{
		cfg: p.Cfg,
		db:  p.DB,
		log: p.Log.Named("server"),
		clk: p.Clock,

		invoiceSvc: p.InvoiceSvc,
		auditSvc:   p.AuditSvc,

		jobLimiter: newRateLimiter(6, time.Minute),
	}
}

func NewEngine(cfg config.Config, httpMetrics *metrics.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	engine.Use(metrics.GinMiddleware(httpMetrics))
	return engine
}

func RegisterRoutes(engine *gin.Engine, s *Server) {
	engine.GET("/healthz", s.Healthz)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")
	{
		api.GET("/invoices", s.ListInvoices)
		api.GET("/invoices/:id", s.GetInvoiceByID)
		api.POST("/invoices", s.CreateInvoice)
		api.POST("/invoices/:id/pay", s.PayInvoice)

		api.GET("/audit-logs", s.ListAuditLogs)

		jobs := api.Group("/jobs")
		jobs.Use(s.jobRateLimit())
		{
			jobs.POST("/invoice-generation", s.TriggerInvoiceGeneration)
			jobs.POST("/overdue-check", s.TriggerOverdueCheck)
		}
	}
}

func (s *Server) Healthz(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, engine *gin.Engine) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(RegisterRoutes),
	fx.Invoke(RunHTTP),
)
