package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/feedguard/internal/config"
	"github.com/mx-space/feedguard/internal/middleware"
	"github.com/mx-space/feedguard/internal/modules/settings"
	"github.com/mx-space/feedguard/internal/modules/status"
	pkgcron "github.com/mx-space/feedguard/internal/pkg/cron"
	"github.com/mx-space/feedguard/internal/pkg/jwt"
	pkgredis "github.com/mx-space/feedguard/internal/pkg/redis"
	"github.com/mx-space/feedguard/internal/pkg/taskqueue"
	"go.uber.org/zap"
)

// App holds all application dependencies.
type App struct {
	cfg     *config.AppConfig
	router  *gin.Engine
	logger  *zap.Logger
	cancel  context.CancelFunc
	rc      *pkgredis.Client
	engine  *Engine
	queue   *taskqueue.Queue
	sched   *pkgcron.Scheduler
	monitor *status.Monitor
	authMW  gin.HandlerFunc
}

// New initializes the application: redis → detector → workers → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	var rc *pkgredis.Client
	if cfg.Redis.Enable {
		var err error
		rc, err = pkgredis.Connect(cfg.Redis.URLValue())
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	engine, err := NewEngine(ctx, cfg, rc, logger)
	if err != nil {
		cancel()
		if rc != nil {
			_ = rc.Close()
		}
		return nil, err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(newCORS(cfg.AllowedOrigins, !cfg.IsProduction()))

	queue := taskqueue.New(taskqueue.Options{
		Workers:   cfg.Detector.Workers,
		QueueSize: cfg.Detector.QueueSize,
		Logger:    logger,
	})

	monitor := status.NewMonitor(engine.Adapter, engine.Settings, logger)
	sched := pkgcron.New()
	if err := sched.Register(monitor.Job(cfg.Detector.StatusInterval)); err != nil {
		cancel()
		queue.Close()
		return nil, err
	}
	// re-check connectivity as soon as credentials change
	engine.Settings.Subscribe(func(settings.Settings) {
		go func() { _ = sched.Run(ctx, status.JobName) }()
	})
	sched.Start(ctx)

	app := &App{
		cfg:     cfg,
		router:  router,
		logger:  logger,
		cancel:  cancel,
		rc:      rc,
		engine:  engine,
		queue:   queue,
		sched:   sched,
		monitor: monitor,
		authMW:  adminAuth(cfg.JWTSecret, logger),
	}
	app.registerRoutes()
	return app, nil
}

// adminAuth guards admin routes. Without a secret every admin request is refused.
func adminAuth(secret string, logger *zap.Logger) gin.HandlerFunc {
	if strings.TrimSpace(secret) == "" {
		logger.Warn("jwt_secret is empty, admin endpoints are disabled")
		return middleware.AdminAuth(nil)
	}
	signer, err := jwt.NewSigner(secret)
	if err != nil {
		logger.Warn("invalid jwt_secret, admin endpoints are disabled", zap.Error(err))
		return middleware.AdminAuth(nil)
	}
	return middleware.AdminAuth(signer)
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background work and releases connections.
func (a *App) Shutdown() {
	a.cancel()
	a.queue.Close()
	if a.rc != nil {
		if err := a.rc.Close(); err != nil {
			a.logger.Warn("redis close failed", zap.Error(err))
		}
	}
}
