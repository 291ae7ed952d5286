package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"tradesignals/internal/config"
	cronrunner "tradesignals/internal/cron"
	"tradesignals/internal/db"
	"tradesignals/internal/events"
	"tradesignals/internal/handler"
	"tradesignals/internal/logger"
	"tradesignals/internal/notify"
	"tradesignals/internal/outcome"
	gormrepository "tradesignals/internal/repository/gorm"
	"tradesignals/internal/service"

	_ "tradesignals/docs"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("TS_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("TS_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	hub := events.NewHub(logger, cfg.Events.SubscriberBuffer)

	notifier, err := notify.NewTelegram(cfg.Telegram, logger)
	if err != nil {
		logger.Warn("telegram notifier init failed (continuing without)", zap.Error(err))
	}
	// A typed nil must not sneak into the Notifier interface fields.
	var adminNotifier service.Notifier
	if notifier != nil {
		adminNotifier = notifier
	}

	timerSvc := &service.TimerService{Repo: store, Logger: logger, Hub: hub}
	settlementSvc := &service.SettlementService{
		Repo:     store,
		Decider:  outcome.NewRandom(),
		Logger:   logger,
		Hub:      hub,
		Notifier: adminNotifier,
	}
	sweeperSvc := &service.SweeperService{
		Repo:      store,
		Logger:    logger,
		Hub:       hub,
		Notifier:  adminNotifier,
		BatchSize: cfg.Sweeper.BatchSize,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(handler.CORSMiddleware())
	engine.Use(handler.RequireBearerMiddleware(cfg.Auth))

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm, Service: "tradesignals", Env: cfg.App.Env}
	healthHandler.Register(engine)
	signalHandler := &handler.SignalHandler{
		Timer:      timerSvc,
		Settlement: settlementSvc,
		Sweeper:    sweeperSvc,
		Repo:       store,
		Logger:     logger,
	}
	signalHandler.Register(engine)
	eventsHandler := &handler.EventsHandler{Hub: hub, Logger: logger}
	eventsHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		_, err := cronRunner.Add("expiry_sweep", cfg.Cron.ExpirySweep, func(ctx context.Context) error {
			_, err := sweeperSvc.SweepOnce(ctx)
			return err
		})
		if err != nil {
			logger.Warn("cron register expiry sweep failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
