package main

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"tradejournal/internal/config"
	cronrunner "tradejournal/internal/cron"
	"tradejournal/internal/db"
	"tradejournal/internal/handler"
	"tradejournal/internal/logger"
	gormrepository "tradejournal/internal/repository/gorm"
	"tradejournal/internal/service"
	"tradejournal/internal/web"
)

func main() {
	cfgPath := os.Getenv("TJ_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("TJ_ENV_ONLY"); envOnlyRaw != "" {
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
	screenshotSvc := &service.ScreenshotService{
		Repo:         store,
		Logger:       logger,
		Dir:          cfg.Uploads.Dir,
		MaxSizeBytes: cfg.Uploads.MaxSizeBytes,
	}
	tradeSvc := &service.TradeService{
		Repo:        store,
		Screenshots: screenshotSvc,
		Logger:      logger,
	}
	strategySvc := &service.StrategyService{Repo: store, Logger: logger}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(web.SessionMiddleware(cfg.Session))
	engine.Use(web.CSRFMiddleware())

	engine.SetFuncMap(templateFuncs())
	engine.LoadHTMLGlob(cfg.Server.TemplateGlob)
	engine.Static("/uploads", cfg.Uploads.Dir)
	engine.Static("/static", "web/static")

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	tradeHandler := &handler.TradeHandler{Repo: store, Trades: tradeSvc, Logger: logger}
	tradeHandler.Register(engine)
	strategyHandler := &handler.StrategyHandler{Repo: store, Strategies: strategySvc, Logger: logger}
	strategyHandler.Register(engine)
	historyHandler := &handler.HistoryHandler{Repo: store, Logger: logger}
	historyHandler.Register(engine)
	analyticsHandler := &handler.AnalyticsHandler{Repo: store, Logger: logger}
	analyticsHandler.Register(engine)
	apiHandler := &handler.StrategyAPIHandler{Repo: store, Logger: logger}
	apiHandler.Register(engine)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Sweep.Enabled {
		_, err := cronRunner.Add("screenshot-sweep", cfg.Sweep.Spec, func(ctx context.Context) {
			if _, err := screenshotSvc.SweepOrphans(ctx); err != nil {
				logger.Warn("screenshot sweep failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register screenshot sweep failed", zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown failed", zap.Error(err))
	}
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"fmtTime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04")
		},
		"fmtDec": func(v *decimal.Decimal) string {
			if v == nil {
				return "-"
			}
			return v.String()
		},
		"fmtFloat": func(v float64) string {
			return decimal.NewFromFloat(v).Round(1).String()
		},
		"jsonList": func(raw datatypes.JSON) string {
			var items []string
			if err := json.Unmarshal(raw, &items); err != nil {
				return ""
			}
			return strings.Join(items, ", ")
		},
		"jsonHas": func(raw datatypes.JSON, val string) bool {
			var items []string
			if err := json.Unmarshal(raw, &items); err != nil {
				return false
			}
			for _, item := range items {
				if item == val {
					return true
				}
			}
			return false
		},
	}
}
