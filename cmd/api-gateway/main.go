package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	_ "github.com/noah-isme/study-planner-api/api/swagger"
	"github.com/noah-isme/study-planner-api/internal/handler"
	internalmiddleware "github.com/noah-isme/study-planner-api/internal/middleware"
	"github.com/noah-isme/study-planner-api/internal/models"
	"github.com/noah-isme/study-planner-api/internal/repository"
	"github.com/noah-isme/study-planner-api/internal/service"
	"github.com/noah-isme/study-planner-api/pkg/cache"
	"github.com/noah-isme/study-planner-api/pkg/config"
	"github.com/noah-isme/study-planner-api/pkg/database"
	"github.com/noah-isme/study-planner-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/study-planner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/study-planner-api/pkg/middleware/requestid"
	"github.com/noah-isme/study-planner-api/pkg/telemetry"
)

// @title Study Planner API
// @version 1.0.0
// @description Study schedule availability and allocation engine
// @BasePath /
// @schemes http

const (
	version         = "1.0.0"
	tokenIssuer     = "study-planner-api"
	shutdownTimeout = 10 * time.Second
)

type dependencies struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *sqlx.DB
	redis   *redis.Client
	metrics *service.MetricsService
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer, err := telemetry.InitTracer(ctx, cfg.Tracing, version, logr)
	if err != nil {
		logr.Fatal("failed to init tracing", zap.Error(err))
	}
	defer tracer.Shutdown(context.Background()) //nolint:errcheck

	deps := dependencies{cfg: cfg, logger: logr, metrics: service.NewMetricsService()}

	if cfg.Database.Enabled {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer db.Close()
		deps.db = db
	} else {
		logr.Info("database disabled; stored-student endpoints will return 503")
	}

	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable; result cache disabled", zap.Error(err))
		} else {
			defer client.Close()
			deps.redis = client
		}
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := newRouter(deps)
	if err != nil {
		logr.Fatal("failed to build router", zap.Error(err))
	}

	var h http.Handler = r
	if tracer.Enabled() {
		h = otelhttp.NewHandler(r, cfg.Tracing.ServiceName)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newRouter(deps dependencies) (*gin.Engine, error) {
	cfg := deps.cfg
	logr := deps.logger

	defaults, err := service.PlannerDefaultsFromConfig(cfg.Planner)
	if err != nil {
		return nil, fmt.Errorf("planner defaults: %w", err)
	}

	validate := validator.New()
	cacheRepo := repository.NewCacheRepository(deps.redis, logr)
	cacheSvc := service.NewCacheService(cacheRepo, deps.metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled && deps.redis != nil)

	var availabilitySvc *service.AvailabilityService
	if deps.db != nil {
		students := repository.NewStudentScheduleRepository(deps.db)
		availabilitySvc = service.NewAvailabilityService(students, cacheSvc, deps.metrics, defaults, cfg.Cache.TTL, validate, logr)
	} else {
		availabilitySvc = service.NewAvailabilityService(nil, cacheSvc, deps.metrics, defaults, cfg.Cache.TTL, validate, logr)
	}
	planSvc := service.NewPlanService(deps.metrics, defaults.AdjustMaxEnd, validate, logr)
	exportSvc := service.NewExportService(logr, nil, nil)
	tokens := service.NewTokenService(cfg.JWT.Secret, tokenIssuer)

	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc, exportSvc)
	planHandler := handler.NewPlanHandler(planSvc)
	metricsHandler := handler.NewMetricsHandler(deps.metrics)

	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(corsmiddleware.Config{AllowedOrigins: cfg.CORS.AllowedOrigins}))
	r.Use(internalmiddleware.Metrics(deps.metrics, metricsPath, metricsPath+"/summary"))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	if cfg.Metrics.Enabled {
		r.GET(metricsPath, metricsHandler.Prometheus)
		r.GET(metricsPath+"/summary", metricsHandler.Summary)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/availability/calculate", availabilityHandler.Calculate)
	api.POST("/availability/export", availabilityHandler.Export)
	api.POST("/plans/allocate", planHandler.Allocate)
	api.POST("/plans/overlaps/validate", planHandler.ValidateOverlaps)
	api.POST("/plans/overlaps/adjust", planHandler.AdjustOverlaps)

	students := api.Group("/students/:id", internalmiddleware.JWT(tokens))
	readers := internalmiddleware.RBAC(
		string(models.RoleSuperAdmin), string(models.RoleAdmin), string(models.RoleTeacher), "SELF",
	)
	students.GET("/availability", readers, availabilityHandler.ForStudent)
	students.GET("/availability/export", readers, availabilityHandler.ExportForStudent)
	students.DELETE("/availability/cache",
		internalmiddleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin),
		availabilityHandler.InvalidateStudent,
	)

	return r, nil
}
