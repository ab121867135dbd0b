package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-checkclock-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-checkclock-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/pkg/messaging"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/pkg/telemetry"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/hris-checkclock-go/internal/service/auth"
	checkClockService "github.com/cmlabs-hris/hris-checkclock-go/internal/service/checkclock"
	reportService "github.com/cmlabs-hris/hris-checkclock-go/internal/service/report"
	settingService "github.com/cmlabs-hris/hris-checkclock-go/internal/service/setting"
	"github.com/go-chi/httplog/v3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx := context.Background()

	shutdownTracer, err := telemetry.InitTracer(ctx, telemetry.Options{
		ServiceName:  cfg.Telemetry.ServiceName,
		Exporter:     cfg.Telemetry.Exporter,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
	})
	if err != nil {
		slog.Error("Failed to init tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			slog.Error("Failed to shut down tracer", "error", err)
		}
	}()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{MaxConns: cfg.Database.MaxConns})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	publisher, err := messaging.NewDecisionPublisher(ctx, cfg.Messaging.AWSRegion, cfg.Messaging.AWSEndpoint, cfg.Messaging.DecisionQueueURL)
	if err != nil {
		slog.Error("Failed to init decision publisher", "error", err)
		os.Exit(1)
	}

	loc := cfg.Location()

	transactor := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	checkClockRepo := postgresql.NewCheckClockRepository(db)
	settingRepo := postgresql.NewSettingRepository(db)
	windowRepo := postgresql.NewWindowRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	authService := serviceAuth.NewAuthService(userRepo, JWTService)
	aggregator := checkClockService.NewAggregator(checkClockRepo, employeeRepo)
	checkClockSvc := checkClockService.NewCheckClockService(
		checkClockRepo,
		employeeRepo,
		settingRepo,
		windowRepo,
		aggregator,
		publisher,
		loc,
	)
	settingSvc := settingService.NewSettingService(transactor, settingRepo, windowRepo)
	reportSvc := reportService.NewReportService(checkClockSvc, loc)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AllowedOrigins: cfg.App.AllowedOrigins,
			Logger:         logger,
		},
		JWTService,
		appHTTP.Handlers{
			Auth:       appHTTP.NewAuthHandler(authService),
			CheckClock: appHTTP.NewCheckClockHandler(checkClockSvc),
			Setting:    appHTTP.NewSettingHandler(settingSvc),
			Report:     appHTTP.NewReportHandler(reportSvc),
		},
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           otelhttp.NewHandler(router, "api"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.App.Port, "env", cfg.App.Env, "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exiting")
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.App.LogLevel))); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "development")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.Telemetry.ServiceName),
		slog.String("env", cfg.App.Env),
	)
}
