// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"guardian/internal/config"
	httptransport "guardian/internal/http"
	"guardian/internal/infra"
	"guardian/internal/maps"
	"guardian/internal/modules/acceptance"
	"guardian/internal/modules/analytics"
	"guardian/internal/modules/auth"
	"guardian/internal/modules/profile"
	"guardian/internal/modules/request"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	initLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		slog.Error("connect database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	var distancer analytics.Distancer
	if cfg.Maps.APIKey != "" {
		distanceSvc, err := maps.NewDistanceService(cfg.Maps.APIKey)
		if err != nil {
			slog.Error("init maps client", "error", err)
			os.Exit(1)
		}
		distancer = maps.NewCachedDistancer(redisClient, distanceSvc)
	} else {
		slog.Warn("GOOGLE_MAPS_API_KEY not set; distance analytics disabled")
	}

	tokens := infra.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	requestSvc := request.NewService(request.NewStore(dbPool))
	acceptanceSvc := acceptance.NewService(acceptance.NewStore(dbPool))
	profileStore := profile.NewStore(dbPool)
	profileSvc := profile.NewService(profileStore)
	analyticsSvc := analytics.NewService(analytics.NewStore(dbPool), distancer, cfg.Maps.Timeout)
	authSvc := auth.NewService(profileStore, tokens)

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Requests:   requestSvc,
		Acceptance: acceptanceSvc,
		Profiles:   profileSvc,
		Analytics:  analyticsSvc,
		Auth:       authSvc,
		Verifier:   tokens,
		RateLimit:  cfg.RateLimit,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	slog.Info("listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func initLogger(cfg config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(cfg.Log.Format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
