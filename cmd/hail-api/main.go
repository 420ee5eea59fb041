// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"hail/internal/config"
	httptransport "hail/internal/http"
	"hail/internal/infra"
	"hail/internal/logging"
	"hail/internal/maps"
	"hail/internal/modules/driver"
	"hail/internal/modules/ride"
	"hail/internal/modules/user"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := logging.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Error("postgres init failed", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	var rideCache *ride.Cache
	if redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr); err != nil {
		logger.Warn("redis unavailable, ride poll cache disabled", "error", err)
	} else {
		rideCache = ride.NewCache(redisClient)
	}

	var geocoder ride.Geocoder
	if cfg.Maps.APIKey != "" {
		geo, err := maps.NewGeocodeService(cfg.Maps.APIKey)
		if err != nil {
			logger.Error("maps init failed", "error", err)
			os.Exit(1)
		}
		geocoder = geo
	}

	tokens := infra.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	userSvc := user.NewService(user.NewStore(dbPool), tokens)
	driverSvc := driver.NewService(driver.NewStore(dbPool))
	rideSvc := ride.NewService(ride.NewStore(dbPool), rideCache, geocoder, logger)

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Users:    userSvc,
		Drivers:  driverSvc,
		Rides:    rideSvc,
		Verifier: tokens,
		Logger:   logger,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
