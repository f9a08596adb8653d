package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/yourname/healthtrack/internal"
	"github.com/yourname/healthtrack/internal/api"
	"github.com/yourname/healthtrack/internal/auth"
	"github.com/yourname/healthtrack/internal/config"
	"github.com/yourname/healthtrack/internal/connectivity"
	"github.com/yourname/healthtrack/internal/service"
	"github.com/yourname/healthtrack/internal/storage"
)

func main() {
	cfg := config.Load()

	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	store, err := storage.New(cfg, logger)
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	monitor := connectivity.NewMonitor(cfg.ProbeURL, cfg.ProbeTimeout, logger)
	if !monitor.CheckConnection(ctx) {
		monitor.SetOffline()
		logger.Warnf("could not reach the network, running in offline mode")
	}

	facade := service.NewFacade(ctx, store, monitor, logger, service.Options{
		Cache: service.CacheOptions{
			RetryDelay: cfg.LoadRetryDelay,
			StaleTime:  cfg.CacheStaleTime,
		},
	})
	facade.Mount(ctx)

	session := auth.NewSession(store, logger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := api.NewRouter(api.NewServer(logger, facade, session))

	logger.Infof("Server running on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Fatalf("failed to start server: %v", err)
	}
}
