package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ranirkini2004/Open-Hub-API/config"
	"github.com/ranirkini2004/Open-Hub-API/internal/backend"
	"github.com/ranirkini2004/Open-Hub-API/internal/bootstrap"
	"github.com/ranirkini2004/Open-Hub-API/internal/monitor"
	"github.com/ranirkini2004/Open-Hub-API/internal/session"
)

const serviceName = "opencollab-web"

func main() {
	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("couldn't load config: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.App.LogLevel); err == nil {
		log.SetLevel(level)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	redisClient, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("couldn't connect to redis: %v", err)
	}
	defer redisClient.Close()

	store := session.NewStore(redisClient, cfg.App.SessionTTL)

	httpClient := &http.Client{Timeout: cfg.Backend.Timeout}
	limitedClient := backend.NewLimitedDoer(httpClient, cfg.Backend.RateLimit)
	client := backend.NewClient(limitedClient, cfg.Backend.BaseURL, cfg.Backend.Timeout)

	cachedReader, err := backend.NewCachedReader(client, cfg.Backend.CacheSize, cfg.Backend.CacheTTL)
	if err != nil {
		log.Fatalf("couldn't create backend cache: %v", err)
	}

	mon := monitor.New(cfg.Backend.BaseURL, log.WithField("component", "monitor"))
	if err := mon.Start(cfg.Backend.ProbePeriod); err != nil {
		log.Fatalf("couldn't start backend monitor: %v", err)
	}
	defer mon.Stop()

	router, err := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:      serviceName,
		Version:          cfg.App.Version,
		Client:           client,
		Reader:           cachedReader,
		CachedReader:     cachedReader,
		Redis:            redisClient,
		Store:            store,
		Monitor:          mon,
		GithubClientID:   cfg.OAuth.GithubClientID,
		OAuthRedirectURL: cfg.OAuth.RedirectURL,
		Log:              log,
	})
	if err != nil {
		log.Fatalf("couldn't build router: %v", err)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Infof("listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("forced shutdown: %v", err)
	}
}
