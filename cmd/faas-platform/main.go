package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"faas-platform/internal/adapters/docker"
	"faas-platform/internal/adapters/gorm"
	"faas-platform/internal/config"
	"faas-platform/internal/core/executor"
	"faas-platform/internal/core/functions"
	api "faas-platform/internal/delivery/http"
	"faas-platform/internal/metrics"

	_ "faas-platform/docs"
)

// @title           FaaS Platform API
// @version         1.0
// @description     API for registering and executing functions on warm container pools.
// @host            localhost:8080
// @BasePath        /
func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().
		Str("svc", "faas-platform").Logger()

	cfg := config.MustLoad()
	log.Info().
		Str("sandbox_root", cfg.SandboxRoot).
		Int("pools", len(cfg.Pools)).
		Msg("bootstrapping service")

	db, err := gorm.New(cfg.DatabaseDSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("gorm connect")
	}

	engine, err := docker.New(log)
	if err != nil {
		log.Fatal().Err(err).Msg("docker client init")
	}
	defer engine.Close()

	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := engine.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("docker daemon unreachable")
	}

	pools := executor.NewPoolManager(engine, log)
	pools.Initialize(ctx, poolSpecs(cfg, log))
	if len(pools.Keys()) == 0 {
		log.Fatal().Msg("no warm pool could be created")
	}

	met := metrics.New()
	dispatcher := executor.NewDispatcher(pools, engine, met, cfg.SandboxRoot, log)
	registry := functions.NewManager(db, log)

	handler := api.NewHandler(registry, dispatcher, met.Handler(), log)
	srv := &http.Server{Addr: cfg.ListenAddr, Handler: handler}

	go func() {
		log.Info().Str("listen", cfg.ListenAddr).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	// Warm containers are deliberately left running so the next start
	// adopts them by name instead of paying the cold-start cost again.
	log.Info().Msg("shutting down server...")
	_ = srv.Shutdown(context.Background())
	log.Info().Msg("shutdown complete")
}

// poolSpecs maps the configured layout onto executor pool specs. Entries
// with an unknown language are dropped with an error log; the technology
// string is permissive and falls back to docker.
func poolSpecs(cfg config.Config, log zerolog.Logger) []executor.PoolSpec {
	specs := make([]executor.PoolSpec, 0, len(cfg.Pools))
	for _, e := range cfg.Pools {
		lang, err := executor.ParseLanguage(e.Language)
		if err != nil {
			log.Error().Err(err).Str("language", e.Language).Msg("skipping pool entry")
			continue
		}
		specs = append(specs, executor.PoolSpec{
			Tech:       executor.ParseTechnology(e.Technology),
			Lang:       lang,
			Size:       e.Size,
			Image:      cfg.Image(string(lang)),
			CPULimit:   cfg.CPULimit,
			MemLimitMB: cfg.MemLimitMB,
		})
	}
	return specs
}
