package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/antoniostano/taskdeck/internal/agent"
	"github.com/antoniostano/taskdeck/internal/config"
	"github.com/antoniostano/taskdeck/internal/httpapi"
	"github.com/antoniostano/taskdeck/internal/hub"
	"github.com/antoniostano/taskdeck/internal/observability"
	"github.com/antoniostano/taskdeck/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	store, err := tasks.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("task store init failed: %v", err)
	}
	defer store.Close()
	if cfg.DatabaseURL == "" {
		log.Printf("task store: in-memory (no DATABASE_URL)")
	} else {
		log.Printf("task store: postgres")
	}

	backend, err := agent.NewBackend(ctx, agent.BackendConfig{
		Mode:         cfg.AgentBackendMode,
		GeminiAPIKey: cfg.GeminiAPIKey,
		GeminiModel:  cfg.GeminiModel,
		HTTPURL:      cfg.AgentHTTPURL,
	})
	if err != nil {
		log.Fatalf("agent backend init failed: %v", err)
	}

	service := tasks.NewService(store)
	orchestrator := agent.NewOrchestrator(service, backend, cfg.ChatListLimit)

	registry := hub.NewRegistry()
	registry.SetEvictHook(func(c *hub.Connection) {
		log.Printf("evicted unreachable connection: %s", c.ID)
		metrics.BroadcastEvents.WithLabelValues("evicted").Inc()
		metrics.ActiveConnections.Dec()
	})

	api := httpapi.New(cfg, service, orchestrator, registry, metrics)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
