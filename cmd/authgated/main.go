// Command authgated runs the authorization engine as an HTTP sidecar:
// permission resolution, access checks, and share-link verification over
// JSON, with Prometheus metrics and Postgres-backed audit storage.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	authgate "github.com/testware-io/authgate"
	"github.com/testware-io/authgate/auditlog/pgsink"
	"github.com/testware-io/authgate/internal/httpapi"
	"github.com/testware-io/authgate/internal/pgstore"
)

func main() {
	secret := os.Getenv("AUTHGATE_TOKEN_SECRET")
	if secret == "" {
		log.Fatal("AUTHGATE_TOKEN_SECRET is required")
	}

	dsn := os.Getenv("AUTHGATE_PG_DSN")
	if dsn == "" {
		log.Fatal("AUTHGATE_PG_DSN is required")
	}

	httpAddr := os.Getenv("AUTHGATE_HTTP_ADDR")
	if httpAddr == "" {
		httpAddr = ":8086"
	}

	store, err := pgstore.Open(dsn)
	if err != nil {
		log.Fatalf("Failed to open Postgres: %v", err)
	}
	defer store.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = store.Ping(pingCtx)
	cancel()
	if err != nil {
		log.Fatalf("Postgres unreachable: %v", err)
	}

	sink, err := pgsink.Open(dsn)
	if err != nil {
		log.Fatalf("Failed to open audit sink: %v", err)
	}
	defer sink.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	cfg := authgate.Config{}
	cfg.Token.Secret = []byte(secret)
	cfg.Token.Origin = os.Getenv("AUTHGATE_ORIGIN")
	cfg.Audit.Enabled = os.Getenv("AUTHGATE_AUDIT_DISABLED") != "true"
	cfg.Audit.BufferSize = 1024
	cfg.Audit.DropIfFull = true

	builder := authgate.New().
		WithConfig(cfg).
		WithGrantSource(store).
		WithPolicySource(store).
		WithAuditSink(sink).
		WithMetricsRegistry(registry)

	if addr := os.Getenv("AUTHGATE_REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("AUTHGATE_REDIS_PASSWORD"),
		})
		defer client.Close()
		builder = builder.WithRedis(client)
		log.Printf("Rate limits and permission cache backed by Redis at %s", addr)
	} else {
		log.Print("No AUTHGATE_REDIS_ADDR set, using in-process stores")
	}

	engine, err := builder.Build()
	if err != nil {
		log.Fatalf("Failed to build engine: %v", err)
	}

	srv := &http.Server{
		Addr:         httpAddr,
		Handler:      httpapi.NewRouter(engine, registry),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("authgated listening on %s", httpAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Print("Shutdown signal received, draining...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}

	// Close drains buffered audit events before the sinks go away.
	engine.Close()
	if dropped := engine.AuditDropped(); dropped > 0 {
		log.Printf("%d audit events dropped during this run", dropped)
	}
	log.Print("Exiting.")
}
