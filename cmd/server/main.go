package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rshah/taskflow/backend/internal/auth"
	"github.com/rshah/taskflow/backend/internal/config"
	"github.com/rshah/taskflow/backend/internal/server"
	"github.com/rshah/taskflow/backend/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx := context.Background()

	// ── Store ────────────────────────────────────────────────
	// In-memory by default: all data is rebuilt from schema on every
	// process start.
	st, err := store.Open(cfg.StoreDSN)
	if err != nil {
		log.Fatalf("store open: %v", err)
	}
	defer st.Close()
	if err := st.Migrate(ctx); err != nil {
		log.Fatalf("store migrate: %v", err)
	}

	// ── Tokens ───────────────────────────────────────────────
	tokens := auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.JWTExpiresIn, cfg.JWTRefreshIn)

	// ── Router ───────────────────────────────────────────────
	handler := server.NewRouter(cfg, st, tokens)

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("taskflow API listening on :%s (%s)", cfg.Port, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
