package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"book-catalog/internal/auth"
	"book-catalog/internal/config"
	"book-catalog/internal/router"
	"book-catalog/internal/session"
	"book-catalog/internal/store"
)

func main() {
	// load configuration
	cfg, err := config.Load(os.Getenv("CATALOG_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// record store (json document or sqlite)
	st, err := store.Open(cfg)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	hasher, err := auth.NewHasher(cfg.Security.PasswordHasher, cfg.Security.BcryptCost)
	if err != nil {
		log.Fatalf("password hasher: %v", err)
	}
	authService, err := auth.NewService(st, hasher)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}

	sessions, err := session.NewManager(cfg.Session, cfg.Security.EncryptionKey)
	if err != nil {
		log.Fatalf("session manager: %v", err)
	}

	r, err := router.SetupRouter(cfg, router.Deps{
		Store:    st,
		Auth:     authService,
		Sessions: sessions,
	})
	if err != nil {
		log.Fatalf("setup router: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	janitorDone := sessions.Janitor(ctx, cfg.Session.CleanupInterval)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		log.Printf("server listening on %s (store: %s)", addr, cfg.Store.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("run server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	<-janitorDone
}
