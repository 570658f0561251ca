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

	"github.com/joho/godotenv"

	"github.com/policypal/backend/internal/config"
	"github.com/policypal/backend/internal/handler"
	"github.com/policypal/backend/internal/model/policy"
	"github.com/policypal/backend/internal/service/ai"
	chatservice "github.com/policypal/backend/internal/service/chat"
	"github.com/policypal/backend/internal/store/conversation"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	policyCtx := policy.Default()

	// Initialize the conversation store. Missing configuration disables
	// persistence for the process lifetime instead of failing startup.
	var store conversation.Store
	if cfg.Store.Enabled() {
		sqliteStore, err := conversation.OpenSQLite(cfg.Store.DBPath)
		if err != nil {
			log.Printf("warning: failed to open conversation store: %v", err)
			log.Println("continuing with in-memory conversations only")
			store = conversation.NewMemoryStore()
		} else {
			defer sqliteStore.Close()
			store = sqliteStore
			log.Printf("conversation store opened at %s", cfg.Store.DBPath)
		}
	} else {
		log.Println("STORE_DB_PATH not set, conversations will not survive restarts")
		store = conversation.NewMemoryStore()
	}

	// Initialize the answer generator. Without model credentials every
	// submission receives the fallback answer at uncertain confidence.
	var generator chatservice.Generator
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without answer generation")
		} else {
			generator = aiService
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("model credentials not configured, skipping AI initialization")
	}

	chatSvc := chatservice.NewService(store, generator, policyCtx, cfg.Store.AppID)
	router := handler.NewRouter(chatSvc, policyCtx)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("PolicyPal backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
