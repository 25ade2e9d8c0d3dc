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

	"github.com/mizunoha/kokoro-relay/internal/config"
	"github.com/mizunoha/kokoro-relay/internal/handler"
	"github.com/mizunoha/kokoro-relay/internal/lexicon"
	"github.com/mizunoha/kokoro-relay/internal/service/ai"
	"github.com/mizunoha/kokoro-relay/internal/service/relay"
	"github.com/mizunoha/kokoro-relay/internal/service/speech"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// The lexicon is load-bearing for every analysis step; a missing or
	// malformed resource keeps the process from starting.
	lex, err := lexicon.Load(cfg.LexiconPath)
	if err != nil {
		log.Fatalf("failed to load lexicon: %v", err)
	}
	log.Printf("lexicon loaded: %d categories, %d danger keywords", len(lex.Categories), len(lex.Danger))

	aiService, err := ai.NewService(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("failed to initialize completion gateway: %v", err)
	}

	speechService := speech.NewService(cfg.Speech)

	relayService := relay.NewService(lex, aiService, speechService, cfg.RequestTimeout)

	router := handler.NewRouter(relayService)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("kokoro-relay listening on %s", serverCfg.Addr)
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
