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

	"github.com/Skotchmaster/diary/internal/config"
	"github.com/Skotchmaster/diary/internal/events"
	"github.com/Skotchmaster/diary/internal/logging"
	"github.com/Skotchmaster/diary/internal/repo"
	"github.com/Skotchmaster/diary/internal/search"
	"github.com/Skotchmaster/diary/internal/service"
	httpserver "github.com/Skotchmaster/diary/internal/transport/http"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	ctx := logging.IntoContext(context.Background(), logger)

	store, err := repo.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("store init: %v", err)
	}

	diary := &service.DiaryService{Repo: store}
	creds := &service.CredentialStore{Repo: store, Cost: cfg.BcryptCost}

	if cfg.SearchEnabled() {
		ix, err := openSearch(ctx, cfg)
		if err != nil {
			logger.Warn("search disabled", "error", err)
		} else {
			diary.Search = ix
		}
	}

	var (
		producer  *events.Producer
		publisher service.EventPublisher = events.Nop{}
	)
	if cfg.EventsEnabled() {
		producer = events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		publisher = producer
	}
	diary.Events = publisher
	creds.Events = publisher

	sessions := &service.SessionAuthority{Credentials: creds, Secret: cfg.JWTSecret}

	e := httpserver.NewEcho(logger, cfg.CORSOrigins)
	httpserver.Register(e, &httpserver.Deps{
		Store:    store,
		Verifier: sessions,
		Auth:     &httpserver.AuthHTTP{Credentials: creds, Sessions: sessions},
		Diary:    &httpserver.DiaryHTTP{Diary: diary},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http server started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}
	if err := store.Close(); err != nil {
		logger.Error("store close error", "error", err)
	}

	logger.Info("shutdown complete")
}

func openSearch(ctx context.Context, cfg *config.Config) (*search.Index, error) {
	client, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err != nil {
		return nil, err
	}
	ix := &search.Index{ES: client, Name: cfg.ESIndex}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := ix.EnsureIndex(ctx); err != nil {
		return nil, err
	}
	return ix, nil
}
