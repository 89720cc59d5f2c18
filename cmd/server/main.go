package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkruk/flashdeck/internal/api"
	"github.com/pkruk/flashdeck/internal/config"
	"github.com/pkruk/flashdeck/internal/db"
	"github.com/pkruk/flashdeck/internal/logger"
	"github.com/pkruk/flashdeck/internal/repository/sqlite"
	"github.com/pkruk/flashdeck/internal/services"
	"github.com/pkruk/flashdeck/internal/speech"
	"github.com/pkruk/flashdeck/internal/study"
	"github.com/pkruk/flashdeck/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("FlashDeck Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("max_decks_per_user=%d", cfg.MaxDecksPerUser)
	log.Debug("break_interval_seconds=%d", cfg.BreakIntervalSeconds)
	log.Debug("session_idle_seconds=%d", cfg.SessionIdleSeconds)
	log.Debug("persist_worker_count=%d", cfg.PersistWorkerCount)
	log.Debug("persist_queue_size=%d", cfg.PersistQueueSize)
	log.Debug("persist_max_retries=%d", cfg.PersistMaxRetries)
	log.Debug("speech_enabled=%v", cfg.SpeechEnabled)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	users := sqlite.NewUserRepository(database)
	decks := sqlite.NewDeckRepository(database)
	cards := sqlite.NewCardRepository(database)

	persistPool := worker.NewPool(cfg.PersistWorkerCount, cfg.PersistQueueSize)
	registry := study.NewRegistry(time.Duration(cfg.SessionIdleSeconds) * time.Second)

	var speaker speech.Speaker = speech.Silent()
	if cfg.SpeechEnabled {
		speaker = speech.NewLogSpeaker()
	}

	ctx, cancel := context.WithCancel(context.Background())

	deckService := services.NewDeckService(users, decks, cards, cfg.MaxDecksPerUser)
	studyService := services.NewStudyService(
		ctx,
		decks,
		cards,
		registry,
		persistPool,
		speaker,
		time.Duration(cfg.BreakIntervalSeconds)*time.Second,
		cfg.PersistMaxRetries,
	)

	srv := &api.Server{
		Decks: deckService,
		Study: studyService,
		Ready: func() error { return database.Ping() },
	}

	persistPool.Start(ctx)
	registry.Start()

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("closing study sessions")
	registry.Stop()

	// Let queued persistence writes drain before the workers exit.
	log.Debug("stopping persistence pool")
	cancel()
	persistPool.Stop()

	log.Info("===========================================")
	log.Info("FlashDeck Server Stopped")
	log.Info("===========================================")
}
