package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ZABarton/idle-artifice-sub000/internal/config"
	"github.com/ZABarton/idle-artifice-sub000/internal/handlers"
	"github.com/ZABarton/idle-artifice-sub000/internal/logger"
	"github.com/ZABarton/idle-artifice-sub000/internal/middleware"
	"github.com/ZABarton/idle-artifice-sub000/internal/services"
	"github.com/ZABarton/idle-artifice-sub000/internal/world"
	"github.com/ZABarton/idle-artifice-sub000/pkg/modal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Idle Artifice narrative API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"data_dir", cfg.DataDir)

	store, err := services.NewRedisProgress(cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to configure progress store", "error", err)
		os.Exit(1)
	}

	storeCtx, storeCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storeCancel()
	if err := store.WaitForConnection(storeCtx); err != nil {
		log.Error("Failed to connect to progress store", "error", err)
		os.Exit(1)
	}

	provider, err := services.NewFileContent(cfg.DataDir, log)
	if err != nil {
		log.Error("Failed to load content", "error", err)
		os.Exit(1)
	}

	worldState := world.NewState()
	manager := modal.NewManager(provider, store, worldState, log)

	restoreCtx, restoreCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer restoreCancel()
	if err := manager.Restore(restoreCtx); err != nil {
		log.Error("Failed to restore narrative progress", "error", err)
		os.Exit(1)
	}
	log.Info("Narrative progress restored", "seen_tutorials", len(manager.SeenTutorials()))

	// Queue anything that should greet the player on startup.
	if err := manager.TriggerImmediateTutorials(); err != nil {
		log.Warn("Failed to evaluate immediate tutorials", "error", err)
	}

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, manager, log)
	mux.Handle("/health", healthHandler)

	modalHandler := handlers.NewModalHandler(manager, log)
	mux.Handle("/v1/modal", modalHandler)
	mux.Handle("/v1/modal/", modalHandler)

	tutorialHandler := handlers.NewTutorialHandler(manager, log)
	mux.Handle("/v1/tutorials/", tutorialHandler)

	dialogHandler := handlers.NewDialogHandler(manager, log)
	mux.Handle("/v1/dialogs/", dialogHandler)

	treeHandler := handlers.NewTreeHandler(manager, log)
	mux.Handle("/v1/trees/", treeHandler)

	eventsHandler := handlers.NewEventsHandler(manager, worldState, log)
	mux.Handle("/v1/events", eventsHandler)

	historyHandler := handlers.NewHistoryHandler(manager, log)
	mux.Handle("/v1/history", historyHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing progress store", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
