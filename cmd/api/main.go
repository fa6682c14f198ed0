package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/todo-list-api/todo-list-api/config"
	"github.com/todo-list-api/todo-list-api/internal/bootstrap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootstrap.NewLogger("info", "json").Fatal("load config", "err", err)
	}

	logger := bootstrap.NewLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, store, err := bootstrap.OpenStore(ctx, bootstrap.DBOptions{Path: cfg.Database.Path})
	if err != nil {
		logger.Fatal("open store", "path", cfg.Database.Path, "err", err)
	}
	defer db.Close()

	router, err := bootstrap.BuildRouter(bootstrap.RouterDeps{
		HTTP:   cfg.HTTP,
		Logger: logger,
		Store:  store,
	})
	if err != nil {
		logger.Fatal("build router", "err", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("todo_list_api_started", "port", cfg.Server.Port, "db", cfg.Database.Path, "version", cfg.App.Version)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
