package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/DoyleJ11/mtg-draft-backend/internal/config"
	"github.com/DoyleJ11/mtg-draft-backend/internal/httpapi"
	"github.com/DoyleJ11/mtg-draft-backend/internal/hub"
	"github.com/DoyleJ11/mtg-draft-backend/internal/lobby"
	"github.com/DoyleJ11/mtg-draft-backend/internal/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar()

	var saves store.Store
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			sugar.Fatalw("connect postgres", "error", err)
		}
		saves = pg
		sugar.Infow("using postgres store")
	} else {
		saves = store.NewMemory()
		sugar.Infow("using in-memory store")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	h := hub.NewHub(ctx, lobby.Options{
		Store:        saves,
		Logger:       sugar,
		PickTimerSec: cfg.PickTimerSec,
	})

	// Build the router *with* the hub injected
	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.SetupRoutes(h, saves, sugar)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sugar.Infow("listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		h.Inbox() <- hub.ShutdownHub{}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("server exited", "error", err)
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}
