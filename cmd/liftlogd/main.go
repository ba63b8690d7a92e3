package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tailscale.com/tsnet"

	"github.com/meltforce/liftlog/internal/config"
	"github.com/meltforce/liftlog/internal/hevysync"
	"github.com/meltforce/liftlog/internal/ingest/alpha"
	"github.com/meltforce/liftlog/internal/ingest/hevy"
	"github.com/meltforce/liftlog/internal/mapping"
	"github.com/meltforce/liftlog/internal/server"
	"github.com/meltforce/liftlog/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	migrationsPath := flag.String("migrations", "migrations", "directory holding the SQL migrations")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	level, _ := cfg.Log.SlogLevel()
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	log.Info("liftlog starting", "version", Version)

	// Run migrations
	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, *migrationsPath); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Connect database
	ctx := context.Background()
	db, err := storage.New(ctx, dsn, cfg.Database.MaxConns)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	// Exercise mapping overlay
	mappingPath := cfg.Mappings.Path
	if mappingPath == "" {
		if mappingPath, err = mapping.DefaultPath(); err != nil {
			log.Error("locating exercise mappings", "error", err)
			os.Exit(1)
		}
	}
	mappings := mapping.New(mapping.FilePersister{Path: mappingPath}, log)
	mappings.Load()
	log.Info("exercise mappings loaded", "path", mappingPath, "count", mappings.Len())

	// Validated by config.Load.
	formula, _ := cfg.Analysis.OneRMFormula()
	unit, _ := cfg.Analysis.WeightUnit()

	// Create providers
	hevyProvider := hevy.NewProvider(db, log)
	alphaProvider := alpha.NewProvider(db, cfg.Ingest.IncludeWarmups, log)

	// Create server
	srv := server.New(db, hevyProvider, alphaProvider, mappings, server.Config{
		APIKey:  cfg.Auth.APIKey,
		Formula: formula,
		Unit:    unit,
		Version: Version,
	}, log)

	if cfg.Sync.Token != "" {
		state, err := hevysync.OpenStateDB(cfg.Sync.StateDir)
		if err != nil {
			log.Error("failed to open sync state", "error", err)
			os.Exit(1)
		}
		defer state.Close()
		client := hevysync.NewClient(cfg.Sync.BaseURL, cfg.Sync.Token, cfg.Sync.Timeout, log)
		srv.SetSyncer(hevysync.NewSyncer(client, state, db, log))
		log.Info("remote sync enabled", "state_dir", cfg.Sync.StateDir)
	}

	// Start server on tsnet or plain HTTP
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		srv.SetTailscale(lc, db)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("stopped")
}
