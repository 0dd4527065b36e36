package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/liftlog/internal/backup"
	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/ingest/alpha"
	"github.com/claude/liftlog/internal/logging"
	"github.com/claude/liftlog/internal/mcp"
	"github.com/claude/liftlog/internal/server"
	"github.com/claude/liftlog/internal/session"
	"github.com/claude/liftlog/internal/storage"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run postgres migrations and exit")
	flag.Parse()

	log := logging.Default()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log, logCloser := logging.New(os.Stdout, cfg.Log.Options())
	defer logCloser.Close()
	slog.SetDefault(log)
	log.Info("LiftLog starting", "version", Version)

	if *migrateOnly {
		if cfg.Storage.Driver != "postgres" {
			log.Info("migrate-only: nothing to migrate", "driver", cfg.Storage.Driver)
			return
		}
		if err := storage.RunMigrations(cfg.Storage.Database.DSN()); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrate-only: migrations applied")
		return
	}

	// Open storage
	ctx := context.Background()
	blob, err := storage.OpenBlob(ctx, cfg.Storage.Options())
	if err != nil {
		log.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	store := storage.NewStore(blob, log)
	defer store.Close()
	log.Info("storage opened", "driver", cfg.Storage.Driver, "blob", cfg.Storage.BlobName)

	sess := session.New(ctx, store, log)

	vp, err := cfg.Chart.Viewport()
	if err != nil {
		log.Error("invalid chart config", "error", err)
		os.Exit(1)
	}
	lang, err := cfg.Catalog.Tag()
	if err != nil {
		log.Error("invalid catalog config", "error", err)
		os.Exit(1)
	}
	ix := history.Index{Lang: lang}

	// Create server
	alphaProvider := alpha.NewProvider(sess, vp.Location, log)
	srv := server.New(sess, alphaProvider, cfg.Auth.APIKey, log)
	srv.SetChart(vp)
	srv.SetIndex(ix)
	srv.SetMCP(mcpserver.NewStreamableHTTPServer(mcp.New(sess, ix, vp, Version, log)))

	if cfg.Backup.Schedule != "" {
		job := backup.NewJob(sess, cfg.Backup.Dir, ix, vp.Location, log)
		c, err := backup.Schedule(cfg.Backup.Schedule, job)
		if err != nil {
			log.Error("invalid backup schedule", "error", err)
			os.Exit(1)
		}
		defer c.Stop()
		log.Info("backups scheduled", "schedule", cfg.Backup.Schedule, "dir", cfg.Backup.Dir)
	}

	// Start server: tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
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
		srv.SetTailscale(lc)

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

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
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
	log.Info("server stopped")
}
