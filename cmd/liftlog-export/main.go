package main

import (
	"context"
	"flag"
	"os"

	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/export"
	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/logging"
	"github.com/claude/liftlog/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	outPath := flag.String("out", "liftlog.xlsx", "output workbook path")
	flag.Parse()

	log := logging.Default()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log, logCloser := logging.New(os.Stdout, cfg.Log.Options())
	defer logCloser.Close()
	loc, err := cfg.Chart.Location()
	if err != nil {
		log.Error("invalid timezone", "error", err)
		os.Exit(1)
	}
	lang, err := cfg.Catalog.Tag()
	if err != nil {
		log.Error("invalid catalog language", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	blob, err := storage.OpenBlob(ctx, cfg.Storage.Options())
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	store := storage.NewStore(blob, log)
	defer store.Close()

	h := store.Load(ctx)

	out, err := os.Create(*outPath)
	if err != nil {
		log.Error("failed to create output", "path", *outPath, "error", err)
		os.Exit(1)
	}
	if err := export.WriteWorkbook(out, h, history.Index{Lang: lang}, loc); err != nil {
		out.Close()
		log.Error("export failed", "error", err)
		os.Exit(1)
	}
	if err := out.Close(); err != nil {
		log.Error("failed to close output", "error", err)
		os.Exit(1)
	}
	log.Info("export complete", "path", *outPath, "workouts", len(h))
}
