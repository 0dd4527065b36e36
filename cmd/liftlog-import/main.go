package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/ingest"
	"github.com/claude/liftlog/internal/ingest/alpha"
	"github.com/claude/liftlog/internal/logging"
	"github.com/claude/liftlog/internal/session"
	"github.com/claude/liftlog/internal/storage"
	"github.com/claude/liftlog/internal/upload"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	csvPath := flag.String("path", "", "path to Alpha Progression CSV export (required)")
	dryRun := flag.Bool("dry-run", false, "report counts without writing to storage")
	serverURL := flag.String("server", "", "upload to a remote LiftLog server instead of local storage")
	apiKey := flag.String("api-key", os.Getenv("LIFTLOG_AUTH_API_KEY"), "API key for -server")
	flag.Parse()

	log := logging.Default()

	if *csvPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftlog-import [-config config.yaml | -server <URL> -api-key <key>] -path export.csv [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Error("failed to open export", "path", *csvPath, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	ctx := context.Background()

	if *serverURL != "" && !*dryRun {
		data, err := io.ReadAll(f)
		if err != nil {
			log.Error("failed to read export", "error", err)
			os.Exit(1)
		}
		result, err := upload.NewClient(*serverURL, *apiKey).SendAlphaCSV(ctx, data)
		if err != nil {
			log.Error("upload failed", "server", *serverURL, "error", err)
			os.Exit(1)
		}
		printResult(log, result)
		log.Info("upload complete")
		return
	}

	// Load config
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

	if *dryRun {
		log.Info("DRY RUN mode, nothing will be written")
		_, result, err := alpha.NewProvider(nil, loc, log).Convert(f)
		if err != nil {
			log.Error("import failed", "error", err)
			os.Exit(1)
		}
		printResult(log, result)
		return
	}

	blob, err := storage.OpenBlob(ctx, cfg.Storage.Options())
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	store := storage.NewStore(blob, log)
	defer store.Close()

	sess := session.New(ctx, store, log)
	result, err := alpha.NewProvider(sess, loc, log).Ingest(ctx, f)
	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}

	printResult(log, result)
	log.Info("import complete")
}

func printResult(log *slog.Logger, r *ingest.Result) {
	log.Info("import stats",
		"workouts_received", r.WorkoutsReceived,
		"workouts_added", r.WorkoutsAdded,
		"workouts_skipped", r.WorkoutsSkipped,
		"sets", r.SetsReceived,
		"warmups_dropped", r.WarmupsDropped,
	)
}
