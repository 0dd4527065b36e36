package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/claude/liftlog/internal/chart"
	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/history"
	"github.com/claude/liftlog/internal/logging"
	"github.com/claude/liftlog/internal/mcp"
	"github.com/claude/liftlog/internal/session"
	"github.com/claude/liftlog/internal/storage"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (local mode)")
	serverURL := flag.String("server", "", "LiftLog server URL (remote mode, e.g. http://liftlog.tail1234.ts.net)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("liftlog-mcp", Version)
		return
	}

	// stdout carries the MCP protocol, so logs go to stderr.
	log, _ := logging.New(os.Stderr, logging.Options{})

	if (*configPath == "") == (*serverURL == "") {
		fmt.Fprintf(os.Stderr, "Usage: liftlog-mcp -config config.yaml | -server <URL>\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	var src mcp.Source
	vp := chart.DefaultViewport()
	var ix history.Index

	if *serverURL != "" {
		src = mcp.NewHTTPClient(*serverURL)
		log.Info("remote mode", "server", *serverURL)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		var logCloser io.Closer
		log, logCloser = logging.New(os.Stderr, cfg.Log.Options())
		defer logCloser.Close()

		if vp, err = cfg.Chart.Viewport(); err != nil {
			log.Error("invalid chart config", "error", err)
			os.Exit(1)
		}
		if ix.Lang, err = cfg.Catalog.Tag(); err != nil {
			log.Error("invalid catalog config", "error", err)
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
		src = session.New(ctx, store, log)
	}

	if err := mcpserver.ServeStdio(mcp.New(src, ix, vp, Version, log)); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
