// healthtogo-mcp serves the Health ToGo MCP tools over stdio, backed by
// the same sample store as the HTTP server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Foia65/healthtogo/internal/config"
	"github.com/Foia65/healthtogo/internal/mcp"
	"github.com/Foia65/healthtogo/internal/store/postgres"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Logs go to stderr; stdout carries the MCP stream.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	loc := time.Local
	if cfg.Timezone != "" {
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			log.Error("invalid timezone", "tz", cfg.Timezone, "error", err)
			os.Exit(1)
		}
	}

	db, err := postgres.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	s := mcp.New(db, loc, cfg.Auth.Premium, Version, log)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
