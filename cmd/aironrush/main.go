package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/AdithyaRRb/AI-sales-bot/internal/app"
	"github.com/AdithyaRRb/AI-sales-bot/internal/config"
)

func main() {
	// Optional .env for local overrides; missing file is fine.
	_ = godotenv.Load()

	defaults := config.Default()
	var configPath string

	flag.StringVar(&configPath, "config", "aironrush.toml", "Path to TOML config file")
	baseURL := flag.String("base-url", defaults.BaseURL, "Backend base URL")
	model := flag.String("model", defaults.Model, "Chat model (gpt-3.5-turbo|gpt-4|gpt-4-turbo)")
	sessionID := flag.String("session-id", "", "Load existing session by ID")
	storePath := flag.String("store", defaults.StorePath, "Path to local SQLite store")
	dashboardAddr := flag.String("dashboard", "", "Serve the web dashboard on this address (e.g. :8090)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Explicit flags win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "base-url":
			cfg.BaseURL = *baseURL
		case "model":
			cfg.Model = *model
		case "session-id":
			cfg.SessionID = *sessionID
		case "store":
			cfg.StorePath = *storePath
		case "dashboard":
			cfg.DashboardAddr = *dashboardAddr
		case "debug":
			cfg.Debug = *debug
		}
	})

	if !config.ValidModel(cfg.Model) {
		fmt.Fprintf(os.Stderr, "Unknown model: %s\n", cfg.Model)
		os.Exit(1)
	}

	a, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	if err := a.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
