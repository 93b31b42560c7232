// Package main is the entry point for the YouTube stats proxy.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/PRATIKUGALE02/youtube-proxy/bootstrap"
	"github.com/PRATIKUGALE02/youtube-proxy/config"
	"github.com/joho/godotenv"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "ytproxy.yaml", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	validate := flag.Bool("validate", false, "Validate configuration and exit")
	hotReload := flag.Bool("hot-reload", true, "Watch config and credentials files for changes")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ytproxy %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Local .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	if *validate {
		cfg, err := config.LoadWithFallback(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Configuration invalid: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Configuration valid\n")
		fmt.Printf("  Upstream: %s\n", cfg.Upstream.BaseURL)
		fmt.Printf("  Daily limit: %d units\n", cfg.Quota.DailyLimit)
		fmt.Printf("  Ledger: %s\n", cfg.Quota.LedgerPath)
		fmt.Printf("  Credentials: %s\n", cfg.Credentials.Path)
		os.Exit(0)
	}

	app, err := bootstrap.New(bootstrap.Options{
		ConfigPath: *configPath,
		HotReload:  *hotReload,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
