package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/solotter/internal/services"
	"github.com/desertthunder/solotter/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := os.Getenv("SOLOTTER_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	config.ApplyEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var twitter *services.TwitterService
	if svc, err := NewTwitterService(ctx, config, logger); err == nil {
		twitter = svc
	} else {
		logger.Debug("twitter client unavailable", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Twitter:    twitter,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "solotter",
		Usage:    "Back up, diff and restore Twitter friends, followers and lists",
		Version:  "0.1.0",
		Flags:    runner.globalFlags(),
		Before:   runner.Before,
		Commands: runner.register(),
	}

	err := app.Run(ctx, os.Args)
	runner.Close()
	if err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
