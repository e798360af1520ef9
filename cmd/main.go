package main

import (
	"context"
	"net/http"
	"os"

	"github.com/desertthunder/souffle/internal/services"
	"github.com/desertthunder/souffle/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := os.Getenv("SOUFFLE_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}

	config, err := shared.LoadConfigOrDefault(configPath)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		config = shared.DefaultConfig()
	}

	apiService := services.NewAPIService(config.API.BaseURL, &http.Client{Timeout: config.API.Timeout()}).
		WithRateLimit(config.API.RateLimit, config.API.Burst)

	var store services.TokenStore
	if fileStore, err := services.NewFileTokenStore(config.Auth.TokenPath); err != nil {
		logger.Warn("token file unavailable, session will not persist", "error", err)
	} else {
		store = fileStore
	}

	session := services.NewSession(apiService, store, logger)
	if err := session.Restore(); err != nil {
		logger.Warn("failed to restore session", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		API:        apiService,
		Session:    session,
		Logger:     logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "souffle",
		Usage:    "Breathing exercises and meditation from the terminal",
		Version:  "0.1.0",
		Flags:    []cli.Flag{&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging"}},
		Before:   runner.before,
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}
