package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Veraticus/conchis/internal/cli"
	"github.com/Veraticus/conchis/internal/common"
	"github.com/Veraticus/conchis/internal/config"
	"github.com/Veraticus/conchis/internal/credentials"
	"github.com/Veraticus/conchis/internal/grouping"
	"github.com/Veraticus/conchis/internal/llm"
	"github.com/Veraticus/conchis/internal/storage"
	"github.com/spf13/viper"
)

// apiKeyEnvVars override the stored key, checked in order.
var apiKeyEnvVars = []string{"CONCHIS_API_KEY", "OPENROUTER_API_KEY"}

func setDefaults() {
	viper.SetDefault("logging.level", "warn")
	viper.SetDefault("logging.format", "console")
	viper.SetDefault("llm.provider", llm.ProviderOpenRouter)
	viper.SetDefault("llm.model", "")
	viper.SetDefault("llm.base_url", "")
	viper.SetDefault("llm.timeout", llm.DefaultTimeout)
	viper.SetDefault("llm.max_tokens", llm.DefaultMaxTokens)
	viper.SetDefault("llm.temperature", llm.DefaultTemperature)
	viper.SetDefault("llm.min_interval", llm.DefaultMinInterval)
	viper.SetDefault("credentials.path", config.DefaultCredentialsPath())
	viper.SetDefault("database.path", config.DefaultDatabasePath())
	viper.SetDefault("grouping.max_clipping_chars", grouping.DefaultMaxClippingChars)
}

// initStorage opens the database and applies migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := config.ExpandPath(viper.GetString("database.path"))

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		closeStorage(store)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func closeStorage(store *storage.SQLiteStorage) {
	if err := store.Close(); err != nil {
		slog.Error("Failed to close database", "error", err)
	}
}

func keyStore() *credentials.EnvOverride {
	path := config.ExpandPath(viper.GetString("credentials.path"))
	return credentials.NewEnvOverride(credentials.NewFileStore(path), apiKeyEnvVars...)
}

func llmConfig() llm.Config {
	return llm.Config{
		Provider:    viper.GetString("llm.provider"),
		Model:       viper.GetString("llm.model"),
		BaseURL:     viper.GetString("llm.base_url"),
		Timeout:     viper.GetDuration("llm.timeout"),
		MinInterval: viper.GetDuration("llm.min_interval"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
		Temperature: viper.GetFloat64("llm.temperature"),
	}
}

// initService builds the remote entry point with usage state kept in store.
func initService(ctx context.Context, store *storage.SQLiteStorage) (*llm.Service, error) {
	svc, err := llm.NewService(ctx, llmConfig(), keyStore(), slog.Default(), llm.WithStateStore(store))
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM service: %w", err)
	}
	return svc, nil
}

// reportGated prints why a remote call was not attempted and returns the
// matching error.
func reportGated(w io.Writer, svc *llm.Service) error {
	if !svc.IsConfigured() {
		writeLine(w, cli.FormatNotConfigured())
		return common.ErrNotConfigured
	}
	wait := svc.UntilNextRequest()
	writeLine(w, cli.FormatRateLimited(wait))
	return fmt.Errorf("%w: retry in %s", common.ErrRateLimited, wait.Round(100*time.Millisecond))
}

func writeLine(w io.Writer, s string) {
	if _, err := fmt.Fprintln(w, s); err != nil {
		slog.Warn("Failed to write output", "error", err)
	}
}
