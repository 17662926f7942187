// Package main contains the conchis CLI commands.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Veraticus/conchis/internal/common"
	"github.com/Veraticus/conchis/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "conchis",
		Short: "🐚 Clipboard content understanding",
		Long: `conchis classifies clipboard content locally, asks a remote model for
summaries and groupings under a strict rate limit, and keeps a tagged library
of reusable prompts.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}

	root.PersistentFlags().String("config", "", "config file (default: $XDG_CONFIG_HOME/conchis/config.yaml)")
	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "console", "log format (console, json)")

	root.AddCommand(classifyCmd())
	root.AddCommand(testConnectionCmd())
	root.AddCommand(groupCmd())
	root.AddCommand(promptsCmd())
	root.AddCommand(keyCmd())
	root.AddCommand(statsCmd())
	root.AddCommand(resetCmd())
	root.AddCommand(versionCmd())

	return root
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			slog.Info("Received interrupt signal, shutting down")
			cancel()
		case <-ctx.Done():
		}
	}()

	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	viper.Reset()
	setDefaults()

	flags := cmd.Root().PersistentFlags()
	_ = viper.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", flags.Lookup("log-format"))

	cfgFile, _ := flags.GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(config.ExpandPath(cfgFile))
	} else {
		dir, err := config.ConfigDir()
		if err != nil {
			return err
		}

		viper.AddConfigPath(dir)
		viper.AddConfigPath(".")
		viper.SetConfigName(strings.TrimSuffix(config.ConfigFileName, ".yaml"))
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("CONCHIS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := common.SetupLogger(viper.GetString("logging.level"), viper.GetString("logging.format")); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "conchis "+version)
		},
	}
}
