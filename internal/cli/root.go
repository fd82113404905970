// Package cli implements the memory-cultivation CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/memory-cultivation/internal/config"
	"github.com/rcliao/memory-cultivation/internal/logging"
	"github.com/rcliao/memory-cultivation/internal/store"
)

var (
	configPath string
	formatFlag string
	verbose    bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "memory-cultivation",
	Short: "Capture commit memories and cultivate them into instructions",
	Long: "Captures an AI summary of every feature-branch commit as a memory record, " +
		"then consolidates accumulated memories in approved batches and suggests updates " +
		"to your assistant instruction files.",
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: "+config.DefaultFile+")")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text or json")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

// loadConfig reads the configuration and builds the logger it describes.
func loadConfig() (*config.Config, *zap.Logger, error) {
	boot, err := logging.New("warn", "console", os.Stderr)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(configPath, boot)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.Logging.Format, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	return store.Open(cfg.Storage.Backend, cfg.MemoryDirectory, cfg.Storage.SQLitePath)
}

// resolveID accepts a full identifier or a bare record name.
func resolveID(cmd *cobra.Command, s store.Store, arg string) (string, error) {
	for _, id := range []string{arg, s.ID(arg)} {
		ok, err := s.Exists(cmd.Context(), id)
		if err != nil {
			return "", err
		}
		if ok {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %s", store.ErrNotFound, arg)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
