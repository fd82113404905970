// Package config provides configuration loading for memory-cultivation.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rcliao/memory-cultivation/internal/store"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = ".memory-cultivation.config.json"

// DefaultBatchSize is the cultivation batch size when none is configured.
const DefaultBatchSize = 20

// Config is the full tool configuration.
type Config struct {
	AI               AIConfig          `koanf:"ai"`
	Cultivation      CultivationConfig `koanf:"cultivation"`
	MemoryDirectory  string            `koanf:"memoryDirectory"`
	InstructionFiles []string          `koanf:"instructionFiles"`
	Storage          StorageConfig     `koanf:"storage"`
	Capture          CaptureConfig     `koanf:"capture"`
	Logging          LoggingConfig     `koanf:"logging"`
}

// AIConfig configures the external AI command-line tool.
type AIConfig struct {
	Command     string                     `koanf:"command"`
	CommandArgs []string                   `koanf:"commandArgs"`
	Operations  map[string]OperationConfig `koanf:"operations"`
}

// OperationConfig overrides the prompt or arguments for one AI operation
// (summarize, consolidate, consolidate-batch).
type OperationConfig struct {
	Prompt      string   `koanf:"prompt"`
	CommandArgs []string `koanf:"commandArgs"`
}

// CultivationConfig configures batch consolidation.
type CultivationConfig struct {
	BatchSize int `koanf:"batchSize"`
}

// StorageConfig selects where memory records live.
type StorageConfig struct {
	Backend    string `koanf:"backend"`
	SQLitePath string `koanf:"sqlitePath"`
}

// CaptureConfig configures the pre-commit capture hook.
type CaptureConfig struct {
	// CultivatePatterns are doublestar globs; a commit whose staged paths all
	// match is a cultivation commit and is not captured.
	CultivatePatterns []string `koanf:"cultivatePatterns"`
	// DiffExcludes are pathspec globs left out of the staged diff.
	DiffExcludes []string `koanf:"diffExcludes"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// DefaultAI returns the AI settings used when no ai section is configured.
func DefaultAI() AIConfig {
	return AIConfig{
		Command:     "copilot",
		CommandArgs: []string{"-m", "gpt-4o-mini"},
	}
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{AI: DefaultAI()}
	applyDefaults(cfg)
	return cfg
}

// BatchSize returns the effective cultivation batch size.
func (c *Config) BatchSize() int {
	if c.Cultivation.BatchSize > 0 {
		return c.Cultivation.BatchSize
	}
	return DefaultBatchSize
}

// Operation returns the override for op, if any.
func (c *Config) Operation(op string) (OperationConfig, bool) {
	if c == nil || c.AI.Operations == nil {
		return OperationConfig{}, false
	}
	o, ok := c.AI.Operations[op]
	return o, ok
}

// Validate checks field ranges. An empty AI command is not rejected here; it
// fails when a command is built for it.
func (c *Config) Validate() error {
	if c.Cultivation.BatchSize < 0 {
		return fmt.Errorf("cultivation.batchSize must be positive, got %d", c.Cultivation.BatchSize)
	}
	switch c.Storage.Backend {
	case store.BackendFiles, store.BackendSQLite:
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", store.BackendFiles, store.BackendSQLite, c.Storage.Backend)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.MemoryDirectory) == "" {
		cfg.MemoryDirectory = ".memory"
	}
	if len(cfg.InstructionFiles) == 0 {
		cfg.InstructionFiles = []string{filepath.Join(".github", "copilot", "COPILOT_INSTRUCTIONS.md")}
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = store.BackendFiles
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = filepath.Join(cfg.MemoryDirectory, "memories.db")
	}
	if len(cfg.Capture.CultivatePatterns) == 0 {
		cfg.Capture.CultivatePatterns = []string{
			"**/*INSTRUCTIONS*",
			cfg.MemoryDirectory + "/**",
		}
	}
	if len(cfg.Capture.DiffExcludes) == 0 {
		cfg.Capture.DiffExcludes = []string{"*.md"}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}
