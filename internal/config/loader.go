package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// EnvPrefix prefixes environment variable overrides,
// e.g. MEMORY_CULTIVATION_AI_COMMAND or MEMORY_CULTIVATION_CULTIVATION_BATCHSIZE.
const EnvPrefix = "MEMORY_CULTIVATION_"

const maxConfigFileSize = 1024 * 1024

// envKeys lists the keys that can be overridden from the environment.
var envKeys = []string{
	"ai.command",
	"ai.commandArgs",
	"cultivation.batchSize",
	"memoryDirectory",
	"instructionFiles",
	"storage.backend",
	"storage.sqlitePath",
	"logging.level",
	"logging.format",
}

// Load reads configuration from path (DefaultFile in the working directory
// when empty), then applies a sibling .env file and environment overrides.
//
// A file that cannot be parsed is reported and ignored, so a broken config
// never blocks a commit hook.
func Load(path string, logger *zap.Logger) (*Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path == "" {
		path = DefaultFile
	}

	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		logger.Warn("could not load .env", zap.Error(err))
	}

	k := koanf.New(".")
	if err := loadFile(k, path); err != nil {
		logger.Warn("could not load config, using defaults", zap.String("path", path), zap.Error(err))
		k = koanf.New(".")
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if !k.Exists("ai") {
		cfg.AI = DefaultAI()
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	var parser koanf.Parser = json.Parser()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	}
	return k.Load(rawbytes.Provider(content), parser)
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return godotenv.Load(path)
}

// envKey maps MEMORY_CULTIVATION_AI_COMMAND to ai.command. Unknown variables
// map to "" and are skipped.
func envKey(s string) string {
	raw := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, key := range envKeys {
		if strings.ToLower(strings.ReplaceAll(key, ".", "_")) == raw {
			return key
		}
	}
	return ""
}
