package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// defaultConfigFile is loaded from the working directory when present and no
// --config flag was given.
const defaultConfigFile = "gobfi.toml"

// Config holds command defaults read from a TOML file.
type Config struct {
	TapeSize int       `toml:"tape_size"`
	Optimize bool      `toml:"optimize"`
	Output   string    `toml:"output"`
	Log      LogConfig `toml:"log"`

	// Path is where the config was read from, if anywhere.
	Path string `toml:"-"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// loadConfig reads the config file at path; an empty path means
// defaultConfigFile, which is allowed to not exist.
func loadConfig(path string) (Config, error) {
	var cfg Config
	optional := path == ""
	if optional {
		path = defaultConfigFile
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("cannot load config %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, key := range undec {
			keys[i] = key.String()
		}
		return Config{}, fmt.Errorf("unknown keys in config %s: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path

	if _, err := parseOutputEncoding(cfg.Output); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if _, err := cfg.Log.level(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.TapeSize < 0 {
		return Config{}, fmt.Errorf("config %s: invalid tape_size %v", path, cfg.TapeSize)
	}
	return cfg, nil
}

// level parses Level, defaulting to slog.LevelWarn.
func (lc LogConfig) level() (slog.Level, error) {
	if lc.Level == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", lc.Level)
	}
	return level, nil
}

// openLogFile opens name for appending JSON log lines.
func openLogFile(name string) (*os.File, error) {
	return os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
}
