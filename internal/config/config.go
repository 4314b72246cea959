package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"chardiff/internal/compare"
)

const (
	configDirName   = "chardiff"
	tomlFileName    = "config.toml"
	jsonFileName    = "config.json"
	defaultLogFile  = "chardiff.log"
	defaultLogLevel = "info"
)

type AppConfig struct {
	IgnoreCase       bool      `toml:"ignore_case" json:"ignore_case"`
	IgnoreWhitespace bool      `toml:"ignore_whitespace" json:"ignore_whitespace"`
	Placeholder      string    `toml:"placeholder" json:"placeholder" validate:"required,len=1"`
	Watch            bool      `toml:"watch" json:"watch"`
	Log              LogConfig `toml:"log" json:"log"`
}

type LogConfig struct {
	Enabled    bool   `toml:"enabled" json:"enabled"`
	Level      string `toml:"level" json:"level" validate:"oneof=trace debug info warn error"`
	File       string `toml:"file" json:"file" validate:"required_if=Enabled true"`
	MaxSizeMB  int    `toml:"max_size_mb" json:"max_size_mb" validate:"gte=1,lte=1024"`
	MaxBackups int    `toml:"max_backups" json:"max_backups" validate:"gte=0,lte=100"`
}

func Default() AppConfig {
	file := ""
	if dir, err := stateHome(); err == nil {
		file = filepath.Join(dir, configDirName, defaultLogFile)
	}
	return AppConfig{
		Placeholder: " ",
		Log: LogConfig{
			Level:      defaultLogLevel,
			File:       file,
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load reads config.toml from the default directory, falling back to
// config.json. It returns the path that was read, or the TOML path when
// neither exists.
func Load() (AppConfig, string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return AppConfig{}, "", err
	}

	tomlPath := filepath.Join(dir, tomlFileName)
	jsonPath := filepath.Join(dir, jsonFileName)
	path := tomlPath
	if _, err := os.Stat(tomlPath); errors.Is(err, os.ErrNotExist) {
		if _, err := os.Stat(jsonPath); err == nil {
			path = jsonPath
		}
	}

	cfg, err := LoadFromPath(path)
	return cfg, path, err
}

// LoadFromPath decodes path as TOML or JSON by extension. A missing or blank
// file yields the defaults.
func LoadFromPath(path string) (AppConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return AppConfig{}, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return AppConfig{}, fmt.Errorf("parse config: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return AppConfig{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.File = strings.TrimSpace(cfg.Log.File)
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

var validate = validator.New()

func (c AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c AppConfig) CompareOptions() compare.Options {
	return compare.Options{IgnoreCase: c.IgnoreCase, IgnoreWhitespace: c.IgnoreWhitespace}
}

// PlaceholderRune is the glyph drawn where one side has no character.
func (c AppConfig) PlaceholderRune() rune {
	for _, r := range c.Placeholder {
		return r
	}
	return ' '
}

func DefaultDir() (string, error) {
	home, err := configHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName), nil
}

func configHome() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return xdg, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}

func stateHome() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); xdg != "" {
		return xdg, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state"), nil
}
