package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the fields the console needs to reach the library API.
type Config struct {
	APIURL         string
	PollEvery      time.Duration
	RequestTimeout time.Duration
	HistoryDir     string
}

const (
	defaultConfigPath     = "~/.config/stacks/config.toml"
	defaultHistoryDir     = "~/.local/share/stacks"
	defaultAPIURL         = "127.0.0.1:8000"
	defaultPollSeconds    = 5
	defaultTimeoutSeconds = 10
)

// Load locates and parses the console config, falling back to defaults when
// missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIURL:         defaultAPIURL,
		PollEvery:      defaultPollSeconds * time.Second,
		RequestTimeout: defaultTimeoutSeconds * time.Second,
		HistoryDir:     defaultHistoryDir,
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.HistoryDir = mustExpand(defaultHistoryDir)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL         string `toml:"api_url"`
		PollSeconds    int    `toml:"poll_seconds"`
		TimeoutSeconds int    `toml:"request_timeout_seconds"`
		HistoryDir     string `toml:"history_dir"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.APIURL = strings.TrimSpace(raw.APIURL)
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}

	if raw.PollSeconds > 0 {
		cfg.PollEvery = time.Duration(raw.PollSeconds) * time.Second
	}
	if raw.TimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(raw.TimeoutSeconds) * time.Second
	}

	cfg.HistoryDir = strings.TrimSpace(raw.HistoryDir)
	if cfg.HistoryDir == "" {
		cfg.HistoryDir = defaultHistoryDir
	}
	cfg.HistoryDir = mustExpand(cfg.HistoryDir)

	return cfg, nil
}

// HistoryPath returns the path to the scan-history file.
func (c Config) HistoryPath() string {
	if strings.TrimSpace(c.HistoryDir) == "" {
		return mustExpand(defaultHistoryDir + "/history.jsonl")
	}
	return filepath.Join(c.HistoryDir, "history.jsonl")
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
