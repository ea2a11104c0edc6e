package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents runtime configuration for the gateway.
type Config struct {
	BasicConfig BasicConfig               `json:"basic_config"`
	Providers   map[string]ProviderConfig `json:"providers"`
	Databases   map[string]DatabaseConfig `json:"databases"`
	Redis       RedisConfig               `json:"redis"`
	Search      SearchConfig              `json:"search"`
	Documents   DocumentsConfig           `json:"documents"`
}

type BasicConfig struct {
	ServerAddress string `json:"server_address"`
	Provider      string `json:"provider"`
	Model         string `json:"model"`
	MaxConcurrent int    `json:"max_concurrent"`
	StaticDir     string `json:"static_dir"`
}

type ProviderConfig struct {
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	APIKey  string `json:"api_key"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Username string `json:"username"`
	Password string `json:"password"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	DBName   string `json:"db_name"`
	Params   string `json:"params"`
}

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type SearchConfig struct {
	MaxResults int `json:"max_results"`
}

type DocumentsConfig struct {
	IndexPath string `json:"index_path"`
	SourceDir string `json:"source_dir"`
	BaseURL   string `json:"base_url"`
}

// Load reads configuration from the provided path (defaults to config.json).
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.json"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.BasicConfig.Provider == "" {
		return nil, fmt.Errorf("basic_config.provider must be configured")
	}
	if _, ok := cfg.Providers[cfg.BasicConfig.Provider]; !ok {
		return nil, fmt.Errorf("provider %s not configured", cfg.BasicConfig.Provider)
	}

	baseDir := filepath.Dir(absPath)
	if p := cfg.Documents.IndexPath; p != "" && !filepath.IsAbs(p) {
		cfg.Documents.IndexPath = filepath.Join(baseDir, p)
	}
	if p := cfg.Documents.SourceDir; p != "" && !filepath.IsAbs(p) {
		cfg.Documents.SourceDir = filepath.Join(baseDir, p)
	}
	if p := cfg.BasicConfig.StaticDir; p != "" && !filepath.IsAbs(p) {
		cfg.BasicConfig.StaticDir = filepath.Join(baseDir, p)
	}

	return &cfg, nil
}
