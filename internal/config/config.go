package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rpggio/gridview/internal/domain/table"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Locale    string          `yaml:"locale"`
	Tables    []TableConfig   `yaml:"tables"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// TransportConfig selects how the MCP server is exposed: "http" or "stdio".
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

// AuthConfig controls bearer token checks on the HTTP transports. Tokens maps
// static tokens to tenants; keys issued into the database are honored too.
type AuthConfig struct {
	Enabled bool              `yaml:"enabled"`
	Tokens  map[string]string `yaml:"tokens"`
}

// TableConfig defines one table served by the engine.
type TableConfig struct {
	Name        string         `yaml:"name"`
	Title       string         `yaml:"title"`
	Data        string         `yaml:"data"`
	Pinned      []string       `yaml:"pinned"`
	TotalFields []string       `yaml:"total_fields"`
	Features    FeatureConfig  `yaml:"features"`
	Columns     []table.Column `yaml:"columns"`
}

type FeatureConfig struct {
	Grouping         bool `yaml:"grouping"`
	Aggregation      bool `yaml:"aggregation"`
	ColumnReordering bool `yaml:"column_reordering"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "gridview.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Locale: "en-US",
	}

	if path := os.Getenv("GRIDVIEW_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("GRIDVIEW_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("GRIDVIEW_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid GRIDVIEW_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("GRIDVIEW_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("GRIDVIEW_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if mode := os.Getenv("GRIDVIEW_TRANSPORT"); mode != "" {
		cfg.Transport.Mode = mode
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the transport mode and every table definition.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}

	seen := make(map[string]struct{}, len(c.Tables))
	for i, t := range c.Tables {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return fmt.Errorf("table %d has no name", i)
		}
		if strings.Contains(name, "/") {
			return fmt.Errorf("table %q: name must not contain '/'", name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("table %q defined twice", name)
		}
		seen[name] = struct{}{}
		if err := table.ValidateColumns(t.Columns); err != nil {
			return fmt.Errorf("table %q: %w", name, err)
		}
	}
	return nil
}

// Table returns the definition of a named table.
func (c Config) Table(name string) (TableConfig, bool) {
	for _, t := range c.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableConfig{}, false
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
