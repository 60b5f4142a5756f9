// Package config carga la configuración del servicio: defaults, luego un
// YAML opcional (NOTES_CONFIG), luego variables de entorno.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverDynamoDB = "dynamodb"
)

type Config struct {
	AppName string `mapstructure:"app_name"`
	Port    string `mapstructure:"port"`

	StoreDriver  string        `mapstructure:"store_driver"`
	StoreTimeout time.Duration `mapstructure:"store_timeout"`
	DBDSN        string        `mapstructure:"db_dsn"`
	SQLitePath   string        `mapstructure:"sqlite_path"`
	NotesTable   string        `mapstructure:"notes_table"`

	NotesQueueURL    string `mapstructure:"notes_queue_url"`
	MetricsNamespace string `mapstructure:"metrics_namespace"`
	AWSRegion        string `mapstructure:"aws_region"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	OdinBaseURL string `mapstructure:"odin_base_url"`
	OdinAPIKey  string `mapstructure:"odin_api_key"`
}

var defaults = map[string]any{
	"app_name":          "contact-notes",
	"port":              "8080",
	"store_driver":      DriverMemory,
	"store_timeout":     "5s",
	"db_dsn":            "",
	"sqlite_path":       "contact-notes.db",
	"notes_table":       "",
	"notes_queue_url":   "",
	"metrics_namespace": "",
	"aws_region":        "",
	"log_level":         "info",
	"log_format":        "text",
	"odin_base_url":     "",
	"odin_api_key":      "",
}

// Load lee path (o NOTES_CONFIG si path es vacío). Sin archivo, solo defaults + env.
func Load(path string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if strings.TrimSpace(path) == "" {
		path = os.Getenv("NOTES_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if strings.TrimSpace(c.DBDSN) == "" {
			return errors.New("config: DB_DSN is required for the postgres driver")
		}
	case DriverDynamoDB:
		if strings.TrimSpace(c.NotesTable) == "" {
			return errors.New("config: NOTES_TABLE is required for the dynamodb driver")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.StoreTimeout <= 0 {
		return errors.New("config: STORE_TIMEOUT must be positive")
	}
	return nil
}

// NeedsAWS indica si algún componente configurado usa el SDK de AWS.
func (c *Config) NeedsAWS() bool {
	return c.StoreDriver == DriverDynamoDB || c.NotesQueueURL != "" || c.MetricsNamespace != ""
}
