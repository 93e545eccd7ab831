package app

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds everything an App instance needs to run.
type Config struct {
	// FlowPath points at the flow to execute, either a .hcl file or a
	// script file.
	FlowPath string `yaml:"flow"`

	LogFormat string `yaml:"log_format"`
	LogLevel  string `yaml:"log_level"`

	// Workers caps how many nodes of one stage run concurrently.
	Workers int `yaml:"workers"`

	// MetricsPort serves health and Prometheus metrics; 0 disables the
	// server.
	MetricsPort int `yaml:"metrics_port"`

	// KVDSN switches the kv adapter from the in-memory store to Postgres.
	KVDSN string `yaml:"kv_dsn"`

	// AMQPURL switches the queue adapter from the in-memory publisher to a
	// RabbitMQ broker.
	AMQPURL string `yaml:"amqp_url"`
}

// NewConfig validates a populated Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.FlowPath == "" {
		return nil, errors.New("FlowPath is a required configuration field and cannot be empty")
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.MetricsPort < 0 || cfg.MetricsPort > 65535 {
		return nil, fmt.Errorf("metrics_port out of range: %d", cfg.MetricsPort)
	}
	return &cfg, nil
}

// LoadConfigFile reads a YAML config file into a Config. Fields the file
// omits keep their zero values so CLI flags can fill them in.
func LoadConfigFile(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	return cfg, nil
}
