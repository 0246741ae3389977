// Package config содержит логику чтения конфигурации фронт-сервиса.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации фронт-сервиса.
type Config struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	BackendOrigin string `env:"BACKEND_ORIGIN"`
	DatabaseURI   string `env:"DATABASE_URI"`
	ChatEndpoint  string `env:"CHAT_ENDPOINT"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envBackendOrigin := cfg.BackendOrigin
	envDatabaseURI := cfg.DatabaseURI
	envChatEndpoint := cfg.ChatEndpoint

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.BackendOrigin, "b", "", "backend API origin")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.ChatEndpoint, "c", "", "chat room websocket endpoint")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envBackendOrigin != "" {
		cfg.BackendOrigin = envBackendOrigin
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envChatEndpoint != "" {
		cfg.ChatEndpoint = envChatEndpoint
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}

	return cfg, nil
}
