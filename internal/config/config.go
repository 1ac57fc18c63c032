package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Budgie"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"budgie"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Gemini struct {
		APIKey string `envconfig:"GEMINI_API_KEY"`
		Model  string `envconfig:"GEMINI_MODEL" default:"gemini-3-flash-preview"`
	}

	Auth struct {
		JWTSecret    string        `envconfig:"AUTH_JWT_SECRET"`
		Username     string        `envconfig:"AUTH_USERNAME" default:"owner"`
		PasswordHash string        `envconfig:"AUTH_PASSWORD_HASH"`
		TokenTTL     time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"720h"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
