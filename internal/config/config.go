package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Config contains application configuration parameters.
type Config struct {
	LogLevel  int    `env:"LOG_LEVEL" envDefault:"0"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
	HTTP      HTTP   `envPrefix:"HTTP_"`
	Batch     Batch  `envPrefix:"BATCH_"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port               string        `env:"PORT" envDefault:"8080" validate:"required,numeric"`
	EnableHTTPS        bool          `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string        `env:"CERT_FILE_NAME" envDefault:"cert.pem" validate:"required_if=EnableHTTPS true"`
	PrivateKeyFileName string        `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem" validate:"required_if=EnableHTTPS true"`
	MaxBodyBytes       int64         `env:"MAX_BODY_BYTES" envDefault:"65536" validate:"gt=0"`
	ReadTimeout        time.Duration `env:"READ_TIMEOUT" envDefault:"15s" validate:"gt=0"`
	WriteTimeout       time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s" validate:"gt=0"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s" validate:"gt=0"`
}

// Batch contains parameters of the file aggregator.
type Batch struct {
	MaxFileBytes int64 `env:"MAX_FILE_BYTES" envDefault:"33554432" validate:"gt=0"`
}

// NewConfig loads configuration from environment variables and validates it.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
