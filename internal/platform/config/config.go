package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the API process.
type Config struct {
	AppPort         string        `env:"APP_PORT" envDefault:"8080"`
	DatabaseURL     string        `env:"DATABASE_URL,required,notEmpty"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	JWTSecret     string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	AdminEmail    string        `env:"ADMIN_EMAIL"`
	AdminPassword string        `env:"ADMIN_PASSWORD"`

	// Empty AMQPURL disables the broker mirror of realtime events.
	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"restro_events"`

	SMS SMSConfig `envPrefix:"SMS_"`
}

// SMSConfig selects and configures the SMS provider.
type SMSConfig struct {
	Provider   string `env:"PROVIDER" envDefault:"log"`
	GatewayURL string `env:"GATEWAY_URL"`
	APIKey     string `env:"API_KEY"`
	SenderID   string `env:"SENDER_ID" envDefault:"RESTRO"`
	Language   string `env:"LANGUAGE" envDefault:"en"`
	QueueSize  int    `env:"QUEUE_SIZE" envDefault:"256"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads an optional .env file and parses the process environment into a Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.SMS.Provider == "http" && c.SMS.GatewayURL == "" {
		return errors.New("SMS_GATEWAY_URL is required when SMS_PROVIDER=http")
	}
	if c.SMS.QueueSize <= 0 {
		return fmt.Errorf("SMS_QUEUE_SIZE must be positive, got %d", c.SMS.QueueSize)
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	return nil
}
