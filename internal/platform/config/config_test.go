package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/restro?sslmode=disable")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppPort != "8080" {
		t.Fatalf("app port = %q, want 8080", cfg.AppPort)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("token ttl = %v, want 24h", cfg.TokenTTL)
	}
	if cfg.SMS.Provider != "log" || cfg.SMS.QueueSize != 256 {
		t.Fatalf("sms config = %+v, want log provider with 256 queue", cfg.SMS)
	}
	if cfg.AMQPURL != "" {
		t.Fatalf("amqp url = %q, want empty", cfg.AMQPURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/restro")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("SMS_PROVIDER", "http")
	t.Setenv("SMS_GATEWAY_URL", "https://sms.example.test/send")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppPort != "9090" {
		t.Fatalf("app port = %q, want 9090", cfg.AppPort)
	}
	if cfg.SMS.GatewayURL != "https://sms.example.test/send" {
		t.Fatalf("gateway url = %q", cfg.SMS.GatewayURL)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("shutdown timeout = %v, want 3s", cfg.ShutdownTimeout)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing database url", env: map[string]string{"JWT_SECRET": "s"}},
		{name: "missing jwt secret", env: map[string]string{"DATABASE_URL": "postgres://db"}},
		{name: "http provider without url", env: map[string]string{
			"DATABASE_URL": "postgres://db", "JWT_SECRET": "s", "SMS_PROVIDER": "http",
		}},
		{name: "admin email without password", env: map[string]string{
			"DATABASE_URL": "postgres://db", "JWT_SECRET": "s", "ADMIN_EMAIL": "owner@example.com",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "")
			t.Setenv("JWT_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
