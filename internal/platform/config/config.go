package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration. Store-scoped settings (tax
// flags, carrier codes) live in the settings file, not here.
type Server struct {
	Addr         string
	LogLevel     slog.Level
	SettingsPath string
	PostgresURL  string
	RedisURL     string
	KafkaBrokers []string
	AuditTopic   string
	GatewayURL   string
}

// RedisConfig tunes the pickup-point cache client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays
// lean.
func FromEnv() Server {
	addr := os.Getenv("PAYBRIDGE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	level := slog.LevelInfo
	if os.Getenv("PAYBRIDGE_DEBUG") == "true" {
		level = slog.LevelDebug
	}

	topic := os.Getenv("PAYBRIDGE_AUDIT_TOPIC")
	if topic == "" {
		topic = "paybridge.audit"
	}

	var brokers []string
	if raw := os.Getenv("PAYBRIDGE_KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return Server{
		Addr:         addr,
		LogLevel:     level,
		SettingsPath: os.Getenv("PAYBRIDGE_SETTINGS_FILE"),
		PostgresURL:  os.Getenv("PAYBRIDGE_POSTGRES_URL"),
		RedisURL:     os.Getenv("PAYBRIDGE_REDIS_URL"),
		KafkaBrokers: brokers,
		AuditTopic:   topic,
		GatewayURL:   os.Getenv("PAYBRIDGE_GATEWAY_URL"),
	}
}

// Redis returns the cache client configuration with defaults applied.
func (s Server) Redis() RedisConfig {
	return RedisConfig{
		URL:          s.RedisURL,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}
