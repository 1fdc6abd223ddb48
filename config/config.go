// Package config loads runtime settings from the environment, with
// development defaults for every knob.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const defaultJWTSecret = "a-super-secret-key-for-dev"

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Broker   BrokerConfig
	Auth     AuthConfig
	Upload   UploadConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type BrokerConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Queue    string
}

type AuthConfig struct {
	JWTSecret      string
	TokenTTL       time.Duration
	GoogleClientID string
}

type UploadConfig struct {
	Dir         string
	MaxFileSize int64 // bytes
}

// Load builds a Config from environment variables, falling back to
// development defaults for anything unset.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", ""),
			Port: getEnv("PORT", "5001"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASS", "postgres"),
			Name:     getEnv("DB_NAME", "videoshare"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Broker: BrokerConfig{
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnv("RABBITMQ_PORT", "5672"),
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASS", "guest"),
			Queue:    getEnv("RABBITMQ_QUEUE", "video_events"),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET_KEY", defaultJWTSecret),
			TokenTTL:       getEnvAsDuration("JWT_TOKEN_TTL", 24*time.Hour),
			GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),
		},
		Upload: UploadConfig{
			Dir:         getEnv("UPLOAD_DIR", "uploads"),
			MaxFileSize: getEnvAsInt64("UPLOAD_MAX_FILE_SIZE", 512<<20),
		},
	}
}

// UsingDefaultSecret reports whether the JWT secret was left at the insecure
// development default.
func (c *Config) UsingDefaultSecret() bool {
	return c.Auth.JWTSecret == defaultJWTSecret
}

// DSN is the lib/pq connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password,
		c.Database.Name, c.Database.SSLMode)
}

// BrokerURL is the AMQP connection URL.
func (c *Config) BrokerURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.Broker.User, c.Broker.Password, c.Broker.Host, c.Broker.Port)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return fallback
}
