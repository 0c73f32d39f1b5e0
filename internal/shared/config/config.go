package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	EventStore EventStoreConfig
	Auth       AuthConfig
	HIS        HISConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// EventStoreConfig holds configuration for EventStoreDB, which backs the
// domain event bus and the append-only prediction log.
type EventStoreConfig struct {
	Host     string
	Port     int
	Insecure bool
	Username string
	Password string
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTLHours int
}

// HISConfig holds configuration for the legacy Hospital Information System
// importer (SQL Server).
type HISConfig struct {
	Enabled          bool
	Host             string
	Port             int
	User             string
	Password         string
	Database         string
	Encrypt          bool
	PollIntervalSecs int
	DischargeTable   string
}

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port: getEnvInt("SERVER_PORT", 8080),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "nursle"),
			Password: getEnv("DB_PASSWORD", "nursle"),
			Database: getEnv("DB_NAME", "nursle"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		EventStore: EventStoreConfig{
			Host:     getEnv("EVENTSTORE_HOST", "localhost"),
			Port:     getEnvInt("EVENTSTORE_PORT", 2113),
			Insecure: getEnvBool("EVENTSTORE_INSECURE", true),
			Username: getEnv("EVENTSTORE_USERNAME", ""),
			Password: getEnv("EVENTSTORE_PASSWORD", ""),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-in-prod"),
			TokenTTLHours: getEnvInt("JWT_TTL_HOURS", 8),
		},
		HIS: HISConfig{
			Enabled:          getEnvBool("HIS_ENABLED", false),
			Host:             getEnv("HIS_HOST", "localhost"),
			Port:             getEnvInt("HIS_PORT", 1433),
			User:             getEnv("HIS_USER", ""),
			Password:         getEnv("HIS_PASSWORD", ""),
			Database:         getEnv("HIS_DATABASE", "hospital"),
			Encrypt:          getEnvBool("HIS_ENCRYPT", false),
			PollIntervalSecs: getEnvInt("HIS_POLL_INTERVAL_SECS", 300),
			DischargeTable:   getEnv("HIS_DISCHARGE_TABLE", "dbo.Discharges"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
