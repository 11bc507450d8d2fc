// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

const (
	defaultKeyDirectory      = "~/.capacity_planner/keys"
	defaultConnectionString  = "~/.capacity_planner/data.db"
	defaultMetricsNamespace  = "capacity_planner"
	sqliteDriver             = "sqlite3"
	homeDirectoryPrefix      = "~/"
	homeDirectoryPlaceholder = "~"
)

// Config holds all application configuration.
type Config struct {
	// KeyDirectory holds private.pem and public.pem.
	KeyDirectory string
	// KMSKeyURI seals the private key at rest when set (e.g., "gcpkms://...",
	// "base64key://..."). Empty keeps the private key as plain PKCS#1 PEM.
	KMSKeyURI string

	// DBDriver is the database driver to use ("sqlite3", "postgres" or "mysql").
	DBDriver string
	// DBConnectionString is the connection string for the database. For SQLite it is a
	// file path.
	DBConnectionString string
	// DBMaxOpenConnections is the maximum number of open connections to the database.
	DBMaxOpenConnections int
	// DBMaxIdleConnections is the maximum number of idle connections in the database pool.
	DBMaxIdleConnections int
	// DBConnMaxLifetime is the maximum amount of time a connection may be reused.
	DBConnMaxLifetime time.Duration

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsTextfile is where metrics are written on shutdown. Empty disables writing.
	MetricsTextfile string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	loadDotEnv()

	cfg := &Config{
		// Keys
		KeyDirectory: ExpandHome(env.GetString("KEY_DIRECTORY", defaultKeyDirectory)),
		KMSKeyURI:    env.GetString("KMS_KEY_URI", ""),

		// Database configuration
		DBDriver:             env.GetString("DB_DRIVER", sqliteDriver),
		DBConnectionString:   env.GetString("DB_CONNECTION_STRING", defaultConnectionString),
		DBMaxOpenConnections: env.GetInt("DB_MAX_OPEN_CONNECTIONS", 1),
		DBMaxIdleConnections: env.GetInt("DB_MAX_IDLE_CONNECTIONS", 1),
		DBConnMaxLifetime:    env.GetDuration("DB_CONN_MAX_LIFETIME", 5, time.Minute),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", false),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", defaultMetricsNamespace),
		MetricsTextfile:  ExpandHome(env.GetString("METRICS_TEXTFILE", "")),
	}

	if cfg.DBDriver == sqliteDriver {
		cfg.DBConnectionString = ExpandHome(cfg.DBConnectionString)
	}
	return cfg
}

// ExpandHome replaces a leading "~" with the current user's home directory. Paths are
// returned unchanged when the home directory cannot be determined.
func ExpandHome(path string) string {
	if path != homeDirectoryPlaceholder && !strings.HasPrefix(path, homeDirectoryPrefix) {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == homeDirectoryPlaceholder {
		return home
	}
	return filepath.Join(home, path[len(homeDirectoryPrefix):])
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
