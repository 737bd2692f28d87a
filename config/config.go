// Package config loads coordinator configuration from environment variables,
// optionally overlaid with an on-disk TOML file.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the coordinator's runtime configuration.
type Config struct {
	// Server settings
	AdminPort    int
	WireAddr     string

	// Storage
	SnapshotDir string
	AuditDSN    string

	// Timing
	HeartbeatInterval time.Duration
	NodeTimeout       time.Duration
	WorkerPoolSize    int

	// Logging
	LogLevel string
}

// Default returns the configuration built from environment variables, using
// a built-in default for each variable that is unset. It reads no config file.
func Default() *Config {
	return &Config{
		AdminPort:         getEnvInt("KORRA_ADMIN_PORT", 8080),
		WireAddr:          getEnv("KORRA_WIRE_ADDR", ":9090"),
		SnapshotDir:       getEnv("KORRA_SNAPSHOT_DIR", "snapshots"),
		AuditDSN:          getEnv("KORRA_AUDIT_DSN", "file:korra_audit.db?cache=shared&mode=rwc"),
		HeartbeatInterval: time.Duration(getEnvInt("KORRA_HEARTBEAT_MS", 10000)) * time.Millisecond,
		NodeTimeout:       time.Duration(getEnvInt("KORRA_NODE_TIMEOUT_MS", 30000)) * time.Millisecond,
		WorkerPoolSize:    getEnvInt("KORRA_WORKER_POOL_SIZE", 10),
		LogLevel:          getEnv("KORRA_LOG_LEVEL", "info"),
	}
}

// fileOverlay mirrors the fields a TOML config file may set. Fields left
// undefined in the file do not override the environment-derived defaults.
type fileOverlay struct {
	AdminPort         *int    `toml:"admin_port"`
	WireAddr          *string `toml:"wire_addr"`
	SnapshotDir       *string `toml:"snapshot_dir"`
	AuditDSN          *string `toml:"audit_dsn"`
	HeartbeatMS       *int    `toml:"heartbeat_ms"`
	NodeTimeoutMS     *int    `toml:"node_timeout_ms"`
	WorkerPoolSize    *int    `toml:"worker_pool_size"`
	LogLevel          *string `toml:"log_level"`
}

// Load builds a Config from environment defaults, then overlays values from
// path if it is non-empty and the file exists. Environment variables that
// were explicitly set still win over the file, matching the layering an
// operator expects: file supplies a baseline, environment supplies overrides
// at deploy time.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	var overlay fileOverlay
	meta, err := toml.DecodeFile(path, &overlay)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if meta.IsDefined("admin_port") && !envSet("KORRA_ADMIN_PORT") {
		cfg.AdminPort = *overlay.AdminPort
	}
	if meta.IsDefined("wire_addr") && !envSet("KORRA_WIRE_ADDR") {
		cfg.WireAddr = *overlay.WireAddr
	}
	if meta.IsDefined("snapshot_dir") && !envSet("KORRA_SNAPSHOT_DIR") {
		cfg.SnapshotDir = *overlay.SnapshotDir
	}
	if meta.IsDefined("audit_dsn") && !envSet("KORRA_AUDIT_DSN") {
		cfg.AuditDSN = *overlay.AuditDSN
	}
	if meta.IsDefined("heartbeat_ms") && !envSet("KORRA_HEARTBEAT_MS") {
		cfg.HeartbeatInterval = time.Duration(*overlay.HeartbeatMS) * time.Millisecond
	}
	if meta.IsDefined("node_timeout_ms") && !envSet("KORRA_NODE_TIMEOUT_MS") {
		cfg.NodeTimeout = time.Duration(*overlay.NodeTimeoutMS) * time.Millisecond
	}
	if meta.IsDefined("worker_pool_size") && !envSet("KORRA_WORKER_POOL_SIZE") {
		cfg.WorkerPoolSize = *overlay.WorkerPoolSize
	}
	if meta.IsDefined("log_level") && !envSet("KORRA_LOG_LEVEL") {
		cfg.LogLevel = *overlay.LogLevel
	}
	return cfg, nil
}

func envSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
