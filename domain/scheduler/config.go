package scheduler

import (
	"os"
	"strconv"
	"time"
)

// Config holds scheduler configuration
type Config struct {
	// Enabled controls whether the scheduler runs
	Enabled bool

	// DiffCachePruneInterval is the interval for pruning stale diff reports
	DiffCachePruneInterval time.Duration

	// AuditPruneInterval is the interval for pruning old audit entries
	AuditPruneInterval time.Duration

	// Cron schedule overrides (take precedence over intervals when set)
	// Standard cron format: "minute hour day-of-month month day-of-week"
	// Examples: "*/5 * * * *" (every 5 min), "0 2 * * *" (daily at 2am)
	DiffCachePruneSchedule string
	AuditPruneSchedule     string
}

// NewConfig creates a new Config from environment variables
func NewConfig() *Config {
	return &Config{
		Enabled:                getEnvBool("SCHEDULER_ENABLED", true),
		DiffCachePruneInterval: getEnvDuration("DIFF_CACHE_PRUNE_INTERVAL_MS", time.Hour),
		AuditPruneInterval:     getEnvDuration("AUDIT_PRUNE_INTERVAL_MS", 6*time.Hour),
		// Cron schedule overrides (empty string means use interval)
		DiffCachePruneSchedule: getEnvString("DIFF_CACHE_PRUNE_SCHEDULE", ""),
		AuditPruneSchedule:     getEnvString("AUDIT_PRUNE_SCHEDULE", ""),
	}
}

// getEnvBool returns a boolean from an environment variable
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

// getEnvDuration returns a duration from an environment variable (in milliseconds)
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if ms, err := strconv.Atoi(val); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultVal
}

// getEnvString returns a string from an environment variable
func getEnvString(key string, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
