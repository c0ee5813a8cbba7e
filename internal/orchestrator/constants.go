package orchestrator

import (
	"os"
	"strconv"
	"time"
)

// Timeout and retry defaults, overridable through the environment.
var (
	// DefaultRunTimeout bounds one full release run.
	DefaultRunTimeout = getTimeoutOrDefault("VERSYNC_RUN_TIMEOUT", 10*time.Minute)
	// DefaultRetryCount is the number of retries for GitHub release publishing.
	DefaultRetryCount = uint64(getIntOrDefault("VERSYNC_RETRY_COUNT", 3))
	// DefaultRetryDelay is the initial delay for exponential backoff.
	DefaultRetryDelay = getTimeoutOrDefault("VERSYNC_RETRY_DELAY", 1*time.Second)
)

func getTimeoutOrDefault(envVar string, fallback time.Duration) time.Duration {
	if env := os.Getenv(envVar); env != "" {
		if duration, err := time.ParseDuration(env); err == nil {
			return duration
		}
	}
	return fallback
}

func getIntOrDefault(envVar string, fallback int) int {
	if env := os.Getenv(envVar); env != "" {
		if count, err := strconv.Atoi(env); err == nil {
			return count
		}
	}
	return fallback
}
