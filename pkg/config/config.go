package config

import (
	"os"
	"strings"
)

// Config holds the application configuration
type Config struct {
	Mode     string // test, direct, or chroot
	LogLevel string
	DryRun   bool

	// PreferText makes the status fetch use the plain-text report instead
	// of the JSON output, for zpool versions without -j
	PreferText bool

	// Pool filtering
	PoolWhitelist []string // list of pools to show (empty = all pools)

	// Commands
	ZPoolStatusCmd []string // fetches the status report
	ZPoolCmd       []string // base argv for structural commands
}

// NewConfig creates a new configuration with default values for the mode
func NewConfig(mode string) *Config {
	cfg := &Config{
		Mode:          mode,
		LogLevel:      "info",
		PreferText:    getEnvAsBool("ZPOOL_STATUS_TEXT", false),
		PoolWhitelist: getEnvAsStringSlice("POOL_WHITELIST", []string{}),
	}

	switch mode {
	case "test":
		cfg.ZPoolStatusCmd = []string{"cat", "test/zpool_status.json"}
		cfg.ZPoolCmd = []string{"true"}
	case "chroot":
		zpoolBin := []string{"chroot", "/host", "/usr/local/sbin/zpool"}
		cfg.ZPoolCmd = zpoolBin
		cfg.ZPoolStatusCmd = statusArgs(zpoolBin, cfg.PreferText)
	default:
		zpoolBin := []string{"/usr/sbin/zpool"}
		cfg.ZPoolCmd = zpoolBin
		cfg.ZPoolStatusCmd = statusArgs(zpoolBin, cfg.PreferText)
	}

	return cfg
}

func statusArgs(zpoolBin []string, preferText bool) []string {
	args := append(append([]string{}, zpoolBin...), "status")
	if !preferText {
		args = append(args, "-j")
	}
	return args
}

// IsDebug returns true when debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsPoolAllowed checks if a pool is in the whitelist (or if whitelist is
// empty, all pools are allowed)
func (c *Config) IsPoolAllowed(poolName string) bool {
	if len(c.PoolWhitelist) == 0 {
		return true
	}
	for _, allowedPool := range c.PoolWhitelist {
		if allowedPool == poolName {
			return true
		}
	}
	return false
}

// getEnvAsBool reads an environment variable as a boolean,
// or returns the default value if not set
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	switch strings.ToLower(valueStr) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultValue
}

// getEnvAsStringSlice reads an environment variable as a comma-separated list,
// or returns the default value if not set
func getEnvAsStringSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return defaultValue
	}

	return result
}
