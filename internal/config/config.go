package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Port           string
	DBPath         string
	DataDir        string // Directory holding stop-data CSV files
	DefaultBinMins int    // Bin size used when a scenario does not specify one
	RateLimit      int    // Max requests per client per window
	RateWindow     time.Duration
	JWTSecret      string
	AuthEnabled    bool
}

// Load reads configuration from the environment with sane defaults.
// Recognized variables: PORT, DB_PATH, DATA_DIR, DEFAULT_BIN_SIZE_MINS,
// RATE_LIMIT, RATE_WINDOW_SECS, JWT_SECRET, AUTH_ENABLED.
func Load() *Config {
	v := viper.New()

	v.SetDefault("port", ":8080")
	v.SetDefault("db_path", "./data/occupancy.db")
	v.SetDefault("data_dir", "./data/stopdata")
	v.SetDefault("default_bin_size_mins", 30)
	v.SetDefault("rate_limit", 120)
	v.SetDefault("rate_window_secs", 60)
	v.SetDefault("jwt_secret", "change-me-in-production")
	v.SetDefault("auth_enabled", false)

	v.AutomaticEnv()

	return &Config{
		Port:           v.GetString("port"),
		DBPath:         v.GetString("db_path"),
		DataDir:        v.GetString("data_dir"),
		DefaultBinMins: v.GetInt("default_bin_size_mins"),
		RateLimit:      v.GetInt("rate_limit"),
		RateWindow:     time.Duration(v.GetInt("rate_window_secs")) * time.Second,
		JWTSecret:      v.GetString("jwt_secret"),
		AuthEnabled:    v.GetBool("auth_enabled"),
	}
}
