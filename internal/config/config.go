// Package config loads CLI configuration from ~/.config/desk/config.yaml and
// DESK_* environment variables, with sensible defaults for every knob.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// DataDir holds the local cache (SQLite snapshot + sort preferences).
	DataDir string

	// RemoteURL is the backend base URL. Empty means local-only mode.
	RemoteURL string
	Token     string

	MoveDebounce  time.Duration
	CacheDebounce time.Duration

	MaxUploadBytes int64
}

func Init(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		viper.AddConfigPath(filepath.Join(home, ".config", "desk"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("DESK")

	home, _ := os.UserHomeDir()
	viper.SetDefault("data_dir", filepath.Join(home, ".local", "share", "desk"))
	viper.SetDefault("remote_url", "")
	viper.SetDefault("token", "")
	viper.SetDefault("move_debounce_ms", 500)
	viper.SetDefault("cache_debounce_ms", 1000)
	viper.SetDefault("max_upload_mb", 32)

	// A missing config file is fine; defaults and env cover everything.
	_ = viper.ReadInConfig()
}

func Load() Config {
	return Config{
		DataDir:        viper.GetString("data_dir"),
		RemoteURL:      viper.GetString("remote_url"),
		Token:          viper.GetString("token"),
		MoveDebounce:   time.Duration(viper.GetInt("move_debounce_ms")) * time.Millisecond,
		CacheDebounce:  time.Duration(viper.GetInt("cache_debounce_ms")) * time.Millisecond,
		MaxUploadBytes: viper.GetInt64("max_upload_mb") << 20,
	}
}
