package config

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// Config holds the configuration for the cinelog server and its dependencies.
type Config struct {
	// Listen is the address the cinelog server will listen on.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// LogLevel is the log level for the server (debug, info, warn, error).
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
	// Database holds the database configuration.
	Database *DatabaseConfig `yaml:"database" mapstructure:"database"`
	// TMDB holds the configuration for the external catalog service.
	TMDB *TMDBConfig `yaml:"tmdb" mapstructure:"tmdb"`
	// Sync holds the catalog synchronization configuration.
	Sync *SyncConfig `yaml:"sync" mapstructure:"sync"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	// Path is the path to the sqlite database file.
	Path string `yaml:"path" mapstructure:"path"`
}

// TMDBConfig holds the configuration for the external catalog service.
type TMDBConfig struct {
	// APIKey is the TMDB API key, sent with every request.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	// BaseURL is the base URL of the TMDB API.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// ImageBaseURL is the base URL for poster and backdrop images.
	ImageBaseURL string `yaml:"image_base_url" mapstructure:"image_base_url"`
	// Language is the locale sent with every request.
	Language string `yaml:"language" mapstructure:"language"`
}

// SyncConfig holds the catalog synchronization configuration.
type SyncConfig struct {
	// Interval is the interval in hours between catalog refreshes.
	Interval int `yaml:"interval" mapstructure:"interval"`
	// MoviePages is the number of popular movie pages to import per sync.
	MoviePages int `yaml:"movie_pages" mapstructure:"movie_pages"`
	// TVPages is the number of popular tv pages to import per sync.
	TVPages int `yaml:"tv_pages" mapstructure:"tv_pages"`
	// TopRatedPages is the number of top rated movie pages to import per sync.
	TopRatedPages int `yaml:"top_rated_pages" mapstructure:"top_rated_pages"`
	// NowPlayingPages is the number of now playing movie pages to import per sync.
	NowPlayingPages int `yaml:"now_playing_pages" mapstructure:"now_playing_pages"`
	// IncludeDetails controls whether newly imported titles are enriched with
	// credits and full details.
	IncludeDetails bool `yaml:"include_details" mapstructure:"include_details"`
	// RequestSpacing is the minimum spacing between outbound API calls in milliseconds.
	RequestSpacing int `yaml:"request_spacing" mapstructure:"request_spacing"`
}

// Load reads the configuration from the specified path and returns a Config struct.
// If path is empty, it will use default search paths for config files.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("CINELOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.cinelog")
		v.AddConfigPath("/etc/cinelog")
	}

	if err := v.ReadInConfig(); err != nil {
		// If no config file is found, use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

// setDefaults sets default values for the configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", "0.0.0.0:3030")
	v.SetDefault("log_level", "info")

	v.SetDefault("database.path", "data/cinelog.db")

	// registered so the env override is visible to Unmarshal
	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.base_url", "https://api.themoviedb.org/3")
	v.SetDefault("tmdb.image_base_url", "https://image.tmdb.org/t/p")
	v.SetDefault("tmdb.language", "pt-BR")

	v.SetDefault("sync.interval", 24)
	v.SetDefault("sync.movie_pages", 5)
	v.SetDefault("sync.tv_pages", 5)
	v.SetDefault("sync.top_rated_pages", 2)
	v.SetDefault("sync.now_playing_pages", 1)
	v.SetDefault("sync.include_details", true)
	v.SetDefault("sync.request_spacing", 250)
}

// validateConfig validates the configuration.
func validateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("missing cinelog config")
	}

	if c.Database == nil || c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if c.TMDB == nil {
		return fmt.Errorf("missing tmdb config")
	}
	if c.TMDB.APIKey == "" {
		return fmt.Errorf("tmdb API key is required")
	}
	if c.TMDB.BaseURL == "" {
		return fmt.Errorf("tmdb base URL is required")
	}

	if c.Sync == nil {
		return fmt.Errorf("missing sync config")
	}
	if c.Sync.Interval <= 0 {
		return fmt.Errorf("sync interval must be positive")
	}
	if c.Sync.RequestSpacing < 0 {
		return fmt.Errorf("sync request spacing must not be negative")
	}

	return nil
}
