package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	pkgconfig "github.com/GrandEmpereur/Bookish-sub000/pkg/config"
)

type Config struct {
	API     APIConfig
	Search  SearchConfig
	History HistoryConfig
	Log     LogConfig
}

type APIConfig struct {
	URL     string        `mapstructure:"url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SearchConfig struct {
	Category       string        `mapstructure:"category"`
	Debounce       time.Duration `mapstructure:"debounce"`
	Limit          int           `mapstructure:"limit"`
	MinQueryLength int           `mapstructure:"min_query_length"`
}

type HistoryConfig struct {
	// Dir holds the persisted recent searches.
	Dir string `mapstructure:"dir"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Load reads file (or ./config/search-cli.yaml when empty), the
// environment and defaults.
func Load(file string) (*Config, *viper.Viper, error) {
	v, err := pkgconfig.LoadFile(file, "search-cli")
	if err != nil {
		return nil, nil, err
	}
	cfg, err := FromViper(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

// FromViper applies defaults and env bindings to v and decodes it.
func FromViper(v *viper.Viper) (*Config, error) {
	dataDir := defaultDataDir()

	// Set defaults
	v.SetDefault("api.url", "http://localhost:8094")
	v.SetDefault("api.timeout", "15s")
	v.SetDefault("search.category", "all")
	v.SetDefault("search.debounce", "500ms")
	v.SetDefault("search.limit", 20)
	v.SetDefault("search.min_query_length", 1)
	v.SetDefault("history.dir", dataDir)
	v.SetDefault("log.level", "info")

	// Bind environment variables
	v.BindEnv("api.url", "BOOKISH_API_URL")
	v.BindEnv("api.token", "BOOKISH_TOKEN")
	v.BindEnv("search.category", "BOOKISH_SEARCH_CATEGORY")
	v.BindEnv("history.dir", "BOOKISH_DATA_DIR")
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.file", "BOOKISH_LOG_FILE")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// The UI owns the terminal, so logs always go to a file.
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(cfg.History.Dir, "search-cli.log")
	}
	return &cfg, nil
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "bookish")
	}
	return ".bookish"
}
