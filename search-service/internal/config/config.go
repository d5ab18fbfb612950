package config

import (
	"time"

	"github.com/spf13/viper"

	pkgconfig "github.com/GrandEmpereur/Bookish-sub000/pkg/config"
	"github.com/GrandEmpereur/Bookish-sub000/pkg/database"
	"github.com/GrandEmpereur/Bookish-sub000/pkg/pubsub"
)

type Config struct {
	Server        ServerConfig
	Elasticsearch ElasticsearchConfig
	Redis         RedisConfig
	Cache         CacheConfig
	Suggestions   SuggestionsConfig
	Database      database.Config
	PubSub        pubsub.Config `mapstructure:"pubsub"`
	JWT           JWTConfig
	Log           LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type ElasticsearchConfig struct {
	Addresses      []string `mapstructure:"addresses"`
	IndexUsers     string   `mapstructure:"index_users"`
	IndexBooks     string   `mapstructure:"index_books"`
	IndexClubs     string   `mapstructure:"index_clubs"`
	IndexBookLists string   `mapstructure:"index_book_lists"`
	IndexAuthors   string   `mapstructure:"index_authors"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	Prefix string        `mapstructure:"prefix"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type SuggestionsConfig struct {
	Key   string `mapstructure:"key"`
	Limit int    `mapstructure:"limit"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type LogConfig struct {
	Level string
}

// Load reads ./config/config.yaml, the environment and defaults.
func Load() (*Config, *viper.Viper, error) {
	v, err := pkgconfig.Load("./config", "config")
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
	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8094)
	v.SetDefault("elasticsearch.addresses", []string{"http://localhost:9200"})
	v.SetDefault("elasticsearch.index_users", "bookish-users")
	v.SetDefault("elasticsearch.index_books", "bookish-books")
	v.SetDefault("elasticsearch.index_clubs", "bookish-clubs")
	v.SetDefault("elasticsearch.index_book_lists", "bookish-book-lists")
	v.SetDefault("elasticsearch.index_authors", "bookish-authors")
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.prefix", "search")
	v.SetDefault("cache.ttl", "30s")
	v.SetDefault("suggestions.key", "search:popular")
	v.SetDefault("suggestions.limit", 5)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.file_path", "bookish-search.db")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("pubsub.driver", "redis")
	v.SetDefault("pubsub.kafka.brokers", "localhost:9092")
	v.SetDefault("pubsub.kafka.group_id", "search-service")
	v.SetDefault("pubsub.kafka.partitions", 4)
	v.SetDefault("jwt.issuer", "bookish")
	v.SetDefault("log.level", "info")

	// Bind environment variables
	v.BindEnv("server.port", "PORT")
	v.BindEnv("elasticsearch.addresses", "ES_ADDRESSES")
	v.BindEnv("elasticsearch.index_users", "ES_INDEX_USERS")
	v.BindEnv("elasticsearch.index_books", "ES_INDEX_BOOKS")
	v.BindEnv("elasticsearch.index_clubs", "ES_INDEX_CLUBS")
	v.BindEnv("elasticsearch.index_book_lists", "ES_INDEX_BOOK_LISTS")
	v.BindEnv("elasticsearch.index_authors", "ES_INDEX_AUTHORS")
	v.BindEnv("redis.address", "REDIS_ADDRESS")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("database.driver", "DB_DRIVER")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.dbname", "DB_NAME")
	v.BindEnv("database.file_path", "DB_FILE_PATH")
	v.BindEnv("pubsub.driver", "PUBSUB_DRIVER")
	v.BindEnv("pubsub.kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("jwt.secret", "JWT_SECRET")
	v.BindEnv("log.level", "LOG_LEVEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// The redis bus shares the cache server unless configured.
	if cfg.PubSub.Redis.Address == "" {
		cfg.PubSub.Redis.Address = cfg.Redis.Address
		cfg.PubSub.Redis.Password = cfg.Redis.Password
		cfg.PubSub.Redis.DB = cfg.Redis.DB
	}

	return &cfg, nil
}
