package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 8094, cfg.Server.Port)
	assert.Equal(t, "bookish-books", cfg.Elasticsearch.IndexBooks)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 5, cfg.Suggestions.Limit)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "redis", cfg.PubSub.Driver)
	assert.Equal(t, "localhost:6379", cfg.PubSub.Redis.Address)
}

func TestFromViper_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
server:
  port: 9000
cache:
  ttl: 1m
pubsub:
  driver: kafka
  kafka:
    brokers: kafka:9092
`), 0o644))

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("REDIS_ADDRESS", "redis:6379")

	v := viper.New()
	v.SetConfigFile(file)
	require.NoError(t, v.ReadInConfig())

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "kafka", cfg.PubSub.Driver)
	assert.Equal(t, "kafka:9092", cfg.PubSub.Kafka.Brokers)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "redis:6379", cfg.PubSub.Redis.Address)
}
