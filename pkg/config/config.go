package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MustLoad loads the configuration from environment variables and .env file.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load() // Load environment variables from .env file

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and an optional .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load()

	return env.Parse(cfg)
}

// Config holds the configuration for the matching engine.
type Config struct {
	// Pairs lists the markets to register on startup, e.g. "BTC_USD,ETH_USD".
	Pairs []string `env:"PAIRS" envDefault:"BTC_USD"`

	KafkaConfig          `envPrefix:"KAFKA_"`
	MatchPublisherConfig `envPrefix:"MATCH_"`
	RedisConfig          `envPrefix:"REDIS_"`
}

// KafkaConfig holds the configuration for the order intake consumer.
type KafkaConfig struct {
	Topic   string   `env:"TOPIC" envDefault:"orders"`
	Brokers []string `env:"BROKER" envDefault:"localhost:9092"`
}

// MatchPublisherConfig holds the configuration for the match event producer.
type MatchPublisherConfig struct {
	Topic   string   `env:"TOPIC" envDefault:"matches"`
	Brokers []string `env:"BROKER" envDefault:"localhost:9092"`
}

// RedisConfig holds the client settings for the snapshot store.
type RedisConfig struct {
	Addrs    string `env:"ADDRESS" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	Username string `env:"USERNAME" envDefault:""`
	DB       int    `env:"DB" envDefault:"0"`
}
