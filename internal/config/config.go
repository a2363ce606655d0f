package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	Log    LogConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Minio  MinioConfig
	Auth   AuthConfig
}

type ServerConfig struct {
	Port string `env:"SERVER_PORT" envDefault:"8080"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

type MongoConfig struct {
	URI                  string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	Database             string `env:"MONGO_DATABASE" envDefault:"repuestos"`
	PartsCollection      string `env:"MONGO_PARTS_COLLECTION" envDefault:"repuestos"`
	CategoriesCollection string `env:"MONGO_CATEGORIES_COLLECTION" envDefault:"categorias"`
	UsersCollection      string `env:"MONGO_USERS_COLLECTION" envDefault:"usuarios"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type MinioConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"MINIO_ACCESS_KEY" envDefault:"minioadmin"`
	SecretKey string `env:"MINIO_SECRET_KEY" envDefault:"minioadmin"`
	UseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	Bucket    string `env:"MINIO_BUCKET" envDefault:"repuestos-images"`
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
}

// Load reads configuration from the environment. In the local environment a
// .env file is loaded first so developers do not export variables by hand.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") == "local" {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("config: load .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, nil
}
