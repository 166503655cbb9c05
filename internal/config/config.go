package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server Server
	Store  Store
	Redis  Redis
	Kafka  Kafka
	Auth   Auth
}

type Server struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Store selects the persistence driver. "file" keeps the collections as JSON
// files under DataDir; "sqlite" puts them in an embedded database.
type Store struct {
	Driver     string
	DataDir    string
	SQLitePath string
}

// Redis is only consulted when LockDriver is "redis"; the default event lock
// is in-process.
type Redis struct {
	Addr       string
	LockDriver string
	LockTTL    time.Duration
}

type Kafka struct {
	Brokers  []string
	Topic    string
	Enabled  bool
	MockMode bool
}

type Auth struct {
	JWTSecret string
}

func Load() *Config {
	return &Config{
		Server: Server{
			Port:         getEnv("PORT", ":8080"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Store: Store{
			Driver:     getEnv("STORE_DRIVER", "file"),
			DataDir:    getEnv("DATA_DIR", "data"),
			SQLitePath: getEnv("SQLITE_PATH", "data/booking.db"),
		},
		Redis: Redis{
			Addr:       getEnv("REDIS_ADDR", "localhost:6379"),
			LockDriver: getEnv("LOCK_DRIVER", "local"),
			LockTTL:    time.Duration(getEnvInt("EVENT_LOCK_TTL_SECONDS", 30)) * time.Second,
		},
		Kafka: Kafka{
			Brokers:  []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:    getEnv("KAFKA_TOPIC_BOOKINGS", "booking-events"),
			Enabled:  getEnvBool("KAFKA_ENABLED", false),
			MockMode: getEnvBool("KAFKA_MOCK_MODE", false),
		},
		Auth: Auth{
			JWTSecret: getEnv("JWT_SECRET", "your-super-secret-key-change-me"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
