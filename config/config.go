package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Postgres  PostgresConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Elastic   ElasticsearchConfig
	Scheduler SchedulerConfig
	Business  BusinessConfig
}

type ServerConfig struct {
	AppEnv        string
	HTTPPort      string
	GRPCPort      string
	StorageDriver string
	AutoMigrate   bool
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type JWTConfig struct {
	SecretKey string
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Enabled            bool
	Brokers            []string
	NotificationsTopic string
	PaymentEventsTopic string
	GroupID            string
}

type ElasticsearchConfig struct {
	Enabled   bool
	Addresses []string
	Username  string
	Password  string
}

// SchedulerConfig holds the period of every background job. A zero interval
// disables the job.
type SchedulerConfig struct {
	Enabled             bool
	DeliveryInterval    time.Duration
	BillingInterval     time.Duration
	QuoteExpiryInterval time.Duration
	LowStockInterval    time.Duration
	LockTTL             time.Duration
}

// BusinessConfig replaces the settings that used to be read from a key/value
// table at call time.
type BusinessConfig struct {
	LowStockThreshold int
	QuoteValidity     time.Duration
	RateLimitPerSec   float64
	RateLimitBurst    int
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:        getEnv("APP_ENV", "dev"),
			HTTPPort:      getEnv("HTTP_PORT", ":8080"),
			GRPCPort:      getEnv("GRPC_PORT", ":8082"),
			StorageDriver: getEnv("STORAGE_DRIVER", "postgres"),
			AutoMigrate:   getEnvBool("AUTO_MIGRATE", true),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5432"),
			User:            getEnv("POSTGRES_USER", "chezflora"),
			Password:        getEnv("POSTGRES_PASSWORD", "chezflora"),
			DBName:          getEnv("POSTGRES_DB", "chezflora"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET_KEY", "your-secret-key-change-this-in-prod"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", true),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Enabled:            getEnvBool("KAFKA_ENABLED", true),
			Brokers:            getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			NotificationsTopic: getEnv("KAFKA_TOPIC_NOTIFICATIONS", "notifications.outbound"),
			PaymentEventsTopic: getEnv("KAFKA_TOPIC_PAYMENTS", "payments.events"),
			GroupID:            getEnv("KAFKA_GROUP_PAYMENTS", "chezflora-payments"),
		},
		Elastic: ElasticsearchConfig{
			Enabled:   getEnvBool("ELASTICSEARCH_ENABLED", false),
			Addresses: getEnvSlice("ELASTICSEARCH_ADDRESSES", []string{"http://localhost:9200"}),
			Username:  getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:  getEnv("ELASTICSEARCH_PASSWORD", ""),
		},
		Scheduler: SchedulerConfig{
			Enabled:             getEnvBool("SCHEDULER_ENABLED", true),
			DeliveryInterval:    getEnvDuration("SCHEDULER_DELIVERY_INTERVAL", time.Hour),
			BillingInterval:     getEnvDuration("SCHEDULER_BILLING_INTERVAL", 24*time.Hour),
			QuoteExpiryInterval: getEnvDuration("SCHEDULER_QUOTE_EXPIRY_INTERVAL", time.Hour),
			LowStockInterval:    getEnvDuration("SCHEDULER_LOW_STOCK_INTERVAL", 24*time.Hour),
			LockTTL:             getEnvDuration("SCHEDULER_LOCK_TTL", 10*time.Minute),
		},
		Business: BusinessConfig{
			LowStockThreshold: getEnvInt("LOW_STOCK_THRESHOLD", 5),
			QuoteValidity:     getEnvDuration("QUOTE_VALIDITY", 30*24*time.Hour),
			RateLimitPerSec:   getEnvFloat("RATE_LIMIT_PER_SEC", 20),
			RateLimitBurst:    getEnvInt("RATE_LIMIT_BURST", 40),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("90m", "24h").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return fallback
}
