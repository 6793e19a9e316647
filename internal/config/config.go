package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Redis    RedisConfig
}

type ServerConfig struct {
	Host          string
	Port          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	Environment   string
	AuthRateLimit int
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type AuthConfig struct {
	JWTSecret   string
	TokenIssuer string
	TokenTTL    time.Duration
	BcryptCost  int
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:          getEnv("SERVER_HOST", ""),
			Port:          getEnv("SERVER_PORT", "3001"),
			ReadTimeout:   getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:  getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			Environment:   getEnv("SERVER_ENVIRONMENT", "development"),
			AuthRateLimit: getEnvInt("AUTH_RATE_LIMIT", 10),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Name:         getEnv("DB_NAME", "calidad"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
		},
		Auth: AuthConfig{
			JWTSecret:   getEnv("JWT_SECRET", "fallback-secret"),
			TokenIssuer: getEnv("JWT_ISSUER", "calidad"),
			TokenTTL:    getEnvDuration("JWT_EXPIRES_IN", 24*time.Hour),
			BcryptCost:  getEnvInt("BCRYPT_COST", 12),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      getEnvDuration("CACHE_TTL", 5*time.Minute),
		},
	}
}

// DSN returns the Postgres connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// URL returns the Postgres connection URL used by the migration tooling.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// IsProduction gates debug details in error responses.
func (c ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
