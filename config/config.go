package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Supabase SupabaseConfig
	Cache    CacheConfig
	LogLevel string
}

type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SupabaseConfig struct {
	URL           string
	AnonKey       string
	JWTSecret     string
	JWKSURL       string
	StorageBucket string
}

type CacheConfig struct {
	StatsTTL       time.Duration
	IdempotencyTTL time.Duration
}

var AppConfig *Config

// LoadConfig reads the process environment, loading .env first when it exists.
func LoadConfig() *Config {
	_ = godotenv.Load(".env")

	AppConfig = &Config{
		Server:   GetServerConfig(),
		Database: GetDatabaseConfig(),
		Redis:    GetRedisConfig(),
		Supabase: GetSupabaseConfig(),
		Cache:    GetCacheConfig(),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     getEnv("TEST_DB_HOST", "localhost"),
		Port:     getEnv("TEST_DB_PORT", "5433"),
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	testRedisConfig := RedisConfig{
		Host:     getEnv("TEST_REDIS_HOST", "localhost"),
		Port:     getEnv("TEST_REDIS_PORT", "6380"),
		Password: "",
		DB:       1,
	}

	return &Config{
		Server: ServerConfig{
			Port:           "0",
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   5 * time.Second,
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Database: *testConfig,
		Redis:    testRedisConfig,
		Supabase: SupabaseConfig{
			URL:           "http://localhost:54321",
			AnonKey:       "test-anon-key",
			JWTSecret:     "test-jwt-secret",
			StorageBucket: "event-images",
		},
		Cache: CacheConfig{
			StatsTTL:       time.Minute,
			IdempotencyTTL: time.Hour,
		},
		LogLevel: "debug",
	}
}

func GetServerConfig() ServerConfig {
	return ServerConfig{
		Port:           getEnv("SERVER_PORT", "8080"),
		ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() RedisConfig {
	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvAsInt("REDIS_DB", 0),
	}
}

func GetSupabaseConfig() SupabaseConfig {
	return SupabaseConfig{
		URL:           getEnv("SUPABASE_URL", "http://localhost:54321"),
		AnonKey:       getEnv("SUPABASE_ANON_KEY", ""),
		JWTSecret:     getEnv("SUPABASE_JWT_SECRET", ""),
		JWKSURL:       getEnv("SUPABASE_JWKS_URL", ""),
		StorageBucket: getEnv("STORAGE_BUCKET", "event-images"),
	}
}

func GetCacheConfig() CacheConfig {
	return CacheConfig{
		StatsTTL:       getEnvAsDuration("STATS_CACHE_TTL", 5*time.Minute),
		IdempotencyTTL: getEnvAsDuration("IDEMPOTENCY_TTL", 24*time.Hour),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvAsSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
