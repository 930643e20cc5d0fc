package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Gemini   GeminiConfig
	Matching MatchingConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Qdrant   QdrantConfig
	Storage  StorageConfig
	Worker   WorkerConfig
}

type ServerConfig struct {
	Port          string
	Env           string
	PublicBaseURL string
}

type LogConfig struct {
	Level  string
	Format string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type GeminiConfig struct {
	APIKey      string
	Model       string
	EmbedModel  string
	MaxAttempts int
}

type MatchingConfig struct {
	ItemTimeout time.Duration
}

// AuthConfig selects the identity provider. Provider is "firebase" or "local";
// when empty it resolves to firebase if service-account fields are present.
type AuthConfig struct {
	Provider              string
	FirebaseProjectID     string
	FirebaseClientEmail   string
	FirebasePrivateKey    string
	JWTSecret             string
	JWTExpirationHours    int
	VerificationLinkHours int
}

type RedisConfig struct {
	URL        string
	AICacheTTL time.Duration
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type StorageConfig struct {
	Driver      string
	UploadPath  string
	MaxFileSize int64
	Minio       MinioConfig
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type WorkerConfig struct {
	Concurrency  int
	PollInterval time.Duration
	StaleAfter   time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found. Using default values.")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", "3000"),
			Env:           getEnv("ENV", "development"),
			PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "pretty"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "careerlink"),
		},
		Gemini: GeminiConfig{
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			Model:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			EmbedModel:  getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
			MaxAttempts: getEnvAsInt("GEMINI_MAX_ATTEMPTS", 1),
		},
		Matching: MatchingConfig{
			ItemTimeout: getEnvAsDuration("MATCH_ITEM_TIMEOUT", "30s"),
		},
		Auth: AuthConfig{
			Provider:              strings.ToLower(getEnv("AUTH_PROVIDER", "")),
			FirebaseProjectID:     getEnv("FIREBASE_PROJECT_ID", ""),
			FirebaseClientEmail:   getEnv("FIREBASE_CLIENT_EMAIL", ""),
			FirebasePrivateKey:    strings.ReplaceAll(getEnv("FIREBASE_PRIVATE_KEY", ""), `\n`, "\n"),
			JWTSecret:             getEnv("JWT_SECRET", ""),
			JWTExpirationHours:    getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
			VerificationLinkHours: getEnvAsInt("VERIFICATION_LINK_HOURS", 24),
		},
		Redis: RedisConfig{
			URL:        getEnv("REDIS_URL", ""),
			AICacheTTL: getEnvAsDuration("AI_CACHE_TTL", "24h"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "careerlink_docs"),
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 7*1024*1024),
			Minio: MinioConfig{
				Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
				AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
				SecretKey: getEnv("MINIO_SECRET_KEY", ""),
				Bucket:    getEnv("MINIO_BUCKET", "resumes"),
				UseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
			},
		},
		Worker: WorkerConfig{
			Concurrency:  getEnvAsInt("WORKER_CONCURRENCY", 3),
			PollInterval: getEnvAsDuration("WORKER_POLL_INTERVAL", "10s"),
			StaleAfter:   getEnvAsDuration("WORKER_STALE_AFTER", "10m"),
		},
	}

	if cfg.Auth.Provider == "" {
		cfg.Auth.Provider = "local"
		if cfg.Auth.HasFirebaseCredentials() {
			cfg.Auth.Provider = "firebase"
		}
	}

	return cfg
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func (a AuthConfig) HasFirebaseCredentials() bool {
	return a.FirebaseProjectID != "" && a.FirebaseClientEmail != "" && a.FirebasePrivateKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
