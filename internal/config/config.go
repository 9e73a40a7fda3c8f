package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "dev-secret"

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Mongo    MongoConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Media    MediaConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	BodyLimitBytes        int
}

// MongoConfig holds the document store connection values.
type MongoConfig struct {
	URI                   string
	Database              string
	ConnectTimeoutSeconds int
}

// PostgresConfig holds DB connection values for the optional credential store.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret           string
	BcryptCost          int
	CookieName          string
	LoginMaxAttempts    int
	LoginLockoutMinutes int
}

// CORSConfig lists the browser origin allowed to send credentials.
type CORSConfig struct {
	AllowedOrigin string
}

// MediaConfig points at the S3-compatible object store used for images.
type MediaConfig struct {
	Endpoint       string
	AccessKey      string
	SecretKey      string
	Bucket         string
	UseSSL         bool
	PublicBaseURL  string
	FolderPrefix   string
	MaxImageWidth  int
	MaxImagePixels int
	MaxUploadBytes int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "club-cms"),
			Env:                   strings.ToLower(firstEnv([]string{"APP_ENV", "NODE_ENV"}, "development")),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  firstEnv([]string{"APP_PORT", "PORT"}, "5001"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			BodyLimitBytes:        getEnvAsInt("HTTP_BODY_LIMIT_BYTES", 12*1024*1024),
		},
		Mongo: MongoConfig{
			URI:                   getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
			Database:              getEnv("MONGO_DB", "club"),
			ConnectTimeoutSeconds: getEnvAsInt("MONGO_CONNECT_TIMEOUT_SECONDS", 10),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:           firstEnv([]string{"AUTH_JWT_SECRET", "JWT_ACCESS_SECRET"}, defaultJWTSecret),
			BcryptCost:          getEnvAsInt("AUTH_BCRYPT_COST", 10),
			CookieName:          getEnv("AUTH_COOKIE_NAME", "token"),
			LoginMaxAttempts:    getEnvAsInt("AUTH_LOGIN_MAX_ATTEMPTS", 5),
			LoginLockoutMinutes: getEnvAsInt("AUTH_LOGIN_LOCKOUT_MINUTES", 15),
		},
		CORS: CORSConfig{
			AllowedOrigin: getEnv("CLIENT_URL", "http://localhost:3000"),
		},
		Media: MediaConfig{
			Endpoint:       os.Getenv("MEDIA_ENDPOINT"),
			AccessKey:      os.Getenv("MEDIA_ACCESS_KEY"),
			SecretKey:      os.Getenv("MEDIA_SECRET_KEY"),
			Bucket:         getEnv("MEDIA_BUCKET", "club-media"),
			UseSSL:         getEnvAsBool("MEDIA_USE_SSL", false),
			PublicBaseURL:  strings.TrimRight(os.Getenv("MEDIA_PUBLIC_BASE_URL"), "/"),
			FolderPrefix:   getEnv("MEDIA_FOLDER_PREFIX", "club"),
			MaxImageWidth:  getEnvAsInt("MEDIA_MAX_IMAGE_WIDTH", 1600),
			MaxImagePixels: getEnvAsInt("MEDIA_MAX_IMAGE_PIXELS", 40_000_000),
			MaxUploadBytes: getEnvAsInt("MEDIA_MAX_UPLOAD_BYTES", 10*1024*1024),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.App.IsProduction() && c.Auth.JWTSecret == defaultJWTSecret {
		return errors.New("AUTH_JWT_SECRET must be set in production")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET must not be empty")
	}
	if c.Auth.CookieName == "" {
		return errors.New("AUTH_COOKIE_NAME must not be empty")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// IsProduction reports whether cookies must carry production security attributes.
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ConnectTimeout returns the Mongo connect/ping timeout.
func (m MongoConfig) ConnectTimeout() time.Duration {
	if m.ConnectTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(m.ConnectTimeoutSeconds) * time.Second
}

// LoginLockout returns the failed-login counting window.
func (a AuthConfig) LoginLockout() time.Duration {
	if a.LoginLockoutMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(a.LoginLockoutMinutes) * time.Minute
}

// Enabled reports whether an object store endpoint is configured.
func (m MediaConfig) Enabled() bool {
	return m.Endpoint != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func firstEnv(keys []string, fallback string) string {
	for _, key := range keys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
