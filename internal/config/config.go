package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

type Config struct {
	//App
	Env             string // dev / staging / prod
	EnableDevRoutes bool
	//HTTP
	HTTPAddr    string
	CORSOrigins []string
	//Auth / Security
	JWTSecret  string
	JWTIssuer  string
	BcryptCost int

	// Storage
	StoreDriver string
	DBAddr      string
	MongoURI    string
	MongoDB     string

	// Redis (optional; rate limiting falls back to in-process limits)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// RabbitMQ (optional; events are dropped when unset)
	RabbitURL      string
	RabbitExchange string

	// Object storage for profile pictures (optional; in-memory when unset)
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Region          string
	S3Bucket          string
	S3UsePathStyle    bool
	CDNBaseURL        string
	MaxUploadSize     int64

	// Rate limiting on signup/login/password routes
	RateLimitEnabled bool
	RateLimitLimit   int
	RateLimitWindow  time.Duration

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

func Load() (*Config, error) {
	// A missing .env file is fine; real deployments use the process environment.
	_ = godotenv.Load()

	cfg := &Config{
		Env:            getEnv("ENV", "dev"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		JWTIssuer:      getEnv("JWT_ISSUER", "course-feedback"),
		StoreDriver:    getEnv("STORE_DRIVER", StoreMemory),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RabbitURL:      os.Getenv("RABBIT_URL"),
		RabbitExchange: getEnv("RABBIT_EXCHANGE", "course.feedback"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3AccessKeyID:  os.Getenv("S3_ACCESS_KEY_ID"),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3Bucket:       getEnv("S3_BUCKET", "course-feedback"),
		CDNBaseURL:     getEnv("CDN_BASE_URL", "http://localhost:9000/course-feedback"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
	}
	cfg.S3SecretAccessKey = os.Getenv("S3_SECRET_ACCESS_KEY")

	// required values
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required env var: JWT_SECRET")
	}

	var err error
	if cfg.BcryptCost, err = getInt("BCRYPT_COST", 10); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimitLimit, err = getInt("RL_LIMIT", 20); err != nil {
		return nil, err
	}
	if cfg.RateLimitEnabled, err = getBool("RL_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.EnableDevRoutes, err = getBool("ENABLE_DEV_ROUTES", true); err != nil {
		return nil, err
	}
	if cfg.S3UsePathStyle, err = getBool("S3_USE_PATH_STYLE", true); err != nil {
		return nil, err
	}
	maxUpload, err := getInt("MAX_UPLOAD_SIZE", 5*1024*1024)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadSize = int64(maxUpload)

	if cfg.RateLimitWindow, err = getDuration("RL_WINDOW", time.Minute); err != nil {
		return nil, err
	}

	// The selected store decides which connection settings are mandatory.
	switch cfg.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		cfg.DBAddr = os.Getenv("DB_ADDR")
		if cfg.DBAddr == "" {
			return nil, fmt.Errorf("missing required env var: DB_ADDR")
		}
		if err := validatePostgresDSN(cfg.DBAddr); err != nil {
			return nil, err
		}
	case StoreMongo:
		cfg.MongoURI = getEnv("MONGO_URI", "mongodb://localhost:27017")
		cfg.MongoDB = os.Getenv("MONGO_DB")
		if cfg.MongoDB == "" {
			return nil, fmt.Errorf("missing required env var: MONGO_DB")
		}
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q (want memory, postgres or mongo)", cfg.StoreDriver)
	}

	//Timeout values are optional and have a default value if not
	if cfg.HTTPReadTimeout, err = getDuration("HTTP_READ_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPWriteTimeout, err = getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPIdleTimeout, err = getDuration("HTTP_IDLE_TIMEOUT", time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ObjectStorageEnabled reports whether profile pictures go to S3.
func (c *Config) ObjectStorageEnabled() bool {
	return c.S3Endpoint != ""
}

func validatePostgresDSN(dsn string) error {
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return fmt.Errorf("DB_ADDR must be a postgres:// or postgresql:// URL")
	}
	rest := dsn[strings.Index(dsn, "://")+3:]
	slash := strings.Index(rest, "/")
	if slash < 0 || slash == len(rest)-1 {
		return fmt.Errorf("DB_ADDR must include a database name")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %q: %w", key, v, err)
	}
	return i, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid bool for %s: %q: %w", key, v, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
