package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

const (
	EnvVarsPrefix = "/notesapi/prod/"

	AuthModeLocal = "local"
	AuthModeJWKS  = "jwks"

	minSecretLength = 32
)

type Config struct {
	Environment string
	HTTPAddr    string
	DBPath      string
	LogLevel    string

	AuthMode  string
	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration
	JWKSURL   string

	NodeID          int64
	BodyLimit       string
	RateLimitRPS    float64
	RateLimitBurst  int
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

// Load reads the environment into a Config. In production the variables are
// first pulled from AWS SSM Parameter Store, otherwise from an optional .env.
func Load(ctx context.Context) (*Config, error) {
	if os.Getenv("GO_ENV") == "production" {
		if err := loadProdEnv(ctx); err != nil {
			return nil, err
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the Config from the current process environment.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Environment:    getEnv("GO_ENV", "development"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":7070"),
		DBPath:         getEnv("DB_PATH", "database.db"),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", "info")),
		AuthMode:       strings.ToLower(getEnv("AUTH_MODE", AuthModeLocal)),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTIssuer:      getEnv("JWT_ISSUER", "notesapi"),
		JWKSURL:        os.Getenv("JWKS_URL"),
		BodyLimit:      getEnv("BODY_LIMIT", "1M"),
		RateLimitBurst: 40,
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
	}

	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.NodeID, err = getInt64("NODE_ID", 1); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = getFloat("RATE_LIMIT_RPS", 20); err != nil {
		return nil, err
	}

	burst, err := getInt64("RATE_LIMIT_BURST", int64(cfg.RateLimitBurst))
	if err != nil {
		return nil, err
	}
	cfg.RateLimitBurst = int(burst)

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.AuthMode {
	case AuthModeLocal:
		if len(c.JWTSecret) < minSecretLength {
			return fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength)
		}
	case AuthModeJWKS:
		if c.JWKSURL == "" {
			return errors.New("JWKS_URL is required when AUTH_MODE=jwks")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be %q or %q, got %q", AuthModeLocal, AuthModeJWKS, c.AuthMode)
	}

	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.NodeID < 0 || c.NodeID > 1023 {
		return errors.New("NODE_ID must be in range [0 - 1023]")
	}
	if c.RateLimitRPS < 0 {
		return errors.New("RATE_LIMIT_RPS cannot be negative")
	}
	if _, ok := logLevels[c.LogLevel]; !ok {
		return fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error, off", c.LogLevel)
	}
	return nil
}

var logLevels = map[string]log.Lvl{
	"debug": log.DEBUG,
	"info":  log.INFO,
	"warn":  log.WARN,
	"error": log.ERROR,
	"off":   log.OFF,
}

// GommonLevel maps LOG_LEVEL to the gommon logger level.
func (c *Config) GommonLevel() log.Lvl {
	if lvl, ok := logLevels[c.LogLevel]; ok {
		return lvl
	}
	return log.INFO
}

func loadProdEnv(ctx context.Context) error {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := ssm.NewFromConfig(cfg)
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(EnvVarsPrefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})

	loaded := 0
	prefixLength := len(EnvVarsPrefix)
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("unable to load prod environment: %w", err)
		}

		// Export vars
		for _, param := range out.Parameters {
			key := aws.ToString(param.Name)[prefixLength:]
			if err := os.Setenv(key, aws.ToString(param.Value)); err != nil {
				return fmt.Errorf("unable to set environment variable %s: %w", key, err)
			}
			loaded++
		}
	}

	log.Debugf("loaded %d prod environment variables", loaded)
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && strings.TrimSpace(val) != "" {
		return strings.TrimSpace(val)
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt64(key string, fallback int64) (int64, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}

	i, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return i, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
