package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is built once at startup and passed to the components that need it.
type Config struct {
	Env     string
	Port    string
	BaseURL string

	DBDriver string
	DBDSN    string

	JWTSecret         string
	SessionTTL        time.Duration
	SessionCookieName string

	FrontendURL string

	MailAPIKey    string
	MailAPIURL    string
	MailFromEmail string
	MailFromName  string

	RabbitMQURL string

	S3Region        string
	S3Bucket        string
	S3Endpoint      string
	S3PublicBaseURL string

	AuthRateLimitPerMin int
	AuthRateLimitBurst  int

	ResetOTPRequiresAuth     bool
	GenericLoginErrors       bool
	ResetRequiresVerifiedOTP bool

	CleanupSchedule string

	AdminEmail    string
	AdminPassword string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_BASE_URL", "http://localhost:8080")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("SESSION_TTL", "720h")
	v.SetDefault("SESSION_COOKIE_NAME", "token")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("MAIL_API_KEY", "")
	v.SetDefault("MAIL_API_URL", "https://api.brevo.com/v3/smtp/email")
	v.SetDefault("MAIL_FROM_EMAIL", "no-reply@bookvault.local")
	v.SetDefault("MAIL_FROM_NAME", "BookVault")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_PUBLIC_BASE_URL", "")
	v.SetDefault("AUTH_RATE_LIMIT_PER_MIN", 30)
	v.SetDefault("AUTH_RATE_LIMIT_BURST", 5)
	v.SetDefault("RESET_OTP_REQUIRES_AUTH", true)
	v.SetDefault("GENERIC_LOGIN_ERRORS", false)
	v.SetDefault("RESET_REQUIRES_VERIFIED_OTP", true)
	v.SetDefault("CLEANUP_SCHEDULE", "@every 10m")
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD", "")
}

// Load reads a local .env file when present, then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:                      strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		Port:                     strings.TrimPrefix(v.GetString("APP_PORT"), ":"),
		BaseURL:                  strings.TrimRight(v.GetString("APP_BASE_URL"), "/"),
		DBDriver:                 strings.ToLower(v.GetString("DB_DRIVER")),
		DBDSN:                    v.GetString("DATABASE_DSN"),
		JWTSecret:                strings.TrimSpace(v.GetString("JWT_SECRET")),
		SessionTTL:               v.GetDuration("SESSION_TTL"),
		SessionCookieName:        v.GetString("SESSION_COOKIE_NAME"),
		FrontendURL:              strings.TrimRight(v.GetString("FRONTEND_URL"), "/"),
		MailAPIKey:               v.GetString("MAIL_API_KEY"),
		MailAPIURL:               v.GetString("MAIL_API_URL"),
		MailFromEmail:            v.GetString("MAIL_FROM_EMAIL"),
		MailFromName:             v.GetString("MAIL_FROM_NAME"),
		RabbitMQURL:              v.GetString("RABBITMQ_URL"),
		S3Region:                 v.GetString("S3_REGION"),
		S3Bucket:                 v.GetString("S3_BUCKET"),
		S3Endpoint:               v.GetString("S3_ENDPOINT"),
		S3PublicBaseURL:          strings.TrimRight(v.GetString("S3_PUBLIC_BASE_URL"), "/"),
		AuthRateLimitPerMin:      v.GetInt("AUTH_RATE_LIMIT_PER_MIN"),
		AuthRateLimitBurst:       v.GetInt("AUTH_RATE_LIMIT_BURST"),
		ResetOTPRequiresAuth:     v.GetBool("RESET_OTP_REQUIRES_AUTH"),
		GenericLoginErrors:       v.GetBool("GENERIC_LOGIN_ERRORS"),
		ResetRequiresVerifiedOTP: v.GetBool("RESET_REQUIRES_VERIFIED_OTP"),
		CleanupSchedule:          v.GetString("CLEANUP_SCHEDULE"),
		AdminEmail:               v.GetString("ADMIN_EMAIL"),
		AdminPassword:            v.GetString("ADMIN_PASSWORD"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Env)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.DBDriver != "postgres" && c.DBDriver != "sqlite" {
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return errors.New("DATABASE_DSN is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.SessionCookieName == "" {
		return errors.New("SESSION_COOKIE_NAME must not be empty")
	}
	return nil
}

// IsProduction reports whether cookies must be sent with production attributes.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// HTTPAddress returns the address for the HTTP server to bind to.
func (c *Config) HTTPAddress() string {
	return ":" + c.Port
}

// MailEnabled reports whether an outbound mail provider is configured.
func (c *Config) MailEnabled() bool {
	return c.MailAPIKey != ""
}
