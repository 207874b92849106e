package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"task-service/pkg/logger"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envLogLevel              = "LOG_LEVEL"
	envDBHost                = "DB_HOST"
	envDBPort                = "DB_PORT"
	envDBName                = "DB_NAME"
	envDBUser                = "DB_USER"
	envDBPassword            = "DB_PASSWORD"
	envDBSSLMode             = "DB_SSL_MODE"
	envDBMaxConns            = "DB_MAX_CONNS"
	envDBMinConns            = "DB_MIN_CONNS"
	envJWTSecret             = "JWT_SECRET"
	envJWTExpiry             = "JWT_EXPIRY_MINUTES"
	envJWTKeyID              = "JWT_KID"
	envJWTCookieName         = "JWT_COOKIE_NAME"
	envJWTCookieSecure       = "JWT_COOKIE_SECURE"
	envAdminUsername         = "ADMIN_USERNAME"
	envAdminEmail            = "ADMIN_EMAIL"
	envAdminPassword         = "ADMIN_PASSWORD"
	envAuthRateLimitRPS      = "AUTH_RATE_LIMIT_RPS"
	envAuthRateLimitBurst    = "AUTH_RATE_LIMIT_BURST"
	envGlobalRateLimitRPS    = "GLOBAL_RATE_LIMIT_RPS"
	envGlobalRateLimitBurst  = "GLOBAL_RATE_LIMIT_BURST"
	envBcryptCost            = "BCRYPT_COST"
)

const (
	defaultServerPort           = "8080"
	defaultServerReadTimeout    = 10 * time.Second
	defaultServerWriteTimeout   = 10 * time.Second
	defaultServerShutdown       = 10 * time.Second
	defaultLogLevel             = "info"
	defaultDBHost               = "localhost"
	defaultDBPort               = 5432
	defaultDBName               = "taskservice"
	defaultDBUser               = "taskservice_app"
	defaultDBSSLMode            = "disable"
	defaultDBMaxConns           = 25
	defaultDBMinConns           = 5
	defaultJWTExpiry            = 24 * time.Hour
	defaultJWTCookieName        = "jwt"
	defaultAdminUsername        = "admin"
	defaultAdminEmail           = "admin@example.com"
	defaultAuthRateLimitRPS     = 5
	defaultAuthRateLimitBurst   = 10
	defaultGlobalRateLimitRPS   = 100
	defaultGlobalRateLimitBurst = 200
	defaultBcryptCost           = 12
	errPortRequiredFmt          = "PORT must be set"
	errDBPasswordRequiredFmt    = "DB_PASSWORD must be set"
	errDBConnsFmt               = "DB_MIN_CONNS (%d) must not exceed DB_MAX_CONNS (%d)"
	errJWTExpiryFmt             = "JWT_EXPIRY_MINUTES must be positive, got %s"
	errJWTCookieNameRequiredFmt = "JWT_COOKIE_NAME must not be empty"
	errAdminUsernameRequiredFmt = "ADMIN_USERNAME must be set when ADMIN_PASSWORD is set"
	errRateLimitFmt             = "%s must be positive"
	errInvalidConfigurationFmt  = "invalid configuration: %w"
	errLogLevelFmt              = "LOG_LEVEL: %w"
	errRequiredEnvNotSetFmt     = "required environment variable %s is not set"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Admin     AdminConfig
	RateLimit RateLimitConfig
	Security  SecurityConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

// JWTConfig carries the raw signing secret. Strength is judged by the
// signing key loader, which substitutes a generated key for a weak one.
type JWTConfig struct {
	Secret         string
	KeyID          string
	ExpiryDuration time.Duration
	CookieName     string
	CookieSecure   bool
}

// AdminConfig describes the super-admin account seeded at startup.
// Seeding is skipped when Password is empty.
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

type RateLimitConfig struct {
	AuthRPS     float64
	AuthBurst   int
	GlobalRPS   float64
	GlobalBurst int
}

type SecurityConfig struct {
	BcryptCost int
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
			LogLevel:        getEnv(envLogLevel, defaultLogLevel),
		},
		Database: DatabaseConfig{
			Host:     getEnv(envDBHost, defaultDBHost),
			Port:     getIntEnv(envDBPort, defaultDBPort),
			Database: getEnv(envDBName, defaultDBName),
			User:     getEnv(envDBUser, defaultDBUser),
			Password: requireEnv(envDBPassword),
			SSLMode:  getEnv(envDBSSLMode, defaultDBSSLMode),
			MaxConns: getIntEnv(envDBMaxConns, defaultDBMaxConns),
			MinConns: getIntEnv(envDBMinConns, defaultDBMinConns),
		},
		JWT: JWTConfig{
			Secret:         os.Getenv(envJWTSecret),
			KeyID:          os.Getenv(envJWTKeyID),
			ExpiryDuration: getDurationEnv(envJWTExpiry, defaultJWTExpiry),
			CookieName:     getEnv(envJWTCookieName, defaultJWTCookieName),
			CookieSecure:   getBoolEnv(envJWTCookieSecure, false),
		},
		Admin: AdminConfig{
			Username: getEnv(envAdminUsername, defaultAdminUsername),
			Email:    getEnv(envAdminEmail, defaultAdminEmail),
			Password: os.Getenv(envAdminPassword),
		},
		RateLimit: RateLimitConfig{
			AuthRPS:     getFloatEnv(envAuthRateLimitRPS, defaultAuthRateLimitRPS),
			AuthBurst:   getIntEnv(envAuthRateLimitBurst, defaultAuthRateLimitBurst),
			GlobalRPS:   getFloatEnv(envGlobalRateLimitRPS, defaultGlobalRateLimitRPS),
			GlobalBurst: getIntEnv(envGlobalRateLimitBurst, defaultGlobalRateLimitBurst),
		},
		Security: SecurityConfig{
			BcryptCost: getIntEnv(envBcryptCost, defaultBcryptCost),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf(errPortRequiredFmt)
	}

	if _, err := logger.ParseLevel(c.Server.LogLevel); err != nil {
		return fmt.Errorf(errLogLevelFmt, err)
	}

	if c.Database.Password == "" {
		return fmt.Errorf(errDBPasswordRequiredFmt)
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf(errDBConnsFmt, c.Database.MinConns, c.Database.MaxConns)
	}

	if c.JWT.ExpiryDuration <= 0 {
		return fmt.Errorf(errJWTExpiryFmt, c.JWT.ExpiryDuration)
	}

	if c.JWT.CookieName == "" {
		return fmt.Errorf(errJWTCookieNameRequiredFmt)
	}

	if c.Admin.Password != "" && c.Admin.Username == "" {
		return fmt.Errorf(errAdminUsernameRequiredFmt)
	}

	if c.RateLimit.AuthRPS <= 0 || c.RateLimit.AuthBurst <= 0 {
		return fmt.Errorf(errRateLimitFmt, envAuthRateLimitRPS)
	}

	if c.RateLimit.GlobalRPS <= 0 || c.RateLimit.GlobalBurst <= 0 {
		return fmt.Errorf(errRateLimitFmt, envGlobalRateLimitRPS)
	}

	return nil
}

// AdminSeedEnabled reports whether a super-admin account should be seeded.
func (c *AdminConfig) AdminSeedEnabled() bool {
	return c.Password != ""
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func requireEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic(fmt.Sprintf(errRequiredEnvNotSetFmt, key))
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getDurationEnv accepts a Go duration ("90m") or a bare number of minutes.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}
