package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"ganak-service/src/logger"
)

// DBFailurePolicy decides what startup does when the database is unreachable.
type DBFailurePolicy string

const (
	PolicyDegrade  DBFailurePolicy = "degrade"
	PolicyFailFast DBFailurePolicy = "fail-fast"
)

// Defaults for optional service variables
const (
	DefaultServiceName      = "ganak-service"
	DefaultServicePort      = "8000"
	DefaultMongoDatabase    = "ganak"
	DefaultEnvFile          = ".env"
	DefaultJWTExpiration    = 24 * time.Hour
	DefaultDBConnectTimeout = 10 * time.Second
	DefaultOTPTTL           = 10 * time.Minute
	DefaultOTPMaxAttempts   = 5
	DefaultRateLimit        = 100
)

// DefaultCORSOrigins is the browser front-end allow-list used when none is configured.
var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"https://ganak-qaa9.vercel.app",
}

// Mongo variable names are unprefixed so existing deployments keep working.
const (
	EnvMongoUser     = "MONGODB_USER"
	EnvMongoPassword = "MONGODB_PASSWORD"
	EnvMongoHost     = "MONGODB_HOST"
	EnvMongoAppName  = "MONGODB_APP_NAME"
)

var (
	// ErrMissingEnv is returned when one or more required variables are absent or blank.
	ErrMissingEnv = errors.New("missing required environment variables")
	// ErrInvalidEnv is returned when a variable is present but cannot be parsed.
	ErrInvalidEnv = errors.New("invalid environment variable")
)

type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
	AllowedMethods   []string
	AllowedHeaders   []string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled reports whether enough SMTP settings are present to send mail.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.Port != 0 && s.From != ""
}

type Config struct {
	EnvPrefix   string
	ServiceName string
	ServicePort string

	MongoUser     string
	MongoPassword string
	MongoHost     string
	MongoAppName  string
	MongoURI      string
	MongoDatabase string

	DBConnectTimeout time.Duration
	DBFailurePolicy  DBFailurePolicy

	JWTSecret     string
	JWTExpiration time.Duration

	CORS CORSConfig
	SMTP SMTPConfig

	RedisAddr     string
	RedisPassword string

	OTPTTL             time.Duration
	OTPMaxAttempts     int
	RateLimitPerMinute int

	Logger *logger.Logger
}

// NewConfig builds the validated configuration from the process environment.
// Every required variable is checked before the connection URI is assembled.
func NewConfig(envPrefix string) (*Config, error) {
	log := logger.NewLogger(logger.ParseLevel(os.Getenv(envPrefix + "_LOG_LEVEL")))
	return newConfig(envPrefix, log)
}

func newConfig(envPrefix string, log *logger.Logger) (*Config, error) {
	cfg := &Config{
		EnvPrefix:     envPrefix,
		ServiceName:   getenvDefault(envPrefix+"_SERVICE_NAME", DefaultServiceName),
		ServicePort:   getenvDefault(envPrefix+"_SERVICE_PORT", DefaultServicePort),
		// Credentials are used byte for byte; only their presence is trimmed
		MongoUser:     os.Getenv(EnvMongoUser),
		MongoPassword: os.Getenv(EnvMongoPassword),
		MongoHost:     getenv(EnvMongoHost),
		MongoAppName:  getenv(EnvMongoAppName),
		MongoDatabase: getenvDefault(envPrefix+"_MONGODB_DATABASE", DefaultMongoDatabase),
		JWTSecret:     getenv(envPrefix + "_JWT_SECRET"),
		RedisAddr:     getenv(envPrefix + "_REDIS_ADDR"),
		RedisPassword: getenv(envPrefix + "_REDIS_PASSWORD"),
		SMTP: SMTPConfig{
			Host:     getenv(envPrefix + "_SMTP_HOST"),
			User:     getenv(envPrefix + "_SMTP_USER"),
			Password: getenv(envPrefix + "_SMTP_PASSWORD"),
			From:     getenv(envPrefix + "_SMTP_FROM"),
		},
		Logger: log,
	}

	if err := cfg.validateEnvVars(); err != nil {
		return nil, err
	}
	if err := cfg.parseOptional(); err != nil {
		return nil, err
	}

	cfg.MongoURI = BuildMongoURI(cfg.MongoUser, cfg.MongoPassword, cfg.MongoHost, cfg.MongoAppName)

	cfg.printEnvVariables()
	cfg.Logger.Info("✅ Configuration initialized successfully")

	return cfg, nil
}

// validateEnvVars collects every missing required variable into one error.
func (c *Config) validateEnvVars() error {
	required := []struct {
		name  string
		value string
	}{
		{EnvMongoUser, c.MongoUser},
		{EnvMongoPassword, c.MongoPassword},
		{EnvMongoHost, c.MongoHost},
		{EnvMongoAppName, c.MongoAppName},
		{c.EnvPrefix + "_JWT_SECRET", c.JWTSecret},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}

	if len(missing) > 0 {
		c.Logger.Error("❌ Missing required environment variables: " + strings.Join(missing, ", "))
		return fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) parseOptional() error {
	var err error
	p := c.EnvPrefix

	hours, err := getenvInt(p+"_JWT_EXPIRATION", int(DefaultJWTExpiration/time.Hour), 1)
	if err != nil {
		return err
	}
	c.JWTExpiration = time.Duration(hours) * time.Hour

	if c.DBConnectTimeout, err = getenvDuration(p+"_DB_CONNECT_TIMEOUT", DefaultDBConnectTimeout); err != nil {
		return err
	}

	switch policy := DBFailurePolicy(strings.ToLower(getenvDefault(p+"_DB_FAILURE_POLICY", string(PolicyDegrade)))); policy {
	case PolicyDegrade, PolicyFailFast:
		c.DBFailurePolicy = policy
	default:
		return fmt.Errorf("%w: %s_DB_FAILURE_POLICY=%q (want %q or %q)", ErrInvalidEnv, p, policy, PolicyDegrade, PolicyFailFast)
	}

	minutes, err := getenvInt(p+"_OTP_TTL_MINUTES", int(DefaultOTPTTL/time.Minute), 1)
	if err != nil {
		return err
	}
	c.OTPTTL = time.Duration(minutes) * time.Minute

	if c.OTPMaxAttempts, err = getenvInt(p+"_OTP_MAX_ATTEMPTS", DefaultOTPMaxAttempts, 1); err != nil {
		return err
	}
	if c.RateLimitPerMinute, err = getenvInt(p+"_RATE_LIMIT_PER_MINUTE", DefaultRateLimit, 0); err != nil {
		return err
	}
	if c.SMTP.Port, err = getenvInt(p+"_SMTP_PORT", 0, 0); err != nil {
		return err
	}

	c.CORS = CORSConfig{
		AllowedOrigins:   splitList(getenv(p + "_CORS_ALLOWED_ORIGINS")),
		AllowedMethods:   splitList(getenv(p + "_CORS_ALLOWED_METHODS")),
		AllowedHeaders:   splitList(getenv(p + "_CORS_ALLOWED_HEADERS")),
		AllowCredentials: true,
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = append([]string(nil), DefaultCORSOrigins...)
	}
	if raw := getenv(p + "_CORS_ALLOW_CREDENTIALS"); raw != "" {
		if c.CORS.AllowCredentials, err = strconv.ParseBool(raw); err != nil {
			return fmt.Errorf("%w: %s_CORS_ALLOW_CREDENTIALS=%q", ErrInvalidEnv, p, raw)
		}
	}
	return nil
}

func (c *Config) printEnvVariables() {
	c.Logger.Info(fmt.Sprintf("🔧 LOADED SERVICE ENVIRONMENTS - %s", c.EnvPrefix))
	c.Logger.Info("🔧 ServicePort: " + c.ServicePort)
	c.Logger.Info("🔧 ServiceName: " + c.ServiceName)
	c.Logger.Info("🔧 MongoHost: " + c.MongoHost)
	c.Logger.Info("🔧 MongoUser: " + c.MongoUser)
	c.Logger.Info("🔧 MongoPassword: " + mask(c.MongoPassword))
	c.Logger.Info("🔧 MongoAppName: " + c.MongoAppName)
	c.Logger.Info("🔧 MongoDatabase: " + c.MongoDatabase)
	c.Logger.Info("🔧 DBFailurePolicy: " + string(c.DBFailurePolicy))
	c.Logger.Info("🔧 DBConnectTimeout: " + c.DBConnectTimeout.String())
	c.Logger.Info("🔧 CORSAllowedOrigins: " + strings.Join(c.CORS.AllowedOrigins, ", "))
	c.Logger.Info(fmt.Sprintf("🔧 CORSAllowCredentials: %v", c.CORS.AllowCredentials))
	if c.RedisAddr != "" {
		c.Logger.Info("🔧 RedisAddr: " + c.RedisAddr)
	}
	c.Logger.Info(fmt.Sprintf("🔧 SMTPEnabled: %v", c.SMTP.Enabled()))
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}
