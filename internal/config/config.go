package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // e.g. "5m", "1h"
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // e.g. "10m"
}

// NATSConfig holds NATS JetStream configuration used by the notification sink.
// An empty URL disables JetStream and messages are written to the log instead.
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds
	// AllowedOrigins restricts CORS; empty allows any origin without credentials
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
	CookieName   string   `mapstructure:"cookie_name"`
}

// PayPalConfig holds PayPal endpoints and the verification round-trip policy
type PayPalConfig struct {
	Sandbox        bool          `mapstructure:"sandbox"`
	VerifyHost     string        `mapstructure:"verify_host"` // overrides the live/sandbox verification host
	VerifyScheme   string        `mapstructure:"verify_scheme"`
	VerifyTimeout  time.Duration `mapstructure:"verify_timeout"`
	VerifyAttempts int           `mapstructure:"verify_attempts"`
	RetryInterval  time.Duration `mapstructure:"retry_interval"`
	PaymentURL     string        `mapstructure:"payment_url"` // overrides the checkout form action
}

// SiteConfig describes the hosting site
type SiteConfig struct {
	Name          string `mapstructure:"name"`
	WWWRoot       string `mapstructure:"wwwroot"`
	NoReplyUserID int64  `mapstructure:"noreply_user_id"`
}

// WorkerConfig holds worker pool configuration
type WorkerConfig struct {
	WorkerPoolSize  int `mapstructure:"pool_size"`
	WorkerQueueSize int `mapstructure:"queue_size"`
}

// NotificationConfig holds configuration for outgoing alerts and payer messages
type NotificationConfig struct {
	Worker WorkerConfig `mapstructure:"worker"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig   `mapstructure:",squash"`
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Auth         AuthConfig         `mapstructure:"auth"`
	PayPal       PayPalConfig       `mapstructure:"paypal"`
	Site         SiteConfig         `mapstructure:"site"`
	NATS         NATSConfig         `mapstructure:"nats"`
	Notification NotificationConfig `mapstructure:"notification"`
}

// StaleVerificationSweeperConfig holds configuration for the stale verification sweeper
type StaleVerificationSweeperConfig struct {
	StaleAfter time.Duration `mapstructure:"stale_after"`
	Interval   time.Duration `mapstructure:"interval"`
	BatchSize  int           `mapstructure:"batch_size"`
}

// SweeperConfig holds configuration for the sweeper program
type SweeperConfig struct {
	BaseConfig               `mapstructure:",squash"`
	Database                 DatabaseConfig                 `mapstructure:"database"`
	Site                     SiteConfig                     `mapstructure:"site"`
	NATS                     NATSConfig                     `mapstructure:"nats"`
	Notification             NotificationConfig             `mapstructure:"notification"`
	StaleVerificationSweeper StaleVerificationSweeperConfig `mapstructure:"stale_verification_sweeper"`
}

// LoadAPIConfig loads configuration for API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 180) // verification may take up to attempts * timeout
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("auth.cookie_name", "ff_paywall_session")
	setPayPalDefaults(v)
	setNotificationDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var error viper.ConfigFileNotFoundError
		if errors.As(err, &error) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.PayPal.VerifyAttempts < 1 {
		return nil, errors.New("paypal.verify_attempts must be at least 1")
	}

	return &config, nil
}

// LoadSweeperConfig loads configuration for the sweeper program
func LoadSweeperConfig(configFile string, envPath string) (*SweeperConfig, error) {
	v := configureViper("sweeper", configFile, envPath)

	// Set defaults
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 5)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
	v.SetDefault("stale_verification_sweeper.stale_after", "1h")
	v.SetDefault("stale_verification_sweeper.interval", "10m")
	v.SetDefault("stale_verification_sweeper.batch_size", 100)
	setNotificationDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var error viper.ConfigFileNotFoundError
		if errors.As(err, &error) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg SweeperConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate required fields
	if cfg.Database.Host == "" {
		return nil, errors.New("database.host is required")
	}
	if cfg.Database.DBName == "" {
		return nil, errors.New("database.dbname is required")
	}

	return &cfg, nil
}

func setPayPalDefaults(v *viper.Viper) {
	v.SetDefault("paypal.sandbox", false)
	v.SetDefault("paypal.verify_scheme", "https")
	v.SetDefault("paypal.verify_timeout", "30s")
	v.SetDefault("paypal.verify_attempts", 5)
	v.SetDefault("paypal.retry_interval", "1s")
}

func setNotificationDefaults(v *viper.Viper) {
	v.SetDefault("site.name", "Moodle")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "PAYWALL_NOTIFICATIONS")
	v.SetDefault("nats.subject_prefix", "paywall.notifications")
	v.SetDefault("notification.worker.pool_size", 4)
	v.SetDefault("notification.worker.queue_size", 64)
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath, service)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("FF_PAYWALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables.
// Without a config file viper only maps env vars for keys it already knows.
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.subject_prefix",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.allowed_origins",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
		"auth.cookie_name",
		// PayPal
		"paypal.sandbox",
		"paypal.verify_host",
		"paypal.verify_scheme",
		"paypal.verify_timeout",
		"paypal.verify_attempts",
		"paypal.retry_interval",
		"paypal.payment_url",
		// Site
		"site.name",
		"site.wwwroot",
		"site.noreply_user_id",
		// Notification
		"notification.worker.pool_size",
		"notification.worker.queue_size",
		// Sweeper
		"stale_verification_sweeper.stale_after",
		"stale_verification_sweeper.interval",
		"stale_verification_sweeper.batch_size",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		_ = godotenv.Overload(filepath.Join(envPath, envFile)) // later files win
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// VerifyEndpoint returns the PayPal IPN verification URL and the Host header value
func (c *PayPalConfig) VerifyEndpoint() (string, string) {
	host := c.VerifyHost
	if host == "" {
		host = "ipnpb.paypal.com"
		if c.Sandbox {
			host = "ipnpb.sandbox.paypal.com"
		}
	}
	scheme := c.VerifyScheme
	if scheme == "" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/cgi-bin/webscr", scheme, host), host
}

// CheckoutURL returns the form action the payment page posts to
func (c *PayPalConfig) CheckoutURL() string {
	if c.PaymentURL != "" {
		return c.PaymentURL
	}
	if c.Sandbox {
		return "https://www.sandbox.paypal.com/cgi-bin/webscr"
	}
	return "https://www.paypal.com/cgi-bin/webscr"
}
