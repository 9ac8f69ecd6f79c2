package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Ledger LedgerConfig
	JWT    JWTConfig
	S3     S3Config
	Log    LogConfig
	CORS   CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Environment     string        `mapstructure:"environment"`
}

// DBConfig holds storage engine settings. SQLite is the default single-node
// engine; PostgreSQL is selected with driver=pgx.
type DBConfig struct {
	Driver        string `mapstructure:"driver"`
	Path          string `mapstructure:"path"`
	BusyTimeoutMS int    `mapstructure:"busy_timeout_ms"`
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Name          string `mapstructure:"name"`
	SSLMode       string `mapstructure:"sslmode"`
	MaxOpen       int    `mapstructure:"max_open"`
	MaxIdle       int    `mapstructure:"max_idle"`
	AutoMigrate   bool   `mapstructure:"auto_migrate"`
}

// DSN returns the connection string for the configured driver.
// SQLite connections begin every transaction with BEGIN IMMEDIATE.
func (d *DBConfig) DSN() string {
	if d.Driver == DriverPostgres {
		return fmt.Sprintf(
			"postgres://%s:%s@%s:%d/%s?sslmode=%s",
			url.QueryEscape(d.User), url.QueryEscape(d.Password), d.Host, d.Port, d.Name, d.SSLMode,
		)
	}
	return fmt.Sprintf(
		"file:%s?_txlock=immediate&_busy_timeout=%d&_foreign_keys=on&_journal_mode=WAL",
		d.Path, d.BusyTimeoutMS,
	)
}

// LedgerConfig holds document numbering and tax defaults.
type LedgerConfig struct {
	SellerStateCode string  `mapstructure:"seller_state_code"`
	InvoicePrefix   string  `mapstructure:"invoice_prefix"`
	DCPrefix        string  `mapstructure:"dc_prefix"`
	DefaultCGSTRate float64 `mapstructure:"default_cgst_rate"`
	DefaultSGSTRate float64 `mapstructure:"default_sgst_rate"`
	DefaultIGSTRate float64 `mapstructure:"default_igst_rate"`
}

// JWTConfig holds settings for verifying externally issued bearer tokens.
// An empty secret disables authentication.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// S3Config holds invoice archive settings. An empty bucket disables archiving.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the SENSTO_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SENSTO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.path", "sensto.db")
	v.SetDefault("db.busy_timeout_ms", 5000)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "sensto")
	v.SetDefault("db.password", "sensto_secret")
	v.SetDefault("db.name", "sensto_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 8)
	v.SetDefault("db.max_idle", 4)
	v.SetDefault("db.auto_migrate", true)

	// Ledger defaults
	v.SetDefault("ledger.seller_state_code", "33")
	v.SetDefault("ledger.invoice_prefix", "INV")
	v.SetDefault("ledger.dc_prefix", "DC")
	v.SetDefault("ledger.default_cgst_rate", 9)
	v.SetDefault("ledger.default_sgst_rate", 9)
	v.SetDefault("ledger.default_igst_rate", 18)

	// JWT defaults
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "sensto")

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.prefix", "invoices")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "SENSTO_SERVER_PORT",
		"server.read_timeout":      "SENSTO_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "SENSTO_SERVER_WRITE_TIMEOUT",
		"server.shutdown_timeout":  "SENSTO_SERVER_SHUTDOWN_TIMEOUT",
		"server.environment":       "SENSTO_SERVER_ENVIRONMENT",
		"db.driver":                "SENSTO_DB_DRIVER",
		"db.path":                  "SENSTO_DB_PATH",
		"db.busy_timeout_ms":       "SENSTO_DB_BUSY_TIMEOUT_MS",
		"db.host":                  "SENSTO_DB_HOST",
		"db.port":                  "SENSTO_DB_PORT",
		"db.user":                  "SENSTO_DB_USER",
		"db.password":              "SENSTO_DB_PASSWORD",
		"db.name":                  "SENSTO_DB_NAME",
		"db.sslmode":               "SENSTO_DB_SSLMODE",
		"db.max_open":              "SENSTO_DB_MAX_OPEN",
		"db.max_idle":              "SENSTO_DB_MAX_IDLE",
		"db.auto_migrate":          "SENSTO_DB_AUTO_MIGRATE",
		"ledger.seller_state_code": "SENSTO_LEDGER_SELLER_STATE_CODE",
		"ledger.invoice_prefix":    "SENSTO_LEDGER_INVOICE_PREFIX",
		"ledger.dc_prefix":         "SENSTO_LEDGER_DC_PREFIX",
		"ledger.default_cgst_rate": "SENSTO_LEDGER_DEFAULT_CGST_RATE",
		"ledger.default_sgst_rate": "SENSTO_LEDGER_DEFAULT_SGST_RATE",
		"ledger.default_igst_rate": "SENSTO_LEDGER_DEFAULT_IGST_RATE",
		"jwt.secret":               "SENSTO_JWT_SECRET",
		"jwt.issuer":               "SENSTO_JWT_ISSUER",
		"s3.region":                "SENSTO_S3_REGION",
		"s3.bucket":                "SENSTO_S3_BUCKET",
		"s3.endpoint":              "SENSTO_S3_ENDPOINT",
		"s3.access_key":            "SENSTO_S3_ACCESS_KEY",
		"s3.secret_key":            "SENSTO_S3_SECRET_KEY",
		"s3.prefix":                "SENSTO_S3_PREFIX",
		"log.level":                "SENSTO_LOG_LEVEL",
		"log.format":               "SENSTO_LOG_FORMAT",
		"cors.allowed_origins":     "SENSTO_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Platforms like Railway or Render set PORT. Use it unless SENSTO_SERVER_PORT is explicit.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SENSTO_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:            serverPort,
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		Environment:     v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Driver:        v.GetString("db.driver"),
		Path:          v.GetString("db.path"),
		BusyTimeoutMS: v.GetInt("db.busy_timeout_ms"),
		Host:          v.GetString("db.host"),
		Port:          v.GetInt("db.port"),
		User:          v.GetString("db.user"),
		Password:      v.GetString("db.password"),
		Name:          v.GetString("db.name"),
		SSLMode:       v.GetString("db.sslmode"),
		MaxOpen:       v.GetInt("db.max_open"),
		MaxIdle:       v.GetInt("db.max_idle"),
		AutoMigrate:   v.GetBool("db.auto_migrate"),
	}
	if cfg.DB.Driver != DriverSQLite && cfg.DB.Driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported db driver %q (want %s or %s)", cfg.DB.Driver, DriverSQLite, DriverPostgres)
	}
	cfg.Ledger = LedgerConfig{
		SellerStateCode: v.GetString("ledger.seller_state_code"),
		InvoicePrefix:   v.GetString("ledger.invoice_prefix"),
		DCPrefix:        v.GetString("ledger.dc_prefix"),
		DefaultCGSTRate: v.GetFloat64("ledger.default_cgst_rate"),
		DefaultSGSTRate: v.GetFloat64("ledger.default_sgst_rate"),
		DefaultIGSTRate: v.GetFloat64("ledger.default_igst_rate"),
	}
	if strings.Contains(cfg.Ledger.InvoicePrefix, "/") || strings.Contains(cfg.Ledger.DCPrefix, "/") {
		return nil, fmt.Errorf("document prefixes must not contain '/'")
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
		Prefix:    v.GetString("s3.prefix"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	return cfg, nil
}
