package config

import (
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	MarketData MarketDataConfig `yaml:"market_data" mapstructure:"market_data"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Backup     BackupConfig     `yaml:"backup" mapstructure:"backup"`
	Scheduler  SchedulerConfig  `yaml:"scheduler" mapstructure:"scheduler"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit" mapstructure:"rate_limit"`
	Auth       AuthConfig       `yaml:"auth" mapstructure:"auth"`
	Bot        BotConfig        `yaml:"bot" mapstructure:"bot"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" mapstructure:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// MarketDataConfig contains the CoinMarketCap client and quota settings
type MarketDataConfig struct {
	BaseURL        string        `yaml:"base_url" mapstructure:"base_url"`
	APIKeys        []string      `yaml:"api_keys" mapstructure:"api_keys"`
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	RetryDelay     time.Duration `yaml:"retry_delay" mapstructure:"retry_delay"`
	DayThreshold   float64       `yaml:"day_threshold" mapstructure:"day_threshold"`
	MonthThreshold float64       `yaml:"month_threshold" mapstructure:"month_threshold"`
	// Mock usa un proveedor offline con datos falsos (desarrollo)
	Mock bool `yaml:"mock" mapstructure:"mock"`
}

// CacheConfig contains the durable symbol cache configuration
type CacheConfig struct {
	Backend          string        `yaml:"backend" mapstructure:"backend"`
	Dir              string        `yaml:"dir" mapstructure:"dir"`
	KeyPrefix        string        `yaml:"key_prefix" mapstructure:"key_prefix"`
	SymbolsMaxAge    time.Duration `yaml:"symbols_max_age" mapstructure:"symbols_max_age"`
	CurrenciesMaxAge time.Duration `yaml:"currencies_max_age" mapstructure:"currencies_max_age"`
	// MetadataMaxAge de 0 significa que la metadata nunca expira
	MetadataMaxAge time.Duration `yaml:"metadata_max_age" mapstructure:"metadata_max_age"`
	Redis          RedisConfig   `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig contains Redis-specific configuration
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

// BackupConfig contains the remote metadata mirror configuration
type BackupConfig struct {
	Enabled            bool        `yaml:"enabled" mapstructure:"enabled"`
	Backend            string      `yaml:"backend" mapstructure:"backend"`
	ObjectKey          string      `yaml:"object_key" mapstructure:"object_key"`
	ReuploadDifference int         `yaml:"reupload_difference" mapstructure:"reupload_difference"`
	RestoreOnStartup   bool        `yaml:"restore_on_startup" mapstructure:"restore_on_startup"`
	S3                 S3Config    `yaml:"s3" mapstructure:"s3"`
	Redis              RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// S3Config contains the S3 bucket credentials
type S3Config struct {
	Bucket          string `yaml:"bucket" mapstructure:"bucket"`
	Region          string `yaml:"region" mapstructure:"region"`
	AccessKeyID     string `yaml:"access_key_id" mapstructure:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" mapstructure:"secret_access_key"`
	// Endpoint permite usar stores compatibles con S3 (MinIO, R2)
	Endpoint     string `yaml:"endpoint" mapstructure:"endpoint"`
	UsePathStyle bool   `yaml:"use_path_style" mapstructure:"use_path_style"`
}

// SchedulerConfig contains the maintenance loop configuration
type SchedulerConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	Timezone        string        `yaml:"timezone" mapstructure:"timezone"`
	HealthCheckSpec string        `yaml:"health_check_spec" mapstructure:"health_check_spec"`
	BackupCheckSpec string        `yaml:"backup_check_spec" mapstructure:"backup_check_spec"`
	JobTimeout      time.Duration `yaml:"job_timeout" mapstructure:"job_timeout"`
	CheckOnStartup  bool          `yaml:"check_on_startup" mapstructure:"check_on_startup"`
}

// RateLimitConfig contains per-chat rate limiting configuration
type RateLimitConfig struct {
	Enabled    bool `yaml:"enabled" mapstructure:"enabled"`
	Capacity   int  `yaml:"capacity" mapstructure:"capacity"`
	RefillRate int  `yaml:"refill_rate" mapstructure:"refill_rate"`
	MaxClients int  `yaml:"max_clients" mapstructure:"max_clients"`
}

// AuthConfig protege los endpoints del front-end de chat con un token compartido
type AuthConfig struct {
	Enabled     bool     `yaml:"enabled" mapstructure:"enabled"`
	Token       string   `yaml:"token" mapstructure:"token"`
	HeaderName  string   `yaml:"header_name" mapstructure:"header_name"`
	UnauthPaths []string `yaml:"unauth_paths" mapstructure:"unauth_paths"`
}

// BotConfig contains chat presentation settings
type BotConfig struct {
	Username         string `yaml:"username" mapstructure:"username"`
	MessageCharLimit int    `yaml:"message_char_limit" mapstructure:"message_char_limit"`
	DefaultCurrency  string `yaml:"default_currency" mapstructure:"default_currency"`
	QuoteDigits      int    `yaml:"quote_digits" mapstructure:"quote_digits"`
}

// LoggingConfig contains logging system configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 30 * time.Second,
		},
		MarketData: MarketDataConfig{
			BaseURL:        "https://pro-api.coinmarketcap.com",
			RequestTimeout: 10 * time.Second,
			RetryDelay:     3 * time.Second,
			DayThreshold:   0.99,
			MonthThreshold: 0.99,
		},
		Cache: CacheConfig{
			Backend:          "file",
			Dir:              "./data",
			KeyPrefix:        "cpb:cache:",
			SymbolsMaxAge:    24 * time.Hour,
			CurrenciesMaxAge: 24 * time.Hour,
			MetadataMaxAge:   0,
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		Backup: BackupConfig{
			Enabled:            false,
			Backend:            "s3",
			ObjectKey:          "crypto_info.json",
			ReuploadDifference: 10,
			RestoreOnStartup:   true,
			S3: S3Config{
				Region: "eu-central-1",
			},
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		Scheduler: SchedulerConfig{
			Enabled:         true,
			Timezone:        "Europe/Berlin",
			HealthCheckSpec: "*/10 * * * *",
			BackupCheckSpec: "* * * * *",
			JobTimeout:      50 * time.Second,
			CheckOnStartup:  true,
		},
		RateLimit: RateLimitConfig{
			Enabled:    true,
			Capacity:   20,
			RefillRate: 1,
			MaxClients: 10000,
		},
		Auth: AuthConfig{
			Enabled:     false,
			HeaderName:  "X-Bot-Token",
			UnauthPaths: []string{"/health", "/ready", "/metrics", "/swagger/", "/docs"},
		},
		Bot: BotConfig{
			Username:         "crypto_price_finder_bot",
			MessageCharLimit: 4050,
			DefaultCurrency:  "USD",
			QuoteDigits:      2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
