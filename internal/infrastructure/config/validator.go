package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Validator valida la configuración cargada
type Validator struct{}

// NewValidator crea una nueva instancia del validador
func NewValidator() *Validator {
	return &Validator{}
}

// Validate valida toda la configuración
func (v *Validator) Validate(config *Config) error {
	if err := v.validateServer(config.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := v.validateMarketData(config.MarketData); err != nil {
		return fmt.Errorf("market data config validation failed: %w", err)
	}

	if err := v.validateCache(config.Cache); err != nil {
		return fmt.Errorf("cache config validation failed: %w", err)
	}

	if err := v.validateBackup(config.Backup); err != nil {
		return fmt.Errorf("backup config validation failed: %w", err)
	}

	if err := v.validateScheduler(config.Scheduler); err != nil {
		return fmt.Errorf("scheduler config validation failed: %w", err)
	}

	if err := v.validateRateLimit(config.RateLimit); err != nil {
		return fmt.Errorf("rate limit config validation failed: %w", err)
	}

	if err := v.validateAuth(config.Auth); err != nil {
		return fmt.Errorf("auth config validation failed: %w", err)
	}

	if err := v.validateBot(config.Bot); err != nil {
		return fmt.Errorf("bot config validation failed: %w", err)
	}

	if err := v.validateLogging(config.Logging); err != nil {
		return fmt.Errorf("logging config validation failed: %w", err)
	}

	return nil
}

// validateServer valida la configuración del servidor
func (v *Validator) validateServer(config ServerConfig) error {
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("invalid port: %d, must be between 1-65535", config.Port)
	}

	if config.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got: %v", config.ShutdownTimeout)
	}

	if config.ShutdownTimeout > 5*time.Minute {
		return fmt.Errorf("shutdown_timeout too long: %v, max 5 minutes", config.ShutdownTimeout)
	}

	return nil
}

// validateMarketData valida keys, timeouts y umbrales de cuota
func (v *Validator) validateMarketData(config MarketDataConfig) error {
	if err := v.validateURL(config.BaseURL, "market_data base_url"); err != nil {
		return err
	}

	if len(config.APIKeys) == 0 && !config.Mock {
		return fmt.Errorf("at least one API key is required (COINMARKETCAP_API_KEY)")
	}

	if config.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got: %v", config.RequestTimeout)
	}

	if config.RetryDelay < 0 {
		return fmt.Errorf("retry_delay cannot be negative, got: %v", config.RetryDelay)
	}

	if err := v.validateThreshold(config.DayThreshold, "day_threshold"); err != nil {
		return err
	}

	return v.validateThreshold(config.MonthThreshold, "month_threshold")
}

// validateThreshold valida una fracción de límite de plan
func (v *Validator) validateThreshold(threshold float64, fieldName string) error {
	if threshold <= 0 || threshold > 1 {
		return fmt.Errorf("%s must be in (0, 1], got: %v", fieldName, threshold)
	}
	return nil
}

// validateCache valida la configuración del cache
func (v *Validator) validateCache(config CacheConfig) error {
	validBackends := []string{"file", "memory", "redis"}
	if !contains(validBackends, config.Backend) {
		return fmt.Errorf("invalid cache backend: %s, must be one of: %v", config.Backend, validBackends)
	}

	if config.Backend == "file" && config.Dir == "" {
		return fmt.Errorf("cache dir cannot be empty for file backend")
	}

	if config.SymbolsMaxAge < 0 || config.CurrenciesMaxAge < 0 || config.MetadataMaxAge < 0 {
		return fmt.Errorf("cache max ages cannot be negative")
	}

	if config.Backend == "redis" {
		return v.validateRedis(config.Redis)
	}

	return nil
}

// validateRedis valida la configuración de Redis
func (v *Validator) validateRedis(config RedisConfig) error {
	if config.Addr == "" {
		return fmt.Errorf("redis addr cannot be empty")
	}

	if !strings.Contains(config.Addr, ":") {
		return fmt.Errorf("invalid redis addr format: %s, expected host:port", config.Addr)
	}

	if config.DB < 0 || config.DB > 15 {
		return fmt.Errorf("invalid redis DB: %d, must be between 0-15", config.DB)
	}

	return nil
}

// validateBackup valida el espejo remoto solo cuando está habilitado
func (v *Validator) validateBackup(config BackupConfig) error {
	if !config.Enabled {
		return nil
	}

	if config.ObjectKey == "" {
		return fmt.Errorf("backup object_key cannot be empty")
	}

	if config.ReuploadDifference < 1 {
		return fmt.Errorf("reupload_difference must be at least 1, got: %d", config.ReuploadDifference)
	}

	switch strings.ToLower(config.Backend) {
	case "s3":
		if config.S3.Bucket == "" {
			return fmt.Errorf("s3 bucket cannot be empty (AWS_BUCKET_NAME)")
		}
		if config.S3.Region == "" {
			return fmt.Errorf("s3 region cannot be empty (REGION)")
		}
		if (config.S3.AccessKeyID == "") != (config.S3.SecretAccessKey == "") {
			return fmt.Errorf("s3 access_key_id and secret_access_key must be set together")
		}
		if config.S3.Endpoint != "" {
			return v.validateURL(config.S3.Endpoint, "s3 endpoint")
		}
	case "redis":
		return v.validateRedis(config.Redis)
	case "memory":
	default:
		return fmt.Errorf("invalid backup backend: %s, must be one of: [s3 redis memory]", config.Backend)
	}

	return nil
}

// validateScheduler valida zona horaria y expresiones cron
func (v *Validator) validateScheduler(config SchedulerConfig) error {
	if !config.Enabled {
		return nil
	}

	if _, err := time.LoadLocation(config.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", config.Timezone, err)
	}

	for name, spec := range map[string]string{
		"health_check_spec": config.HealthCheckSpec,
		"backup_check_spec": config.BackupCheckSpec,
	} {
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, spec, err)
		}
	}

	if config.JobTimeout <= 0 {
		return fmt.Errorf("job_timeout must be positive, got: %v", config.JobTimeout)
	}

	return nil
}

// validateRateLimit valida la configuración de rate limiting
func (v *Validator) validateRateLimit(config RateLimitConfig) error {
	if !config.Enabled {
		return nil
	}

	if config.Capacity <= 0 {
		return fmt.Errorf("rate_limit capacity must be positive when enabled, got: %d", config.Capacity)
	}

	if config.RefillRate <= 0 {
		return fmt.Errorf("rate_limit refill_rate must be positive when enabled, got: %d", config.RefillRate)
	}

	if config.Capacity > 10000 {
		return fmt.Errorf("rate_limit capacity too high: %d, max 10000", config.Capacity)
	}

	if config.MaxClients <= 0 {
		return fmt.Errorf("rate_limit max_clients must be positive when enabled, got: %d", config.MaxClients)
	}

	return nil
}

// validateAuth exige token y header cuando la autenticación está habilitada
func (v *Validator) validateAuth(config AuthConfig) error {
	if !config.Enabled {
		return nil
	}

	if config.Token == "" {
		return fmt.Errorf("auth token cannot be empty when enabled (BOT_TOKEN)")
	}

	if config.HeaderName == "" {
		return fmt.Errorf("auth header_name cannot be empty when enabled")
	}

	return nil
}

// validateBot valida la presentación de mensajes
func (v *Validator) validateBot(config BotConfig) error {
	if config.Username == "" {
		return fmt.Errorf("bot username cannot be empty")
	}

	if config.MessageCharLimit < 100 {
		return fmt.Errorf("message_char_limit too small: %d, min 100", config.MessageCharLimit)
	}

	if len(config.DefaultCurrency) == 0 {
		return fmt.Errorf("default_currency cannot be empty")
	}

	if config.QuoteDigits < 1 || config.QuoteDigits > 12 {
		return fmt.Errorf("quote_digits must be between 1-12, got: %d", config.QuoteDigits)
	}

	return nil
}

// validateLogging valida la configuración de logging
func (v *Validator) validateLogging(config LoggingConfig) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, strings.ToLower(config.Level)) {
		return fmt.Errorf("invalid log level: %s, must be one of: %v", config.Level, validLevels)
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, strings.ToLower(config.Format)) {
		return fmt.Errorf("invalid log format: %s, must be one of: %v", config.Format, validFormats)
	}

	return nil
}

// validateURL valida que una URL sea válida para HTTP/HTTPS
func (v *Validator) validateURL(rawURL, fieldName string) error {
	if rawURL == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid %s: %s, error: %v", fieldName, rawURL, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("invalid %s scheme: %s, must be http or https", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s must have a host", fieldName)
	}

	return nil
}

// contains verifica si un slice contiene un elemento
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}
