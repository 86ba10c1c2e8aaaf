package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// placeholder usado en despliegues viejos para "sin segunda key"
const unsetKeyPlaceholder = "None"

// Loader handles configuration loading using Viper
type Loader struct {
	v       *viper.Viper
	envFile string
}

// NewLoader creates a new configuration loader instance
func NewLoader() *Loader {
	return &Loader{
		v:       viper.New(),
		envFile: ".env",
	}
}

// WithEnvFile cambia el archivo .env leído antes de las variables de entorno
func (l *Loader) WithEnvFile(path string) *Loader {
	l.envFile = path
	return l
}

// Load loads configuration from .env, files and environment variables
func (l *Loader) Load() (*Config, error) {
	// 1. Credenciales locales (.env); las variables ya exportadas tienen prioridad
	if l.envFile != "" {
		if err := godotenv.Load(l.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", l.envFile, err)
		}
	}

	// 2. Configure Viper
	l.setupViper()

	// 3. Read configuration
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 4. Unmarshal sobre los defaults
	config := GetDefaultConfig()
	if err := l.v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Override with specific env vars (for compatibility)
	l.overrideWithEnvVars(config)

	return config, nil
}

// setupViper configures Viper to read files and env vars
func (l *Loader) setupViper() {
	l.v.SetConfigName("config")
	l.v.SetConfigType("yaml")

	l.v.AddConfigPath("./configs")
	l.v.AddConfigPath("../configs")
	l.v.AddConfigPath(".")
	l.v.AddConfigPath("/etc/crypto-price-bot")

	// Prefix for env vars: CPB_SERVER_PORT
	l.v.AutomaticEnv()
	l.v.SetEnvPrefix("CPB")
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	l.bindEnvVars()
}

// bindEnvVars maps the legacy deployment variables to configuration keys
func (l *Loader) bindEnvVars() {
	envMappings := map[string][]string{
		"server.port":                 {"PORT"},
		"market_data.base_url":        {"CMC_BASE_URL"},
		"market_data.request_timeout": {"CMC_REQUEST_TIMEOUT"},
		"market_data.retry_delay":     {"RETRY_REQUEST_SLEEP"},
		"market_data.mock":            {"MOCK_MARKET_DATA"},
		"cache.backend":               {"CACHE_BACKEND"},
		"cache.dir":                   {"CACHE_DIR"},
		"cache.redis.addr":            {"REDIS_ADDR"},
		"cache.redis.password":        {"REDIS_PASSWORD"},
		"cache.redis.db":              {"REDIS_DB"},
		"backup.enabled":              {"BACKUP_ENABLED"},
		"backup.backend":              {"BACKUP_BACKEND"},
		"backup.s3.bucket":            {"AWS_BUCKET_NAME"},
		"backup.s3.region":            {"REGION", "AWS_REGION"},
		"backup.s3.access_key_id":     {"AWS_ACCESS_KEY_ID"},
		"backup.s3.secret_access_key": {"AWS_SERVER_SECRET_KEY", "AWS_SECRET_ACCESS_KEY"},
		"backup.s3.endpoint":          {"AWS_ENDPOINT_URL"},
		"scheduler.timezone":          {"SCHEDULER_TIMEZONE"},
		"rate_limit.enabled":          {"RATE_LIMIT_ENABLED"},
		"rate_limit.capacity":         {"RATE_LIMIT_CAPACITY"},
		"rate_limit.refill_rate":      {"RATE_LIMIT_REFILL_RATE"},
		"auth.enabled":                {"BOT_AUTH_ENABLED"},
		"auth.token":                  {"BOT_TOKEN"},
		"bot.username":                {"BOT_USERNAME"},
		"logging.level":               {"LOG_LEVEL"},
		"logging.format":              {"LOG_FORMAT"},
	}

	for configKey, envVars := range envMappings {
		_ = l.v.BindEnv(append([]string{configKey}, envVars...)...)
	}
}

// overrideWithEnvVars maneja casos especiales de env vars
func (l *Loader) overrideWithEnvVars(config *Config) {
	var keys []string

	// CMC_API_KEYS como string separado por comas
	if list := os.Getenv("CMC_API_KEYS"); list != "" {
		keys = append(keys, strings.Split(list, ",")...)
	}

	// Variables históricas de una y dos keys
	for _, envVar := range []string{"COINMARKETCAP_API_KEY", "COINMARKETCAP_API_KEY_2"} {
		if key := os.Getenv(envVar); key != "" {
			keys = append(keys, key)
		}
	}

	if cleaned := normalizeKeys(keys); len(cleaned) > 0 {
		config.MarketData.APIKeys = cleaned
	} else {
		config.MarketData.APIKeys = normalizeKeys(config.MarketData.APIKeys)
	}
}

// normalizeKeys quita vacíos, placeholders y duplicados conservando el orden
func normalizeKeys(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	var cleaned []string
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" || key == unsetKeyPlaceholder || seen[key] {
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, key)
	}
	return cleaned
}

// GetEnvironment determina el entorno actual desde ENV vars
func GetEnvironment() string {
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		env = strings.ToLower(os.Getenv("ENVIRONMENT"))
	}
	if env == "" {
		env = "development"
	}
	return env
}
