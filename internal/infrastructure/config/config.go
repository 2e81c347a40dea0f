package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/aegis-idp/aegis/internal/shared/config"
)

type Config struct {
	Server        sharedConfig.ServerConfig        `mapstructure:"server"`
	Database      sharedConfig.DatabaseConfig      `mapstructure:"database"`
	Logger        sharedConfig.LoggerConfig        `mapstructure:"logger"`
	Trust         sharedConfig.TrustConfig         `mapstructure:"trust"`
	Introspection sharedConfig.IntrospectionConfig `mapstructure:"introspection"`
	Auth          sharedConfig.AuthConfig          `mapstructure:"auth"`
	Revocation    sharedConfig.RevocationConfig    `mapstructure:"revocation"`
	RateLimit     sharedConfig.RateLimitConfig     `mapstructure:"rate_limit"`
	Redis         sharedConfig.RedisConfig         `mapstructure:"redis"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("AEGIS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Allow env parameter to override server mode if provided
	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)
	viper.SetDefault("database.username", "root")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.database", "aegis_dev")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	// Trust defaults (jwks_url must be configured)
	viper.SetDefault("trust.issuer", "")
	viper.SetDefault("trust.jwks_url", "")
	viper.SetDefault("trust.key_refresh_minutes", 30)
	viper.SetDefault("trust.fetch_timeout_seconds", 10)

	// Introspection overlay defaults
	viper.SetDefault("introspection.introspect_url", "")
	viper.SetDefault("introspection.revoke_url", "")
	viper.SetDefault("introspection.timeout_seconds", 10)

	// Auth defaults
	viper.SetDefault("auth.bcrypt_cost", 12)

	// Revocation registry defaults
	viper.SetDefault("revocation.gc_interval_minutes", 60)
	viper.SetDefault("revocation.gc_safety_margin_hours", 24)

	// Rate limit defaults
	viper.SetDefault("rate_limit.enabled", false)
	viper.SetDefault("rate_limit.requests_per_minute", 300)
	viper.SetDefault("rate_limit.requests_per_hour", 10000)

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
}
