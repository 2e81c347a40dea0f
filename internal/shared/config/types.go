package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// TrustConfig configures the token trust verifier and its signing-key cache.
type TrustConfig struct {
	// Issuer is the expected `iss` claim of trusted tokens.
	Issuer string `mapstructure:"issuer"`
	// JWKSURL is the signing-key discovery endpoint of the identity provider.
	JWKSURL string `mapstructure:"jwks_url"`
	// KeyRefreshMinutes bounds the staleness of the cached key set.
	KeyRefreshMinutes int `mapstructure:"key_refresh_minutes"`
	// FetchTimeoutSeconds is the HTTP timeout for a single JWKS fetch.
	FetchTimeoutSeconds int `mapstructure:"fetch_timeout_seconds"`
}

// IntrospectionConfig points at the identity provider's native introspection
// and revocation endpoints that this service overlays.
type IntrospectionConfig struct {
	IntrospectURL  string `mapstructure:"introspect_url"`
	RevokeURL      string `mapstructure:"revoke_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type AuthConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

// RevocationConfig controls garbage collection of expired registry entries.
type RevocationConfig struct {
	// GCIntervalMinutes is how often the expired-entry sweep runs. Zero disables it.
	GCIntervalMinutes int `mapstructure:"gc_interval_minutes"`
	// GCSafetyMarginHours keeps entries past their token expiry for this long.
	GCSafetyMarginHours int `mapstructure:"gc_safety_margin_hours"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	RequestsPerHour   int  `mapstructure:"requests_per_hour"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
