// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Server   ServerConfig            `mapstructure:"server"`
	Scoring  ScoringConfig           `mapstructure:"scoring"`
	Model    ModelConfig             `mapstructure:"model"`
	Cache    CacheConfig             `mapstructure:"cache"`
	Database DatabaseConfig          `mapstructure:"database"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Logging  LoggingConfig           `mapstructure:"logging"`
	Metrics  MetricsConfig           `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig drives the HTTP analysis API.
type ServerConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	Port            int      `mapstructure:"port" validate:"gt=0,lte=65535"`
	ReadTimeout     int      `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int      `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // milliseconds
	MaxBodyBytes    int64    `mapstructure:"max_body_bytes" validate:"gt=0"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

// ScoringConfig holds the score transform constants, the reference catalog
// source and optional overrides of the credit limit policy.
type ScoringConfig struct {
	Offset             float64            `mapstructure:"offset"`
	Factor             float64            `mapstructure:"factor" validate:"gt=0"`
	Catalog            CatalogConfig      `mapstructure:"catalog"`
	CreditPercent      map[string]float64 `mapstructure:"credit_percent" validate:"dive,gte=0,lte=1"`
	LiquidityTiers     []TierConfig       `mapstructure:"liquidity_tiers" validate:"dive"`
	ConcentrationTiers []TierConfig       `mapstructure:"concentration_tiers" validate:"dive"`
}

type CatalogConfig struct {
	Source string `mapstructure:"source" validate:"oneof=builtin file postgres"`
	Path   string `mapstructure:"path" validate:"required_if=Source file"`
}

// TierConfig is one (upper bound, multiplier) row. Use .inf for the last bound.
type TierConfig struct {
	UpperBound float64 `mapstructure:"upper_bound"`
	Multiplier float64 `mapstructure:"multiplier" validate:"gte=0"`
}

// ModelConfig selects where the default-probability classifier comes from.
type ModelConfig struct {
	Source       string `mapstructure:"source" validate:"oneof=artifact remote"`
	ArtifactPath string `mapstructure:"artifact_path" validate:"required_if=Source artifact"`
	RemoteURL    string `mapstructure:"remote_url" validate:"required_if=Source remote"`
	Timeout      int    `mapstructure:"timeout"` // milliseconds
}

// CacheConfig controls the redis cache placed in front of the classifier.
type CacheConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	TTL       int    `mapstructure:"ttl"` // seconds
	KeyPrefix string `mapstructure:"key_prefix"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address" validate:"required_if=Enabled true"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// WorkerConfig holds the settings applicable to every job worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}
