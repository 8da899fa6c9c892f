package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // "mysql" or "sqlite"
	DSN      string `mapstructure:"dsn"`
	LogLevel string `mapstructure:"log_level"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"` // Empty disables redis, revoked tokens are kept in memory
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ConsulConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Address       string `mapstructure:"address"`
	AdvertiseHost string `mapstructure:"advertise_host"`
	CheckInterval string `mapstructure:"check_interval"`
	CheckTimeout  string `mapstructure:"check_timeout"`
}

type Config struct {
	HTTPPort      int            `mapstructure:"http_port"`
	GRPCPort      int            `mapstructure:"grpc_port"`
	LogLevel      string         `mapstructure:"log_level"`
	ServiceName   string         `mapstructure:"service_name"`
	JwtSecret     string         `mapstructure:"jwt_secret"`
	TokenTTL      time.Duration  `mapstructure:"token_ttl"`
	AdminPassword string         `mapstructure:"admin_password"`
	Database      DatabaseConfig `mapstructure:"database"`
	Redis         RedisConfig    `mapstructure:"redis"`
	Consul        ConsulConfig   `mapstructure:"consul"`
}

const defaultJwtSecret = "default-very-insecure-secret-key"

// Load reads config.yaml from the given directories (or "." and "./config"),
// then applies GUILDHALL_* environment overrides on top of the defaults.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("GUILDHALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_port", 8080)
	v.SetDefault("grpc_port", 50051)
	v.SetDefault("log_level", "info")
	v.SetDefault("service_name", "guildhall")
	v.SetDefault("jwt_secret", defaultJwtSecret) // CHANGE THIS IN PRODUCTION
	v.SetDefault("token_ttl", 24*time.Hour)
	v.SetDefault("admin_password", "adminpassword")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "guildhall.db")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("consul.enabled", false)
	v.SetDefault("consul.address", "127.0.0.1:8500")
	v.SetDefault("consul.advertise_host", "127.0.0.1")
	v.SetDefault("consul.check_interval", "10s")
	v.SetDefault("consul.check_timeout", "1s")
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}
	if c.JwtSecret == "" {
		return errors.New("jwt_secret must not be empty")
	}
	if c.TokenTTL <= 0 {
		return errors.New("token_ttl must be positive")
	}
	return nil
}

// InsecureSecret reports whether the built-in JWT secret is still in use.
func (c *Config) InsecureSecret() bool {
	return c.JwtSecret == defaultJwtSecret
}
