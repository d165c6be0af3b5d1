// FilePath: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	GRPC       GRPCConfig       `mapstructure:"grpc"`
	Gateway    GatewayConfig    `mapstructure:"gateway"`
	GraphQL    GraphQLConfig    `mapstructure:"graphql"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
	APIKey          string        `mapstructure:"api_key"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

type GRPCConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Reflection bool   `mapstructure:"reflection"`
}

// GatewayConfig configures the REST to gRPC gateway process.
type GatewayConfig struct {
	Host       string        `mapstructure:"host"`
	Port       int           `mapstructure:"port"`
	GRPCTarget string        `mapstructure:"grpc_target"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type GraphQLConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"`
	Playground bool   `mapstructure:"playground"`
}

// DatabaseConfig selects the store backend. Driver is "postgres" or "sqlite".
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
}

type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type MonitoringConfig struct {
	MetricsPath string `mapstructure:"metrics_path"`
	Namespace   string `mapstructure:"namespace"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// legacyEnv maps config keys onto the variable names used by existing
// deployments of the export receiver.
var legacyEnv = map[string]string{
	"database.host":     "RDS_HOST",
	"database.port":     "RDS_PORT",
	"database.user":     "RDS_USER",
	"database.password": "RDS_PASSWORD",
	"database.dbname":   "RDS_DATABASE",
	"server.host":       "API_HOST",
	"server.port":       "API_PORT",
	"grpc.host":         "GRPC_HOST",
	"grpc.port":         "GRPC_PORT",
}

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit config file. An empty path searches
// ./config and the working directory for config.yaml.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HEALTHHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)
	for key, env := range legacyEnv {
		if err := v.BindEnv(key, "HEALTHHUB_"+strings.ToUpper(strings.ReplaceAll(key, ".", "__")), env); err != nil {
			return nil, fmt.Errorf("error binding env %s: %w", env, err)
		}
	}

	// Load config file if exists
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 5001)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.max_body_bytes", 64*1024*1024) // large glucose exports
	v.SetDefault("server.api_key", "")
	v.SetDefault("server.cors_origins", []string{"*"})

	// gRPC defaults
	v.SetDefault("grpc.enabled", true)
	v.SetDefault("grpc.host", "0.0.0.0")
	v.SetDefault("grpc.port", 50051)
	v.SetDefault("grpc.reflection", true)

	// Gateway defaults
	v.SetDefault("gateway.host", "0.0.0.0")
	v.SetDefault("gateway.port", 8080)
	v.SetDefault("gateway.grpc_target", "localhost:50051")
	v.SetDefault("gateway.timeout", "60s")

	// GraphQL defaults
	v.SetDefault("graphql.enabled", true)
	v.SetDefault("graphql.path", "/graphql")
	v.SetDefault("graphql.playground", false)

	// Database defaults
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.dbname", "health_data")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "./data/health.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.connect_timeout", "5s")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "healthhub")

	// Monitoring defaults
	v.SetDefault("monitoring.metrics_path", "/metrics")
	v.SetDefault("monitoring.namespace", "healthhub")
}

func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required for driver %q", DriverPostgres)
		}
	case DriverSQLite:
		if config.Database.Path == "" {
			return fmt.Errorf("database path is required for driver %q", DriverSQLite)
		}
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port must be positive")
	}
	if config.GRPC.Enabled && config.GRPC.Port <= 0 {
		return fmt.Errorf("grpc port must be positive")
	}
	if config.GraphQL.Enabled && !strings.HasPrefix(config.GraphQL.Path, "/") {
		return fmt.Errorf("graphql path must start with /")
	}
	if config.Redis.Enabled && config.Redis.Host == "" {
		return fmt.Errorf("redis host is required when redis is enabled")
	}
	return nil
}

// Addr formats host and port for net.Listen.
func Addr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
