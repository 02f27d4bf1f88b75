package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

type LoggingConfig struct {
	Level string
}

// StoreConfig selects the key/value medium and the key naming scheme.
// Bumping SchemaVersion hides every record written under the old keys.
type StoreConfig struct {
	Driver        string
	Namespace     string
	SchemaVersion string
	Timeout       time.Duration
}

type SQLiteConfig struct {
	Path string
}

type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
	Table           string
}

// MetricsConfig.Textfile, when set, receives the counters in the text
// exposition format once the command finishes.
type MetricsConfig struct {
	Textfile string
}

type BootstrapConfig struct {
	Seed bool
}

type AppConfig struct {
	Environment string
	Logging     LoggingConfig
	Store       StoreConfig
	SQLite      SQLiteConfig
	Redis       RedisConfig
	Postgres    PostgresConfig
	Bootstrap   BootstrapConfig
	Metrics     MetricsConfig
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("titanchat")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("TITANCHAT")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *AppConfig) validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverSQLite, DriverRedis, DriverPostgres:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Driver == DriverPostgres && c.Postgres.DSN == "" {
		return fmt.Errorf("postgres driver requires postgres.dsn")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("logging.level", "")

	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.namespace", "titanChat")
	v.SetDefault("store.schemaversion", "v4")
	v.SetDefault("store.timeout", "3s")

	v.SetDefault("sqlite.path", "./data/titanchat.db")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.dialtimeout", "5s")

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.maxopen", 10)
	v.SetDefault("postgres.maxidle", 2)
	v.SetDefault("postgres.connmaxlifetime", "30m")
	v.SetDefault("postgres.connecttimeout", "10s")
	v.SetDefault("postgres.table", "titanchat_kv")

	v.SetDefault("bootstrap.seed", true)

	v.SetDefault("metrics.textfile", "")
}
