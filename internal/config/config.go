package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/Rogerio-17/cardapio-digital-web/internal/orders/repository"
)

type Config struct {
	HTTPPort        string        `mapstructure:"http_port"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFormat       string        `mapstructure:"log_format"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	CartStore     string        `mapstructure:"cart_store"`
	CartTTL       time.Duration `mapstructure:"cart_ttl"`
	CartIdleTTL   time.Duration `mapstructure:"cart_idle_ttl"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	MongoURI      string        `mapstructure:"mongo_uri"`
	MongoDBName   string        `mapstructure:"mongo_db_name"`

	CatalogStore          string `mapstructure:"catalog_store"`
	DBPath                string `mapstructure:"db_path"`
	CatalogMigrationsPath string `mapstructure:"catalog_migrations_path"`

	OrdersStore    string `mapstructure:"orders_store"`
	DBHost         string `mapstructure:"db_host"`
	DBPort         int    `mapstructure:"db_port"`
	DBUser         string `mapstructure:"db_user"`
	DBPassword     string `mapstructure:"db_password"`
	DBName         string `mapstructure:"db_name"`
	MigrationsPath string `mapstructure:"migrations_path"`

	OrderSubmitter        string `mapstructure:"order_submitter"`
	KafkaBrokers          string `mapstructure:"kafka_brokers"`
	OrdersConsumerEnabled bool   `mapstructure:"orders_consumer_enabled"`

	ViaCEPURL      string        `mapstructure:"viacep_url"`
	ViaCEPTimeout  time.Duration `mapstructure:"viacep_timeout"`
	PostalCacheTTL time.Duration `mapstructure:"postal_cache_ttl"`

	CheckoutEnforceChangeFor bool `mapstructure:"checkout_enforce_change_for"`
}

var defaults = map[string]any{
	"http_port":        "8080",
	"log_level":        "info",
	"log_format":       "json",
	"shutdown_timeout": "10s",

	"cart_store":     "redis",
	"cart_ttl":       "24h",
	"cart_idle_ttl":  "30m",
	"redis_addr":     "localhost:6379",
	"redis_password": "",
	"mongo_uri":      "mongodb://localhost:27017",
	"mongo_db_name":  "cartdb",

	"catalog_store":           "sqlite",
	"db_path":                 "./catalog.db",
	"catalog_migrations_path": "./internal/catalog/migrations",

	"orders_store":    "postgres",
	"db_host":         "localhost",
	"db_port":         5432,
	"db_user":         "postgres",
	"db_password":     "postgres",
	"db_name":         "cardapio",
	"migrations_path": "./internal/orders/repository/migrations",

	"order_submitter":         "inline",
	"kafka_brokers":           "localhost:9092",
	"orders_consumer_enabled": false,

	"viacep_url":       "https://viacep.com.br/ws",
	"viacep_timeout":   "5s",
	"postal_cache_ttl": "168h",

	"checkout_enforce_change_for": true,
}

// Load reads defaults, then the optional config file, then the environment.
// Environment variables use the upper-case key, e.g. HTTP_PORT.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	decoderConfigOption := viper.DecoderConfigOption(func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			dc.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := v.Unmarshal(&cfg, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func oneOf(name, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", name, strings.Join(allowed, "|"), value)
}

func (c *Config) Validate() error {
	return errors.Join(
		oneOf("CART_STORE", c.CartStore, "memory", "redis", "mongo"),
		oneOf("CATALOG_STORE", c.CatalogStore, "memory", "sqlite"),
		oneOf("ORDERS_STORE", c.OrdersStore, "memory", "postgres"),
		oneOf("ORDER_SUBMITTER", c.OrderSubmitter, "inline", "kafka"),
		oneOf("LOG_FORMAT", c.LogFormat, "json", "text"),
	)
}

func (c *Config) Brokers() []string {
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func (c *Config) PostgresCredentials() *repository.Credentials {
	return &repository.Credentials{
		Host:              c.DBHost,
		Port:              c.DBPort,
		User:              c.DBUser,
		Password:          c.DBPassword,
		DBName:            c.DBName,
		MigrationsDirPath: c.MigrationsPath,
	}
}
