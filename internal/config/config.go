package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/currency"
)

type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`

	DbHost    string `mapstructure:"POSTGRES_HOST"`
	DbPort    string `mapstructure:"POSTGRES_PORT"`
	DbUser    string `mapstructure:"POSTGRES_USER"`
	DbPas     string `mapstructure:"POSTGRES_PASSWORD"`
	DbName    string `mapstructure:"POSTGRES_DB"`
	DbSSLMode string `mapstructure:"POSTGRES_SSLMODE"`

	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisDB         int           `mapstructure:"REDIS_DB"`
	ProductCacheTTL time.Duration `mapstructure:"PRODUCT_CACHE_TTL"`

	KafkaBrokers    string `mapstructure:"KAFKA_BROKERS"`
	KafkaOrderTopic string `mapstructure:"KAFKA_ORDER_TOPIC"`
	KafkaGroupID    string `mapstructure:"KAFKA_GROUP_ID"`

	StoreCurrency string `mapstructure:"STORE_CURRENCY"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogPretty bool   `mapstructure:"LOG_PRETTY"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	MigrateOnStart bool `mapstructure:"MIGRATE_ON_START"`
}

var defaultCurrency = currency.MustParseISO("UAH")

var defaults = map[string]any{
	"SERVER_PORT":       "8080",
	"POSTGRES_HOST":     "localhost",
	"POSTGRES_PORT":     "5432",
	"POSTGRES_USER":     "shop",
	"POSTGRES_PASSWORD": "shop",
	"POSTGRES_DB":       "shop",
	"POSTGRES_SSLMODE":  "disable",
	"REDIS_ADDR":        "localhost:6379",
	"REDIS_DB":          0,
	"PRODUCT_CACHE_TTL": 10 * time.Minute,
	"KAFKA_BROKERS":     "localhost:9092",
	"KAFKA_ORDER_TOPIC": "shop.orders",
	"KAFKA_GROUP_ID":    "shop-notifier",
	"STORE_CURRENCY":    "UAH",
	"LOG_LEVEL":         "info",
	"LOG_PRETTY":        false,
	"RATE_LIMIT_RPS":    50.0,
	"RATE_LIMIT_BURST":  100,
	"MIGRATE_ON_START":  true,
}

// Load reads the optional .env style file at path, then lets environment
// variables override it. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")

		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("v.ReadInConfig: %w", err)
		}
	}

	cf := &Config{}
	if err := v.Unmarshal(cf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal: %w", err)
	}

	if err := cf.Validate(); err != nil {
		return nil, err
	}

	return cf, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.ServerPort == "" {
		errs = append(errs, errors.New("SERVER_PORT is empty"))
	}
	if c.DbHost == "" || c.DbName == "" {
		errs = append(errs, errors.New("POSTGRES_HOST and POSTGRES_DB are required"))
	}
	if _, err := currency.ParseISO(c.StoreCurrency); err != nil {
		errs = append(errs, fmt.Errorf("STORE_CURRENCY[%s] is not valid: %w", c.StoreCurrency, err))
	}
	if c.ProductCacheTTL <= 0 {
		errs = append(errs, errors.New("PRODUCT_CACHE_TTL must be positive"))
	}
	if len(c.Brokers()) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is empty"))
	}
	if c.KafkaOrderTopic == "" {
		errs = append(errs, errors.New("KAFKA_ORDER_TOPIC is empty"))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS must be positive and RATE_LIMIT_BURST at least 1"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}

	return nil
}

func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DbUser, c.DbPas),
		Host:     net.JoinHostPort(c.DbHost, c.DbPort),
		Path:     c.DbName,
		RawQuery: url.Values{"sslmode": []string{c.DbSSLMode}}.Encode(),
	}
	return u.String()
}

func (c *Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func (c *Config) Currency() currency.Unit {
	unit, err := currency.ParseISO(c.StoreCurrency)
	if err != nil {
		return defaultCurrency
	}
	return unit
}
