package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// Source kinds understood by the table loader.
const (
	SourceCSV        = "csv"
	SourceMySQL      = "mysql"
	SourceClickHouse = "clickhouse"
)

// ---- Root ----

type Config struct {
	HTTP       HTTPConfig       `mapstructure:"http"`
	Log        LogConfig        `mapstructure:"log"`
	Source     SourceConfig     `mapstructure:"source"`
	CSV        CSVConfig        `mapstructure:"csv"`
	MySQL      DatabaseConfig   `mapstructure:"mysql"`
	ClickHouse DatabaseConfig   `mapstructure:"clickhouse"`
	Redis      RedisConfig      `mapstructure:"redis"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Columns    ColumnsConfig    `mapstructure:"columns"`
	Thresholds ThresholdsConfig `mapstructure:"thresholds"`
}

// ---- Leaf structs ----

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SourceConfig selects where the two reference tables are read from at startup.
type SourceConfig struct {
	Kind           string `mapstructure:"kind"`
	MaterialsTable string `mapstructure:"materials_table"`
	CustomersTable string `mapstructure:"customers_table"`
}

type CSVConfig struct {
	MaterialsPath string `mapstructure:"materials_path"`
	CustomersPath string `mapstructure:"customers_path"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idletime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type RateLimitConfig struct {
	RPS int `mapstructure:"rps"`
}

// ColumnsConfig names the columns the dashboard interprets; all other columns
// are only shown in the general information table.
type ColumnsConfig struct {
	MaterialKey    string `mapstructure:"material_key"`
	Transition     string `mapstructure:"transition"`
	Stationary     string `mapstructure:"stationary"`
	CustomerKey    string `mapstructure:"customer_key"`
	CLV            string `mapstructure:"clv"`
	MeanRecurrence string `mapstructure:"mean_recurrence"`
}

type ThresholdsConfig struct {
	ValueHigh          float64 `mapstructure:"value_high"`
	ValueMedium        float64 `mapstructure:"value_medium"`
	RecurrenceHigh     float64 `mapstructure:"recurrence_high"`
	RecurrenceModerate float64 `mapstructure:"recurrence_moderate"`
}

// Load reads embedded defaults, merges user YAML (if present), and applies env overrides (DASH_*).
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, fmt.Errorf("read defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.MergeInConfig(); err != nil {
				return Config{}, fmt.Errorf("merge %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("stat %s: %w", path, err)
		}
	}

	// env override (DASH_*), nested keys joined with "_"
	v.SetEnvPrefix("DASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the dashboard cannot start with.
func (c Config) Validate() error {
	switch c.Source.Kind {
	case SourceCSV:
		if c.CSV.MaterialsPath == "" || c.CSV.CustomersPath == "" {
			return errors.New("csv source needs both materials_path and customers_path")
		}
	case SourceMySQL:
		if c.MySQL.DSN == "" {
			return errors.New("mysql source needs mysql.dsn")
		}
	case SourceClickHouse:
		if c.ClickHouse.DSN == "" {
			return errors.New("clickhouse source needs clickhouse.dsn")
		}
	default:
		return fmt.Errorf("unknown source kind %q", c.Source.Kind)
	}

	if c.Columns.MaterialKey == "" || c.Columns.CustomerKey == "" {
		return errors.New("columns.material_key and columns.customer_key are required")
	}

	t := c.Thresholds
	if t.ValueMedium >= t.ValueHigh {
		return fmt.Errorf("thresholds: value_medium (%v) must be below value_high (%v)", t.ValueMedium, t.ValueHigh)
	}
	if t.RecurrenceHigh >= t.RecurrenceModerate {
		return fmt.Errorf("thresholds: recurrence_high (%v) must be below recurrence_moderate (%v)", t.RecurrenceHigh, t.RecurrenceModerate)
	}
	return nil
}
