package config

import (
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the root configuration tree, loaded from a YAML file with
// environment-variable overrides.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	MySQL     MySQLConfig     `mapstructure:"mysql"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Auction   AuctionConfig   `mapstructure:"auction"`
	Outbox    OutboxConfig    `mapstructure:"outbox"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers []string         `mapstructure:"brokers"`
	Topic   KafkaTopicConfig `mapstructure:"topic"`
}

type KafkaTopicConfig struct {
	AuctionEvents string `mapstructure:"auction_events"`
}

// OutboxConfig governs the background outbox drain (internal/job.OutboxSender).
type OutboxConfig struct {
	MaxRetryCount int `mapstructure:"max_retry_count"`
}

// SchedulerConfig governs the settlement ticker (spec.md §4.6).
type SchedulerConfig struct {
	IntervalMS    int `mapstructure:"interval_ms"`
	TickTimeoutMS int `mapstructure:"tick_timeout_ms"`
	StaleLeaseSec int `mapstructure:"stale_lease_sec"`
}

func (s SchedulerConfig) Interval() time.Duration {
	return time.Duration(s.IntervalMS) * time.Millisecond
}

func (s SchedulerConfig) TickTimeout() time.Duration {
	return time.Duration(s.TickTimeoutMS) * time.Millisecond
}

func (s SchedulerConfig) StaleLease() time.Duration {
	return time.Duration(s.StaleLeaseSec) * time.Second
}

// AuctionConfig holds the validation bounds from spec.md §6.
type AuctionConfig struct {
	MaxTotalItems                    int `mapstructure:"max_total_items"`
	MaxItemsPerRound                 int `mapstructure:"max_items_per_round"`
	MinRoundDurationSec              int `mapstructure:"min_round_duration_sec"`
	MaxRoundDurationSec              int `mapstructure:"max_round_duration_sec"`
	MaxAntiSnipeWindowSec            int `mapstructure:"max_anti_snipe_window_sec"`
	MaxAntiSnipeExtensionSec         int `mapstructure:"max_anti_snipe_extension_sec"`
	MaxAntiSnipeMaxTotalExtensionSec int `mapstructure:"max_anti_snipe_max_total_extension_sec"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

var GlobalConfig *Config

// LoadConfig reads an optional .env (local-dev convenience, per
// mikiasyonas-Micro-Casino's pattern) before binding the YAML config file
// plus environment overrides via viper.
func LoadConfig(configPath string) *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		slog.Error("read config failed", "err", err)
		panic(err)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		slog.Error("parse config failed", "err", err)
		panic(err)
	}

	GlobalConfig = cfg
	return cfg
}
