package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var ErrMissingSigningKey = errors.New("api.jwt_signing_key must be set")

type AppConfig struct {
	API           *APIConfig           `mapstructure:"api"`
	Gin           *GinConfig           `mapstructure:"gin"`
	Log           *LogConfig           `mapstructure:"log"`
	Postgres      *PostgresConfig      `mapstructure:"postgres"`
	Redis         *RedisConfig         `mapstructure:"redis"`
	Notifications *NotificationsConfig `mapstructure:"notifications"`
	Exhibitions   *ExhibitionsConfig   `mapstructure:"exhibitions"`
	QR            *QRConfig            `mapstructure:"qr"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	Port               string   `mapstructure:"port"`
	BaseURL            string   `mapstructure:"base_url"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
	ScanRateLimit      float64  `mapstructure:"scan_rate_limit"`
	ScanBurst          int      `mapstructure:"scan_burst"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DB, c.SSLMode)
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	QueueKey string `mapstructure:"queue_key"`
}

type NotificationsConfig struct {
	NotifyOnReject bool          `mapstructure:"notify_on_reject"`
	MaxRetries     uint64        `mapstructure:"max_retries"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	PushTimeout    time.Duration `mapstructure:"push_timeout"`
}

type ExhibitionsConfig struct {
	ExpirySweepInterval time.Duration `mapstructure:"expiry_sweep_interval"`
}

type QRConfig struct {
	Size int `mapstructure:"size"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.base_url", "localhost:8080")
	v.SetDefault("api.jwt_signing_key", "")
	v.SetDefault("api.allowed_cors_domains", []string{"http://localhost:3000"})
	v.SetDefault("api.scan_rate_limit", 5.0)
	v.SetDefault("api.scan_burst", 10)
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("log.level", "info")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db", "")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.queue_key", "exhibition:notifications")
	v.SetDefault("notifications.notify_on_reject", false)
	v.SetDefault("notifications.max_retries", 3)
	v.SetDefault("notifications.initial_backoff", "200ms")
	v.SetDefault("notifications.push_timeout", "5s")
	v.SetDefault("exhibitions.expiry_sweep_interval", "1h")
	v.SetDefault("qr.size", 256)
}

// Load reads the YAML file at path. Every key can be overridden from the
// environment, e.g. API_PORT or POSTGRES_HOST.
func Load(path string) (*AppConfig, error) {
	conf, _, err := load(path)
	return conf, err
}

func load(path string) (*AppConfig, *viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf, err := decode(v)
	if err != nil {
		return nil, nil, err
	}

	return conf, v, nil
}

func decode(v *viper.Viper) (*AppConfig, error) {
	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}
	if conf.API.JWTSigningKey == "" {
		return nil, ErrMissingSigningKey
	}

	return conf, nil
}

// Watch loads path and calls onChange with the new configuration every time
// the file is written. Changes that fail to decode are reported through
// onError and otherwise ignored.
func Watch(path string, onChange func(*AppConfig), onError func(error)) (*AppConfig, error) {
	conf, v, err := load(path)
	if err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		next, err := decode(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(next)
	})
	v.WatchConfig()

	return conf, nil
}
