package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"adledger/internal/utils/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverHTTP   = "http"
	DriverS3     = "s3"
	DriverMemory = "memory"

	envPrefix        = "ADLEDGER"
	defaultConfigDir = ".adledger"
	keyFileName      = "payload.key"
)

type S3 struct {
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type Config struct {
	Env                 string        `mapstructure:"app_env"`
	LogLevel            string        `mapstructure:"log_level"`
	Identity            string        `mapstructure:"identity"`
	StoreDriver         string        `mapstructure:"store_driver"`
	ServerAddress       string        `mapstructure:"server_address"`
	EnableTLS           bool          `mapstructure:"enable_tls"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout"`
	S3                  S3            `mapstructure:"s3"`
	ConfigDir           string        `mapstructure:"config_dir"`
	KeyPath             string        `mapstructure:"key_path"`
	OverlaySuccessDelay time.Duration `mapstructure:"overlay_success_delay"`
	OverlayErrorDelay   time.Duration `mapstructure:"overlay_error_delay"`
	IndexVerifyRetries  int           `mapstructure:"index_verify_retries"`
	CheckIDCollisions   bool          `mapstructure:"check_id_collisions"`
}

// Load собирает конфигурацию клиента: значения по умолчанию, затем файл
// конфигурации (если найден), затем .env и переменные окружения ADLEDGER_*.
func Load(configFile string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app_env", logger.EnvLocal)
	v.SetDefault("log_level", "info")
	v.SetDefault("identity", "")
	v.SetDefault("store_driver", DriverHTTP)
	v.SetDefault("server_address", "localhost:8080")
	v.SetDefault("enable_tls", false)
	v.SetDefault("request_timeout", 10*time.Second)
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.prefix", "")
	v.SetDefault("config_dir", filepath.Join(home, defaultConfigDir))
	v.SetDefault("key_path", "")
	v.SetDefault("overlay_success_delay", 2*time.Second)
	v.SetDefault("overlay_error_delay", 3*time.Second)
	v.SetDefault("index_verify_retries", 0)
	v.SetDefault("check_id_collisions", false)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(filepath.Join(home, defaultConfigDir))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.KeyPath == "" {
		cfg.KeyPath = filepath.Join(cfg.ConfigDir, keyFileName)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad загружает конфигурацию и паникует при ошибке.
func MustLoad() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverHTTP:
		if c.ServerAddress == "" {
			return errors.New("server_address must not be empty")
		}
	case DriverS3:
		if c.S3.Bucket == "" {
			return errors.New("s3.bucket is required for the s3 store driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store_driver %q", c.StoreDriver)
	}

	if c.RequestTimeout <= 0 {
		return errors.New("request_timeout must be positive")
	}
	if c.IndexVerifyRetries < 0 {
		return errors.New("index_verify_retries must not be negative")
	}
	return nil
}

func (c *Config) IsProd() bool {
	return c.Env == logger.EnvProd
}

func (c *Config) IsDev() bool {
	return c.Env == logger.EnvDev
}

func (c *Config) IsLocal() bool {
	return c.Env == logger.EnvLocal || c.Env == ""
}
