package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	applogger "adledger/internal/utils/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath = ".env"

	EnvLocal = applogger.EnvLocal
	EnvDev   = applogger.EnvDev
	EnvProd  = applogger.EnvProd

	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Env     string
	DB      db
	Server  server
	Logger  logger
	Storage storage
}

type db struct {
	DatabaseURI string
	Migrations  string
}

type server struct {
	RunAddress      string
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxValueBytes   int64
}

type logger struct {
	LogLevel string
}

type storage struct {
	Driver     string
	SQLitePath string
}

// Load читает конфигурацию из .env (если есть) и переменных окружения.
func Load() (*Config, error) {
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("load %s: %w", envPath, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", EnvLocal)
	v.SetDefault("RUN_ADDRESS", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_DRIVER", DriverMemory)
	v.SetDefault("SQLITE_PATH", "adledger.db")
	v.SetDefault("MIGRATIONS_PATH", "migrations/postgres")
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("READ_TIMEOUT", 15*time.Second)
	v.SetDefault("WRITE_TIMEOUT", 15*time.Second)
	v.SetDefault("MAX_VALUE_BYTES", 1<<20)

	cfg := &Config{
		Env: v.GetString("APP_ENV"),
		DB: db{
			DatabaseURI: v.GetString("DATABASE_URI"),
			Migrations:  v.GetString("MIGRATIONS_PATH"),
		},
		Server: server{
			RunAddress:      v.GetString("RUN_ADDRESS"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
			ReadTimeout:     v.GetDuration("READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("WRITE_TIMEOUT"),
			MaxValueBytes:   v.GetInt64("MAX_VALUE_BYTES"),
		},
		Logger: logger{LogLevel: v.GetString("LOG_LEVEL")},
		Storage: storage{
			Driver:     v.GetString("STORAGE_DRIVER"),
			SQLitePath: v.GetString("SQLITE_PATH"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad загружает конфигурацию и паникует при ошибке.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}

func (c *Config) validate() error {
	if c.Server.RunAddress == "" {
		return errors.New("RUN_ADDRESS must not be empty")
	}

	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("unknown APP_ENV %q", c.Env)
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DB.DatabaseURI == "" {
			return errors.New("DATABASE_URI is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.Server.MaxValueBytes <= 0 {
		return errors.New("MAX_VALUE_BYTES must be positive")
	}
	return nil
}

func (c *Config) IsProd() bool {
	return c.Env == EnvProd
}

func (c *Config) IsDev() bool {
	return c.Env == EnvDev
}

func (c *Config) IsLocal() bool {
	return c.Env == EnvLocal
}
