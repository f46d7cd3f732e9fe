// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator"
	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env             string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer      `yaml:"http_server"`
	RedisConnection `yaml:"redis_connection"`
	Auth            `yaml:"auth"`
	Scoring         `yaml:"scoring"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	Address     string        `yaml:"address" env-default:":8080" validate:"required"`
	Timeout     time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
// Повторы с экспоненциальным backoff и таймауты живут здесь:
// ядро сервиса их не реализует, только терпит.
type RedisConnection struct {
	Addr            string        `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379" validate:"required"`
	Password        string        `yaml:"password" env:"REDIS_PASSWORD"`
	User            string        `yaml:"user"`
	DB              int           `yaml:"db"`
	MaxRetries      int           `yaml:"max_retries" env-default:"3"`
	MinRetryBackoff time.Duration `yaml:"min_retry_backoff" env-default:"8ms"`
	MaxRetryBackoff time.Duration `yaml:"max_retry_backoff" env-default:"512ms"`
	DialTimeout     time.Duration `yaml:"dial_timeout" env-default:"5s"`
	Timeout         time.Duration `yaml:"timeout" env-default:"10s"`
}

// Auth структура с солями для проверки токена.
type Auth struct {
	Salt      string `yaml:"salt" env:"AUTH_SALT" env-default:"Otus" validate:"required"`
	AdminSalt string `yaml:"admin_salt" env:"AUTH_ADMIN_SALT" env-default:"42" validate:"required"`
}

// Scoring структура с настройками скоринга.
type Scoring struct {
	CacheTTL time.Duration `yaml:"cache_ttl" env-default:"1h"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и валидирует его.
// Завершает процесс при любой ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		log.Fatalf("invalid config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  User: %s\n"+
			"  DB: %d\n"+
			"  MaxRetries: %d\n"+
			"  MinRetryBackoff: %s\n"+
			"  MaxRetryBackoff: %s\n"+
			"  DialTimeout: %s\n"+
			"  Timeout: %s\n"+
			"Scoring:\n"+
			"  CacheTTL: %s\n",
		c.Env,
		c.HTTPServer.Address,
		c.HTTPServer.Timeout,
		c.IdleTimeout,
		c.RedisConnection.Addr,
		c.RedisConnection.User,
		c.DB,
		c.MaxRetries,
		c.MinRetryBackoff,
		c.MaxRetryBackoff,
		c.DialTimeout,
		c.RedisConnection.Timeout,
		c.CacheTTL,
	)
}
