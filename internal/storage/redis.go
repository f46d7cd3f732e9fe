// Package storage оборачивает redis в узкий key-value контракт сервиса:
// Get/Set для хранимых значений и CacheGet/CacheSet для кэша с TTL.
//
// Любой сбой транспорта (обрыв соединения, busy/loading, таймаут) приводится
// к единому признаку ErrUnavailable. Повторы с экспоненциальным backoff и
// таймауты настраиваются на клиенте redis и не протекают в вызывающий код.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/scoring-api/internal/config"
)

// ErrUnavailable — единый признак недоступности хранилища.
var ErrUnavailable = errors.New("storage unavailable")

// Storage обеспечивает доступ к redis.
type Storage struct {
	Db *redis.Client
}

// New подключается к redis и проверяет соединение.
func New(ctx context.Context, cfg config.RedisConnection) (*Storage, error) {
	const op = "storage.New"
	db := redis.NewClient(&redis.Options{
		Addr:            cfg.Addr,
		Password:        cfg.Password,
		Username:        cfg.User,
		DB:              cfg.DB,
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: cfg.MinRetryBackoff,
		MaxRetryBackoff: cfg.MaxRetryBackoff,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.Timeout,
		WriteTimeout:    cfg.Timeout,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Storage{Db: db}, nil
}

// Get возвращает хранимое значение по ключу; ok == false, если ключа нет.
func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	const op = "storage.Get"
	val, err := s.Db.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable(op, err)
	}
	return val, true, nil
}

// Set сохраняет значение без срока жизни.
func (s *Storage) Set(ctx context.Context, key, value string) error {
	const op = "storage.Set"
	if err := s.Db.Set(ctx, key, value, 0).Err(); err != nil {
		return unavailable(op, err)
	}
	return nil
}

// CacheGet возвращает закэшированное значение; ok == false, если ключа нет.
func (s *Storage) CacheGet(ctx context.Context, key string) (string, bool, error) {
	const op = "storage.CacheGet"
	val, err := s.Db.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable(op, err)
	}
	return val, true, nil
}

// CacheSet сохраняет значение с заданным сроком жизни.
func (s *Storage) CacheSet(ctx context.Context, key, value string, ttl time.Duration) error {
	const op = "storage.CacheSet"
	if err := s.Db.Set(ctx, key, value, ttl).Err(); err != nil {
		return unavailable(op, err)
	}
	return nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}
