// Package scoring содержит бизнес-логику подсчета скора профиля и выдачи
// интересов клиентов поверх key-value хранилища.
package scoring

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/scoring-api/internal/lib/sl"
	"github.com/magabrotheeeer/scoring-api/internal/schema"
	"github.com/magabrotheeeer/scoring-api/internal/storage"
)

// Префиксы ключей в хранилище.
const (
	scoreKeyPrefix     = "uid:"
	interestsKeyPrefix = "i:"
)

// Store определяет методы доступа к key-value хранилищу.
type Store interface {
	// Get возвращает хранимое значение; ok == false, если ключа нет.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set сохраняет значение без срока жизни.
	Set(ctx context.Context, key, value string) error
	// CacheGet возвращает закэшированное значение; ok == false, если ключа нет.
	CacheGet(ctx context.Context, key string) (string, bool, error)
	// CacheSet сохраняет значение с заданным сроком жизни.
	CacheSet(ctx context.Context, key, value string, ttl time.Duration) error
}

// Service реализует подсчет скора с lookaside-кэшем и выборку интересов.
type Service struct {
	store    Store
	log      *slog.Logger
	cacheTTL time.Duration
}

// New создает новый экземпляр Service.
func New(store Store, log *slog.Logger, cacheTTL time.Duration) *Service {
	return &Service{
		store:    store,
		log:      log,
		cacheTTL: cacheTTL,
	}
}

// Score возвращает скор профиля. Сначала пробует кэш по отпечатку профиля;
// недоступность хранилища и на чтении, и на записи логируется и не мешает
// подсчету — у скора всегда есть вычисляемый ответ.
func (s *Service) Score(ctx context.Context, req *schema.OnlineScoreRequest) float64 {
	const op = "scoring.Score"
	log := s.log.With(slog.String("op", op))

	key := fingerprint(req)

	cached, found, err := s.store.CacheGet(ctx, key)
	if err != nil {
		log.Warn("failed to read score from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		score, err := strconv.ParseFloat(cached, 64)
		if err == nil {
			return score
		}
		log.Warn("unexpected cached score value", slog.String("key", key), sl.Err(err))
	}

	var score float64
	if req.Phone != nil {
		score += 1.5
	}
	if req.Email != nil {
		score += 1.5
	}
	if req.Birthday != nil && req.Gender != nil {
		score += 1.5
	}
	if req.FirstName != nil && req.LastName != nil {
		score += 0.5
	}

	if err := s.store.CacheSet(ctx, key, strconv.FormatFloat(score, 'f', -1, 64), s.cacheTTL); err != nil {
		log.Warn("failed to cache score", slog.String("key", key), sl.Err(err))
	}
	return score
}

// Interests возвращает список интересов клиента. Отсутствующий ключ — это
// пустой список, но недоступность хранилища здесь не глотается: у интересов
// нет вычисляемого запасного ответа.
func (s *Service) Interests(ctx context.Context, clientID int64) ([]string, error) {
	const op = "scoring.Interests"

	key := interestsKeyPrefix + strconv.FormatInt(clientID, 10)
	val, found, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			s.log.Error("failed to read interests", slog.String("key", key), sl.Err(err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return []string{}, nil
	}

	var interests []string
	if err := json.Unmarshal([]byte(val), &interests); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return interests, nil
}

// fingerprint строит детерминированный ключ кэша по значимым для скоринга
// полям профиля; отсутствующее значение заменяется пустой строкой.
func fingerprint(req *schema.OnlineScoreRequest) string {
	var b strings.Builder
	b.WriteString(deref(req.FirstName))
	b.WriteString(deref(req.LastName))
	b.WriteString(deref(req.Phone))
	if req.Birthday != nil {
		b.WriteString(req.Birthday.Format("20060102"))
	}
	sum := md5.Sum([]byte(b.String()))
	return scoreKeyPrefix + hex.EncodeToString(sum[:])
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
