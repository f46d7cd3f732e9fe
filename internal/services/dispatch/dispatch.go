// Package dispatch реализует конвейер обработки метода: связывание и
// валидация конверта, аутентификация, маршрутизация по имени метода,
// связывание аргументов и выполнение операции.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/magabrotheeeer/scoring-api/internal/auth"
	"github.com/magabrotheeeer/scoring-api/internal/lib/sl"
	"github.com/magabrotheeeer/scoring-api/internal/schema"
)

// Имена поддерживаемых методов.
const (
	MethodOnlineScore      = "online_score"
	MethodClientsInterests = "clients_interests"
)

// AdminScore — фиксированный скор для административных запросов,
// кэш при этом не трогается.
const AdminScore = 42

// Context накапливает диагностические данные вызова. Наружу не отдается,
// используется только для логирования транспортным слоем.
type Context struct {
	RequestID string
	// Has — переданные поля профиля для online_score.
	Has []string
	// NClients — число запрошенных клиентов для clients_interests.
	NClients int
}

// Scorer определяет операции скоринга, доступные диспетчеру.
type Scorer interface {
	// Score возвращает скор профиля; сбои кэша разрешаются внутри.
	Score(ctx context.Context, req *schema.OnlineScoreRequest) float64
	// Interests возвращает интересы клиента; сбой хранилища пробрасывается.
	Interests(ctx context.Context, clientID int64) ([]string, error)
}

// Service — диспетчер методов. Не хранит состояния между вызовами,
// безопасен для конкурентного использования.
type Service struct {
	scorer Scorer
	auth   *auth.Authenticator
	log    *slog.Logger
}

// New создает новый диспетчер.
func New(scorer Scorer, authenticator *auth.Authenticator, log *slog.Logger) *Service {
	return &Service{
		scorer: scorer,
		auth:   authenticator,
		log:    log,
	}
}

// Handle проводит разобранное тело запроса через весь конвейер и возвращает
// полезную нагрузку вместе с кодом статуса. Ошибки валидации становятся
// кодом 422 с текстом ошибки, провал аутентификации — 403, неизвестный
// метод — 400. Ненулевая err означает внутренний сбой (недоступное
// хранилище на пути интересов), который транслирует транспортный слой.
func (s *Service) Handle(ctx context.Context, body map[string]any, dctx *Context) (any, int, error) {
	const op = "dispatch.Handle"
	log := s.log.With(
		slog.String("op", op),
		slog.String("request_id", dctx.RequestID),
	)

	req, err := schema.ParseMethodRequest(body)
	if err != nil {
		log.Info("invalid method request", sl.Err(err))
		return err.Error(), http.StatusUnprocessableEntity, nil
	}

	if !s.auth.Check(req, time.Now()) {
		log.Info("authentication failed", slog.String("login", req.Login))
		return "Forbidden", http.StatusForbidden, nil
	}

	switch req.Method {
	case MethodOnlineScore:
		return s.handleScore(ctx, log, req, dctx)
	case MethodClientsInterests:
		return s.handleInterests(ctx, log, req, dctx)
	default:
		log.Info("unknown method", slog.String("method", req.Method))
		msg := fmt.Sprintf("expected method to be one of [%s, %s]", MethodOnlineScore, MethodClientsInterests)
		return msg, http.StatusBadRequest, nil
	}
}

func (s *Service) handleScore(ctx context.Context, log *slog.Logger, req *schema.MethodRequest, dctx *Context) (any, int, error) {
	scoreReq, err := schema.ParseOnlineScoreRequest(req.Arguments)
	if err != nil {
		log.Info("invalid online_score arguments", sl.Err(err))
		return err.Error(), http.StatusUnprocessableEntity, nil
	}

	dctx.Has = scoreReq.PresentedFields()

	var score float64
	if req.IsAdmin() {
		score = AdminScore
	} else {
		score = s.scorer.Score(ctx, scoreReq)
	}
	return map[string]any{"score": score}, http.StatusOK, nil
}

func (s *Service) handleInterests(ctx context.Context, log *slog.Logger, req *schema.MethodRequest, dctx *Context) (any, int, error) {
	interestsReq, err := schema.ParseClientsInterestsRequest(req.Arguments)
	if err != nil {
		log.Info("invalid clients_interests arguments", sl.Err(err))
		return err.Error(), http.StatusUnprocessableEntity, nil
	}

	dctx.NClients = len(interestsReq.ClientIDs)

	result := make(map[string][]string, len(interestsReq.ClientIDs))
	for _, cid := range interestsReq.ClientIDs {
		interests, err := s.scorer.Interests(ctx, cid)
		if err != nil {
			return nil, 0, err
		}
		result[strconv.FormatInt(cid, 10)] = interests
	}
	return result, http.StatusOK, nil
}
