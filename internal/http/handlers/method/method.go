// Package method реализует единственную точку входа API: POST /method.
package method

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magabrotheeeer/scoring-api/internal/http/response"
	"github.com/magabrotheeeer/scoring-api/internal/lib/sl"
	"github.com/magabrotheeeer/scoring-api/internal/services/dispatch"
)

var responsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "scoring_api_responses_total",
	Help: "Number of method responses by status code.",
}, []string{"code"})

// Dispatcher определяет интерфейс диспетчера методов.
type Dispatcher interface {
	Handle(ctx context.Context, body map[string]any, dctx *dispatch.Context) (any, int, error)
}

// New возвращает обработчик POST /method.
//
// @Summary      Вызов метода скоринга
// @Description  Принимает конверт {account, login, token, method, arguments} и возвращает результат метода
// @Accept       json
// @Produce      json
// @Param        request body map[string]interface{} true "Конверт запроса"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response
// @Failure      403 {object} response.Response
// @Failure      422 {object} response.Response
// @Router       /method [post]
func New(log *slog.Logger, dispatcher Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.method.New"

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = middleware.GetReqID(r.Context())
		}
		if requestID == "" {
			requestID = uuid.New().String()
		}

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", requestID),
		)

		var body map[string]any
		if err := render.DecodeJSON(r.Body, &body); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			writeResponse(w, r, response.Failure("", http.StatusBadRequest))
			return
		}

		dctx := &dispatch.Context{RequestID: requestID}
		payload, code, err := dispatcher.Handle(r.Context(), body, dctx)
		if err != nil {
			log.Error("method call failed", sl.Err(err))
			writeResponse(w, r, response.Failure("", http.StatusInternalServerError))
			return
		}

		log.Info("method handled",
			slog.Int("code", code),
			slog.Any("has", dctx.Has),
			slog.Int("nclients", dctx.NClients),
		)

		if response.IsFailure(code) {
			msg, _ := payload.(string)
			writeResponse(w, r, response.Failure(msg, code))
			return
		}
		writeResponse(w, r, response.Success(payload, code))
	}
}

func writeResponse(w http.ResponseWriter, r *http.Request, resp response.Response) {
	responsesTotal.WithLabelValues(strconv.Itoa(resp.Code)).Inc()
	render.Status(r, resp.Code)
	render.JSON(w, r, resp)
}
