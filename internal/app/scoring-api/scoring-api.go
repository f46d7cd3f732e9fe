// Package scoringapi собирает приложение: хранилище, сервисы, маршруты и HTTP-сервер.
package scoringapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/scoring-api/internal/auth"
	"github.com/magabrotheeeer/scoring-api/internal/config"
	"github.com/magabrotheeeer/scoring-api/internal/lib/sl"
	"github.com/magabrotheeeer/scoring-api/internal/services/dispatch"
	"github.com/magabrotheeeer/scoring-api/internal/services/scoring"
	"github.com/magabrotheeeer/scoring-api/internal/storage"
)

// App держит состав приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	store  *storage.Storage
}

// New подключает зависимости и собирает HTTP-сервер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := storage.New(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	authenticator := auth.New(cfg.Auth.Salt, cfg.Auth.AdminSalt)
	scoringService := scoring.New(store, logger, cfg.Scoring.CacheTTL)
	dispatcher := dispatch.New(scoringService, authenticator, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, dispatcher)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		store:  store,
	}, nil
}

// Run запускает сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.store.Db.Close(); cerr != nil {
			a.logger.Warn("failed to close storage connection", sl.Err(cerr))
		}
		return err
	}
}
