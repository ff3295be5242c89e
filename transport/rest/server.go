package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

type gameManager interface {
	GetOrCreateSession(ctx context.Context, id string) (*entity.Session, error)
	GetOrCreateGame(ctx context.Context, sessionID string) (*entity.Game, error)
	DropToken(ctx context.Context, sessionID string, column int) (*entity.Game, entity.MoveResult, error)
	ResetGame(ctx context.Context, sessionID string) (*entity.Game, error)
}

// Options - extra routes. MetricsHandler is mounted at MetricsPath when set.
type Options struct {
	MetricsPath    string
	MetricsHandler http.Handler
}

type Server struct {
	logger *slog.Logger
	srv    *http.Server
}

// NewRouter - page, game API, ping and metrics.
func NewRouter(logger *slog.Logger, manager gameManager, opts Options) http.Handler {
	games := newGameHandler(logger, manager)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Get("/ping", PingHandler)
	router.Get("/", IndexHandler)

	router.Get("/api/game", games.GetGame)
	router.Post("/api/game/drop", games.DropToken)
	router.Post("/api/game/reset", games.ResetGame)

	if opts.MetricsHandler != nil && opts.MetricsPath != "" {
		router.Method(http.MethodGet, opts.MetricsPath, opts.MetricsHandler)
	}

	return router
}

func New(logger *slog.Logger, port string, handler http.Handler) *Server {
	return &Server{
		logger: logger.With("component", "http_server"),
		srv: &http.Server{
			Addr:         ":" + port,
			Handler:      handler,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
	}
}

// Start - blocks until the server fails or is shut down.
func (that *Server) Start() error {
	that.logger.Info("Starting HTTP server", "addr", that.srv.Addr)

	if err := that.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Shutdown(ctx context.Context) error {
	if err := that.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
