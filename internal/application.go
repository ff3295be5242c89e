package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rocketscienceinc/connectfour-backend/internal/config"
	"github.com/rocketscienceinc/connectfour-backend/internal/metrics"
	"github.com/rocketscienceinc/connectfour-backend/internal/repository"
	"github.com/rocketscienceinc/connectfour-backend/internal/repository/storage"
	"github.com/rocketscienceinc/connectfour-backend/internal/usecase"
	"github.com/rocketscienceinc/connectfour-backend/transport/rest"
	"github.com/rocketscienceinc/connectfour-backend/transport/websocket"
)

const (
	shutdownTimeout = 10 * time.Second
	lockTTL         = 10 * time.Second
)

var ErrAddrNotFound = errors.New("redis address string is empty")

type stores struct {
	sessions repository.SessionRepository
	games    repository.GameRepository
	locker   repository.Locker
	close    func() error
}

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	store, err := newStores(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err := store.close(); err != nil {
			log.Error("could not close storage", "error", err)
		}
	}()

	recorder, metricsHandler, err := newMetrics(conf)
	if err != nil {
		return fmt.Errorf("could not register metrics: %w", err)
	}

	gameManager := usecase.NewGameManager(logger, store.sessions, store.games, store.locker, recorder)

	httpServer := rest.New(logger, conf.HTTPPort, rest.NewRouter(logger, gameManager, rest.Options{
		MetricsPath:    conf.Metrics.Path,
		MetricsHandler: metricsHandler,
	}))
	wsServer := websocket.New(logger, gameManager, conf.AllowedOrigins...)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		if httpErr := httpServer.Start(); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		err = fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		err = fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Error("could not shutdown HTTP server", "error", shutdownErr)
	}

	if shutdownErr := wsServer.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Error("could not shutdown WebSocket server", "error", shutdownErr)
	}

	return err
}

func newStores(ctx context.Context, conf *config.Config) (*stores, error) {
	if conf.Storage.Driver == config.StorageMemory {
		return &stores{
			sessions: repository.NewMemorySessionRepository(conf.Storage.GameTTL, nil),
			games:    repository.NewMemoryGameRepository(conf.Storage.GameTTL, nil),
			locker:   repository.NewMemoryLocker(),
			close:    func() error { return nil },
		}, nil
	}

	if conf.Redis.Host == "" {
		return nil, ErrAddrNotFound
	}
	redisAddrString := conf.Redis.GetRedisAddr()

	redisStorage, err := storage.New(ctx, redisAddrString, conf.Redis.Password, conf.Redis.DB)
	if err != nil {
		return nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return &stores{
		sessions: repository.NewSessionRepository(redisStorage, conf.Storage.GameTTL),
		games:    repository.NewGameRepository(redisStorage, conf.Storage.GameTTL),
		locker:   repository.NewRedisLocker(redisStorage, lockTTL),
		close:    redisStorage.Close,
	}, nil
}

// newMetrics - nil recorder and handler when metrics are disabled.
func newMetrics(conf *config.Config) (*metrics.Recorder, http.Handler, error) {
	if conf.Metrics.Disabled {
		return nil, nil, nil
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	recorder, err := metrics.New(registry)
	if err != nil {
		return nil, nil, err
	}

	return recorder, promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}), nil
}
