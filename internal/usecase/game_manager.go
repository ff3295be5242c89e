package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/connectfour"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/metrics"
	"github.com/rocketscienceinc/connectfour-backend/internal/repository"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	Touch(ctx context.Context, id string) error
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type locker interface {
	Lock(ctx context.Context, key string) (repository.UnlockFunc, error)
}

type GameManager struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
	locker  locker
	now     func() time.Time

	sessionRepo sessionRepo
	gameRepo    gameRepo
}

// NewGameManager - recorder may be nil when metrics are disabled.
func NewGameManager(
	logger *slog.Logger,
	sessionRepo sessionRepo,
	gameRepo gameRepo,
	locker locker,
	recorder *metrics.Recorder,
) *GameManager {
	return &GameManager{
		logger:  logger.With("component", "game_manager"),
		metrics: recorder,
		locker:  locker,
		now:     time.Now,

		sessionRepo: sessionRepo,
		gameRepo:    gameRepo,
	}
}

// GetOrCreateSession - unknown or expired ids get a fresh session with a new id.
func (that *GameManager) GetOrCreateSession(ctx context.Context, id string) (*entity.Session, error) {
	if id == "" {
		return that.createSession(ctx)
	}

	session, err := that.sessionRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return that.createSession(ctx)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	return session, nil
}

// GetOrCreateGame - the session's game, a new one when it has none or it expired.
func (that *GameManager) GetOrCreateGame(ctx context.Context, sessionID string) (*entity.Game, error) {
	unlock, err := that.lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return that.getOrCreateGame(ctx, sessionID)
}

// DropToken - plays column for whoever's turn it is. Rejected moves return the
// unchanged game together with the wrapped rule error.
func (that *GameManager) DropToken(ctx context.Context, sessionID string, column int) (*entity.Game, entity.MoveResult, error) {
	log := that.logger.With("method", "DropToken", "session_id", sessionID)

	unlock, err := that.lock(ctx, sessionID)
	if err != nil {
		return nil, entity.MoveResult{}, err
	}
	defer unlock()

	game, err := that.getOrCreateGame(ctx, sessionID)
	if err != nil {
		return nil, entity.MoveResult{}, err
	}

	engine, err := connectfour.Restore(game.GameState)
	if err != nil {
		return nil, entity.MoveResult{}, fmt.Errorf("failed to restore game %s: %w", game.ID, err)
	}

	result, err := engine.DropToken(column)
	that.metrics.Move(result, err)
	if err != nil {
		log.Debug("move rejected", "game_id", game.ID, "column", column, "error", err)
		return game, entity.MoveResult{}, fmt.Errorf("failed to drop token: %w", err)
	}

	game.GameState = engine.Snapshot()
	game.UpdatedAt = that.now()

	if err = that.updateGame(ctx, game); err != nil {
		return nil, entity.MoveResult{}, err
	}

	if result.Status.IsTerminal() {
		log.Info("game finished", "game_id", game.ID, "status", result.Status.String(), "moves", game.Moves)
	}

	return game, result, nil
}

// ResetGame - clears the session's game in place and gives the turn back to A.
func (that *GameManager) ResetGame(ctx context.Context, sessionID string) (*entity.Game, error) {
	unlock, err := that.lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	game, err := that.getOrCreateGame(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	game.GameState = connectfour.New().Snapshot()
	game.UpdatedAt = that.now()

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	that.metrics.Reset()
	that.logger.Debug("game reset", "method", "ResetGame", "game_id", game.ID)

	return game, nil
}

// ValidColumns - columns of game that still accept a token.
func ValidColumns(game *entity.Game) []int {
	engine, err := connectfour.Restore(game.GameState)
	if err != nil {
		return []int{}
	}

	return engine.ValidColumns()
}

func (that *GameManager) lock(ctx context.Context, sessionID string) (func(), error) {
	unlock, err := that.locker.Lock(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock session %s: %w", sessionID, err)
	}

	return func() {
		// the caller's context may already be done, release regardless
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			that.logger.Error("failed to unlock session", "session_id", sessionID, "error", err)
		}
	}, nil
}

func (that *GameManager) getOrCreateGame(ctx context.Context, sessionID string) (*entity.Game, error) {
	session, err := that.getSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !session.HasGame() {
		return that.createGame(ctx, session)
	}

	game, err := that.gameRepo.GetByID(ctx, session.GameID)
	if errors.Is(err, repository.ErrGameNotFound) {
		that.logger.Debug("game expired, creating a new one", "session_id", session.ID, "game_id", session.GameID)
		return that.createGame(ctx, session)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	if _, err = connectfour.Restore(game.GameState); errors.Is(err, apperror.ErrCorruptState) {
		that.logger.Error("dropping corrupt game", "session_id", session.ID, "game_id", game.ID, "error", err)
		that.deleteGame(ctx, game)

		return that.createGame(ctx, session)
	}

	that.touchSession(ctx, session.ID)

	return game, nil
}

// touchSession - keeps the session alive as long as its game is in use.
func (that *GameManager) touchSession(ctx context.Context, sessionID string) {
	if err := that.sessionRepo.Touch(ctx, sessionID); err != nil {
		that.logger.Error("failed to touch session", "method", "touchSession", "session_id", sessionID, "error", err)
	}
}

func (that *GameManager) deleteGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "deleteGame")

	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil && !errors.Is(err, repository.ErrGameNotFound) {
		log.Error("failed to delete game", "game_id", game.ID, "error", err)
	}
}

func (that *GameManager) createGame(ctx context.Context, session *entity.Session) (*entity.Game, error) {
	newGame := entity.NewGame(uuid.NewString(), connectfour.New().Snapshot(), that.now())

	if err := that.gameRepo.CreateOrUpdate(ctx, newGame); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	session.GameID = newGame.ID
	if err := that.updateSession(ctx, session); err != nil {
		return nil, err
	}

	that.metrics.GameStarted()
	that.logger.Info("game created", "session_id", session.ID, "game_id", newGame.ID)

	return newGame, nil
}

func (that *GameManager) createSession(ctx context.Context) (*entity.Session, error) {
	session := &entity.Session{
		ID: uuid.NewString(),
	}

	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

func (that *GameManager) getSessionByID(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

func (that *GameManager) updateSession(ctx context.Context, session *entity.Session) error {
	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}
