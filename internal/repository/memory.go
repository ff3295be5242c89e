package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

type memoryItem[T any] struct {
	value     T
	expiresAt time.Time
}

// memoryStore - map of values that expire ttl after their last write.
// Values are copied on the way in and out.
type memoryStore[T any] struct {
	mu    sync.Mutex
	items map[string]memoryItem[T]
	ttl   time.Duration
	now   func() time.Time
}

func newMemoryStore[T any](ttl time.Duration, now func() time.Time) *memoryStore[T] {
	if now == nil {
		now = time.Now
	}

	return &memoryStore[T]{
		items: make(map[string]memoryItem[T]),
		ttl:   ttl,
		now:   now,
	}
}

func (that *memoryStore[T]) set(key string, value T) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.items[key] = memoryItem[T]{
		value:     value,
		expiresAt: that.now().Add(that.ttl),
	}
}

func (that *memoryStore[T]) get(key string) (T, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	item, ok := that.lookup(key)
	return item.value, ok
}

func (that *memoryStore[T]) delete(key string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.lookup(key); !ok {
		return false
	}

	delete(that.items, key)
	return true
}

// touch - restarts the ttl of a live item.
func (that *memoryStore[T]) touch(key string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	item, ok := that.lookup(key)
	if !ok {
		return false
	}

	item.expiresAt = that.now().Add(that.ttl)
	that.items[key] = item
	return true
}

// lookup - caller holds mu. Expired items are dropped.
func (that *memoryStore[T]) lookup(key string) (memoryItem[T], bool) {
	item, ok := that.items[key]
	if !ok {
		return memoryItem[T]{}, false
	}

	if !that.now().Before(item.expiresAt) {
		delete(that.items, key)
		return memoryItem[T]{}, false
	}

	return item, true
}

type memoryGame struct {
	store *memoryStore[entity.Game]
}

// NewMemoryGameRepository - process local GameRepository, now may be nil.
func NewMemoryGameRepository(ttl time.Duration, now func() time.Time) GameRepository {
	return &memoryGame{store: newMemoryStore[entity.Game](ttl, now)}
}

func (that *memoryGame) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.store.set(game.ID, *game)
	return nil
}

func (that *memoryGame) GetByID(_ context.Context, id string) (*entity.Game, error) {
	game, ok := that.store.get(id)
	if !ok {
		return nil, ErrGameNotFound
	}

	return &game, nil
}

func (that *memoryGame) DeleteByID(_ context.Context, id string) error {
	if !that.store.delete(id) {
		return ErrGameNotFound
	}

	return nil
}

type memorySession struct {
	store *memoryStore[entity.Session]
}

func NewMemorySessionRepository(ttl time.Duration, now func() time.Time) SessionRepository {
	return &memorySession{store: newMemoryStore[entity.Session](ttl, now)}
}

func (that *memorySession) CreateOrUpdate(_ context.Context, session *entity.Session) error {
	that.store.set(session.ID, *session)
	return nil
}

func (that *memorySession) GetByID(_ context.Context, id string) (*entity.Session, error) {
	session, ok := that.store.get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}

	return &session, nil
}

func (that *memorySession) Touch(_ context.Context, id string) error {
	if !that.store.touch(id) {
		return ErrSessionNotFound
	}

	return nil
}
