package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/testing/suite"
)

func sessionRepositories(t *testing.T) map[string]func(t *testing.T) (context.Context, SessionRepository) {
	t.Helper()

	return map[string]func(t *testing.T) (context.Context, SessionRepository){
		"redis": func(t *testing.T) (context.Context, SessionRepository) {
			ctx, st := suite.NewInMemory(t)
			return ctx, NewSessionRepository(st.Storage, time.Hour)
		},
		"memory": func(_ *testing.T) (context.Context, SessionRepository) {
			return context.Background(), NewMemorySessionRepository(time.Hour, nil)
		},
	}
}

func TestSessionRepository_CreateOrUpdate(t *testing.T) {
	for name, setup := range sessionRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx, sessionRepo := setup(t)

			// Given: a session without a game
			session := &entity.Session{ID: "123"}
			require.NoError(t, sessionRepo.CreateOrUpdate(ctx, session))

			// When: a game is attached to it
			session.GameID = "game-1"
			err := sessionRepo.CreateOrUpdate(ctx, session)

			// Then: the session points at the game
			require.NoError(t, err)
			stored, err := sessionRepo.GetByID(ctx, session.ID)
			require.NoError(t, err)
			assert.Equal(t, "game-1", stored.GameID)
			assert.True(t, stored.HasGame())
		})
	}
}

func TestSessionRepository_GetByID(t *testing.T) {
	for name, setup := range sessionRepositories(t) {
		t.Run(name+"/GetByID_Success", func(t *testing.T) {
			ctx, sessionRepo := setup(t)

			// Given: a session with ID
			session := &entity.Session{ID: "123", GameID: "game-1"}
			require.NoError(t, sessionRepo.CreateOrUpdate(ctx, session))

			// When: GetByID is called with existing ID
			retrievedSession, err := sessionRepo.GetByID(ctx, session.ID)

			// Then: the retrieved session should match the saved session
			require.NoError(t, err)
			assert.Equal(t, session, retrievedSession)
		})

		t.Run(name+"/GetByID_NotFound", func(t *testing.T) {
			ctx, sessionRepo := setup(t)

			// When: GetByID is called with non-existent ID
			retrievedSession, err := sessionRepo.GetByID(ctx, "9999999")

			// Then: an ErrSessionNotFound error should be returned
			require.ErrorIs(t, err, ErrSessionNotFound)
			assert.Nil(t, retrievedSession)
		})
	}
}

func TestSessionRepository_Expires(t *testing.T) {
	ctx, st := suite.NewInMemory(t)
	sessionRepo := NewSessionRepository(st.Storage, time.Minute)

	require.NoError(t, sessionRepo.CreateOrUpdate(ctx, &entity.Session{ID: "123"}))
	st.Miniredis.FastForward(time.Minute)

	_, err := sessionRepo.GetByID(ctx, "123")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionRepository_Touch(t *testing.T) {
	t.Run("redis/Extends the ttl", func(t *testing.T) {
		ctx, st := suite.NewInMemory(t)
		sessionRepo := NewSessionRepository(st.Storage, time.Minute)

		// Given: a session half way through its ttl
		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, &entity.Session{ID: "123"}))
		st.Miniredis.FastForward(40 * time.Second)

		// When: it is touched
		require.NoError(t, sessionRepo.Touch(ctx, "123"))

		// Then: it outlives the original deadline
		st.Miniredis.FastForward(40 * time.Second)
		_, err := sessionRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, time.Minute, st.Miniredis.TTL(sessionKeyPrefix+"123"))
	})

	t.Run("memory/Extends the ttl", func(t *testing.T) {
		ctx := context.Background()
		now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		sessionRepo := NewMemorySessionRepository(time.Minute, func() time.Time { return now })

		require.NoError(t, sessionRepo.CreateOrUpdate(ctx, &entity.Session{ID: "123", GameID: "game-1"}))
		now = now.Add(40 * time.Second)

		require.NoError(t, sessionRepo.Touch(ctx, "123"))

		now = now.Add(40 * time.Second)
		stored, err := sessionRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, "game-1", stored.GameID)

		now = now.Add(20 * time.Second)
		_, err = sessionRepo.GetByID(ctx, "123")
		require.ErrorIs(t, err, ErrSessionNotFound)
	})

	for name, setup := range sessionRepositories(t) {
		t.Run(name+"/Missing session", func(t *testing.T) {
			ctx, sessionRepo := setup(t)

			err := sessionRepo.Touch(ctx, "missing")

			require.ErrorIs(t, err, ErrSessionNotFound)
		})
	}
}
