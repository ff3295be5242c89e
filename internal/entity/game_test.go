package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayer(t *testing.T) {
	t.Run("Other alternates between the two players", func(t *testing.T) {
		assert.Equal(t, PlayerB, PlayerA.Other())
		assert.Equal(t, PlayerA, PlayerB.Other())
	})

	t.Run("Names follow token colors", func(t *testing.T) {
		assert.Equal(t, "Red", PlayerA.Name())
		assert.Equal(t, "Yellow", PlayerB.Name())
		assert.Empty(t, Player(0).Name())
	})

	t.Run("Zero value is not a valid player", func(t *testing.T) {
		assert.False(t, Player(0).Valid())
		assert.True(t, PlayerA.Valid())
		assert.True(t, PlayerB.Valid())
	})

	t.Run("Text marshalling rejects unknown players", func(t *testing.T) {
		// Given: an invalid player value
		var p Player = 7

		// When: marshalling it
		_, err := p.MarshalText()

		// Then: ErrUnknownPlayer is returned
		require.ErrorIs(t, err, ErrUnknownPlayer)

		var decoded Player
		require.ErrorIs(t, decoded.UnmarshalText([]byte("C")), ErrUnknownPlayer)
	})
}

func TestCell_Player(t *testing.T) {
	p, ok := Empty.Player()
	assert.False(t, ok)
	assert.False(t, p.Valid())

	p, ok = PlayerB.Cell().Player()
	assert.True(t, ok)
	assert.Equal(t, PlayerB, p)
}

func TestBoard_Count(t *testing.T) {
	// Given: a board with three red and one yellow token
	var board Board
	board[5][0] = PlayerA.Cell()
	board[5][1] = PlayerA.Cell()
	board[4][0] = PlayerA.Cell()
	board[5][2] = PlayerB.Cell()

	// Then: tokens are counted per player
	assert.Equal(t, 3, board.Count(PlayerA))
	assert.Equal(t, 1, board.Count(PlayerB))
}

func TestStatus(t *testing.T) {
	t.Run("In progress is not terminal and has no message", func(t *testing.T) {
		status := InProgress()

		assert.False(t, status.IsTerminal())
		assert.Empty(t, status.Message())
		assert.Equal(t, "in_progress", status.String())
	})

	t.Run("Won status carries the winner", func(t *testing.T) {
		status := Won(PlayerA)

		assert.True(t, status.IsTerminal())
		assert.True(t, status.IsWon())
		assert.Equal(t, "Player Red wins!", status.Message())
		assert.Equal(t, "Player Yellow wins!", Won(PlayerB).Message())
		assert.Equal(t, "won(A)", status.String())
	})

	t.Run("Draw is terminal", func(t *testing.T) {
		status := Draw()

		assert.True(t, status.IsTerminal())
		assert.True(t, status.IsDraw())
		assert.Equal(t, "It's a draw!", status.Message())
	})
}

func TestGame_JSON(t *testing.T) {
	// Given: a game in progress with one token on the board
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	state := GameState{Turn: PlayerB, Status: InProgress(), Moves: 1}
	state.Board[5][3] = PlayerA.Cell()
	game := NewGame("game-1", state, now)

	// When: encoding it
	data, err := json.Marshal(game)
	require.NoError(t, err)

	// Then: state fields are flattened and the winner is omitted
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "game-1", raw["id"])
	assert.Equal(t, "B", raw["turn"])
	assert.Equal(t, map[string]any{"state": "in_progress"}, raw["status"])

	var decoded Game
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *game, decoded)
	assert.False(t, decoded.IsFinished())
}

func TestSession_HasGame(t *testing.T) {
	assert.False(t, (&Session{ID: "s"}).HasGame())
	assert.True(t, (&Session{ID: "s", GameID: "g"}).HasGame())
}
