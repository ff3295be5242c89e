package connectfour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

// drawSequence fills the board without a single line of four.
var drawSequence = []int{
	0, 0, 0, 0, 0, 0,
	1, 1, 1, 1, 1, 1,
	2, 2, 2, 2, 2, 2,
	4, 3, 3, 3, 3, 3, 3,
	4, 4, 4, 4, 4,
	5, 5, 5, 5, 5, 5,
	6, 6, 6, 6, 6, 6,
}

// lastCellWinSequence completes a line for Player B with the 42nd token.
var lastCellWinSequence = []int{
	4, 6, 0, 2, 6, 5, 1, 2, 5, 2, 3, 4, 1, 1, 4, 0, 3, 5, 5, 6, 2,
	4, 3, 0, 1, 3, 1, 5, 0, 1, 3, 0, 2, 6, 2, 4, 3, 0, 4, 6, 6, 5,
}

func play(t *testing.T, engine *Engine, columns ...int) entity.MoveResult {
	t.Helper()

	var result entity.MoveResult
	for i, column := range columns {
		var err error
		result, err = engine.DropToken(column)
		require.NoError(t, err, "move %d into column %d", i, column)
	}
	return result
}

func TestNew(t *testing.T) {
	// Given: a new engine
	engine := New()

	// Then: the board is empty, Player A moves first and the game is running
	assert.Equal(t, entity.Board{}, engine.Board())
	assert.Equal(t, entity.PlayerA, engine.CurrentPlayer())
	assert.Equal(t, entity.InProgress(), engine.Status())
	assert.Zero(t, engine.Moves())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, engine.ValidColumns())
}

func TestEngine_DropToken(t *testing.T) {
	t.Run("Token lands in the bottom row and the turn passes", func(t *testing.T) {
		// Given: a new engine
		engine := New()

		// When: Player A drops into column 3
		result, err := engine.DropToken(3)

		// Then: the token lands at row 5 and it is Player B's turn
		require.NoError(t, err)
		assert.Equal(t, entity.MoveResult{
			Position: entity.Position{Row: 5, Column: 3},
			Status:   entity.InProgress(),
		}, result)

		cell, err := engine.Cell(5, 3)
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerA.Cell(), cell)
		assert.Equal(t, entity.PlayerB, engine.CurrentPlayer())
		assert.Equal(t, 1, engine.Moves())
	})

	t.Run("Tokens stack on top of each other", func(t *testing.T) {
		// Given: a token in column 2
		engine := New()
		play(t, engine, 2)

		// When: Player B drops into the same column
		result, err := engine.DropToken(2)

		// Then: the token lands one row higher
		require.NoError(t, err)
		assert.Equal(t, entity.Position{Row: 4, Column: 2}, result.Position)

		cell, err := engine.Cell(4, 2)
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerB.Cell(), cell)
		assert.Equal(t, entity.PlayerA, engine.CurrentPlayer())
	})

	t.Run("Error on column out of range", func(t *testing.T) {
		for _, column := range []int{-1, entity.Columns, 100} {
			// Given: a game with one move played
			engine := New()
			play(t, engine, 0)
			before := engine.Snapshot()

			// When: dropping outside the board
			_, err := engine.DropToken(column)

			// Then: ErrInvalidColumn is returned and nothing changed
			require.ErrorIs(t, err, apperror.ErrInvalidColumn)
			assert.Equal(t, before, engine.Snapshot())
		}
	})

	t.Run("Error on full column", func(t *testing.T) {
		// Given: column 0 filled with alternating tokens
		engine := New()
		play(t, engine, 0, 0, 0, 0, 0, 0)
		before := engine.Snapshot()

		// When: a seventh token is dropped into column 0
		_, err := engine.DropToken(0)

		// Then: ErrColumnFull is returned and the state is unchanged
		require.ErrorIs(t, err, apperror.ErrColumnFull)
		assert.Equal(t, before, engine.Snapshot())
		assert.Equal(t, entity.PlayerA, engine.CurrentPlayer())
		assert.NotContains(t, engine.ValidColumns(), 0)
	})

	t.Run("Turn alternates after every accepted move", func(t *testing.T) {
		engine := New()
		columns := []int{3, 4, 3, 4, 2, 5}

		for _, column := range columns {
			mover := engine.CurrentPlayer()

			_, err := engine.DropToken(column)
			require.NoError(t, err)

			assert.Equal(t, mover.Other(), engine.CurrentPlayer())
		}
	})
}

func TestEngine_Win(t *testing.T) {
	t.Run("Horizontal line wins on the fourth token and not the third", func(t *testing.T) {
		// Given: Player A has three tokens in row 5
		engine := New()
		result := play(t, engine, 0, 0, 1, 1, 2)
		require.Equal(t, entity.InProgress(), result.Status)

		// When: Player B answers and Player A completes the row
		play(t, engine, 2)
		result, err := engine.DropToken(3)

		// Then: Player A wins and the turn stays with Player A
		require.NoError(t, err)
		assert.Equal(t, entity.Position{Row: 5, Column: 3}, result.Position)
		assert.Equal(t, entity.Won(entity.PlayerA), result.Status)
		assert.Equal(t, entity.Won(entity.PlayerA), engine.Status())
		assert.Equal(t, entity.PlayerA, engine.CurrentPlayer())
	})

	t.Run("Vertical line in column 0", func(t *testing.T) {
		// Given: a new engine
		engine := New()

		// When: A and B alternate between columns 0 and 1
		result := play(t, engine, 0, 1, 0, 1, 0, 1, 0)

		// Then: Player A owns rows 5 to 2 of column 0 and wins
		assert.Equal(t, entity.Position{Row: 2, Column: 0}, result.Position)
		assert.Equal(t, entity.Won(entity.PlayerA), engine.Status())
		for row := 2; row < entity.Rows; row++ {
			cell, err := engine.Cell(row, 0)
			require.NoError(t, err)
			assert.Equal(t, entity.PlayerA.Cell(), cell)
		}
	})

	t.Run("Rising diagonal from the bottom left", func(t *testing.T) {
		// Given: Player A holds (5,0), (4,1) and (3,2)
		engine := New()
		result := play(t, engine, 0, 1, 1, 2, 3, 2, 2, 3, 6, 3)
		require.Equal(t, entity.InProgress(), result.Status)

		// When: Player A drops into column 3, landing at (2,3)
		result, err := engine.DropToken(3)

		// Then: the diagonal is complete
		require.NoError(t, err)
		assert.Equal(t, entity.Position{Row: 2, Column: 3}, result.Position)
		assert.Equal(t, entity.Won(entity.PlayerA), result.Status)
	})

	t.Run("Falling diagonal towards the bottom right", func(t *testing.T) {
		// Given: the mirrored position, Player A holds (5,6), (4,5) and (3,4)
		engine := New()
		play(t, engine, 6, 5, 5, 4, 3, 4, 4, 3, 0, 3)

		// When: Player A drops into column 3
		result, err := engine.DropToken(3)

		// Then: the diagonal (2,3)..(5,6) wins
		require.NoError(t, err)
		assert.Equal(t, entity.Position{Row: 2, Column: 3}, result.Position)
		assert.Equal(t, entity.Won(entity.PlayerA), result.Status)
	})

	t.Run("Player B can win", func(t *testing.T) {
		engine := New()

		result := play(t, engine, 0, 1, 0, 1, 0, 1, 6, 1)

		assert.Equal(t, entity.Won(entity.PlayerB), result.Status)
		assert.Equal(t, entity.PlayerB, engine.CurrentPlayer())
	})

	t.Run("Moves after a win are rejected", func(t *testing.T) {
		// Given: a game won by Player A
		engine := New()
		play(t, engine, 0, 1, 0, 1, 0, 1, 0)
		before := engine.Snapshot()

		// When: Player B tries to keep playing
		_, err := engine.DropToken(1)

		// Then: ErrGameAlreadyOver is returned and the win stands
		require.ErrorIs(t, err, apperror.ErrGameAlreadyOver)
		assert.Equal(t, before, engine.Snapshot())
		assert.Equal(t, entity.Won(entity.PlayerA), engine.Status())
		assert.Empty(t, engine.ValidColumns())
	})
}

func TestEngine_Draw(t *testing.T) {
	t.Run("Full board without a line is a draw", func(t *testing.T) {
		engine := New()

		for i, column := range drawSequence {
			// Then: the game is never a draw before the board is full
			require.Equal(t, entity.InProgress(), engine.Status(), "before move %d", i)

			_, err := engine.DropToken(column)
			require.NoError(t, err)
		}

		assert.Equal(t, entity.Draw(), engine.Status())
		assert.Equal(t, entity.Rows*entity.Columns, engine.Moves())
		assert.Equal(t, entity.PlayerB, engine.CurrentPlayer())

		// Then: one more token is refused
		_, err := engine.DropToken(0)
		require.ErrorIs(t, err, apperror.ErrGameAlreadyOver)
		assert.Equal(t, entity.Draw(), engine.Status())
	})

	t.Run("Win on the last free cell beats the draw", func(t *testing.T) {
		engine := New()

		result := play(t, engine, lastCellWinSequence...)

		assert.Equal(t, entity.Won(entity.PlayerB), result.Status)
		assert.Equal(t, entity.Rows*entity.Columns, engine.Moves())
	})
}

func TestEngine_Cell(t *testing.T) {
	engine := New()
	play(t, engine, 4)

	t.Run("Empty cell", func(t *testing.T) {
		cell, err := engine.Cell(0, 0)

		require.NoError(t, err)
		assert.True(t, cell.IsEmpty())
	})

	t.Run("Error outside the board", func(t *testing.T) {
		positions := []entity.Position{
			{Row: -1, Column: 0},
			{Row: entity.Rows, Column: 0},
			{Row: 0, Column: -1},
			{Row: 0, Column: entity.Columns},
		}

		for _, pos := range positions {
			_, err := engine.Cell(pos.Row, pos.Column)
			require.ErrorIs(t, err, apperror.ErrOutOfRange)
		}

		// Then: the failed queries did not touch the game
		assert.Equal(t, 1, engine.Moves())
		assert.Equal(t, entity.PlayerB, engine.CurrentPlayer())
	})
}

func TestEngine_Reset(t *testing.T) {
	t.Run("Reset after a win", func(t *testing.T) {
		// Given: a won game
		engine := New()
		play(t, engine, 0, 1, 0, 1, 0, 1, 0)

		// When: resetting
		engine.Reset()

		// Then: the engine equals a new one
		assert.Equal(t, New().Snapshot(), engine.Snapshot())
	})

	t.Run("Reset in the middle of a game", func(t *testing.T) {
		engine := New()
		play(t, engine, 3, 3, 4)

		engine.Reset()

		assert.Equal(t, entity.PlayerA, engine.CurrentPlayer())
		assert.Equal(t, entity.InProgress(), engine.Status())
		assert.Equal(t, entity.Board{}, engine.Board())
	})
}

func TestEngine_StatusIsStable(t *testing.T) {
	engine := New()
	play(t, engine, 0, 1, 0, 1, 0, 1, 0)

	first := engine.Status()
	for range 5 {
		assert.Equal(t, first, engine.Status())
	}
}

func TestHasConnectFour(t *testing.T) {
	t.Run("Broken line is not a win", func(t *testing.T) {
		var board entity.Board
		board[5][0] = entity.PlayerA.Cell()
		board[5][1] = entity.PlayerA.Cell()
		board[5][2] = entity.PlayerB.Cell()
		board[5][3] = entity.PlayerA.Cell()
		board[5][4] = entity.PlayerA.Cell()

		assert.False(t, hasConnectFour(&board, entity.PlayerA))
	})

	t.Run("Lines at the board edges", func(t *testing.T) {
		var board entity.Board
		for c := 3; c < entity.Columns; c++ {
			board[0][c] = entity.PlayerB.Cell()
		}

		assert.True(t, hasConnectFour(&board, entity.PlayerB))
		assert.False(t, hasConnectFour(&board, entity.PlayerA))
	})
}
