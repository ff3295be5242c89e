package connectfour

import (
	"fmt"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

// Engine - state of a single Connect Four game. Not safe for concurrent use,
// every game owns its own Engine.
type Engine struct {
	board  entity.Board
	turn   entity.Player
	status entity.Status
	moves  int
}

func New() *Engine {
	engine := &Engine{}
	engine.Reset()
	return engine
}

// Reset - empties the board and hands the first move to Player A.
func (that *Engine) Reset() {
	that.board = entity.Board{}
	that.turn = entity.PlayerA
	that.status = entity.InProgress()
	that.moves = 0
}

// DropToken - drops the current player's token into column. A rejected move
// leaves the engine untouched.
func (that *Engine) DropToken(column int) (entity.MoveResult, error) {
	if that.status.IsTerminal() {
		return entity.MoveResult{}, fmt.Errorf("%w: %s", apperror.ErrGameAlreadyOver, that.status)
	}

	if column < 0 || column >= entity.Columns {
		return entity.MoveResult{}, fmt.Errorf("%w: column %d", apperror.ErrInvalidColumn, column)
	}

	row := that.landingRow(column)
	if row < 0 {
		return entity.MoveResult{}, fmt.Errorf("%w: column %d", apperror.ErrColumnFull, column)
	}

	player := that.turn
	that.board[row][column] = player.Cell()
	that.moves++
	that.updateStatus(player)

	return entity.MoveResult{
		Position: entity.Position{Row: row, Column: column},
		Status:   that.status,
	}, nil
}

// Cell - content of the board at row, column.
func (that *Engine) Cell(row, column int) (entity.Cell, error) {
	if !inBounds(row, column) {
		return entity.Empty, fmt.Errorf("%w: row %d, column %d", apperror.ErrOutOfRange, row, column)
	}
	return that.board[row][column], nil
}

// CurrentPlayer - player to move. Once the game is over it stays on the player
// who made the final move.
func (that *Engine) CurrentPlayer() entity.Player {
	return that.turn
}

func (that *Engine) Status() entity.Status {
	return that.status
}

// Moves - number of tokens on the board.
func (that *Engine) Moves() int {
	return that.moves
}

// Board - copy of the grid.
func (that *Engine) Board() entity.Board {
	return that.board
}

// ValidColumns - columns that still accept a token, none once the game is over.
func (that *Engine) ValidColumns() []int {
	columns := make([]int, 0, entity.Columns)
	if that.status.IsTerminal() {
		return columns
	}

	for c := 0; c < entity.Columns; c++ {
		if that.board[0][c].IsEmpty() {
			columns = append(columns, c)
		}
	}
	return columns
}

// landingRow - lowest empty row of column, -1 for a full column.
func (that *Engine) landingRow(column int) int {
	for row := entity.Rows - 1; row >= 0; row-- {
		if that.board[row][column].IsEmpty() {
			return row
		}
	}
	return -1
}

// updateStatus - checks the board after player's move. The turn only passes
// while the game goes on.
func (that *Engine) updateStatus(player entity.Player) {
	switch {
	case hasConnectFour(&that.board, player):
		that.status = entity.Won(player)
	case isFull(&that.board):
		that.status = entity.Draw()
	default:
		that.turn = player.Other()
	}
}
