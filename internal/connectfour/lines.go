package connectfour

import "github.com/rocketscienceinc/connectfour-backend/internal/entity"

type direction struct {
	deltaRow int
	deltaCol int
}

// directions - horizontal, vertical, diagonal down-right, diagonal down-left.
var directions = [4]direction{
	{deltaRow: 0, deltaCol: 1},
	{deltaRow: 1, deltaCol: 0},
	{deltaRow: 1, deltaCol: 1},
	{deltaRow: 1, deltaCol: -1},
}

func inBounds(row, column int) bool {
	return row >= 0 && row < entity.Rows && column >= 0 && column < entity.Columns
}

// hasConnectFour - scans every start position of every direction for
// ToWin consecutive tokens of player.
func hasConnectFour(board *entity.Board, player entity.Player) bool {
	token := player.Cell()

	for _, dir := range directions {
		for row := 0; row < entity.Rows; row++ {
			for col := 0; col < entity.Columns; col++ {
				endRow := row + dir.deltaRow*(entity.ToWin-1)
				endCol := col + dir.deltaCol*(entity.ToWin-1)
				if !inBounds(endRow, endCol) {
					continue
				}

				if lineOf(board, row, col, dir, token) {
					return true
				}
			}
		}
	}

	return false
}

func lineOf(board *entity.Board, row, col int, dir direction, token entity.Cell) bool {
	for i := 0; i < entity.ToWin; i++ {
		if board[row+i*dir.deltaRow][col+i*dir.deltaCol] != token {
			return false
		}
	}
	return true
}

// isFull - every cell of the board is occupied.
func isFull(board *entity.Board) bool {
	for row := range board {
		for col := range board[row] {
			if board[row][col].IsEmpty() {
				return false
			}
		}
	}
	return true
}
