package connectfour

import (
	"fmt"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

// Snapshot - copy of the complete engine state.
func (that *Engine) Snapshot() entity.GameState {
	return entity.GameState{
		Board:  that.board,
		Turn:   that.turn,
		Status: that.status,
		Moves:  that.moves,
	}
}

// Restore - rebuilds an engine from a snapshot, refusing states that no
// sequence of legal moves could produce.
func Restore(state entity.GameState) (*Engine, error) {
	if err := validateState(&state); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrCorruptState, err)
	}

	return &Engine{
		board:  state.Board,
		turn:   state.Turn,
		status: state.Status,
		moves:  state.Moves,
	}, nil
}

func validateState(state *entity.GameState) error {
	if !state.Turn.Valid() {
		return fmt.Errorf("turn %d is not a player", uint8(state.Turn))
	}

	if err := validateGravity(&state.Board); err != nil {
		return err
	}

	countA := state.Board.Count(entity.PlayerA)
	countB := state.Board.Count(entity.PlayerB)
	if countA+countB != state.Moves {
		return fmt.Errorf("board holds %d tokens, moves is %d", countA+countB, state.Moves)
	}
	if countA != countB && countA != countB+1 {
		return fmt.Errorf("token counts %d/%d cannot alternate", countA, countB)
	}

	winA := hasConnectFour(&state.Board, entity.PlayerA)
	winB := hasConnectFour(&state.Board, entity.PlayerB)
	lastMover := entity.PlayerA
	if countA == countB {
		lastMover = entity.PlayerB
	}

	switch state.Status.State {
	case entity.StateInProgress:
		if winA || winB || isFull(&state.Board) {
			return fmt.Errorf("status %s does not match the board", state.Status)
		}
		if state.Moves > 0 && state.Turn != lastMover.Other() || state.Moves == 0 && state.Turn != entity.PlayerA {
			return fmt.Errorf("turn %s does not follow the token counts", state.Turn)
		}
	case entity.StateWon:
		winner := state.Status.Winner
		if winner != lastMover || winA && winB {
			return fmt.Errorf("status %s does not match the board", state.Status)
		}
		if winner == entity.PlayerA && !winA || winner == entity.PlayerB && !winB {
			return fmt.Errorf("winner %s has no line", winner)
		}
		if state.Turn != winner {
			return fmt.Errorf("turn %s should stay on the winner", state.Turn)
		}
	case entity.StateDraw:
		if winA || winB || !isFull(&state.Board) {
			return fmt.Errorf("status %s does not match the board", state.Status)
		}
		if state.Turn != lastMover {
			return fmt.Errorf("turn %s should stay on the last mover", state.Turn)
		}
	default:
		return fmt.Errorf("unknown status %q", state.Status.State)
	}

	return nil
}

// validateGravity - no token above an empty cell and no foreign values.
func validateGravity(board *entity.Board) error {
	for col := 0; col < entity.Columns; col++ {
		seenToken := false
		for row := 0; row < entity.Rows; row++ {
			cell := board[row][col]
			if _, ok := cell.Player(); !ok && !cell.IsEmpty() {
				return fmt.Errorf("cell %d,%d holds unknown value %d", row, col, cell)
			}
			if !cell.IsEmpty() {
				seenToken = true
				continue
			}
			if seenToken {
				return fmt.Errorf("floating token in column %d", col)
			}
		}
	}
	return nil
}
