package entity

import (
	"errors"
	"fmt"
	"time"
)

const (
	Rows    = 6
	Columns = 7
	ToWin   = 4
)

const (
	StateInProgress = "in_progress"
	StateWon        = "won"
	StateDraw       = "draw"
)

var ErrUnknownPlayer = errors.New("unknown player")

// Player - one of the two sides. The zero value is not a player.
type Player uint8

const (
	PlayerA Player = iota + 1
	PlayerB
)

func (that Player) Valid() bool {
	return that == PlayerA || that == PlayerB
}

// Other - returns the opponent.
func (that Player) Other() Player {
	if that == PlayerA {
		return PlayerB
	}
	return PlayerA
}

// Name - display name used by presentation layers.
func (that Player) Name() string {
	switch that {
	case PlayerA:
		return "Red"
	case PlayerB:
		return "Yellow"
	default:
		return ""
	}
}

// Cell - token of the player.
func (that Player) Cell() Cell {
	return Cell(that)
}

func (that Player) String() string {
	switch that {
	case PlayerA:
		return "A"
	case PlayerB:
		return "B"
	default:
		return "-"
	}
}

func (that Player) MarshalText() ([]byte, error) {
	if !that.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPlayer, uint8(that))
	}
	return []byte(that.String()), nil
}

func (that *Player) UnmarshalText(text []byte) error {
	switch string(text) {
	case "A":
		*that = PlayerA
	case "B":
		*that = PlayerB
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPlayer, text)
	}
	return nil
}

// Cell - content of a single board position.
type Cell uint8

const Empty Cell = 0

// Player - owner of the token, false for an empty cell.
func (that Cell) Player() (Player, bool) {
	p := Player(that)
	return p, p.Valid()
}

func (that Cell) IsEmpty() bool {
	return that == Empty
}

// Board - row 0 is the top row, row Rows-1 the bottom one.
type Board [Rows][Columns]Cell

// Count - number of tokens owned by player.
func (that *Board) Count(player Player) int {
	count := 0
	for r := range that {
		for c := range that[r] {
			if that[r][c] == player.Cell() {
				count++
			}
		}
	}
	return count
}

type Status struct {
	State  string `json:"state"`
	Winner Player `json:"winner,omitempty"`
}

func InProgress() Status {
	return Status{State: StateInProgress}
}

func Won(player Player) Status {
	return Status{State: StateWon, Winner: player}
}

func Draw() Status {
	return Status{State: StateDraw}
}

func (that Status) IsTerminal() bool {
	return that.State == StateWon || that.State == StateDraw
}

func (that Status) IsWon() bool {
	return that.State == StateWon
}

func (that Status) IsDraw() bool {
	return that.State == StateDraw
}

// Message - human readable status line, empty while the game is running.
func (that Status) Message() string {
	switch that.State {
	case StateWon:
		return fmt.Sprintf("Player %s wins!", that.Winner.Name())
	case StateDraw:
		return "It's a draw!"
	default:
		return ""
	}
}

func (that Status) String() string {
	if that.IsWon() {
		return fmt.Sprintf("%s(%s)", that.State, that.Winner)
	}
	return that.State
}

type Position struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// MoveResult - where the token landed and the status after the move.
type MoveResult struct {
	Position
	Status Status `json:"status"`
}

// GameState - complete engine state, enough to restore an engine.
type GameState struct {
	Board  Board  `json:"board"`
	Turn   Player `json:"turn"`
	Status Status `json:"status"`
	Moves  int    `json:"moves"`
}

type Game struct {
	ID string `json:"id"`
	GameState
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewGame(id string, state GameState, now time.Time) *Game {
	return &Game{
		ID:        id,
		GameState: state,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (that *Game) IsFinished() bool {
	return that.Status.IsTerminal()
}
