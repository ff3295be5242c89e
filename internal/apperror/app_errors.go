package apperror

import "errors"

var (
	ErrInvalidColumn   = errors.New("invalid column index")
	ErrColumnFull      = errors.New("column is full")
	ErrGameAlreadyOver = errors.New("game is already over")
	ErrOutOfRange      = errors.New("position is out of range")
	ErrCorruptState    = errors.New("corrupt game state")
)

// IsRuleViolation - reports whether err is a rejected move rather than a system failure.
func IsRuleViolation(err error) bool {
	return errors.Is(err, ErrInvalidColumn) ||
		errors.Is(err, ErrColumnFull) ||
		errors.Is(err, ErrGameAlreadyOver)
}

// Code - stable machine readable code for transports.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidColumn):
		return "invalid_column"
	case errors.Is(err, ErrColumnFull):
		return "column_full"
	case errors.Is(err, ErrGameAlreadyOver):
		return "game_over"
	case errors.Is(err, ErrOutOfRange):
		return "out_of_range"
	default:
		return "internal"
	}
}
