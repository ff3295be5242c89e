package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

const (
	colorRed    = "#d62828"
	colorYellow = "#f7c948"
	colorFrame  = "#1e4fa3"
)

// Renderer draws boards with the color profile of its output.
type Renderer struct {
	output *termenv.Output
}

func NewRenderer(w io.Writer, opts ...termenv.OutputOption) *Renderer {
	return &Renderer{
		output: termenv.NewOutput(w, opts...),
	}
}

// Board - column header, six rows from the top, and a status line.
func (that *Renderer) Board(state entity.GameState) string {
	var builder strings.Builder

	builder.WriteString(" ")
	for col := 1; col <= entity.Columns; col++ {
		fmt.Fprintf(&builder, " %d", col)
	}
	builder.WriteString("\n")

	frame := that.output.String("|").Foreground(that.output.Color(colorFrame)).String()
	for row := 0; row < entity.Rows; row++ {
		builder.WriteString(frame)
		for col := 0; col < entity.Columns; col++ {
			builder.WriteString(" ")
			builder.WriteString(that.cell(state.Board[row][col]))
		}
		builder.WriteString(" ")
		builder.WriteString(frame)
		builder.WriteString("\n")
	}

	builder.WriteString(that.Status(state))
	builder.WriteString("\n")

	return builder.String()
}

// Status - the end message, or whose turn it is.
func (that *Renderer) Status(state entity.GameState) string {
	if state.Status.IsTerminal() {
		return that.output.String(state.Status.Message()).Bold().String()
	}

	return fmt.Sprintf("Player %s to move", that.player(state.Turn))
}

func (that *Renderer) Error(err error) string {
	return that.output.String(err.Error()).Foreground(that.output.Color(colorRed)).String()
}

func (that *Renderer) cell(cell entity.Cell) string {
	player, ok := cell.Player()
	if !ok {
		return "."
	}

	return that.token(player)
}

func (that *Renderer) token(player entity.Player) string {
	color := colorRed
	if player == entity.PlayerB {
		color = colorYellow
	}

	return that.output.String(player.Name()[:1]).Foreground(that.output.Color(color)).Bold().String()
}

func (that *Renderer) player(player entity.Player) string {
	color := colorRed
	if player == entity.PlayerB {
		color = colorYellow
	}

	return that.output.String(player.Name()).Foreground(that.output.Color(color)).String()
}
