package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/connectfour-backend/internal/connectfour"
)

const (
	commandReset = "r"
	commandQuit  = "q"
)

// Game - hot-seat game on one board, reading one command per line.
type Game struct {
	logger      *slog.Logger
	engine      *connectfour.Engine
	renderer    *Renderer
	out         io.Writer
	interactive bool
}

// NewGame - prompts and rules are printed only when interactive.
func NewGame(logger *slog.Logger, renderer *Renderer, out io.Writer, interactive bool) *Game {
	return &Game{
		logger:      logger.With("component", "terminal"),
		engine:      connectfour.New(),
		renderer:    renderer,
		out:         out,
		interactive: interactive,
	}
}

// Run - plays until q, end of input, or ctx is done. A pending read does not
// hold Run back once ctx is done.
func (that *Game) Run(ctx context.Context, in io.Reader) error {
	if that.interactive {
		that.print(Rules())
	}

	that.print(that.renderer.Board(that.engine.Snapshot()))
	that.prompt()

	lines, readErr := readLines(ctx, in)
	for {
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			return nil
		case line, ok = <-lines:
		}

		if !ok {
			if err := <-readErr; err != nil {
				return fmt.Errorf("failed to read command: %w", err)
			}
			return nil
		}

		if ctx.Err() != nil {
			return nil
		}

		command := strings.ToLower(strings.TrimSpace(line))
		if command == commandQuit {
			return nil
		}

		that.execute(command)
		that.prompt()
	}
}

// readLines - scans in on its own goroutine. Once lines is closed the scan
// error, if any, is waiting on errs.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errs := make(chan error, 1)

	go func() {
		defer close(errs)
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}

		errs <- scanner.Err()
	}()

	return lines, errs
}

func (that *Game) execute(command string) {
	switch command {
	case "":
		return
	case commandReset:
		that.engine.Reset()
		that.print(that.renderer.Board(that.engine.Snapshot()))
		return
	}

	column, err := strconv.Atoi(command)
	if err != nil {
		that.print(fmt.Sprintf("unknown command %q, type 1-7, %s or %s\n", command, commandReset, commandQuit))
		return
	}

	move, err := that.engine.DropToken(column - 1)
	if err != nil {
		that.logger.Debug("move rejected", "column", column, "error", err)
		that.print(that.renderer.Error(err) + "\n")
		return
	}

	that.print(that.renderer.Board(that.engine.Snapshot()))

	if move.Status.IsTerminal() && that.interactive {
		that.print(fmt.Sprintf("type %s to play again or %s to quit\n", commandReset, commandQuit))
	}
}

func (that *Game) prompt() {
	if that.interactive {
		that.print("> ")
	}
}

func (that *Game) print(text string) {
	if _, err := io.WriteString(that.out, text); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}
