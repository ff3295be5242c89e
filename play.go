package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rocketscienceinc/connectfour-backend/internal/presentation/terminal"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a hot-seat game in the terminal",
	Long:  `Two players take turns on one keyboard. Type a column 1-7 to drop a token, r to reset, q to quit.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		conf := initConfig(cmd)
		// stdout belongs to the board
		logger := initLogger(conf, os.Stderr)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		interactive := term.IsTerminal(int(os.Stdin.Fd()))
		renderer := terminal.NewRenderer(os.Stdout, termenv.WithColorCache(true))

		if interactive {
			terminal.PrintBanner(os.Stdout)
		}

		return terminal.NewGame(logger, renderer, os.Stdout, interactive).Run(ctx, os.Stdin)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
}
