package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/connectfour-backend/internal/config"
)

var rootCmd = &cobra.Command{
	Use:           "connectfour",
	Short:         "Connect Four game server and terminal game",
	Long:          `Serves Connect Four over HTTP and WebSocket, or plays a hot-seat game in the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "config.yml", "Path to the config file")
}

// main - is the entry point of the application.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

// initialize config. A .env file next to the binary is loaded first when present.
func initConfig(cmd *cobra.Command) *config.Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		panic(fmt.Errorf("failed to load .env file: %w", err))
	}

	path, err := cmd.Flags().GetString("config")
	if err != nil {
		panic(fmt.Errorf("failed to read config flag: %w", err))
	}

	return config.MustLoad(path)
}

// initialize logger.
func initLogger(conf *config.Config, w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: conf.Level()}))
}
