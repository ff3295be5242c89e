package main

import (
	"os"

	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/connectfour-backend/internal"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and WebSocket servers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		conf := initConfig(cmd)
		logger := initLogger(conf, os.Stdout)

		return app.RunApp(logger, conf)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
