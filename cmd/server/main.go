package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spareeye/backend/internal/app"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// @title                       SpareEye API
// @version                     1.0
// @description                 Vehicle part damage diagnosis: requests, image uploads, AI analysis and text to speech.
// @host                        localhost:8000
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Run: func(cmd *cobra.Command, args []string) {
			os.Exit(app.Run())
		},
	}

	root := &cobra.Command{
		Use:           "spareeye",
		Short:         "SpareEye vehicle part diagnosis backend",
		SilenceUsage:  true,
		SilenceErrors: false,
		Run:           serveCmd.Run,
	}

	root.AddCommand(
		serveCmd,
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply the SQLite schema and exit",
			Run: func(cmd *cobra.Command, args []string) {
				os.Exit(app.Migrate())
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version)
			},
		},
	)
	return root
}
