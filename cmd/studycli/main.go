// Command studycli is a terminal client for the study assistant API: it logs
// in, runs one-shot searches and drives an interactive search box.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	apiToken  string
	noColor   bool
)

var rootCmd = &cobra.Command{
	Use:           "studycli",
	Short:         "Terminal client for the study assistant API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("STUDYHUB_SERVER", "http://localhost:8080"), "API base URL")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", os.Getenv("STUDYHUB_TOKEN"), "access token (see `studycli login`)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", os.Getenv("NO_COLOR") != "", "disable colored output")

	rootCmd.AddCommand(loginCmd, searchCmd, browseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(rootCmd.ErrOrStderr(), "%v", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
