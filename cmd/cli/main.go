package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host    string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "oracle-cli",
	Short: "A CLI to interact with the tennis-oracle server",
	Long: `A command-line interface for querying tennis statistics and
controlling data syncs on a running tennis-oracle server.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Ask the server for request-scoped debug logging")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
