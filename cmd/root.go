// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/prwatch/prwatch/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "prwatch",
	Short: "A CLI tool to track pull requests opened by automated coding agents.",
	Long: `prwatch counts pull requests authored by automated coding agents via
the GitHub search API, stores the counts as an append-only CSV time
series, and renders the series into a chart image, an interactive chart
document, and templated README / web page documents.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(config.Init)

	// Persistent flags shared by the collect and render commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("data", config.DefaultDataFile, "Path to the CSV data table")
	_ = viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data"))
}

// newLogger builds the command logger: silent by default, stderr under
// --verbose.
func newLogger(cmd *cobra.Command) *log.Logger {
	verbose, _ := cmd.InheritedFlags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags)
	if verbose {
		logger.SetOutput(os.Stderr)
	}
	return logger
}
