// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/prwatch/prwatch/internal/config"
	"github.com/prwatch/prwatch/internal/domain"
	"github.com/prwatch/prwatch/internal/storage"
	"github.com/prwatch/prwatch/internal/usecase"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Renders the chart, interactive data, README and page from the data table",
	Long: `Reads the CSV data table and regenerates every output artifact: the
static chart image, the interactive chart-data document, the README and
the web page. A missing or empty table fails the run with no artifacts
written; individual renderer failures do not stop the others.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd)
		cfg := config.Load()

		table := storage.NewTable(cfg.DataFile, domain.Registry())
		pipeline := usecase.NewPipeline(table, cfg, logger)
		if err := pipeline.Run(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Render complete.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().String("docs-dir", config.DefaultDocsDir, "Directory for the chart, chart data and page artifacts")
	renderCmd.Flags().String("templates-dir", config.DefaultTemplatesDir, "Directory holding the README and page templates")
	renderCmd.Flags().String("report", config.DefaultReportFile, "Path of the rendered markdown report")
	renderCmd.Flags().Int("max-chart-points", config.DefaultMaxChartPoints, "Display cap for the static chart")
	_ = viper.BindPFlag("docs-dir", renderCmd.Flags().Lookup("docs-dir"))
	_ = viper.BindPFlag("templates-dir", renderCmd.Flags().Lookup("templates-dir"))
	_ = viper.BindPFlag("report", renderCmd.Flags().Lookup("report"))
	_ = viper.BindPFlag("max-chart-points", renderCmd.Flags().Lookup("max-chart-points"))
}
