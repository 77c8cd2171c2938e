// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/prwatch/prwatch/internal/config"
	"github.com/prwatch/prwatch/internal/domain"
	"github.com/prwatch/prwatch/internal/gateway"
	"github.com/prwatch/prwatch/internal/storage"
	"github.com/prwatch/prwatch/internal/usecase"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Counts agent pull requests and appends one row to the data table",
	Long: `Counts all and merged pull requests for every tracked agent via the
GitHub search API and appends one timestamped row to the CSV data table.
A GITHUB_TOKEN is attached when available to raise rate-limit ceilings;
without one requests run anonymously. Any failed query aborts the run
with nothing appended.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		logger := newLogger(cmd)
		cfg := config.Load()

		gw, err := gateway.NewGitHubGateway(cfg.Token, cfg.RequestTimeout, cfg.UseGraphQL, logger)
		if err != nil {
			return fmt.Errorf("failed to create GitHub gateway: %w", err)
		}
		table := storage.NewTable(cfg.DataFile, domain.Registry())
		collector := usecase.NewCollector(gw, table, domain.Registry(), cfg.RequestDelay, cfg.PageFile(), logger)

		path, err := collector.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Data collected: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.Flags().Duration("request-delay", config.DefaultRequestDelay, "Minimum delay between search requests")
	collectCmd.Flags().Duration("request-timeout", config.DefaultRequestTimeout, "Per-request deadline")
	collectCmd.Flags().Bool("graphql", false, "Count via the GraphQL search API instead of REST")
	_ = viper.BindPFlag("request-delay", collectCmd.Flags().Lookup("request-delay"))
	_ = viper.BindPFlag("request-timeout", collectCmd.Flags().Lookup("request-timeout"))
	_ = viper.BindPFlag("graphql", collectCmd.Flags().Lookup("graphql"))
}
