// Package cmd defines and implements the CLI commands for the kanji scraper.
package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

// newScrapeCmd creates the 'scrape' subcommand, an explicit alias of the root action.
func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Fetches all category pages and writes the kanji JSON file",
		Args:  cobra.NoArgs,
		RunE:  runScrapeCommand,
	}
}

func runScrapeCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	if _, err := appInstance.Scrape(cmd.Context()); err != nil {
		// PersistentPostRun is skipped when RunE fails.
		appInstance.Close()
		return err
	}
	return nil
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}
