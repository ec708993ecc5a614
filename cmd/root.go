package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/kanji-crawler/internal/app"
	"github.com/JakeFAU/kanji-crawler/internal/config"
	"github.com/JakeFAU/kanji-crawler/internal/scraper"
)

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the application interface that commands will use.
// This allows us to inject a mock app during tests.
type App interface {
	Scrape(ctx context.Context) (scraper.Summary, error)
	Close()
}

// newApp is the application factory. It's a variable so we can
// replace it with a mock factory in our tests.
var newApp = func(ctx context.Context, cfg config.Config) (App, error) {
	a, err := app.NewApp(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// newRootCmd creates and configures the root command. Running it without a
// subcommand performs a scrape.
func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "kanji-scraper",
		Short: "Scrapes kanji category pages from kanji.jitenon.jp into a JSON file.",
		Long: `kanji-scraper fetches every kanken level page of kanji.jitenon.jp in small
concurrent batches, extracts each kanji with its detail link and level, and
writes the result to kanji_data_<timestamp>.json. Failed pages are logged and
skipped; the run always completes.`,
		SilenceUsage: true,

		// This hook builds the application before any command runs.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			appInstance, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},

		// This hook flushes logs and metrics once the command is done.
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},

		RunE: runScrapeCommand,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional config file (YAML)")
	cmd.AddCommand(newScrapeCmd())

	return cmd
}

// Execute is the main entry point. It exits non-zero only when the run could
// not be set up.
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "kanji-scraper: %v\n", err)
		os.Exit(1)
	}
}
