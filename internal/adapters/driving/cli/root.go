// Package cli provides the cobra command tree for sercha-federated.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

// Services wired by bootstrap, or replaced by tests before Execute.
var (
	searchService   driving.SearchService
	recordService   driving.RecordService
	settingsService driving.SettingsService
	appSettings     = domain.DefaultAppSettings()
)

var (
	version   = "dev"
	verbose   bool
	configDir string
	dataDir   string
)

var rootCmd = &cobra.Command{
	Use:   "sercha-federated",
	Short: "Federated search across documents, messages, billing, transcripts, tasks and contacts",
	Long: `sercha-federated searches every record type a user owns in one call.

A query is analysed once (by an LLM when one is configured, by keyword
splitting otherwise), run against each record type in parallel, then
scored, ranked, highlighted and returned with follow-up suggestions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return bootstrap(cmd)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		shutdown()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.sercha-federated)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory for the SQLite record store (default <config-dir>/data)")
}

// Execute runs the root command with the given build version.
func Execute(ctx context.Context, buildVersion string) error {
	if buildVersion != "" {
		version = buildVersion
	}
	defer shutdown()
	return rootCmd.ExecuteContext(ctx)
}
