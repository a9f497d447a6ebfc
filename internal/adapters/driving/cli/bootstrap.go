package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driven/ai"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/services"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

// Bootstrap levels, set per command through the annotation below.
const (
	annotationBootstrap = "bootstrap"
	bootstrapNone       = "none"
	bootstrapSettings   = "settings"
)

var (
	closersMu sync.Mutex
	closers   []func()
)

// bootstrap builds the services a command needs. Commands annotated with
// bootstrapNone need nothing; bootstrapSettings stops after the settings
// service. Services already set (by tests) are left alone.
func bootstrap(cmd *cobra.Command) error {
	level := cmd.Annotations[annotationBootstrap]
	if level == bootstrapNone {
		return nil
	}

	if settingsService == nil {
		dir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		configStore, err := file.NewConfigStore(dir)
		if err != nil {
			return fmt.Errorf("opening config: %w", err)
		}
		settingsService = services.NewSettingsService(configStore, ai.NewConfigValidator())
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	appSettings = *settings
	logger.SetFormat(settings.Log.Format)

	if level == bootstrapSettings || searchService != nil {
		return nil
	}
	return wireSearch(cmd.Context(), settings)
}

// wireSearch builds the record store, analyzer, coordinator and services.
func wireSearch(ctx context.Context, settings *domain.AppSettings) error {
	dir, err := resolveConfigDir()
	if err != nil {
		return err
	}

	logger.Section("Initialisation")
	aiResult := ai.Init(ctx, &settings.LLM)
	for _, w := range aiResult.Warnings {
		logger.Warn("%s; using keyword analysis", w)
	}
	addCloser(aiResult.Close)

	analyzer := services.NewQueryAnalyzer(aiResult.LLMService, settings.Analyzer)
	prompts, err := file.NewPromptStore(filepath.Join(dir, "prompts"))
	if err != nil {
		logger.Warn("Prompt store unavailable: %v", err)
	} else {
		analyzer.SetPromptStore(prompts)
	}

	store, err := openRecordStore(settings.Store, dir)
	if err != nil {
		return err
	}
	addCloser(func() {
		if err := store.Close(); err != nil {
			logger.Warn("Closing record store: %v", err)
		}
	})
	logger.Debug("Record store: %s (%s)", store.Path(), store.Driver())

	coordinator := services.NewCoordinator(analyzer, services.NewSourceAdapters(store), settings.Search.AdapterTimeout)
	searchService = services.NewSearchService(coordinator, settings.Search)
	recordService = services.NewRecordService(store)
	return nil
}

// openRecordStore opens the configured SQL store. SQLite without a DSN
// lives in the data directory.
func openRecordStore(cfg domain.StoreSettings, cfgDir string) (*sqlite.Store, error) {
	if cfg.Driver == domain.StoreDriverSQLite && cfg.DSN == "" {
		dir := dataDir
		if dir == "" {
			dir = filepath.Join(cfgDir, "data")
		}
		store, err := sqlite.NewStore(dir)
		if err != nil {
			return nil, fmt.Errorf("opening record store: %w", err)
		}
		return store, nil
	}

	store, err := sqlite.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening %s record store: %w", cfg.Driver, err)
	}
	return store, nil
}

func resolveConfigDir() (string, error) {
	if configDir != "" {
		return configDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, file.DefaultDirName), nil
}

func addCloser(fn func()) {
	closersMu.Lock()
	defer closersMu.Unlock()
	closers = append(closers, fn)
}

// shutdown runs registered closers in reverse order, once.
func shutdown() {
	closersMu.Lock()
	fns := closers
	closers = nil
	closersMu.Unlock()

	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
