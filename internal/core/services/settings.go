package services

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyAnalyzerTimeout = "analyzer.timeout_ms"
	keyAnalyzerRate    = "analyzer.rate_per_second"
	keyAnalyzerBurst   = "analyzer.burst"
	keyAnalyzerCache   = "analyzer.cache_size"
	keyStoreDriver     = "store.driver"
	keyStoreDSN        = "store.dsn"
	keySearchDefault   = "search.default_limit"
	keySearchMax       = "search.max_limit"
	keyAdapterTimeout  = "search.adapter_timeout_ms"
	keyServerAddr      = "server.addr"
	keyLogFormat       = "log.format"
	envLLMAPIKey       = "SERCHA_LLM_API_KEY"
	envStoreDSN        = "SERCHA_STORE_DSN"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// knownKeys are the only keys Validate accepts in the store.
var knownKeys = map[string]bool{
	keyLLMProvider: true, keyLLMModel: true, keyLLMBaseURL: true, keyLLMAPIKey: true,
	keyAnalyzerTimeout: true, keyAnalyzerRate: true, keyAnalyzerBurst: true, keyAnalyzerCache: true,
	keyStoreDriver: true, keyStoreDSN: true,
	keySearchDefault: true, keySearchMax: true, keyAdapterTimeout: true,
	keyServerAddr: true, keyLogFormat: true,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
// Environment variables override the API key and store DSN from the file.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.getString(keyLLMBaseURL, ""), // empty is valid for cloud providers
			APIKey:   s.getEnvOr(envLLMAPIKey, s.getString(keyLLMAPIKey, "")),
		},
		Analyzer: domain.AnalyzerSettings{
			Timeout:       s.getMillis(keyAnalyzerTimeout, defaults.Analyzer.Timeout),
			RatePerSecond: s.getFloat(keyAnalyzerRate, defaults.Analyzer.RatePerSecond),
			Burst:         s.getInt(keyAnalyzerBurst, defaults.Analyzer.Burst),
			CacheSize:     s.getInt(keyAnalyzerCache, defaults.Analyzer.CacheSize),
		},
		Store: domain.StoreSettings{
			Driver: s.getDriver(defaults.Store.Driver),
			DSN:    s.getEnvOr(envStoreDSN, s.getString(keyStoreDSN, "")),
		},
		Search: domain.SearchSettings{
			DefaultLimit:   s.getInt(keySearchDefault, defaults.Search.DefaultLimit),
			MaxLimit:       s.getInt(keySearchMax, defaults.Search.MaxLimit),
			AdapterTimeout: s.getMillis(keyAdapterTimeout, defaults.Search.AdapterTimeout),
		},
		Server: domain.ServerSettings{
			Addr: s.getString(keyServerAddr, defaults.Server.Addr),
		},
		Log: domain.LogSettings{
			Format: s.getString(keyLogFormat, defaults.Log.Format),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyAnalyzerTimeout, settings.Analyzer.Timeout.Milliseconds()},
		{keyAnalyzerRate, settings.Analyzer.RatePerSecond},
		{keyAnalyzerBurst, settings.Analyzer.Burst},
		{keyAnalyzerCache, settings.Analyzer.CacheSize},
		{keyStoreDriver, settings.Store.Driver.String()},
		{keySearchDefault, settings.Search.DefaultLimit},
		{keySearchMax, settings.Search.MaxLimit},
		{keyAdapterTimeout, settings.Search.AdapterTimeout.Milliseconds()},
		{keyServerAddr, settings.Server.Addr},
		{keyLogFormat, settings.Log.Format},
	}
	for _, v := range values {
		if err := s.put(v.key, v.value); err != nil {
			return err
		}
	}

	// Secrets supplied through the environment are never written to the file.
	if os.Getenv(envLLMAPIKey) == "" {
		if err := s.put(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return err
		}
	}
	if os.Getenv(envStoreDSN) == "" {
		if err := s.put(keyStoreDSN, settings.Store.DSN); err != nil {
			return err
		}
	}

	return s.configStore.Save()
}

// put stores value under key, removing the key for empty strings so the
// file does not accumulate blank entries.
func (s *SettingsService) put(key string, value any) error {
	var err error
	if str, ok := value.(string); ok && str == "" {
		err = s.configStore.Unset(key)
	} else {
		err = s.configStore.Set(key, value)
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.LLM.Model = defaultModel
	}

	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = defaultOllamaBaseURL
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks the current settings are usable.
func (s *SettingsService) Validate() error {
	for _, key := range s.configStore.Keys() {
		if !knownKeys[key] {
			return fmt.Errorf("unknown config key %q in %s", key, s.configStore.Path())
		}
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.LLM.Provider != "" && !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider %q is missing an API key", settings.LLM.Provider.Description())
	}
	if !settings.Store.Driver.IsValid() {
		return fmt.Errorf("invalid store driver: %s", settings.Store.Driver)
	}
	if settings.Store.Driver == domain.StoreDriverPostgres && settings.Store.DSN == "" {
		return fmt.Errorf("store driver postgres requires store.dsn or %s", envStoreDSN)
	}
	if settings.Search.DefaultLimit <= 0 || settings.Search.MaxLimit <= 0 {
		return fmt.Errorf("search limits must be positive")
	}
	if settings.Search.DefaultLimit > settings.Search.MaxLimit {
		return fmt.Errorf("search.default_limit %d exceeds search.max_limit %d",
			settings.Search.DefaultLimit, settings.Search.MaxLimit)
	}
	if settings.Log.Format != "text" && settings.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s", settings.Log.Format)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(ctx, &settings.LLM)
}

// Helper methods for reading config with defaults. A key that is missing
// or holds the wrong type reads as the default.

func (s *SettingsService) getString(key, defaultVal string) string {
	if v, ok := s.configStore.Get(key); ok {
		if str, ok := v.(string); ok && str != "" {
			return str
		}
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if v, ok := s.lookupNumber(key); ok && v == math.Trunc(v) {
		return int(v)
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if v, ok := s.lookupNumber(key); ok {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getMillis(key string, defaultVal time.Duration) time.Duration {
	if v, ok := s.lookupNumber(key); ok {
		return time.Duration(v * float64(time.Millisecond))
	}
	return defaultVal
}

// lookupNumber widens every numeric type a store may hold. TOML decodes
// integers as int64 while values set in code are usually int.
func (s *SettingsService) lookupNumber(key string) (float64, bool) {
	v, ok := s.configStore.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func (s *SettingsService) getEnvOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.getString(key, ""))
	if provider == "" {
		return defaultVal
	}
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getDriver(defaultVal domain.StoreDriver) domain.StoreDriver {
	driver := domain.StoreDriver(s.getString(keyStoreDriver, ""))
	if driver == "" {
		return defaultVal
	}
	if !driver.IsValid() {
		return defaultVal
	}
	return driver
}
