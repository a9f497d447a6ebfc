package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider names the language service used for query analysis.
type AIProvider string

// Supported providers. Ollama runs locally; the others are hosted and need
// an API key.
const (
	AIProviderOllama    AIProvider = "ollama"
	AIProviderOpenAI    AIProvider = "openai"
	AIProviderAnthropic AIProvider = "anthropic"
)

type providerInfo struct {
	description  string
	hosted       bool
	defaultModel string
}

// providers is in menu order.
var providers = []struct {
	id   AIProvider
	info providerInfo
}{
	{AIProviderOllama, providerInfo{"Ollama (local)", false, "llama3.2"}},
	{AIProviderOpenAI, providerInfo{"OpenAI (cloud)", true, "gpt-4o-mini"}},
	{AIProviderAnthropic, providerInfo{"Anthropic (cloud)", true, "claude-3-5-haiku-latest"}},
}

func (p AIProvider) info() (providerInfo, bool) {
	for _, entry := range providers {
		if entry.id == p {
			return entry.info, true
		}
	}
	return providerInfo{}, false
}

// IsValid reports whether p is a supported provider.
func (p AIProvider) IsValid() bool {
	_, ok := p.info()
	return ok
}

// RequiresAPIKey reports whether p is a hosted provider.
func (p AIProvider) RequiresAPIKey() bool {
	info, _ := p.info()
	return info.hosted
}

// IsLocal reports whether p runs on the user's machine.
func (p AIProvider) IsLocal() bool {
	info, ok := p.info()
	return ok && !info.hosted
}

func (p AIProvider) String() string {
	return string(p)
}

// Description returns the label shown in menus and settings output.
func (p AIProvider) Description() string {
	if info, ok := p.info(); ok {
		return info.description
	}
	return unknownDescription
}

// LLMSettings selects and authenticates the language service. BaseURL
// overrides the provider endpoint; APIKey is only read for hosted
// providers.
type LLMSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string
	APIKey   string
}

// IsConfigured reports whether the provider is supported and has the key it
// needs.
func (l LLMSettings) IsConfigured() bool {
	return l.Provider.IsValid() && (!l.Provider.RequiresAPIKey() || l.APIKey != "")
}

// AnalyzerSettings tunes the query analyzer.
type AnalyzerSettings struct {
	// Timeout bounds a single language service call.
	Timeout time.Duration

	// RatePerSecond limits outbound language service calls. Zero disables throttling.
	RatePerSecond float64

	// Burst is the limiter bucket size.
	Burst int

	// CacheSize is the number of analyses kept in memory. Zero disables caching.
	CacheSize int
}

// StoreDriver names the SQL driver backing the record store.
type StoreDriver string

// Available store drivers.
const (
	StoreDriverSQLite   StoreDriver = "sqlite"
	StoreDriverPostgres StoreDriver = "postgres"
)

// IsValid returns true if the driver is recognised.
func (d StoreDriver) IsValid() bool {
	return d == StoreDriverSQLite || d == StoreDriverPostgres
}

// String returns the string representation.
func (d StoreDriver) String() string {
	return string(d)
}

// StoreSettings selects and locates the record store.
type StoreSettings struct {
	// Driver is the SQL driver.
	Driver StoreDriver

	// DSN is the connection string. For SQLite an empty DSN means
	// records.db inside the data directory.
	DSN string
}

// SearchSettings holds search behaviour configuration.
type SearchSettings struct {
	// DefaultLimit is the page size when a request omits one.
	DefaultLimit int

	// MaxLimit caps the page size.
	MaxLimit int

	// AdapterTimeout bounds each source adapter. Zero means no bound.
	AdapterTimeout time.Duration
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
}

// LogSettings configures logger output.
type LogSettings struct {
	// Format is "text" or "json".
	Format string
}

// AppSettings holds all application settings.
type AppSettings struct {
	LLM      LLMSettings
	Analyzer AnalyzerSettings
	Store    StoreSettings
	Search   SearchSettings
	Server   ServerSettings
	Log      LogSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The LLM is left unconfigured so the analyzer falls back to keyword splitting
// until a provider is set.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{},
		Analyzer: AnalyzerSettings{
			Timeout:       10 * time.Second,
			RatePerSecond: 5,
			Burst:         5,
			CacheSize:     512,
		},
		Store: StoreSettings{
			Driver: StoreDriverSQLite,
		},
		Search: SearchSettings{
			DefaultLimit: DefaultLimit,
			MaxLimit:     DefaultMaxLimit,
		},
		Server: ServerSettings{
			Addr: ":8080",
		},
		Log: LogSettings{
			Format: "text",
		},
	}
}

// AllLLMProviders returns every supported provider in menu order.
func AllLLMProviders() []AIProvider {
	out := make([]AIProvider, len(providers))
	for i, entry := range providers {
		out[i] = entry.id
	}
	return out
}

// DefaultLLMModels returns the model used for each provider when none is
// configured.
func DefaultLLMModels() map[AIProvider]string {
	out := make(map[AIProvider]string, len(providers))
	for _, entry := range providers {
		out[entry.id] = entry.info.defaultModel
	}
	return out
}
