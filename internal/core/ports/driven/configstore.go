package driven

// ConfigStore holds application configuration as flat dot-separated keys
// such as "search.max_limit". Values keep the type they were decoded or set
// with; callers convert them.
type ConfigStore interface {
	// Get returns the value stored under key and whether it exists.
	Get(key string) (any, bool)

	// Set stores value under key. Nothing is persisted until Save.
	Set(key string, value any) error

	// Unset removes key. Removing a missing key is not an error.
	Unset(key string) error

	// Keys returns every stored key in sorted order.
	Keys() []string

	// Save persists the current configuration.
	Save() error

	// Load replaces the in-memory configuration with the persisted one.
	Load() error

	// Path returns where the configuration is persisted.
	Path() string
}
