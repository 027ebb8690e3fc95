package driven

// ConfigStore is a flat key/value view of configuration.
//
// Keys use dot notation grouped by section ("rag.chunk_size",
// "embedding.provider", "requests.timeout"). Typed getters coerce what the
// backing format produced (TOML int64, env strings) and return the zero value
// for missing or unconvertible keys; callers apply defaults.
type ConfigStore interface {
	// Get returns the raw value and whether the key is set.
	Get(key string) (any, bool)

	GetString(key string) string
	GetInt(key string) int
	// GetFloat also accepts integer values.
	GetFloat(key string) float64
	GetBool(key string) bool
	GetStringSlice(key string) []string

	// Set stores a value. File-backed stores write through; overlay stores
	// delegate to the store they wrap.
	Set(key string, value any) error

	Save() error
	Load() error

	// Path is the backing file, or ":memory:" for the in-memory store.
	Path() string
}
