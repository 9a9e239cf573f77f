package store

// Config holds store initialization parameters.
type Config struct {
	Path string `json:"path,omitempty" yaml:"path,omitempty"` // FileStore JSON file; empty keeps state in memory only.
}

// DefaultConfig returns the default store configuration (in-memory).
func DefaultConfig() Config {
	return Config{}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Path != "" {
		c.Path = source.Path
	}
}

// New creates a Store from configuration. An empty Path yields a
// MemoryStore.
func New(cfg *Config) Store {
	if cfg.Path == "" {
		return NewMemoryStore()
	}
	return NewFileStore(cfg.Path)
}
