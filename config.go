package magickit

import (
	"strings"
	"time"

	"github.com/gobeaver/beaver-kit/config"
)

type Config struct {
	// Rule database paths, colon-separated; glob patterns are expanded.
	// Empty means the library default.
	Database string `env:"MAGICKIT_DATABASE"`

	// Initial behavior flags as a numeric value.
	Flags int `env:"MAGICKIT_FLAGS,default:0"`

	// Guard scopes around native calls
	SuppressOutput bool `env:"MAGICKIT_SUPPRESS_OUTPUT,default:true"`
	FixedLocale    bool `env:"MAGICKIT_FIXED_LOCALE,default:true"`

	// Force the legacy native signatures regardless of the detected
	// capabilities.
	ForceLegacyCalls bool `env:"MAGICKIT_FORCE_LEGACY_CALLS,default:false"`

	// Buffer-classification result cache
	CacheEnabled    bool `env:"MAGICKIT_CACHE_ENABLED,default:false"`
	CacheTTLSeconds int  `env:"MAGICKIT_CACHE_TTL_SECONDS,default:0"`

	// Reload the rule databases when one of them changes on disk.
	WatchEnabled bool `env:"MAGICKIT_WATCH_ENABLED,default:false"`
}

// GetConfig returns config loaded from environment
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Options converts the configuration into handle options.
func (c *Config) Options() Options {
	opts := Options{
		Flags:            Flag(c.Flags),
		SuppressOutput:   c.SuppressOutput,
		FixedLocale:      c.FixedLocale,
		ForceLegacyCalls: c.ForceLegacyCalls,
	}
	if c.CacheEnabled {
		opts.Cache = NewResultCache(time.Duration(c.CacheTTLSeconds) * time.Second)
	}
	return opts
}

// Databases resolves the configured database value into concrete paths.
func (c *Config) Databases() ([]string, error) {
	var patterns []string
	for _, p := range strings.Split(c.Database, Separator) {
		if p != "" {
			patterns = append(patterns, p)
		}
	}
	if len(patterns) == 0 {
		return nil, nil
	}
	return ResolveDatabases(patterns...)
}

// NewFromConfig opens a Magic handle from configuration. With
// WatchEnabled the handle watches its loaded databases and reloads
// them on change; the watcher stops when the handle is closed.
func NewFromConfig(cfg *Config) (*Magic, error) {
	files, err := cfg.Databases()
	if err != nil {
		return nil, err
	}

	m, err := NewWithOptions(cfg.Options(), files...)
	if err != nil {
		return nil, err
	}

	if cfg.WatchEnabled {
		w, err := m.WatchDatabase(nil)
		if err != nil {
			m.Close()
			return nil, err
		}
		m.mu.Lock()
		m.watcher = w
		m.mu.Unlock()
	}
	return m, nil
}
