package cli

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/skillgraph/pkg/bootstrap"
	"github.com/matzehuels/skillgraph/pkg/cache"
	"github.com/matzehuels/skillgraph/pkg/errors"
	"github.com/matzehuels/skillgraph/pkg/layout"
	"github.com/matzehuels/skillgraph/pkg/pipeline"
	"github.com/matzehuels/skillgraph/pkg/source"
	"github.com/matzehuels/skillgraph/pkg/storage"
	"github.com/matzehuels/skillgraph/pkg/tessellate"
)

// DefaultAddr is the listen address of "skillgraph serve".
const DefaultAddr = ":8080"

// Config is the contents of config.toml.
type Config struct {
	Source       SourceConfig       `toml:"source"`
	Layout       LayoutConfig       `toml:"layout"`
	Tessellation tessellate.Options `toml:"tessellation"`
	Cache        CacheConfig        `toml:"cache"`
	Storage      StorageConfig      `toml:"storage"`
	Server       ServerConfig       `toml:"server"`
}

// SourceConfig locates the data files.
type SourceConfig struct {
	// Base is an http(s) URL or a local directory.
	Base        string       `toml:"base"`
	Concurrency int          `toml:"concurrency"`
	Paths       source.Paths `toml:"paths"`
}

// LayoutConfig holds the solver settings plus the relayout scheduler knobs.
type LayoutConfig struct {
	layout.Options

	Seed               int64         `toml:"seed"`
	MaxRelayoutRetries int           `toml:"max_relayout_retries"`
	RelayoutDelay      time.Duration `toml:"relayout_delay"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Dir string `toml:"dir"`
	// TTL applies to cached HTTP responses of the data source.
	TTL      time.Duration `toml:"ttl"`
	RedisURL string        `toml:"redis_url"`
	// Namespace prefixes every cache key, so several teams can share one
	// redis without seeing each other's scenes.
	Namespace string `toml:"namespace"`
}

// StorageConfig selects where saved layouts live. An empty URI keeps them in
// memory.
type StorageConfig struct {
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// ServerConfig configures "skillgraph serve".
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	AllowAllOrigins bool     `toml:"allow_all_origins"`
	AllowedOrigins  []string `toml:"allowed_origins"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Concurrency: source.DefaultConcurrency,
			Paths:       source.DefaultPaths(),
		},
		Layout: LayoutConfig{
			Options:            layout.DefaultOptions(),
			Seed:               pipeline.DefaultSeed,
			MaxRelayoutRetries: bootstrap.DefaultMaxRelayoutRetries,
			RelayoutDelay:      bootstrap.DefaultRelayoutDelay,
		},
		Tessellation: tessellate.DefaultOptions(),
		Cache: CacheConfig{
			TTL: cache.TTLHTTP,
		},
		Storage: StorageConfig{
			Database: storage.DefaultDatabase,
		},
		Server: ServerConfig{
			Addr: DefaultAddr,
		},
	}
}

// LoadConfig reads path on top of DefaultConfig. A missing file yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	return cfg, nil
}

// LayoutOptions returns the solver options with the tessellation section and
// seed folded in.
func (c *Config) LayoutOptions() layout.Options {
	opts := c.Layout.Options
	opts.Tessellation = c.Tessellation
	opts.Tessellation.Seed = c.Layout.Seed
	return opts
}

// PipelineOptions returns pipeline options seeded from the config. Flags are
// applied on top by each command.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Source: string(pipeline.DefaultSource),
		Layout: c.LayoutOptions(),
	}
}

// SourceOptions returns the data source options.
func (c *Config) SourceOptions() source.Options {
	return source.Options{
		Concurrency: c.Source.Concurrency,
		Paths:       c.Source.Paths,
	}
}
