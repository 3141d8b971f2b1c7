package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/rest"

	"marketproxy/pkg/confkit"
	"marketproxy/pkg/upstream"
)

// CacheConf sizes the response cache. Zero values fall back to the cache
// package defaults, so an empty block is a valid configuration.
type CacheConf struct {
	TTLSeconds int `json:",default=120"`
	MaxEntries int `json:",default=512"`
}

// DashboardConf pins the assets the aggregated dashboard tracks. Empty lists
// fall back to the service defaults.
type DashboardConf struct {
	CryptoIDs         []string `json:",optional"`
	InstrumentSymbols []string `json:",optional"`
}

type Config struct {
	rest.RestConf
	Cache     CacheConf     `json:",optional"`
	Dashboard DashboardConf `json:",optional"`

	// Upstreams names the provider credentials/endpoints file. Missing
	// section means every client runs on its production defaults.
	Upstreams confkit.Section[upstream.Config] `json:",optional"`

	mainPath string
	baseDir  string
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func Load(path string) (*Config, error) {
	confkit.LoadDotenvOnce()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path %s: %w", path, err)
	}

	var cfg Config
	if err := conf.Load(absPath, &cfg, conf.UseEnv()); err != nil {
		return nil, fmt.Errorf("load config %s: %w", absPath, err)
	}

	cfg.mainPath = absPath
	cfg.baseDir = filepath.Dir(absPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.hydrateSections(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Cache.TTLSeconds < 0 {
		return errors.New("config: cache.ttlSeconds must not be negative")
	}
	if c.Cache.MaxEntries < 0 {
		return errors.New("config: cache.maxEntries must not be negative")
	}
	return nil
}

func (c *Config) hydrateSections() error {
	if err := c.Upstreams.Hydrate(c.baseDir, upstream.LoadConfig); err != nil {
		return fmt.Errorf("load upstreams config: %w", err)
	}
	return nil
}

func (c *Config) MainPath() string {
	return c.mainPath
}

func (c *Config) BaseDir() string {
	return c.baseDir
}
