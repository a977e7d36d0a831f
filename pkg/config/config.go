// Package config loads PerturbViz settings from layered sources.
//
// Sources are applied in increasing priority:
//
//  1. Built-in defaults
//  2. The config file (perturbviz.toml in the working directory, or the
//     file given with --config)
//  3. PERTURBVIZ_* environment variables (PERTURBVIZ_NODE_SIZE=150)
//  4. Command-line flags that were set explicitly
//
// Keys are the long flag names, so every setting can be given in any layer
// under the same name.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	koanftoml "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/gemdiff/perturbviz/pkg/cache"
	"github.com/gemdiff/perturbviz/pkg/errors"
	"github.com/gemdiff/perturbviz/pkg/integrations/stringdb"
	"github.com/gemdiff/perturbviz/pkg/layout"
	"github.com/gemdiff/perturbviz/pkg/pipeline"
	"github.com/gemdiff/perturbviz/pkg/render"
)

// DefaultFile is the config file read from the working directory.
const DefaultFile = "perturbviz.toml"

// EnvPrefix prefixes environment variables.
const EnvPrefix = "PERTURBVIZ_"

// Config holds all settings.
type Config struct {
	// Output
	Prefix      string  `koanf:"prefix" toml:"prefix"`
	Layout      string  `koanf:"layout" toml:"layout"`
	Seed        uint64  `koanf:"seed" toml:"seed"`
	NodeSize    float64 `koanf:"node-size" toml:"node-size"`
	Width       float64 `koanf:"width" toml:"width"`
	Height      float64 `koanf:"height" toml:"height"`
	DPI         int     `koanf:"dpi" toml:"dpi"`
	LabelOffset float64 `koanf:"label-offset" toml:"label-offset"`
	Format      string  `koanf:"format" toml:"format"`
	Renderer    string  `koanf:"renderer" toml:"renderer"`
	JSON        bool    `koanf:"json" toml:"json"`

	// STRING
	StringURL       string `koanf:"string-url" toml:"string-url"`
	Species         int    `koanf:"species" toml:"species"`
	RequiredScore   int    `koanf:"score" toml:"score"`
	AdditionalNodes int    `koanf:"additional" toml:"additional"`
	NetworkType     string `koanf:"network-type" toml:"network-type"`
	TopDEGs         int    `koanf:"top-degs" toml:"top-degs"`

	// Cache
	Cache    string `koanf:"cache" toml:"cache"`
	CacheDir string `koanf:"cache-dir" toml:"cache-dir"`
	CacheTTL string `koanf:"cache-ttl" toml:"cache-ttl"`
	RedisURL string `koanf:"redis-url" toml:"redis-url"`

	Verbose bool `koanf:"verbose" toml:"verbose"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	fig := render.DefaultOptions()
	return Config{
		Prefix:          pipeline.DefaultPrefix,
		Layout:          pipeline.DefaultLayout,
		Seed:            layout.DefaultSeed,
		NodeSize:        fig.NodeSize,
		Width:           fig.Width,
		Height:          fig.Height,
		DPI:             fig.DPI,
		LabelOffset:     pipeline.DefaultLabelOffset,
		Format:          pipeline.FormatPNG,
		Renderer:        pipeline.RendererCanvas,
		StringURL:       stringdb.DefaultBaseURL,
		Species:         stringdb.DefaultSpecies,
		RequiredScore:   stringdb.DefaultRequiredScore,
		AdditionalNodes: stringdb.DefaultAdditionalNodes,
		NetworkType:     stringdb.DefaultNetworkType,
		TopDEGs:         stringdb.DefaultTopDEGs,
		Cache:           cache.BackendFile,
		CacheTTL:        cache.DefaultTTL.String(),
	}
}

// Load builds the configuration from defaults, the config file, the
// environment and f. path names the config file; an empty path reads
// DefaultFile if it exists. An explicitly named file must exist.
// f may be nil.
func Load(f *pflag.FlagSet, path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(mapProvider(defaultsMap()), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), koanftoml.Parser()); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
		}
	} else if explicit {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps PERTURBVIZ_NODE_SIZE to node-size.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", "-")
}

// Validate checks the settings that are not validated by the packages
// they configure.
func (c *Config) Validate() error {
	if _, err := c.TTL(); err != nil {
		return err
	}
	switch c.Cache {
	case cache.BackendFile, cache.BackendRedis, cache.BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache must be one of: file, redis, none (got %q)", c.Cache)
	}
	if c.Cache == cache.BackendRedis && c.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "redis cache requires redis-url")
	}
	if c.StringURL != "" {
		if err := errors.ValidateURL(c.StringURL); err != nil {
			return err
		}
	}
	return nil
}

// TTL parses CacheTTL.
func (c *Config) TTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid cache-ttl %q", c.CacheTTL)
	}
	if d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "cache-ttl must not be negative")
	}
	return d, nil
}

// PipelineOptions converts the output settings.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Prefix:      c.Prefix,
		Layout:      c.Layout,
		Seed:        c.Seed,
		LabelOffset: c.LabelOffset,
		Figure: render.Options{
			Width:    c.Width,
			Height:   c.Height,
			DPI:      c.DPI,
			NodeSize: c.NodeSize,
		},
		Format:   c.Format,
		Renderer: c.Renderer,
		JSON:     c.JSON,
	}
}

// Query converts the STRING settings. Identifiers are left empty.
func (c *Config) Query() stringdb.Query {
	return stringdb.Query{
		Species:         c.Species,
		RequiredScore:   c.RequiredScore,
		AdditionalNodes: c.AdditionalNodes,
		NetworkType:     c.NetworkType,
	}
}

// header is written above the settings by [Write].
const header = `# PerturbViz configuration.
#
# Keys match the long command-line flags. Flags override environment
# variables (PERTURBVIZ_<KEY>, dashes as underscores), which override
# this file.

`

// Write encodes c as TOML under a short header.
func Write(w io.Writer, c Config) error {
	var buf bytes.Buffer
	buf.WriteString(header)
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Read decodes a TOML config file without applying other layers. Keys not
// present keep their default.
func Read(path string) (Config, error) {
	c := Defaults()
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		if os.IsNotExist(err) {
			return c, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return c, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return c, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %v", path, keys)
	}
	return c, nil
}

// defaultsMap flattens Defaults into koanf keys.
func defaultsMap() map[string]any {
	d := Defaults()
	return map[string]any{
		"prefix":       d.Prefix,
		"layout":       d.Layout,
		"seed":         d.Seed,
		"node-size":    d.NodeSize,
		"width":        d.Width,
		"height":       d.Height,
		"dpi":          d.DPI,
		"label-offset": d.LabelOffset,
		"format":       d.Format,
		"renderer":     d.Renderer,
		"json":         d.JSON,
		"string-url":   d.StringURL,
		"species":      d.Species,
		"score":        d.RequiredScore,
		"additional":   d.AdditionalNodes,
		"network-type": d.NetworkType,
		"top-degs":     d.TopDEGs,
		"cache":        d.Cache,
		"cache-dir":    d.CacheDir,
		"cache-ttl":    d.CacheTTL,
		"redis-url":    d.RedisURL,
		"verbose":      d.Verbose,
	}
}

// mapProvider serves a static map to koanf.
type mapProvider map[string]any

func (p mapProvider) Read() (map[string]any, error) { return p, nil }

func (p mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
