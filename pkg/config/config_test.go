package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemdiff/perturbviz/pkg/cache"
	"github.com/gemdiff/perturbviz/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), *cfg)

	ttl, err := cfg.TTL()
	require.NoError(t, err)
	assert.Equal(t, cache.DefaultTTL, ttl)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, DefaultFile, `
layout = "circular"
dpi = 150
node-size = 80.0
species = 10090
`)
	t.Setenv("PERTURBVIZ_DPI", "200")
	t.Setenv("PERTURBVIZ_CACHE_TTL", "1h")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("dpi", 300, "")
	fs.String("layout", "spring", "")
	fs.Float64("node-size", 100, "")
	require.NoError(t, fs.Parse([]string{"--dpi", "72"}))

	cfg, err := Load(fs, "")
	require.NoError(t, err)

	assert.Equal(t, 72, cfg.DPI, "explicit flag beats env and file")
	assert.Equal(t, "circular", cfg.Layout, "unset flag must not override the file")
	assert.Equal(t, 80.0, cfg.NodeSize)
	assert.Equal(t, 10090, cfg.Species)
	assert.Equal(t, "1h", cfg.CacheTTL)
	assert.Equal(t, Defaults().Prefix, cfg.Prefix)
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeFile(t, dir, "custom.toml", `prefix = "results/run"`)

	cfg, err := Load(nil, path)
	require.NoError(t, err)
	assert.Equal(t, "results/run", cfg.Prefix)

	_, err = Load(nil, filepath.Join(dir, "missing.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "layout = "},
		{"ttl", `cache-ttl = "forever"`},
		{"backend", `cache = "memcached"`},
		{"redis without url", `cache = "redis"`},
		{"url", `string-url = "ftp://example.org"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name+".toml", tt.content)
			_, err := Load(nil, path)
			assert.Error(t, err)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "node-size", envKey("PERTURBVIZ_NODE_SIZE"))
	assert.Equal(t, "dpi", envKey("PERTURBVIZ_DPI"))
}

func TestWriteAndRead(t *testing.T) {
	c := Defaults()
	c.Layout = "kamada_kawai"
	c.TopDEGs = 5

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, c))
	assert.Contains(t, buf.String(), "# PerturbViz configuration.")
	assert.Contains(t, buf.String(), `layout = "kamada_kawai"`)

	path := writeFile(t, t.TempDir(), "perturbviz.toml", buf.String())
	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestReadRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.toml", "node_size = 50\n")
	_, err := Read(path)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestPipelineOptions(t *testing.T) {
	c := Defaults()
	c.Width, c.DPI, c.JSON = 8, 150, true

	o := c.PipelineOptions()
	assert.Equal(t, 8.0, o.Figure.Width)
	assert.Equal(t, 150, o.Figure.DPI)
	assert.True(t, o.JSON)
	require.NoError(t, o.ValidateAndSetDefaults())

	q := c.Query()
	assert.Equal(t, 9606, q.Species)
	assert.Equal(t, 50, q.AdditionalNodes)
	assert.Empty(t, q.Identifiers)
}

func TestTTL(t *testing.T) {
	c := Config{CacheTTL: "90m"}
	d, err := c.TTL()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	c.CacheTTL = "-1h"
	_, err = c.TTL()
	assert.Error(t, err)
}
