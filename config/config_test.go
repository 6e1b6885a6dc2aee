package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := Defaults()
	require.NoError(t, c.Validate())
	assert.Equal(t, "phrase", c.Extraction.Tier)
	assert.Equal(t, 500.0, c.Extraction.LPCutoff)
	assert.Equal(t, 8000.0, c.Extraction.MaxFreq)
	assert.Equal(t, 20.0, c.Extraction.HNRCeiling)
}

func TestLoadWithoutFile(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), c)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
extraction:
  tier: word
  lp_cutoff: 300
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", c.LogLvl)
	assert.Equal(t, "word", c.Extraction.Tier)
	assert.Equal(t, 300.0, c.Extraction.LPCutoff)
	// untouched keys keep their defaults
	assert.Equal(t, 8000.0, c.Extraction.MaxFreq)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Root)
	}{
		{"empty tier", func(c *Root) { c.Extraction.Tier = "  " }},
		{"negative min", func(c *Root) { c.Extraction.MinFreq = -1 }},
		{"max below min", func(c *Root) { c.Extraction.MinFreq = 500; c.Extraction.MaxFreq = 100 }},
		{"zero cutoff", func(c *Root) { c.Extraction.LPCutoff = 0 }},
		{"zero ceiling", func(c *Root) { c.Extraction.HNRCeiling = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Defaults()
			tc.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.config.yaml")
	require.NoError(t, Defaults().Dump(path))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), c)
}
