package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thisismy-go/thisismy/resolver"
)

func TestParseMaxSize(t *testing.T) {
	cases := []struct {
		expr string
		want int64
		ok   bool
	}{
		{"500kb", 500 * 1024, true},
		{"2mb", 2 * 1024 * 1024, true},
		{"1024", 1024, true},
		{"10 KB", 10 * 1024, true},
		{"5MB", 5 * 1024 * 1024, true},
		{"no", resolver.NoLimit, true},
		{"NO", resolver.NoLimit, true},
		{"0", 0, true},
		{"banana", DefaultMaxSizeBytes, false},
		{"", DefaultMaxSizeBytes, false},
		{"-5kb", DefaultMaxSizeBytes, false},
		{"5gb", DefaultMaxSizeBytes, false},
	}

	for _, tc := range cases {
		got, ok := ParseMaxSize(tc.expr)
		assert.Equal(t, tc.want, got, "expr %q", tc.expr)
		assert.Equal(t, tc.ok, ok, "expr %q", tc.expr)
	}
}

func TestLoadConfigs_SiblingDefaultsFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	content := `{"tokens": ["*.md", "https://example.com"], "recursive": true, "maxsize": "2mb"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "thisismy.json"), []byte(content), 0644))

	cmd := &cobra.Command{}
	InitFlags(cmd)

	cfg, err := LoadConfigs(cmd, dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"*.md", "https://example.com"}, cfg.Tokens)
	assert.True(t, cfg.Recursive)
	assert.Equal(t, "2mb", cfg.MaxSize)
	assert.Equal(t, 5, cfg.Interval)
}

func TestLoadConfigs_MissingFileUsesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := &cobra.Command{}
	InitFlags(cmd)

	cfg, err := LoadConfigs(cmd, t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, cfg.Tokens)
	assert.False(t, cfg.Watch)
	assert.Equal(t, "500kb", cfg.MaxSize)
	assert.Equal(t, 5, cfg.Interval)
}

func TestLoadConfigs_IntervalClamped(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "thisismy.json"), []byte(`{"interval": 0}`), 0644))

	cmd := &cobra.Command{}
	InitFlags(cmd)

	cfg, err := LoadConfigs(cmd, dir)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Interval)
}
