package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("SPICEWATCH_TEST_DIR", "/srv/watch")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/data/spicewatch.db", filepath.Join(home, "data", "spicewatch.db")},
		{"$SPICEWATCH_TEST_DIR/db.sqlite", "/srv/watch/db.sqlite"},
		{"/abs/path", "/abs/path"},
		{"~other/path", "~other/path"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestXDGDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	assert.Equal(t, "/tmp/cfg/spicewatch", ConfigDir())
	assert.Equal(t, "/tmp/data/spicewatch", DataDir())

	t.Setenv("XDG_DATA_HOME", "")
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".local", "share", "spicewatch"), DataDir())
}
