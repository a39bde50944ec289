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

	t.Setenv("LAUNCHPAD_TEST_DIR", "/tmp/launchpad")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "/var/lib/launchpad.db", "/var/lib/launchpad.db"},
		{"tilde prefix", "~/data/launchpad.db", filepath.Join(home, "data", "launchpad.db")},
		{"bare tilde", "~", home},
		{"env var", "$LAUNCHPAD_TEST_DIR/launchpad.db", "/tmp/launchpad/launchpad.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestDirHonorsOverride(t *testing.T) {
	t.Setenv("LAUNCHPAD_CONFIG_DIR", "/etc/launchpad")
	assert.Equal(t, "/etc/launchpad", Dir())

	t.Setenv("LAUNCHPAD_CONFIG_DIR", "")
	assert.Contains(t, Dir(), filepath.Join(".config", "launchpad"))
}

func TestDefaultDatabasePath(t *testing.T) {
	t.Setenv("LAUNCHPAD_CONFIG_DIR", "/etc/launchpad")
	assert.Equal(t, "/etc/launchpad/launchpad.db", DefaultDatabasePath())
}
