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
	t.Setenv("KHRU_TEST_DIR", "/srv/khru")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "tilde alone", in: "~", want: home},
		{name: "tilde prefix", in: "~/khru.db", want: filepath.Join(home, "khru.db")},
		{name: "env var", in: "$KHRU_TEST_DIR/khru.db", want: "/srv/khru/khru.db"},
		{name: "absolute", in: "/var/lib/khru.db", want: "/var/lib/khru.db"},
		{name: "tilde in middle untouched", in: "/a/~/b", want: "/a/~/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("HOME", "/home/khru")

	dir, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/khru", ".config", "khru"), dir)
}
