package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigPathFromArgs(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, ""},
		{[]string{"-config", "a.toml"}, "a.toml"},
		{[]string{"--config=b.toml", "-debug"}, "b.toml"},
		{[]string{"-debug", "-config=c.toml"}, "c.toml"},
		{[]string{"-config"}, ""},
		{[]string{"config", "d.toml"}, ""},
		{[]string{"---config", "e.toml"}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, configPathFromArgs(tt.args), "%v", tt.args)
	}
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("EDGE_CONFIG", "/env/config.toml")
	assert.Equal(t, "/flag/config.toml", resolveConfigPath([]string{"-config", "/flag/config.toml"}))
	assert.Equal(t, "/flag/config.toml", resolveConfigPath([]string{"--config=/flag/config.toml", "-debug"}))
	assert.Equal(t, "/env/config.toml", resolveConfigPath([]string{"-debug"}))

	t.Setenv("EDGE_CONFIG", "")
	assert.Equal(t, "", resolveConfigPath(nil))
}

func TestGetenvHelpers(t *testing.T) {
	t.Setenv("EM_INT", "42")
	t.Setenv("EM_BAD_INT", "x")
	t.Setenv("EM_FLOAT", "2.5")
	t.Setenv("EM_NAN", "NaN")
	t.Setenv("EM_BOOL", "Yes")
	t.Setenv("EM_BAD_BOOL", "maybe")

	assert.Equal(t, 42, getenvIntDefault("EM_INT", 1))
	assert.Equal(t, 1, getenvIntDefault("EM_BAD_INT", 1))
	assert.Equal(t, 7, getenvIntDefault("EM_UNSET", 7))
	assert.Equal(t, 2.5, getenvFloatDefault("EM_FLOAT", 1))
	assert.Equal(t, 1.0, getenvFloatDefault("EM_NAN", 1))
	assert.True(t, getenvBoolDefault("EM_BOOL", false))
	assert.False(t, getenvBoolDefault("EM_BAD_BOOL", false))
	assert.Equal(t, "dflt", getenvDefault("EM_UNSET", "dflt"))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, -1.0, clamp(-5, -1, 1))
	assert.Equal(t, 0.5, clamp(0.5, -1, 1))
	assert.Equal(t, 1.0, clamp(9, -1, 1))
}
