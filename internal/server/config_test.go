package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", cfg.ListenAddress())
	assert.Equal(t, 10, cfg.Game.WinningScore)
	assert.Equal(t, 30, cfg.Game.DecisionTimeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigParsesHCL(t *testing.T) {
	path := writeConfig(t, `
server {
  address    = "0.0.0.0"
  port       = 9000
  join_token = "hunter2"
}

game {
  winning_score = 5
  seed          = 42
  round_log     = "rounds.json"
}

bot "lefty" {
  strategy = "greedy"
}

bot "righty" {
  strategy = "random"
}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddress())
	assert.Equal(t, "hunter2", cfg.Server.JoinToken)
	assert.Equal(t, 5, cfg.Game.WinningScore)
	assert.Equal(t, int64(42), cfg.Game.Seed)
	assert.Equal(t, "rounds.json", cfg.Game.RoundLog)
	require.Len(t, cfg.Bots, 2)
	assert.Equal(t, "lefty", cfg.Bots[0].Name)
	assert.Equal(t, "random", cfg.Bots[1].Strategy)
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
server {}

game {}

bot "filler" {}
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Game.WinningScore)
	assert.Equal(t, 3, cfg.Game.DecisionRetries)
	require.Len(t, cfg.Bots, 1)
	assert.Equal(t, "greedy", cfg.Bots[0].Strategy)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = -1 }},
		{"zero winning score", func(c *Config) { c.Game.WinningScore = -2 }},
		{"bad strategy", func(c *Config) {
			c.Bots = []BotConfig{{Name: "b", Strategy: "psychic"}}
		}},
		{"duplicate bot names", func(c *Config) {
			c.Bots = []BotConfig{{Name: "b", Strategy: "greedy"}, {Name: "b", Strategy: "random"}}
		}},
		{"too many bots", func(c *Config) {
			c.Bots = []BotConfig{
				{Name: "b1", Strategy: "greedy"}, {Name: "b2", Strategy: "greedy"},
				{Name: "b3", Strategy: "greedy"}, {Name: "b4", Strategy: "greedy"},
				{Name: "b5", Strategy: "greedy"},
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
