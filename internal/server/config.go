package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete server configuration
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Game   GameSettings   `hcl:"game,block"`
	Bots   []BotConfig    `hcl:"bot,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address string `hcl:"address,optional"`
	Port    int    `hcl:"port,optional"`
	// JoinToken, when set, is required of every remote player. An empty
	// token leaves the table open.
	JoinToken string `hcl:"join_token,optional"`
	LogLevel  string `hcl:"log_level,optional"`
	LogFile   string `hcl:"log_file,optional"`
}

// GameSettings configures the match the server hosts
type GameSettings struct {
	WinningScore    int    `hcl:"winning_score,optional"`
	Seed            int64  `hcl:"seed,optional"`
	RoundLog        string `hcl:"round_log,optional"`
	DecisionTimeout int    `hcl:"decision_timeout,optional"`
	DecisionRetries int    `hcl:"decision_retries,optional"`
}

// BotConfig seats a server-side bot; remote players fill the rest of
// the table
type BotConfig struct {
	Name     string `hcl:"name,label"`
	Strategy string `hcl:"strategy,optional"`
}

// DefaultConfig returns the default server configuration: one open
// table waiting for four remote players.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Game: GameSettings{
			WinningScore:    10,
			DecisionTimeout: 30,
			DecisionRetries: 3,
		},
	}
}

// LoadConfig loads server configuration from an HCL file, falling back
// to defaults when the file does not exist
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Game.WinningScore == 0 {
		config.Game.WinningScore = 10
	}
	if config.Game.DecisionTimeout == 0 {
		config.Game.DecisionTimeout = 30
	}
	if config.Game.DecisionRetries == 0 {
		config.Game.DecisionRetries = 3
	}
	for i := range config.Bots {
		if config.Bots[i].Strategy == "" {
			config.Bots[i].Strategy = "greedy"
		}
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Game.WinningScore < 1 {
		return fmt.Errorf("winning score must be positive, got %d", c.Game.WinningScore)
	}
	if c.Game.DecisionTimeout < 1 {
		return fmt.Errorf("decision timeout must be positive, got %d", c.Game.DecisionTimeout)
	}
	if len(c.Bots) > 4 {
		return fmt.Errorf("a table seats at most 4 bots, got %d", len(c.Bots))
	}

	validStrategies := map[string]bool{
		"greedy": true,
		"random": true,
	}
	names := map[string]bool{}
	for _, bot := range c.Bots {
		if !validStrategies[bot.Strategy] {
			return fmt.Errorf("bot %s: invalid strategy %s", bot.Name, bot.Strategy)
		}
		if names[bot.Name] {
			return fmt.Errorf("duplicate bot name %s", bot.Name)
		}
		names[bot.Name] = true
	}

	return nil
}

// ListenAddress returns the full listen address
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
