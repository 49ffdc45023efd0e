package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Parse entry points selectable with parser.mode.
const (
	ModeDocument = "document"
	ModeObject   = "object"
	ModeArray    = "array"
)

// Colour policies selectable with output.color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents the complete configuration for jsontree
type Config struct {
	Parser ParserConfig `yaml:"parser"`
	Output OutputConfig `yaml:"output"`
	Dev    DevConfig    `yaml:"dev"`
}

// ParserConfig controls how documents are parsed
type ParserConfig struct {
	// MaxDepth bounds array/object nesting; zero or less disables the check.
	MaxDepth int    `yaml:"max_depth"`
	Mode     string `yaml:"mode"`
}

// OutputConfig controls how parsed trees are printed
type OutputConfig struct {
	Color          string `yaml:"color"`
	Indent         int    `yaml:"indent"`
	MaxStringWidth int    `yaml:"max_string_width"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// Overrides carries values given on the command line. Zero values mean the
// flag was not set.
type Overrides struct {
	Mode     string
	MaxDepth int
	Color    string
	Debug    bool
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Parser: ParserConfig{
			MaxDepth: 10000,
			Mode:     ModeDocument,
		},
		Output: OutputConfig{
			Color:          ColorAuto,
			Indent:         2,
			MaxStringWidth: 60,
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsontree.yml", ".jsontree.yaml", "jsontree.yml", "jsontree.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks that enumerated settings hold known values.
func (c *Config) Validate() error {
	switch c.Parser.Mode {
	case ModeDocument, ModeObject, ModeArray:
	default:
		return fmt.Errorf("unknown parser mode '%s'", c.Parser.Mode)
	}
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("unknown color setting '%s'", c.Output.Color)
	}
	if c.Output.Indent < 0 {
		return fmt.Errorf("indent must not be negative, got %d", c.Output.Indent)
	}
	if c.Output.MaxStringWidth < 0 {
		return fmt.Errorf("max_string_width must not be negative, got %d", c.Output.MaxStringWidth)
	}
	return nil
}

// Apply merges CLI overrides into the config. Set values take precedence.
func (c *Config) Apply(o Overrides) {
	if o.Mode != "" {
		c.Parser.Mode = o.Mode
	}
	if o.MaxDepth != 0 {
		c.Parser.MaxDepth = o.MaxDepth
	}
	if o.Color != "" {
		c.Output.Color = o.Color
	}
	if o.Debug {
		c.Dev.Debug = true
	}
}

// LoadConfigWithCLI loads config with CLI argument precedence:
// CLI flags, then the config file, then defaults.
func LoadConfigWithCLI(configPath string, overrides Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	cfg.Apply(overrides)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
