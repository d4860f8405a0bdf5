package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"textdrop/internal/errors"
	"textdrop/pkg/types"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration structure.
// It defines which dragged items are accepted, how dropped files are read,
// the drop-folder watcher, and presentation settings.
type Config struct {
	Accept struct {
		Types []string `yaml:"types"` // Accepted dragged-item types (glob patterns)
	} `yaml:"accept"`
	Read struct {
		MaxBytes    int64 `yaml:"max_bytes"`   // Per-file size limit, 0 = unlimited
		Concurrency int   `yaml:"concurrency"` // Parallel reads per drop
		Timeout     int   `yaml:"timeout"`     // Per-drop read timeout in seconds, 0 = none
	} `yaml:"read"`
	Watch struct {
		Directories []string `yaml:"directories"` // Drop folders
		SettleMS    int      `yaml:"settle_ms"`   // Quiet period that ends a folder drop
		Ignore      []string `yaml:"ignore"`      // File name patterns never treated as drops
	} `yaml:"watch"`
	UI struct {
		HighlightMS int    `yaml:"highlight_ms"` // How long the border stays highlighted after a drop
		Theme       string `yaml:"theme"`        // Theme name (default, dark, light, etc.)
	} `yaml:"ui"`
	Output struct {
		Decode string `yaml:"decode"` // "", "json" or "yaml"
	} `yaml:"output"`
	Log struct {
		Debug bool   `yaml:"debug"`
		JSON  bool   `yaml:"json"`
		File  string `yaml:"file"`
	} `yaml:"log"`
	Metrics struct {
		Address string `yaml:"address"` // Listen address for /metrics, empty = disabled
	} `yaml:"metrics"`
}

// DefaultPath returns ~/.config/textdrop/config.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "textdrop", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location
// (~/.config/textdrop/config.yaml).
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if len(tempCfg.Accept.Types) > 0 {
		cfg.Accept.Types = tempCfg.Accept.Types
	}

	if tempCfg.Read.MaxBytes != 0 {
		cfg.Read.MaxBytes = tempCfg.Read.MaxBytes
	}
	if tempCfg.Read.Concurrency != 0 {
		cfg.Read.Concurrency = tempCfg.Read.Concurrency
	}
	if tempCfg.Read.Timeout != 0 {
		cfg.Read.Timeout = tempCfg.Read.Timeout
	}

	if len(tempCfg.Watch.Directories) > 0 {
		cfg.Watch.Directories = tempCfg.Watch.Directories
	}
	if tempCfg.Watch.SettleMS != 0 {
		cfg.Watch.SettleMS = tempCfg.Watch.SettleMS
	}
	if tempCfg.Watch.Ignore != nil {
		cfg.Watch.Ignore = tempCfg.Watch.Ignore
	}

	if tempCfg.UI.HighlightMS != 0 {
		cfg.UI.HighlightMS = tempCfg.UI.HighlightMS
	}
	if tempCfg.UI.Theme != "" {
		cfg.UI.Theme = tempCfg.UI.Theme
	}

	cfg.Output.Decode = tempCfg.Output.Decode
	cfg.Log = tempCfg.Log
	cfg.Metrics = tempCfg.Metrics

	if err := cfg.Validate(); err != nil {
		return nil, errors.NewConfigError("invalid configuration", path, errors.InvalidConfig, err)
	}

	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Accept.Types = []string{types.FileReferenceType}

	cfg.Read.MaxBytes = 10 << 20 // 10 MiB per file
	cfg.Read.Concurrency = 4
	cfg.Read.Timeout = 30

	cfg.Watch.Directories = []string{}
	cfg.Watch.SettleMS = 500
	cfg.Watch.Ignore = []string{".*", "*~", "*.part", "*.tmp", "*.swp", "*.crdownload"}

	cfg.UI.HighlightMS = 400
	cfg.UI.Theme = "default"

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}

	if len(c.Accept.Types) == 0 {
		return fmt.Errorf("at least one accepted type is required")
	}
	for i, t := range c.Accept.Types {
		if t == "" {
			return fmt.Errorf("accepted type %d: pattern is empty", i)
		}
		if _, err := glob.Compile(t); err != nil {
			return fmt.Errorf("accepted type %d: %w", i, err)
		}
	}

	if c.Read.MaxBytes < 0 {
		return fmt.Errorf("read max_bytes must be >= 0")
	}
	if c.Read.Concurrency < 1 {
		return fmt.Errorf("read concurrency must be >= 1")
	}
	if c.Read.Timeout < 0 {
		return fmt.Errorf("read timeout must be >= 0 seconds")
	}

	if c.Watch.SettleMS < 1 {
		return fmt.Errorf("watch settle_ms must be >= 1")
	}
	for i, p := range c.Watch.Ignore {
		if _, err := glob.Compile(p); err != nil {
			return fmt.Errorf("ignore pattern %d: %w", i, err)
		}
	}
	for _, dir := range c.Watch.Directories {
		if dir == "" {
			return fmt.Errorf("watch directory path cannot be empty")
		}
	}

	if c.UI.HighlightMS < 0 {
		return fmt.Errorf("ui highlight_ms must be >= 0")
	}

	switch c.Output.Decode {
	case "", "json", "yaml":
	default:
		return fmt.Errorf("invalid output decode setting: %s", c.Output.Decode)
	}

	return nil
}

// ReadTimeout returns the per-drop read timeout, zero when disabled
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Read.Timeout) * time.Second
}

// SettlePeriod returns the quiet period that ends a folder drop
func (c *Config) SettlePeriod() time.Duration {
	return time.Duration(c.Watch.SettleMS) * time.Millisecond
}

// HighlightPeriod returns how long a drop keeps the target highlighted
func (c *Config) HighlightPeriod() time.Duration {
	return time.Duration(c.UI.HighlightMS) * time.Millisecond
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Read.Timeout = 5
	cfg.Watch.SettleMS = 100
	cfg.UI.HighlightMS = 0
	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// GetTheme returns a predefined theme configuration by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary":   "213", // Purple
			"highlight": "114", // Green
			"error":     "196", // Red
			"muted":     "245", // Grey
			"border":    "240", // Dark grey
		},
		"dark": {
			"primary":   "105", // Dark Blue
			"highlight": "78",  // Dark Green
			"error":     "160", // Dark Red
			"muted":     "241", // Medium Grey
			"border":    "238", // Charcoal
		},
		"light": {
			"primary":   "135", // Light Purple
			"highlight": "150", // Light Green
			"error":     "210", // Light Red
			"muted":     "248", // Grey
			"border":    "252", // Near white
		},
		"monochrome": {
			"primary":   "245", // Light Grey
			"highlight": "255", // Bright White
			"error":     "252", // White
			"muted":     "241", // Medium Grey
			"border":    "238", // Charcoal
		},
		"ocean": {
			"primary":   "31",  // Teal
			"highlight": "51",  // Cyan
			"error":     "196", // Red
			"muted":     "67",  // Steel
			"border":    "24",  // Deep blue
		},
		"sunset": {
			"primary":   "208", // Orange
			"highlight": "220", // Yellow
			"error":     "196", // Red
			"muted":     "180", // Sand
			"border":    "130", // Brown
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}

	return themes["default"]
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome", "ocean", "sunset"}
}
