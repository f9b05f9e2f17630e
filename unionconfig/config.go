// Package unionconfig loads the tunables that govern the union
// package's container-promotion thresholds and logging setup, in the
// yaml-tagged struct-plus-loader style nakama's server/config.go uses
// for its own Config.
package unionconfig

import (
	"fmt"
	"os"

	"github.com/doublemo/roaringunion/union"
	"gopkg.in/yaml.v3"
)

// LoggerConfig mirrors nakama's LogConfig shape: enough to pick a
// format, a level and an optional rotating file sink without exposing
// every zap knob.
type LoggerConfig struct {
	Level      string `yaml:"level" json:"level" usage:"Logging level: debug, info, warn or error."`
	Format     string `yaml:"format" json:"format" usage:"Log encoding: json or stackdriver."`
	File       string `yaml:"file" json:"file" usage:"Log file path; empty means stdout only."`
	Rotation   bool   `yaml:"rotation" json:"rotation" usage:"Enable log file rotation via lumberjack."`
	MaxSize    int    `yaml:"max_size" json:"max_size" usage:"Max log file size in megabytes before rotation."`
	MaxAge     int    `yaml:"max_age" json:"max_age" usage:"Max age in days to retain rotated log files."`
	MaxBackups int    `yaml:"max_backups" json:"max_backups" usage:"Max number of rotated log files to retain."`
}

func NewLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:      "info",
		Format:     "json",
		Rotation:   false,
		MaxSize:    100,
		MaxAge:     0,
		MaxBackups: 0,
	}
}

// Tunables is the top-level configuration surface for this module:
// the container-promotion thresholds plus the logger setup, the same
// flattened "one struct, yaml+json+usage tags" shape nakama's Config
// interface is built from.
type Tunables struct {
	ArrayThreshold      int           `yaml:"array_threshold" json:"array_threshold" usage:"Cardinality above which an array container promotes to bitset."`
	ArrayLazyLowerBound int           `yaml:"array_lazy_lower_bound" json:"array_lazy_lower_bound" usage:"Cardinality above which a lazy array union promotes to bitset."`
	Logger              *LoggerConfig `yaml:"logger" json:"logger" usage:"Logging configuration."`
}

func NewTunables() *Tunables {
	return &Tunables{
		ArrayThreshold:      4096,
		ArrayLazyLowerBound: 8192,
		Logger:              NewLoggerConfig(),
	}
}

// Load reads and parses a YAML tunables file, filling in defaults for
// anything it doesn't set.
func Load(path string) (*Tunables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unionconfig: reading %s: %w", path, err)
	}
	t := NewTunables()
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("unionconfig: parsing %s: %w", path, err)
	}
	if t.Logger == nil {
		t.Logger = NewLoggerConfig()
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate rejects tunables that would make ArrayLazyLowerBound weaker
// than the eager threshold it's supposed to sit above.
func (t *Tunables) Validate() error {
	if t.ArrayThreshold <= 0 {
		return fmt.Errorf("unionconfig: array_threshold must be positive, got %d", t.ArrayThreshold)
	}
	if t.ArrayLazyLowerBound < t.ArrayThreshold {
		return fmt.Errorf("unionconfig: array_lazy_lower_bound (%d) must be >= array_threshold (%d)", t.ArrayLazyLowerBound, t.ArrayThreshold)
	}
	return nil
}

// Apply writes the thresholds into the union package's package-level
// tunables. It's a separate step from Load so callers can validate and
// inspect a Tunables value before committing it process-wide.
func (t *Tunables) Apply() {
	union.ArrayThreshold = t.ArrayThreshold
	union.ArrayLazyLowerBound = t.ArrayLazyLowerBound
}
