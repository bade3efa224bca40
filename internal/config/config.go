// Package config loads the dashboard process configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/banshee-data/signal.report/internal/security"
)

// DefaultConfigPath is where the server looks when -config is not given.
const DefaultConfigPath = "config/signals.json"

const maxFileSize = 1 * 1024 * 1024 // 1MB

// Config is the root process configuration. Pointer fields fall back to the
// defaults returned by the Get* methods when omitted.
type Config struct {
	Listen              *string `json:"listen,omitempty" yaml:"listen,omitempty"`
	DataDir             *string `json:"data_dir,omitempty" yaml:"data_dir,omitempty"`
	DBPath              *string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	Source              *string `json:"source,omitempty" yaml:"source,omitempty" validate:"omitempty,oneof=csv sqlite"`
	DefaultIntersection *string `json:"default_intersection,omitempty" yaml:"default_intersection,omitempty"`
	DefaultDay          *int    `json:"default_day,omitempty" yaml:"default_day,omitempty" validate:"omitempty,gte=0"`
	ShutdownTimeout     *string `json:"shutdown_timeout,omitempty" yaml:"shutdown_timeout,omitempty"` // duration string like "5s"

	Intersections []Intersection `json:"intersections,omitempty" yaml:"intersections,omitempty" validate:"dive"`
}

// Intersection names the two source files of one signalised intersection.
// Relative paths are resolved against the data directory.
type Intersection struct {
	ID       string   `json:"id" yaml:"id" validate:"required,alphanum"`
	Name     string   `json:"name,omitempty" yaml:"name,omitempty"`
	Vehicles string   `json:"vehicles" yaml:"vehicles" validate:"required"`
	Journeys string   `json:"journeys" yaml:"journeys" validate:"required"`
	JoinKeys []string `json:"join_keys,omitempty" yaml:"join_keys,omitempty"`
}

// DisplayName is Name, or "Broward <id>" when no name is configured.
func (in Intersection) DisplayName() string {
	if in.Name != "" {
		return in.Name
	}
	return "Broward " + in.ID
}

// BrowardIntersections are the three intersections the dashboard was built
// around, with the file names of the raw exports.
func BrowardIntersections() []Intersection {
	ids := []string{"3084", "1037", "1113"}
	out := make([]Intersection, 0, len(ids))
	for _, id := range ids {
		out = append(out, Intersection{
			ID:       id,
			Name:     "Broward " + id,
			Vehicles: "Broward " + id + " Vehicles.csv",
			Journeys: "Broward " + id + " Journeys.csv",
		})
	}
	return out
}

// EmptyConfig returns a Config with every field unset.
func EmptyConfig() *Config {
	return &Config{}
}

// Load reads a JSON or YAML configuration file. Fields omitted from the file
// keep their defaults, so partial configs are safe.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".json" && ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyConfig()
	if ext == ".json" {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", ext, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.ShutdownTimeout != nil && *c.ShutdownTimeout != "" {
		if _, err := time.ParseDuration(*c.ShutdownTimeout); err != nil {
			return fmt.Errorf("invalid shutdown_timeout '%s': %w", *c.ShutdownTimeout, err)
		}
	}

	if c.GetSource() == "sqlite" && c.GetDBPath() == "" {
		return fmt.Errorf("source sqlite requires db_path")
	}

	seen := make(map[string]bool)
	for _, in := range c.GetIntersections() {
		if seen[in.ID] {
			return fmt.Errorf("duplicate intersection id %q", in.ID)
		}
		seen[in.ID] = true
	}
	if !seen[c.GetDefaultIntersection()] {
		return fmt.Errorf("default_intersection %q is not configured", c.GetDefaultIntersection())
	}
	return nil
}

// GetListen returns the HTTP listen address.
func (c *Config) GetListen() string {
	if c.Listen == nil || *c.Listen == "" {
		return ":8300"
	}
	return *c.Listen
}

// GetDataDir returns the directory holding the raw exports.
func (c *Config) GetDataDir() string {
	if c.DataDir == nil || *c.DataDir == "" {
		return "data/raw"
	}
	return *c.DataDir
}

// GetDBPath returns the SQLite database path, empty when no store is used.
func (c *Config) GetDBPath() string {
	if c.DBPath == nil {
		return ""
	}
	return *c.DBPath
}

// GetSource returns where tables are loaded from: "csv" or "sqlite".
func (c *Config) GetSource() string {
	if c.Source == nil || *c.Source == "" {
		return "csv"
	}
	return *c.Source
}

// GetIntersections returns the configured intersections, or the Broward
// defaults when none are listed.
func (c *Config) GetIntersections() []Intersection {
	if len(c.Intersections) == 0 {
		return BrowardIntersections()
	}
	return c.Intersections
}

// GetDefaultIntersection returns the intersection shown at "/".
func (c *Config) GetDefaultIntersection() string {
	if c.DefaultIntersection == nil || *c.DefaultIntersection == "" {
		return c.GetIntersections()[0].ID
	}
	return *c.DefaultIntersection
}

// GetDefaultDay returns the day preselected on a fresh dashboard.
func (c *Config) GetDefaultDay() int {
	if c.DefaultDay == nil {
		return 1
	}
	return *c.DefaultDay
}

// GetShutdownTimeout parses and returns the ShutdownTimeout as a time.Duration.
func (c *Config) GetShutdownTimeout() time.Duration {
	if c.ShutdownTimeout == nil || *c.ShutdownTimeout == "" {
		return 5 * time.Second // default
	}
	d, err := time.ParseDuration(*c.ShutdownTimeout)
	if err != nil {
		return 5 * time.Second // default on parse error
	}
	return d
}

// ResolvePath resolves a data file path against the data directory and
// rejects paths that escape it.
func (c *Config) ResolvePath(p string) (string, error) {
	dataDir := c.GetDataDir()
	if !filepath.IsAbs(p) {
		p = filepath.Join(dataDir, p)
	}
	if err := security.ValidatePathWithinDirectory(p, dataDir); err != nil {
		return "", err
	}
	return p, nil
}
