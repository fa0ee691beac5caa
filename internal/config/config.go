package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid configuration")

const (
	ModeDemo    = "demo"
	ModeService = "service"
)

type Config struct {
	InputPath    string        `yaml:"input"`
	OutputDir    string        `yaml:"output_dir"`
	Mode         string        `yaml:"mode"`
	ServiceURL   string        `yaml:"service_url"`
	Timeout      time.Duration `yaml:"timeout"`
	Threshold    int           `yaml:"threshold"`
	MaxDepth     int           `yaml:"max_depth"`
	Seed         int64         `yaml:"seed"`
	NominalUnits int           `yaml:"nominal_units"`
	Width        int           `yaml:"width"`
	Height       int           `yaml:"height"`
	Preset       string        `yaml:"preset"`
	PanelSize    int           `yaml:"panel_size"`
	Workers      int           `yaml:"workers"`
	DPI          int           `yaml:"dpi"`
	Format       string        `yaml:"format"`
	Quality      int           `yaml:"quality"`
	SaveTree     bool          `yaml:"save_tree"`
	QRCode       bool          `yaml:"qr_code"`
	ReportPath   string        `yaml:"report"`
	ShowStats    bool          `yaml:"show_stats"`
	BuildVersion string        `yaml:"-"`
}

// Default returns the settings used when neither a config file nor flags
// override them.
func Default() *Config {
	return &Config{
		OutputDir:    "output",
		Mode:         ModeDemo,
		ServiceURL:   "http://localhost:5000",
		Timeout:      60 * time.Second,
		Threshold:    30,
		MaxDepth:     4,
		NominalUnits: 1024,
		Width:        280,
		Height:       280,
		PanelSize:    480,
		DPI:          150,
		Format:       "png",
		Quality:      90,
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default value.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.ApplyPreset(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyPreset replaces Width and Height with the named visualizer size.
func (c *Config) ApplyPreset() error {
	switch strings.ToLower(c.Preset) {
	case "":
	case "small":
		c.Width, c.Height = 280, 280
	case "medium":
		c.Width, c.Height = 512, 512
	case "large":
		c.Width, c.Height = 1024, 1024
	default:
		return fmt.Errorf("%w: unknown preset %q", ErrInvalid, c.Preset)
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Mode {
	case ModeDemo:
	case ModeService:
		if c.ServiceURL == "" {
			errs = append(errs, errors.New("service mode needs service_url"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown mode %q", c.Mode))
	}
	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max_depth must be >= 0, got %d", c.MaxDepth))
	}
	if c.NominalUnits <= 0 {
		errs = append(errs, fmt.Errorf("nominal_units must be > 0, got %d", c.NominalUnits))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("visualizer size must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.PanelSize <= 0 {
		errs = append(errs, fmt.Errorf("panel_size must be positive, got %d", c.PanelSize))
	}
	switch c.Format {
	case "png", "jpeg", "jpg", "qoi":
	default:
		errs = append(errs, fmt.Errorf("unknown format %q", c.Format))
	}
	if c.Quality < 1 || c.Quality > 100 {
		errs = append(errs, fmt.Errorf("quality must be in 1..100, got %d", c.Quality))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
