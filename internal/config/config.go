package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSize        = 64
	DefaultForeground  = "#000000"
	DefaultBackground  = "#ffffff"
	DefaultFont        = "regular"
	DefaultAfterRecord = "export"
	DefaultTheme       = "cyberpunk"
	DefaultDataDir     = ".wordflash"
	DefaultOutputDir   = "."
)

// AfterRecordActions lists the accepted after_record values.
var AfterRecordActions = []string{"play", "export", "none"}

type Config struct {
	Text        string `yaml:"text"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Foreground  string `yaml:"foreground"`
	Background  string `yaml:"background"`
	Font        string `yaml:"font"`
	AfterRecord string `yaml:"after_record"`
	Theme       string `yaml:"theme"`
	DataDir     string `yaml:"data_dir"`
	OutputDir   string `yaml:"output_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:       DefaultSize,
		Height:      DefaultSize,
		Foreground:  DefaultForeground,
		Background:  DefaultBackground,
		Font:        DefaultFont,
		AfterRecord: DefaultAfterRecord,
		Theme:       DefaultTheme,
		DataDir:     DefaultDataDir,
		OutputDir:   DefaultOutputDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate fills in defaults for missing or invalid dimensions and empty
// fields, and rejects an unknown after_record action.
func (c *Config) Validate() error {
	if c.Width <= 0 {
		c.Width = DefaultSize
	}
	if c.Height <= 0 {
		c.Height = DefaultSize
	}
	if c.Foreground == "" {
		c.Foreground = DefaultForeground
	}
	if c.Background == "" {
		c.Background = DefaultBackground
	}
	if c.Font == "" {
		c.Font = DefaultFont
	}
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}

	c.AfterRecord = strings.ToLower(strings.TrimSpace(c.AfterRecord))
	if c.AfterRecord == "" {
		c.AfterRecord = DefaultAfterRecord
	}
	for _, a := range AfterRecordActions {
		if c.AfterRecord == a {
			return nil
		}
	}
	return fmt.Errorf("unknown after_record: %s (available: %v)", c.AfterRecord, AfterRecordActions)
}

// ApplyPreset copies the style fields of a preset onto c.
func (c *Config) ApplyPreset(p *Config) {
	if p.Foreground != "" {
		c.Foreground = p.Foreground
	}
	if p.Background != "" {
		c.Background = p.Background
	}
	if p.Font != "" {
		c.Font = p.Font
	}
	if p.Width > 0 {
		c.Width = p.Width
	}
	if p.Height > 0 {
		c.Height = p.Height
	}
	if p.Theme != "" {
		c.Theme = p.Theme
	}
}
