package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/wordflash/internal/config"
	"github.com/san-kum/wordflash/internal/storage"
	"github.com/san-kum/wordflash/internal/tui"
)

// registerFlags binds the persistent flags shared by every command.
func registerFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory for recorded sessions")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&logFile, "log", "", "write debug log to this file")
	pf.IntVar(&width, "width", config.DefaultSize, "frame width in pixels")
	pf.IntVar(&height, "height", config.DefaultSize, "frame height in pixels")
	pf.StringVar(&foreground, "fg", config.DefaultForeground, "text colour (#rrggbb)")
	pf.StringVar(&background, "bg", config.DefaultBackground, "background colour (#rrggbb)")
	pf.StringVar(&fontName, "font", config.DefaultFont, "font family")
	pf.StringVar(&preset, "preset", "", "style preset")
	pf.StringVar(&afterRecord, "after", config.DefaultAfterRecord, "action after recording: play, export or none")
	pf.StringVar(&themeName, "theme", config.DefaultTheme, "terminal colour theme")
	pf.StringVar(&outputDir, "out", config.DefaultOutputDir, "directory for exported GIFs")
}

// loadConfig layers defaults, config file, preset and explicitly set flags,
// in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.ApplyPreset(p)
	}

	flags := cmd.Flags()
	if flags.Changed("data") || configFile == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("fg") {
		cfg.Foreground = foreground
	}
	if flags.Changed("bg") {
		cfg.Background = background
	}
	if flags.Changed("font") {
		cfg.Font = fontName
	}
	if flags.Changed("after") {
		cfg.AfterRecord = afterRecord
	}
	if flags.Changed("theme") {
		cfg.Theme = themeName
	}
	if flags.Changed("out") {
		cfg.OutputDir = outputDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := tui.LookupTheme(cfg.Theme); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applySessionStyle restores the frame style a session was recorded with.
// A preset or an explicit flag wins over the stored value.
func applySessionStyle(cmd *cobra.Command, cfg *config.Config, meta *storage.SessionMetadata) {
	if preset != "" {
		return
	}
	flags := cmd.Flags()
	if !flags.Changed("width") && meta.Width > 0 {
		cfg.Width = meta.Width
	}
	if !flags.Changed("height") && meta.Height > 0 {
		cfg.Height = meta.Height
	}
	if !flags.Changed("fg") && meta.Foreground != "" {
		cfg.Foreground = meta.Foreground
	}
	if !flags.Changed("bg") && meta.Background != "" {
		cfg.Background = meta.Background
	}
	if !flags.Changed("font") && meta.Font != "" {
		cfg.Font = meta.Font
	}
}
