package config

import "sort"

// Presets are named styles for the rendered frames.
var Presets = map[string]*Config{
	"classic": {
		Foreground: "#000000", Background: "#ffffff", Font: "regular",
	},
	"terminal": {
		Foreground: "#33ff33", Background: "#001100", Font: "mono", Theme: "retro",
	},
	"poster": {
		Foreground: "#ffffff", Background: "#d7263d", Font: "bold", Width: 256, Height: 128,
	},
	"paper": {
		Foreground: "#3b2f2f", Background: "#f4ecd8", Font: "italic", Theme: "minimal",
	},
	"blueprint": {
		Foreground: "#ffffff", Background: "#1f4e79", Font: "mono-bold", Theme: "ocean",
	},
	"emoji": {
		Foreground: "#000000", Background: "#ffffff", Font: "regular", Width: 128, Height: 128,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
