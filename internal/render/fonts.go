package render

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/opentype"
)

const DefaultFont = "regular"

var fontData = map[string][]byte{
	"regular":     goregular.TTF,
	"bold":        gobold.TTF,
	"italic":      goitalic.TTF,
	"bold-italic": gobolditalic.TTF,
	"medium":      gomedium.TTF,
	"mono":        gomono.TTF,
	"mono-bold":   gomonobold.TTF,
	"smallcaps":   gosmallcaps.TTF,
}

var (
	parsedMu sync.Mutex
	parsed   = make(map[string]*opentype.Font)
)

// LoadFont returns the parsed font for a family name. Parsed fonts are
// immutable and shared.
func LoadFont(name string) (*opentype.Font, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultFont
	}
	data, ok := fontData[name]
	if !ok {
		return nil, fmt.Errorf("unknown font: %s (available: %s)", name, strings.Join(ListFonts(), ", "))
	}

	parsedMu.Lock()
	defer parsedMu.Unlock()
	if f, ok := parsed[name]; ok {
		return f, nil
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", name, err)
	}
	parsed[name] = f
	return f, nil
}

// ListFonts returns the available family names, sorted.
func ListFonts() []string {
	names := make([]string, 0, len(fontData))
	for name := range fontData {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
