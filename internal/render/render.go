// Package render draws a single token centred on a fixed-size frame,
// scaled to fit, in the configured colours and font.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	DefaultSize       = 64
	DefaultForeground = "#000000"
	DefaultBackground = "#ffffff"

	// Text is measured at this size and then scaled to fit.
	measureSize = 100.0
	// Share of the frame the text may cover on either axis.
	fill = 0.9
	// Number of entries in the background-to-foreground palette.
	paletteSize = 256
)

// Style configures a Renderer.
type Style struct {
	Width      int
	Height     int
	Foreground string
	Background string
	Font       string
}

// Renderer draws tokens. It is safe for concurrent use.
type Renderer struct {
	width, height int
	fg, bg        colorful.Color
	fontName      string
	font          *opentype.Font
}

// New validates the style and prepares the font. Non-positive dimensions
// fall back to DefaultSize; empty colours fall back to black on white.
func New(s Style) (*Renderer, error) {
	if s.Width <= 0 {
		s.Width = DefaultSize
	}
	if s.Height <= 0 {
		s.Height = DefaultSize
	}
	if s.Foreground == "" {
		s.Foreground = DefaultForeground
	}
	if s.Background == "" {
		s.Background = DefaultBackground
	}

	fg, err := colorful.Hex(s.Foreground)
	if err != nil {
		return nil, fmt.Errorf("foreground %q: %w", s.Foreground, err)
	}
	bg, err := colorful.Hex(s.Background)
	if err != nil {
		return nil, fmt.Errorf("background %q: %w", s.Background, err)
	}
	f, err := LoadFont(s.Font)
	if err != nil {
		return nil, err
	}
	name := strings.ToLower(strings.TrimSpace(s.Font))
	if name == "" {
		name = DefaultFont
	}

	return &Renderer{
		width:    s.Width,
		height:   s.Height,
		fg:       fg,
		bg:       bg,
		fontName: name,
		font:     f,
	}, nil
}

func (r *Renderer) Width() int              { return r.width }
func (r *Renderer) Height() int             { return r.height }
func (r *Renderer) FontName() string        { return r.fontName }
func (r *Renderer) Foreground() color.Color { return r.fg }
func (r *Renderer) Background() color.Color { return r.bg }
func (r *Renderer) Bounds() image.Rectangle { return image.Rect(0, 0, r.width, r.height) }
func (r *Renderer) ForegroundHex() string   { return r.fg.Hex() }
func (r *Renderer) BackgroundHex() string   { return r.bg.Hex() }

// Palette is a ramp from background to foreground. Anti-aliased glyph
// edges drawn over a uniform background all land on this ramp.
func (r *Renderer) Palette() color.Palette {
	p := make(color.Palette, paletteSize)
	for i := range p {
		t := float64(i) / float64(paletteSize-1)
		p[i] = r.bg.BlendRgb(r.fg, t).Clamped()
	}
	return p
}

// Render draws token centred on a fresh frame. An empty token yields a
// blank frame.
func (r *Renderer) Render(token string) (image.Image, error) {
	img := image.NewRGBA(r.Bounds())
	draw.Draw(img, img.Bounds(), image.NewUniform(r.bg), image.Point{}, draw.Src)
	if token == "" {
		return img, nil
	}

	probe, err := r.face(measureSize)
	if err != nil {
		return nil, err
	}
	textWidth := fixedToFloat(font.MeasureString(probe, token))
	probe.Close()

	size := FitSize(textWidth, r.width, r.height)
	face, err := r.face(float64(size))
	if err != nil {
		return nil, err
	}
	defer face.Close()

	advance := font.MeasureString(face, token)
	m := face.Metrics()
	// Vertical centre between ascent and descent, like a "middle" baseline.
	baseline := fixed.I(r.height)/2 + (m.Ascent-m.Descent)/2

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(r.fg),
		Face: face,
		Dot: fixed.Point26_6{
			X: (fixed.I(r.width) - advance) / 2,
			Y: baseline,
		},
	}
	d.DrawString(token)
	return img, nil
}

func (r *Renderer) face(size float64) (font.Face, error) {
	return opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// FitSize picks the pixel size for text that measures textWidth at the
// reference size, so it covers at most 90% of the frame on either axis.
func FitSize(textWidth float64, width, height int) int {
	scaleH := float64(height) * fill / measureSize
	scale := scaleH
	if textWidth > 0 {
		scale = math.Min(float64(width)*fill/textWidth, scaleH)
	}
	size := int(math.Floor(measureSize * scale))
	if size < 1 {
		size = 1
	}
	return size
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
