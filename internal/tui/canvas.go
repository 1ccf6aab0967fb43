package tui

import (
	"image"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blankCell = 0x2800

// Canvas is a braille grid with 2x4 dots per terminal cell.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = blankCell
		}
	}
	return c
}

// Set turns on a dot at (x, y) in sub-pixel coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the dot at (x, y) is on.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blankCell
		}
	}
}

// Plot samples img onto the dot grid, nearest neighbour, and sets every dot
// whose pixel is closer to fg than to bg.
func (c *Canvas) Plot(img image.Image, fg, bg color.Color) {
	c.Clear()
	b := img.Bounds()
	if b.Empty() {
		return
	}
	fgc, _ := colorful.MakeColor(fg)
	bgc, _ := colorful.MakeColor(bg)

	dotsW, dotsH := c.Width*2, c.Height*4
	for y := 0; y < dotsH; y++ {
		py := b.Min.Y + y*b.Dy()/dotsH
		for x := 0; x < dotsW; x++ {
			px := b.Min.X + x*b.Dx()/dotsW
			pc, ok := colorful.MakeColor(img.At(px, py))
			if !ok {
				continue
			}
			if pc.DistanceRgb(fgc) < pc.DistanceRgb(bgc) {
				c.Set(x, y)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		b.WriteString(string(row))
		if i < len(c.Grid)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// previewSize picks a cell grid for a frame of w x h pixels that is at most
// maxCols wide and maxRows tall, keeping the aspect ratio. Terminal cells
// hold 2x4 dots.
func previewSize(w, h, maxCols, maxRows int) (int, int) {
	if w <= 0 || h <= 0 {
		return maxCols, maxRows
	}
	cols := maxCols
	rows := (cols*2*h/w + 3) / 4
	if rows > maxRows {
		rows = maxRows
		cols = (rows*4*w/h + 1) / 2
	}
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}
