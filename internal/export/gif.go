package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

var (
	ErrFinished = errors.New("export: encoder already finished")
	ErrNoFrames = errors.New("export: no frames")
)

// GIF collects frames and writes a looping animated GIF on Finish.
type GIF struct {
	w        io.Writer
	palette  color.Palette
	anim     gif.GIF
	finished bool
}

// NewGIF encodes to w. Frames are quantised against pal; a nil or empty
// palette falls back to Plan 9.
func NewGIF(w io.Writer, pal color.Palette) *GIF {
	if len(pal) == 0 {
		pal = palette.Plan9
	}
	if len(pal) > 256 {
		pal = pal[:256]
	}
	return &GIF{
		w:       w,
		palette: pal,
		anim:    gif.GIF{LoopCount: 0},
	}
}

// AddFrame appends a frame shown for delay.
func (g *GIF) AddFrame(frame image.Image, delay time.Duration) error {
	if g.finished {
		return ErrFinished
	}
	b := frame.Bounds()
	img := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), g.palette)
	draw.Draw(img, img.Bounds(), frame, b.Min, draw.Src)

	g.anim.Image = append(g.anim.Image, img)
	g.anim.Delay = append(g.anim.Delay, Centiseconds(delay))
	return nil
}

// Frames reports how many frames have been added.
func (g *GIF) Frames() int { return len(g.anim.Image) }

// Delays returns the per-frame delays in centiseconds.
func (g *GIF) Delays() []int {
	out := make([]int, len(g.anim.Delay))
	copy(out, g.anim.Delay)
	return out
}

// Finish writes the animation. It may be called once.
func (g *GIF) Finish() error {
	if g.finished {
		return ErrFinished
	}
	g.finished = true
	if len(g.anim.Image) == 0 {
		return ErrNoFrames
	}
	if err := gif.EncodeAll(g.w, &g.anim); err != nil {
		return fmt.Errorf("export: encode gif: %w", err)
	}
	return nil
}

// Centiseconds converts a delay to GIF units, rounding to the nearest
// hundredth of a second.
func Centiseconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + 5*time.Millisecond) / (10 * time.Millisecond))
}

// File is a GIF encoder backed by a file on disk. The file is removed if
// encoding fails.
type File struct {
	*GIF
	path string
	f    *os.File
}

// Create opens path for writing, creating parent directories.
func Create(path string, pal color.Palette) (*File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &File{GIF: NewGIF(f, pal), path: path, f: f}, nil
}

func (f *File) Path() string { return f.path }

// Finish encodes and closes the file.
func (f *File) Finish() error {
	err := f.GIF.Finish()
	if cerr := f.f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.path)
		return err
	}
	log.Printf("export: wrote %s (%d frames)", f.path, f.Frames())
	return nil
}

// Abort closes and removes a file whose export did not complete.
func (f *File) Abort() {
	f.f.Close()
	os.Remove(f.path)
}
