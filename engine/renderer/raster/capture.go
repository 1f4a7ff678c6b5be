package raster

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/google/uuid"
	"github.com/spaghettifunk/anima-gallery/engine/core"
	"github.com/spaghettifunk/anima-gallery/engine/systems"
)

// Format is the on-disk encoding of captured frames.
type Format string

const (
	FormatWebP Format = "webp"
	FormatPNG  Format = "png"
	FormatNone Format = "none"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatWebP, FormatPNG, FormatNone:
		return Format(s), nil
	}
	return "", fmt.Errorf("output format %q: %w", s, core.ErrInvalidConfig)
}

// Capture writes rendered frames to a directory. Single frames are written
// as they arrive; animated WebP frames are buffered until Flush.
type Capture struct {
	Dir           string
	Name          string
	Format        Format
	Animated      bool
	FrameDuration time.Duration

	runID  string
	index  int
	frames []image.Image
	jobs   *systems.JobSystem

	mu      sync.Mutex
	written []string
}

func NewCapture(dir, name string, format Format, animated bool, frameDuration time.Duration) *Capture {
	if animated && format != FormatWebP {
		core.LogWarn("animated capture is only supported for webp, writing %s frames individually", format)
		animated = false
	}
	return &Capture{
		Dir:           dir,
		Name:          name,
		Format:        format,
		Animated:      animated,
		FrameDuration: frameDuration,
		runID:         uuid.NewString()[:8],
	}
}

// UseJobs moves the encoding of single frames onto js. Flush shuts js down.
func (c *Capture) UseJobs(js *systems.JobSystem) {
	c.jobs = js
}

// Add records one frame. img is copied, the caller may reuse it.
func (c *Capture) Add(img image.Image) error {
	if c.Format == FormatNone {
		return nil
	}
	frame := cloneImage(img)
	if c.Animated {
		c.frames = append(c.frames, frame)
		return nil
	}
	c.index++
	path := filepath.Join(c.Dir, fmt.Sprintf("%s-%s-%04d.%s", c.Name, c.runID, c.index, c.Format))
	write := func() error {
		return c.writeFile(path, func(f *os.File) error {
			if c.Format == FormatPNG {
				return png.Encode(f, frame)
			}
			return nativewebp.Encode(f, frame, nil)
		})
	}
	if c.jobs != nil {
		return c.jobs.Submit(systems.JobTask{Name: filepath.Base(path), Run: write})
	}
	return write()
}

// Flush writes buffered animation frames, waits for pending encodes and
// returns every file written, sorted.
func (c *Capture) Flush() ([]string, error) {
	var errs []error
	if c.jobs != nil {
		errs = append(errs, c.jobs.Shutdown())
		c.jobs = nil
	}
	if c.Animated && len(c.frames) > 0 {
		ms := uint(c.FrameDuration / time.Millisecond)
		if ms == 0 {
			ms = 1
		}
		ani := &nativewebp.Animation{
			Images:    c.frames,
			Durations: make([]uint, len(c.frames)),
			Disposals: make([]uint, len(c.frames)),
			LoopCount: 0,
		}
		for i := range ani.Durations {
			ani.Durations[i] = ms
		}
		path := filepath.Join(c.Dir, fmt.Sprintf("%s-%s.webp", c.Name, c.runID))
		errs = append(errs, c.writeFile(path, func(f *os.File) error {
			return nativewebp.EncodeAll(f, ani, nil)
		}))
		c.frames = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	out := append([]string(nil), c.written...)
	sort.Strings(out)
	return out, errors.Join(errs...)
}

func (c *Capture) writeFile(path string, encode func(f *os.File) error) error {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	c.mu.Lock()
	c.written = append(c.written, path)
	c.mu.Unlock()
	core.LogDebug("wrote %s", path)
	return nil
}

func cloneImage(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
