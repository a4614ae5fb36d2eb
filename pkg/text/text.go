// Package text renders strings onto a display at any pixel size by drawing
// them once with a fixed-size bitmap font and resampling the result.
package text

import (
	"image"
	"image/color"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"tinygo.org/x/tinyfont"

	"tftlcd/pkg/bitmap"
	"tftlcd/pkg/font/font8x8"
	"tftlcd/pkg/proto"
)

var ErrInvalidSize = errors.Wrap(proto.ErrInvalidArgument, "text size must be positive")

// Target is anything that accepts a block of big-endian RGB565 pixels.
type Target interface {
	Size() (width, height int)
	Blit(buf []byte, x, y, w, h int) error
}

var std = New()

// Draw renders s with the built-in 8x8 font. See Renderer.Draw.
func Draw(dst Target, s string, x, y, size int, fg, bg bitmap.Color) error {
	return std.Draw(dst, s, x, y, size, fg, bg)
}

func New(opts ...Option) *Renderer {
	r := &Renderer{
		font:   font8x8.Font,
		native: font8x8.Size,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

type Renderer struct {
	font   tinyfont.Fonter
	native int
	logger *zap.Logger
}

// Draw renders s, one line per '\n', with its top-left corner at (x, y) and
// each character cell size pixels square. The block is clipped to the
// display; x and y are clamped onto it first.
func (r *Renderer) Draw(dst Target, s string, x, y, size int, fg, bg bitmap.Color) error {
	if size <= 0 {
		return errors.Wrapf(ErrInvalidSize, "size %d", size)
	}

	lines := strings.Split(s, "\n")
	rows := len(lines)
	cols := lo.Max(lo.Map(lines, func(line string, _ int) int {
		return utf8.RuneCountInString(line)
	}))

	width, height := dst.Size()
	x = min(width-1, max(0, x))
	y = min(height-1, max(0, y))
	w := min(size*cols, width-x)
	h := min(size*rows, height-y)

	log := r.logger.With(zap.Int("x", x), zap.Int("y", y), zap.Int("w", w), zap.Int("h", h), zap.Int("size", size))
	if w <= 0 || h <= 0 {
		log.Debug("nothing to draw")
		return nil
	}

	// only the cells the resample reaches are rasterized
	cols = min(cols, (w-1)*r.native/size/r.native+1)
	lines = lines[:min(rows, (h-1)*r.native/size/r.native+1)]

	glyphs := r.rasterize(lines, cols, fg, bg)
	out := resample(glyphs, w, h, r.native, size)

	log.Debug("text")
	return dst.Blit(out.Pix, x, y, w, h)
}

// rasterize draws the first cols characters of every line at native size into
// a buffer filled with bg.
func (r *Renderer) rasterize(lines []string, cols int, fg, bg bitmap.Color) *bitmap.RGB565 {
	img := bitmap.NewRGB565(image.Rect(0, 0, r.native*cols, r.native*len(lines)))
	img.Fill(bg)

	c := &canvas{RGB565: img}
	rgba := color.RGBAModel.Convert(fg).(color.RGBA)
	baseline := int16(r.native - 1)
	for i, line := range lines {
		c.ox, c.oy = 0, i*r.native
		n := 0
		for _, ch := range line {
			if n == cols {
				break
			}
			g := r.font.GetGlyph(ch)
			g.Draw(c, 0, baseline, rgba)
			c.ox += int(g.Info().XAdvance)
			n++
		}
	}

	return img
}

// resample scales src by size/native with nearest-neighbour sampling into a
// w*h buffer.
func resample(src *bitmap.RGB565, w, h, native, size int) *bitmap.RGB565 {
	dst := bitmap.NewRGB565(image.Rect(0, 0, w, h))

	for by := 0; by < h; by++ {
		sy := by * native / size
		for bx := 0; bx < w; bx++ {
			sx := bx * native / size
			si := sy*src.Stride + 2*sx
			di := by*dst.Stride + 2*bx
			copy(dst.Pix[di:di+2], src.Pix[si:si+2])
		}
	}

	return dst
}

// canvas lets tinyfont glyphs paint into an RGB565 buffer. Glyphs are drawn
// relative to the cell origin (ox, oy), so buffer coordinates never pass
// through int16.
type canvas struct {
	*bitmap.RGB565
	ox, oy int
}

func (c *canvas) Size() (x, y int16) {
	return int16(min(c.Rect.Dx(), math.MaxInt16)), int16(min(c.Rect.Dy(), math.MaxInt16))
}

func (c *canvas) SetPixel(x, y int16, rgba color.RGBA) {
	c.SetColor(c.ox+int(x), c.oy+int(y), bitmap.Model.Convert(rgba).(bitmap.Color))
}

func (c *canvas) Display() error {
	return nil
}
