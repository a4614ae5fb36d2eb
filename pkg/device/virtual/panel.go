// Package virtual emulates an ILI9341 behind a proto.Bus so that drawing code
// can run, and be inspected, without hardware.
package virtual

import (
	"bytes"
	"image"
	"image/png"
	"path"
	"sync"

	"github.com/rs/xid"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"tftlcd/pkg/bitmap"
)

// Opcodes the emulator understands; everything else is accepted and ignored.
const (
	opSLPIN    = 0x10
	opSLPOUT   = 0x11
	opDISPOFF  = 0x28
	opDISPON   = 0x29
	opCASET    = 0x2A
	opPASET    = 0x2B
	opRAMWR    = 0x2C
	opMADCTL   = 0x36
	opVSCRSADD = 0x37

	madMY = 0x80
	madMX = 0x40
	madMV = 0x20
)

// New returns a sleeping panel with width x height pixels of memory.
// Non-positive dimensions fall back to 240x320.
func New(width, height int, logger *zap.Logger) *Panel {
	if logger == nil {
		logger = zap.NewNop()
	}
	width = lo.Ternary(width > 0, width, 240)
	height = lo.Ternary(height > 0, height, 320)
	return &Panel{
		l:        logger,
		w:        width,
		h:        height,
		ram:      bitmap.NewRGB565(image.Rect(0, 0, width, height)),
		sleeping: true,
		x1:       width - 1,
		y1:       height - 1,
	}
}

// Panel holds the controller's frame memory in native (unrotated) layout.
type Panel struct {
	sync.Mutex
	l *zap.Logger

	w, h int
	ram  *bitmap.RGB565

	op      byte
	args    []byte
	pending []byte

	madctl   byte
	scroll   int
	sleeping bool
	on       bool

	x0, x1, y0, y1 int
	cx, cy         int
}

func (p *Panel) WriteCommand(cmd byte) error {
	p.Lock()
	defer p.Unlock()

	p.op = cmd
	p.args = p.args[:0]
	p.pending = p.pending[:0]

	switch cmd {
	case opSLPOUT:
		p.sleeping = false
		p.l.Info("sleep-out")
	case opSLPIN:
		p.sleeping = true
		p.l.Info("sleep-in")
	case opDISPON:
		p.on = true
		p.l.Info("display-on")
	case opDISPOFF:
		p.on = false
		p.l.Info("display-off")
	case opRAMWR:
		p.cx, p.cy = p.x0, p.y0
	}
	return nil
}

func (p *Panel) WriteData(data []byte) error {
	p.Lock()
	defer p.Unlock()

	if p.op == opRAMWR {
		p.writePixels(data)
		return nil
	}

	p.args = append(p.args, data...)
	switch {
	case p.op == opCASET && len(p.args) >= 4:
		p.x0, p.x1 = be16(p.args), be16(p.args[2:])
		p.l.With(zap.Int("x0", p.x0), zap.Int("x1", p.x1)).Debug("column-set")
	case p.op == opPASET && len(p.args) >= 4:
		p.y0, p.y1 = be16(p.args), be16(p.args[2:])
		p.l.With(zap.Int("y0", p.y0), zap.Int("y1", p.y1)).Debug("page-set")
	case p.op == opMADCTL && len(p.args) >= 1:
		p.madctl = p.args[0]
		p.l.With(zap.Uint8("madctl", p.madctl)).Debug("memory-access")
	case p.op == opVSCRSADD && len(p.args) >= 2:
		p.scroll = be16(p.args) % p.h
		p.l.With(zap.Int("scroll", p.scroll)).Debug("scroll")
	}
	return nil
}

// writePixels fills the window row-major, wrapping back to its origin.
func (p *Panel) writePixels(data []byte) {
	if len(p.pending) > 0 {
		data = append(p.pending, data...)
		p.pending = p.pending[:0]
	}

	for ; len(data) >= 2; data = data[2:] {
		mx, my := p.memory(p.cx, p.cy)
		p.ram.SetColor(mx, my, bitmap.Color(data[0])<<8|bitmap.Color(data[1]))

		p.cx++
		if p.cx > p.x1 {
			p.cx = p.x0
			p.cy++
			if p.cy > p.y1 {
				p.cy = p.y0
			}
		}
	}

	p.pending = append(p.pending, data...)
}

// memory maps a column/page address to frame memory through MADCTL.
func (p *Panel) memory(col, page int) (x, y int) {
	x, y = col, page
	if p.madctl&madMV != 0 {
		x, y = y, x
	}
	if p.madctl&madMX != 0 {
		x = p.w - 1 - x
	}
	if p.madctl&madMY != 0 {
		y = p.h - 1 - y
	}
	return x, y
}

// At returns the color stored for column/page address (x, y) under the
// current memory access settings.
func (p *Panel) At(x, y int) bitmap.Color {
	p.Lock()
	defer p.Unlock()
	return p.ram.ColorAt(p.memory(x, y))
}

func (p *Panel) MADCTL() byte {
	p.Lock()
	defer p.Unlock()
	return p.madctl
}

func (p *Panel) ScrollOffset() int {
	p.Lock()
	defer p.Unlock()
	return p.scroll
}

// On reports whether the panel left sleep and was switched on.
func (p *Panel) On() bool {
	p.Lock()
	defer p.Unlock()
	return p.on && !p.sleeping
}

// Image is what the glass shows: frame memory in native layout, rows
// shifted by the vertical scroll offset.
func (p *Panel) Image() *bitmap.RGB565 {
	p.Lock()
	defer p.Unlock()

	img := bitmap.NewRGB565(p.ram.Rect)
	for y := 0; y < p.h; y++ {
		src := (y + p.scroll) % p.h
		copy(img.Pix[y*img.Stride:(y+1)*img.Stride], p.ram.Pix[src*p.ram.Stride:(src+1)*p.ram.Stride])
	}
	return img
}

// Save writes Image as a PNG with a unique name under dir and returns its path.
func (p *Panel) Save(fs afero.Fs, dir string) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, p.Image()); err != nil {
		return "", err
	}

	if exists, err := afero.DirExists(fs, dir); err != nil {
		return "", err
	} else if !exists {
		if err2 := fs.MkdirAll(dir, 0755); err2 != nil {
			return "", err2
		}
	}

	file := path.Join(dir, xid.New().String()+".png")
	if err := afero.WriteFile(fs, file, buf.Bytes(), 0644); err != nil {
		return "", err
	}

	p.l.With(zap.String("file", file)).Debug("snapshot saved")
	return file, nil
}

func be16(b []byte) int {
	return int(b[0])<<8 | int(b[1])
}
