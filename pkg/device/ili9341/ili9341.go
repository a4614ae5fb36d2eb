// Package ili9341 drives ILI9341/ILI9340 TFT controllers over a proto.Bus.
package ili9341

import (
	"encoding/binary"
	"image"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
	"tinygo.org/x/drivers"

	"tftlcd/pkg/bitmap"
	"tftlcd/pkg/proto"
)

var (
	ErrInvalidArgument = proto.ErrInvalidArgument
	ErrInvalidRotation = errors.Wrap(proto.ErrInvalidArgument, "invalid screen rotation")
)

type Option func(d *Device)

// WithSize sets the native panel size. Non-positive dimensions keep the
// 240x320 default.
func WithSize(width, height int) Option {
	return func(d *Device) {
		d.nativeW = lo.Ternary(width > 0, width, d.nativeW)
		d.nativeH = lo.Ternary(height > 0, height, d.nativeH)
	}
}

// WithReset wires the optional hardware reset line used by Reset.
func WithReset(pin gpio.PinOut) Option {
	return func(d *Device) {
		d.rst = pin
	}
}

func New(bus proto.Bus, logger *zap.Logger, opts ...Option) *Device {
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &Device{
		bus:     bus,
		logger:  logger,
		nativeW: 240,
		nativeH: 320,
	}

	for _, opt := range opts {
		opt(d)
	}

	d.width, d.height = d.nativeW, d.nativeH
	return d
}

type Device struct {
	bus    proto.Bus
	logger *zap.Logger
	rst    gpio.PinOut

	nativeW int
	nativeH int
	width   int
	height  int

	rotation drivers.Rotation
	scroll   int
}

// Init sends the power, gamma and pixel format setup and turns the display on.
// The setup leaves MADCTL at 0x48 (columns mirrored) while Rotation still
// reports Rotation0; call SetRotation afterwards to get the documented
// orientation.
func (d *Device) Init() error {
	for _, c := range initSequence {
		if err := d.write(c.op, c.data); err != nil {
			return err
		}
	}
	d.logger.With(zap.Int("commands", len(initSequence))).Debug("initialized")
	return nil
}

// Reset pulses the reset line when one was configured.
func (d *Device) Reset() error {
	if d.rst == nil {
		return nil
	}
	if err := d.rst.Out(gpio.Low); err != nil {
		return errors.Wrap(err, "pull RST low")
	}
	time.Sleep(10 * time.Millisecond)
	if err := d.rst.Out(gpio.High); err != nil {
		return errors.Wrap(err, "pull RST high")
	}
	time.Sleep(120 * time.Millisecond)
	return nil
}

func (d *Device) Size() (width, height int) {
	return d.width, d.height
}

func (d *Device) Rotation() drivers.Rotation {
	return d.rotation
}

// SetWindow programs the column range [x0, x1] and page range [y0, y1].
// The next RAMWR fills that window in row-major order.
func (d *Device) SetWindow(x0, x1, y0, y1 int) error {
	if err := d.write(CASET, encodePos(x0, x1)); err != nil {
		return err
	}
	return d.write(PASET, encodePos(y0, y1))
}

func (d *Device) ScrollOffset() int {
	return d.scroll
}

// Scroll moves the vertical scroll start by dy lines, wrapping at the height.
func (d *Device) Scroll(dy int) error {
	d.scroll = ((d.scroll+dy)%d.height + d.height) % d.height
	return d.write(VSCRSADD, encodePixel(uint16(d.scroll)))
}

func (d *Device) SetRotation(rotation drivers.Rotation) error {
	val, err := madctl(rotation)
	if err != nil {
		return err
	}

	d.rotation = rotation
	if rotation%2 == 0 {
		d.width, d.height = d.nativeW, d.nativeH
	} else {
		d.width, d.height = d.nativeH, d.nativeW
	}

	return d.write(MADCTL, []byte{val})
}

func madctl(rotation drivers.Rotation) (byte, error) {
	val := byte(MADCTL_BGR)
	switch rotation {
	case drivers.Rotation0:
	case drivers.Rotation90:
		val |= MADCTL_MV
	case drivers.Rotation180:
		val |= MADCTL_MY
	case drivers.Rotation270:
		val |= MADCTL_MX | MADCTL_MY | MADCTL_MV
	default:
		return 0, ErrInvalidRotation
	}
	return val, nil
}

// Blit writes a w*h block of big-endian RGB565 pixels at (x, y).
func (d *Device) Blit(buf []byte, x, y, w, h int) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	if len(buf) != 2*w*h {
		return errors.Wrapf(ErrInvalidArgument, "buffer holds %d bytes, %dx%d needs %d", len(buf), w, h, 2*w*h)
	}

	if err := d.SetWindow(x, x+w-1, y, y+h-1); err != nil {
		return err
	}
	return d.write(RAMWR, buf)
}

func (d *Device) Pixel(x, y int, c bitmap.Color) error {
	if x < 0 || y < 0 || x >= d.width || y >= d.height {
		return nil
	}
	return d.Blit(encodePixel(uint16(c)), x, y, 1, 1)
}

// FillRect paints the part of the rectangle that lies on the display.
func (d *Device) FillRect(x, y, w, h int, c bitmap.Color) error {
	r := image.Rect(x, y, x+w, y+h).Intersect(image.Rect(0, 0, d.width, d.height))
	if r.Empty() {
		return nil
	}

	img := bitmap.NewRGB565(r)
	img.Fill(c)
	return d.Blit(img.Pix, r.Min.X, r.Min.Y, r.Dx(), r.Dy())
}

func (d *Device) Fill(c bitmap.Color) error {
	return d.FillRect(0, 0, d.width, d.height, c)
}

func (d *Device) DrawImage(posX, posY int, img image.Image) error {
	rect := img.Bounds().Size()
	imgW := rect.X
	imgH := rect.Y

	if posX < 0 || posY < 0 {
		return errors.Wrap(ErrInvalidArgument, "negative position")
	} else if imgW+posX > d.width {
		return errors.Wrap(ErrInvalidArgument, "width overflow")
	} else if imgH+posY > d.height {
		return errors.Wrap(ErrInvalidArgument, "height overflow")
	}

	return d.Blit(bitmap.Encode(img), posX, posY, imgW, imgH)
}

func encodePos(a, b int) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint16(buf, uint16(a))
	binary.BigEndian.PutUint16(buf[2:], uint16(b))
	return buf
}

func encodePixel(v uint16) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, v)
	return buf
}
