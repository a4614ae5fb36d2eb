package bitmap

import (
	"image"
	"image/color"
)

// https://github.com/gonutz/framebuffer/blob/master/fb.go

func NewRGB565(r image.Rectangle) *RGB565 {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		w, h = 0, 0
	}
	return &RGB565{
		Pix:    make([]byte, 2*w*h),
		Stride: 2 * w,
		Rect:   r,
	}
}

// RGB565 is a pixel buffer laid out the way the panel RAM expects it: two bytes
// per pixel, high byte first. It implements the draw.Image interface.
type RGB565 struct {
	Pix    []byte
	Stride int
	Rect   image.Rectangle
}

// Bounds implements the image.Image (and draw.Image) interface.
func (d *RGB565) Bounds() image.Rectangle {
	return d.Rect
}

// ColorModel implements the image.Image (and draw.Image) interface.
func (d *RGB565) ColorModel() color.Model {
	return Model
}

// At implements the image.Image (and draw.Image) interface.
func (d *RGB565) At(x, y int) color.Color {
	return d.ColorAt(x, y)
}

func (d *RGB565) ColorAt(x, y int) Color {
	if !(image.Point{X: x, Y: y}.In(d.Rect)) {
		return 0
	}
	i := d.offset(x, y)
	return Color(d.Pix[i])<<8 | Color(d.Pix[i+1])
}

// Set implements the draw.Image interface.
func (d *RGB565) Set(x, y int, c color.Color) {
	if _, _, _, a := c.RGBA(); a == 0 {
		return
	}
	d.SetColor(x, y, Model.Convert(c).(Color))
}

func (d *RGB565) SetColor(x, y int, c Color) {
	if !(image.Point{X: x, Y: y}.In(d.Rect)) {
		return
	}
	i := d.offset(x, y)
	d.Pix[i] = byte(c >> 8)
	d.Pix[i+1] = byte(c)
}

// Fill paints every pixel of the buffer with c.
func (d *RGB565) Fill(c Color) {
	hi, lo := byte(c>>8), byte(c)
	for i := 0; i+1 < len(d.Pix); i += 2 {
		d.Pix[i] = hi
		d.Pix[i+1] = lo
	}
}

func (d *RGB565) offset(x, y int) int {
	return (y-d.Rect.Min.Y)*d.Stride + 2*(x-d.Rect.Min.X)
}

// Model converts any color to the 16 bit panel format.
var Model = color.ModelFunc(func(c color.Color) color.Color {
	if c565, ok := c.(Color); ok {
		return c565
	}
	r, g, b, _ := c.RGBA()
	return toRGB565(r, g, b)
})

// Color565 packs 8 bit channels into the 5-6-5 layout used by the controller.
// This shows the memory layout of a pixel:
//
//	bit 76543210  76543210
//	    RRRRRGGG  GGGBBBBB
//	   high byte  low byte
func Color565(r, g, b uint8) Color {
	return Color(uint16(r&0xF8)<<8 | uint16(g&0xFC)<<3 | uint16(b)>>3)
}

// toRGB565 helps convert a color.Color to rgb565. In a color.Color each
// channel is represented by the lower 16 bits in a uint32 so the maximum value
// is 0xFFFF. This function simply uses the highest 5 or 6 bits of each channel
// as the RGB values.
func toRGB565(r, g, b uint32) Color {
	// RRRRRGGGGGGBBBBB
	return Color((r & 0xF800) +
		((g & 0xFC00) >> 5) +
		((b & 0xF800) >> 11))
}

// Color is a packed 16 bit RGB565 value. It implements the color.Color interface.
type Color uint16

// RGBA implements the color.Color interface.
func (c Color) RGBA() (r, g, b, a uint32) {
	// To convert a color channel from 5 or 6 bits back to 16 bits, the short
	// bit pattern is duplicated to fill all 16 bits.
	// For example the green channel in rgb565 is the middle 6 bits:
	//     00000GGGGGG00000
	//
	// To create a 16 bit channel, these bits are or-ed together starting at the
	// highest bit:
	//     GGGGGG0000000000 shifted << 5
	//     000000GGGGGG0000 shifted >> 1
	//     000000000000GGGG shifted >> 7
	//
	// Alpha is always 100% opaque since this model does not support
	// transparency.
	rBits := uint32(c & 0xF800) // RRRRR00000000000
	gBits := uint32(c & 0x7E0)  // 00000GGGGGG00000
	bBits := uint32(c & 0x1F)   // 00000000000BBBBB
	r = rBits | rBits>>5 | rBits>>10 | rBits>>15
	g = gBits<<5 | gBits>>1 | gBits>>7
	b = bBits<<11 | bBits<<6 | bBits<<1 | bBits>>4
	a = 0xFFFF
	return
}
