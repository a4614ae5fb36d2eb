package bitmap

import (
	"image"
)

// Encode converts src into panel byte order, row by row.
func Encode(src image.Image) []byte {
	if d, ok := src.(*RGB565); ok && d.Stride == 2*d.Rect.Dx() {
		return d.Pix
	}

	b := src.Bounds()
	d := NewRGB565(b)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			d.Set(x, y, src.At(x, y))
		}
	}

	return d.Pix
}
