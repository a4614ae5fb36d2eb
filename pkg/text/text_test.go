package text

import (
	"strings"
	"testing"

	"github.com/pkg/errors"

	"tftlcd/pkg/bitmap"
	"tftlcd/pkg/font/font8x8"
	"tftlcd/pkg/proto"
)

type blit struct {
	buf        []byte
	x, y, w, h int
}

type fakeDisplay struct {
	width, height int
	blits         []blit
}

func (d *fakeDisplay) Size() (int, int) {
	return d.width, d.height
}

func (d *fakeDisplay) Blit(buf []byte, x, y, w, h int) error {
	d.blits = append(d.blits, blit{append([]byte(nil), buf...), x, y, w, h})
	return nil
}

const (
	fg bitmap.Color = 0xFFFF
	bg bitmap.Color = 0x0000
)

func (b blit) at(x, y int) bitmap.Color {
	i := 2 * (y*b.w + x)
	return bitmap.Color(b.buf[i])<<8 | bitmap.Color(b.buf[i+1])
}

func TestDrawIdentityAtNativeSize(t *testing.T) {
	d := &fakeDisplay{width: 240, height: 320}
	s := "Hi!\nok"

	if err := Draw(d, s, 3, 4, font8x8.Size, fg, bg); err != nil {
		t.Fatal(err)
	}
	if len(d.blits) != 1 {
		t.Fatalf("got %d blits, want 1", len(d.blits))
	}

	b := d.blits[0]
	if b.x != 3 || b.y != 4 || b.w != 24 || b.h != 16 {
		t.Fatalf("blit at (%d, %d) %dx%d, want (3, 4) 24x16", b.x, b.y, b.w, b.h)
	}

	glyphs := std.rasterize([]string{"Hi!", "ok"}, 3, fg, bg)
	for y := 0; y < b.h; y++ {
		for x := 0; x < b.w; x++ {
			if got, want := b.at(x, y), glyphs.ColorAt(x, y); got != want {
				t.Fatalf("pixel (%d, %d) = %#04x, glyph buffer has %#04x", x, y, got, want)
			}
		}
	}
}

func TestRasterizeMatchesFont(t *testing.T) {
	glyphs := std.rasterize([]string{"A", "-"}, 1, fg, bg)

	for line, r := range []rune{'A', '-'} {
		rows := font8x8.Bitmap(r)
		for row := 0; row < 8; row++ {
			for col := 0; col < 8; col++ {
				want := bg
				if rows[row]&(1<<col) != 0 {
					want = fg
				}
				if got := glyphs.ColorAt(col, line*8+row); got != want {
					t.Errorf("%q pixel (%d, %d) = %#04x, want %#04x", r, col, row, got, want)
				}
			}
		}
	}
}

func TestDrawUpscale(t *testing.T) {
	d := &fakeDisplay{width: 100, height: 100}
	if err := Draw(d, "-", 0, 0, 16, 0x1234, 0xF800); err != nil {
		t.Fatal(err)
	}

	b := d.blits[0]
	if b.w != 16 || b.h != 16 {
		t.Fatalf("blit %dx%d, want 16x16", b.w, b.h)
	}
	// '-' occupies glyph row 3 columns 0..5, doubled
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			want := bitmap.Color(0xF800)
			if y/2 == 3 && x/2 < 6 {
				want = 0x1234
			}
			if got := b.at(x, y); got != want {
				t.Fatalf("pixel (%d, %d) = %#04x, want %#04x", x, y, got, want)
			}
		}
	}
}

func TestDrawDownscale(t *testing.T) {
	d := &fakeDisplay{width: 100, height: 100}
	if err := Draw(d, "__", 0, 0, 4, fg, bg); err != nil {
		t.Fatal(err)
	}

	b := d.blits[0]
	if b.w != 8 || b.h != 4 {
		t.Fatalf("blit %dx%d, want 8x4", b.w, b.h)
	}
	// rows sample glyph rows 0, 2, 4, 6; '_' only fills row 7
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			if got := b.at(x, y); got != bg {
				t.Fatalf("pixel (%d, %d) = %#04x, want background", x, y, got)
			}
		}
	}
}

func TestDrawNonIntegerScale(t *testing.T) {
	d := &fakeDisplay{width: 100, height: 100}
	if err := Draw(d, "_", 0, 0, 3, fg, bg); err != nil {
		t.Fatal(err)
	}

	b := d.blits[0]
	// floor(2*8/3) = 5 for the last row, never the '_' row 7
	for x := 0; x < 3; x++ {
		if got := b.at(x, 2); got != bg {
			t.Errorf("pixel (%d, 2) = %#04x, want background", x, got)
		}
	}
}

func TestDrawClips(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		x, y, size int
		w, h       int
	}{
		{"overflow both", "0123456789\n0123456789\n0123456789", 40, 70, 20, 60, 30},
		{"overflow width", "0123456789abcdef", 0, 0, 8, 100, 8},
		{"negative origin clamps", "ab", -50, -50, 8, 16, 8},
		{"origin past edge clamps", "ab", 500, 500, 8, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDisplay{width: 100, height: 100}
			if err := Draw(d, tt.text, tt.x, tt.y, tt.size, fg, bg); err != nil {
				t.Fatal(err)
			}
			if len(d.blits) != 1 {
				t.Fatalf("got %d blits, want 1", len(d.blits))
			}
			b := d.blits[0]
			if b.w != tt.w || b.h != tt.h {
				t.Errorf("blit %dx%d, want %dx%d", b.w, b.h, tt.w, tt.h)
			}
			if b.x+b.w > 100 || b.y+b.h > 100 {
				t.Errorf("blit (%d, %d) %dx%d leaves the display", b.x, b.y, b.w, b.h)
			}
			if len(b.buf) != 2*b.w*b.h {
				t.Errorf("buffer holds %d bytes, want %d", len(b.buf), 2*b.w*b.h)
			}
		})
	}
}

func TestDrawEmpty(t *testing.T) {
	d := &fakeDisplay{width: 100, height: 100}
	for _, s := range []string{"", "\n\n"} {
		if err := Draw(d, s, 10, 10, 8, fg, bg); err != nil {
			t.Fatalf("Draw(%q) = %v", s, err)
		}
	}
	if len(d.blits) != 0 {
		t.Errorf("empty text produced %d blits", len(d.blits))
	}
}

func TestDrawInvalidSize(t *testing.T) {
	d := &fakeDisplay{width: 100, height: 100}
	for _, size := range []int{0, -8} {
		err := Draw(d, "x", 0, 0, size, fg, bg)
		if !errors.Is(err, ErrInvalidSize) || !errors.Is(err, proto.ErrInvalidArgument) {
			t.Errorf("Draw size %d error = %v, want ErrInvalidSize", size, err)
		}
	}
	if len(d.blits) != 0 {
		t.Errorf("invalid size produced %d blits", len(d.blits))
	}
}

func TestDrawLongestLineSetsWidth(t *testing.T) {
	d := &fakeDisplay{width: 240, height: 320}
	if err := Draw(d, "a\nabcd\nab", 0, 0, 8, fg, bg); err != nil {
		t.Fatal(err)
	}
	if b := d.blits[0]; b.w != 32 || b.h != 24 {
		t.Errorf("blit %dx%d, want 32x24", b.w, b.h)
	}
}

func TestRasterizeLongInput(t *testing.T) {
	t.Run("long line", func(t *testing.T) {
		glyphs := std.rasterize([]string{strings.Repeat(" ", 8192) + "_"}, 8193, fg, bg)
		for x := 0; x < 8; x++ {
			if got := glyphs.ColorAt(x, 7); got != bg {
				t.Fatalf("char 0 pixel (%d, 7) = %#04x, want background", x, got)
			}
			if got := glyphs.ColorAt(8192*8+x, 7); got != fg {
				t.Fatalf("char 8192 pixel (%d, 7) = %#04x, want foreground", x, got)
			}
		}
	})

	t.Run("many lines", func(t *testing.T) {
		lines := make([]string, 4097)
		lines[4096] = "_"
		glyphs := std.rasterize(lines, 1, fg, bg)
		for x := 0; x < 8; x++ {
			if got := glyphs.ColorAt(x, 7); got != bg {
				t.Fatalf("line 0 pixel (%d, 7) = %#04x, want background", x, got)
			}
			if got := glyphs.ColorAt(x, 4096*8+7); got != fg {
				t.Fatalf("line 4096 pixel (%d, %d) = %#04x, want foreground", x, 4096*8+7, got)
			}
		}
	})
}

func TestDrawLongInputKeepsVisibleBlock(t *testing.T) {
	d := &fakeDisplay{width: 100, height: 100}
	s := strings.Repeat("-", 10000) + strings.Repeat("\n-", 5000)
	if err := Draw(d, s, 0, 0, 8, fg, bg); err != nil {
		t.Fatal(err)
	}

	b := d.blits[0]
	if b.w != 100 || b.h != 100 {
		t.Fatalf("blit %dx%d, want 100x100", b.w, b.h)
	}
	// '-' occupies row 3 columns 0..5 of every cell
	for y := 0; y < 96; y++ {
		for x := 0; x < 96; x++ {
			want := bg
			if y%8 == 3 && x%8 < 6 && (y < 8 || x < 8) {
				want = fg
			}
			if got := b.at(x, y); got != want {
				t.Fatalf("pixel (%d, %d) = %#04x, want %#04x", x, y, got, want)
			}
		}
	}
}
