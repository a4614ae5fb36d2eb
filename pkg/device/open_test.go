package device

import (
	"testing"

	"github.com/pkg/errors"

	"tftlcd/pkg/proto"
)

func TestOpenVirtual(t *testing.T) {
	d, err := Open(Config{Bus: "Virtual", Width: 128, Height: 160}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	if d.Panel == nil {
		t.Fatal("virtual bus opened without a panel")
	}
	if w, h := d.Size(); w != 128 || h != 160 {
		t.Errorf("size %dx%d, want 128x160", w, h)
	}
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	if !d.Panel.On() {
		t.Error("panel off after Init")
	}
}

func TestOpenDefaults(t *testing.T) {
	d, err := Open(Config{Bus: BusVirtual}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := d.Size(); w != 240 || h != 320 {
		t.Errorf("size %dx%d, want 240x320", w, h)
	}
	if b := d.Panel.Image().Bounds(); b.Dx() != 240 || b.Dy() != 320 {
		t.Errorf("panel memory %v, want 240x320", b)
	}
}

func TestOpenUnknownBus(t *testing.T) {
	_, err := Open(Config{Bus: "i2c"}, nil)
	if !errors.Is(err, proto.ErrInvalidArgument) {
		t.Errorf("Open(i2c) error = %v, want ErrInvalidArgument", err)
	}
}
