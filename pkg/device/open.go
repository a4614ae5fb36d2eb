// Package device opens a display on one of the supported buses.
package device

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"tftlcd/pkg/device/ili9341"
	"tftlcd/pkg/device/virtual"
	"tftlcd/pkg/proto"
)

const (
	BusSPI     = "spi"
	BusSerial  = "serial"
	BusVirtual = "virtual"
)

type Config struct {
	Bus string

	// spi
	SPI   string
	DC    string
	Reset string
	Speed physic.Frequency

	// serial
	Serial string
	Baud   int

	Width  int
	Height int
}

// Display is an opened controller together with what it holds open.
type Display struct {
	*ili9341.Device

	// Panel is set on the virtual bus.
	Panel *virtual.Panel

	closers []io.Closer
}

func Open(cfg Config, logger *zap.Logger) (*Display, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg.Width = lo.Ternary(cfg.Width > 0, cfg.Width, 240)
	cfg.Height = lo.Ternary(cfg.Height > 0, cfg.Height, 320)
	opts := []ili9341.Option{ili9341.WithSize(cfg.Width, cfg.Height)}

	d := &Display{}
	var bus proto.Bus

	switch strings.ToLower(cfg.Bus) {
	case BusSPI:
		if _, err := host.Init(); err != nil {
			return nil, errors.Wrap(err, "periph host init")
		}

		port, err := spireg.Open(cfg.SPI)
		if err != nil {
			return nil, errors.Wrapf(err, "open spi %q", cfg.SPI)
		}
		d.closers = append(d.closers, port)

		dc := gpioreg.ByName(cfg.DC)
		if dc == nil {
			_ = d.Close()
			return nil, errors.Errorf("no DC pin %q", cfg.DC)
		}

		spiBus, err := proto.NewSPI(port, dc, cfg.Speed, logger)
		if err != nil {
			_ = d.Close()
			return nil, err
		}
		bus = spiBus

		if cfg.Reset != "" {
			var rst gpio.PinIO
			if rst = gpioreg.ByName(cfg.Reset); rst == nil {
				_ = d.Close()
				return nil, errors.Errorf("no RST pin %q", cfg.Reset)
			}
			opts = append(opts, ili9341.WithReset(rst))
		}
	case BusSerial:
		s := proto.NewSerial(cfg.Serial, logger)
		if err := s.Open(&proto.Options{BaudRate: lo.Ternary(cfg.Baud > 0, cfg.Baud, 115200)}); err != nil {
			return nil, errors.Wrapf(err, "open serial %q", cfg.Serial)
		}
		d.closers = append(d.closers, s)
		bus = s
	case BusVirtual:
		d.Panel = virtual.New(cfg.Width, cfg.Height, logger.Named("panel"))
		bus = d.Panel
	default:
		return nil, errors.Wrapf(proto.ErrInvalidArgument, "unknown bus %q", cfg.Bus)
	}

	d.Device = ili9341.New(bus, logger.Named("ili9341"), opts...)
	logger.With(zap.String("bus", cfg.Bus), zap.Int("width", cfg.Width), zap.Int("height", cfg.Height)).Debug("display opened")

	return d, nil
}

func (d *Display) Close() error {
	var first error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	d.closers = nil
	return first
}
