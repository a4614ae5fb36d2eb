package main

import (
	"context"
	"net/http"

	flag "github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/physic"

	"tftlcd/pkg/device"
	"tftlcd/pkg/device/remote"
	"tftlcd/pkg/proto"
)

var bus = flag.String("bus", device.BusSPI, "bus type: spi, serial or virtual")
var spiPort = flag.String("spi", "", "spi port name, empty for the first one")
var spiHz = flag.Int64("spi-hz", int64(proto.DefaultSpeed/physic.Hertz), "spi clock in Hz")
var dcPin = flag.String("dc", "GPIO25", "data/command pin")
var rstPin = flag.String("rst", "", "reset pin")
var serial = flag.String("serial", "ttyACM0", "serial name")
var baud = flag.Int("baud", 115200, "serial baud rate")
var width = flag.Int("width", 240, "native panel width")
var height = flag.Int("height", 320, "native panel height")
var listen = flag.String("listen", ":9123", "listen addr")
var debug = flag.Bool("debug", false, "set debug")

func main() {
	flag.Parse()

	fx.New(
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		fx.Provide(
			newLogger,
			newDisplay,
			func() *http.Server {
				return &http.Server{Addr: *listen}
			},
		),
		fx.Invoke(
			remote.Proxy,
		),
	).Run()
}

func newLogger() (*zap.Logger, error) {
	if *debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newDisplay(logger *zap.Logger, lifecycle fx.Lifecycle) (proto.Control, error) {
	d, err := device.Open(device.Config{
		Bus:    *bus,
		SPI:    *spiPort,
		DC:     *dcPin,
		Reset:  *rstPin,
		Speed:  physic.Frequency(*spiHz) * physic.Hertz,
		Serial: *serial,
		Baud:   *baud,
		Width:  *width,
		Height: *height,
	}, logger)
	if err != nil {
		return nil, err
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := d.Reset(); err != nil {
				return err
			}
			return d.Init()
		},
		OnStop: func(ctx context.Context) error {
			return d.Close()
		},
	})

	return d, nil
}
