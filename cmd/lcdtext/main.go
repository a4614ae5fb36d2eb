package main

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"tinygo.org/x/drivers"

	"tftlcd/pkg/bitmap"
	"tftlcd/pkg/device"
	"tftlcd/pkg/device/remote"
	"tftlcd/pkg/proto"
	"tftlcd/pkg/text"
)

var bus = flag.String("bus", device.BusSPI, "bus type: spi, serial, virtual or a render addr (host:port)")
var spiPort = flag.String("spi", "", "spi port name, empty for the first one")
var dcPin = flag.String("dc", "GPIO25", "data/command pin")
var rstPin = flag.String("rst", "", "reset pin")
var serial = flag.String("serial", "ttyACM0", "serial name")
var width = flag.Int("width", 240, "native panel width")
var height = flag.Int("height", 320, "native panel height")
var rotation = flag.Int("rotation", 0, "rotation in quarter turns clockwise (0-3)")
var scroll = flag.Int("scroll", 0, "scroll by lines")
var clearColor = flag.String("clear", "", "fill the screen with a color first")
var img = flag.String("image", "", "image to fill the screen with")
var msg = flag.String("text", "", "text to draw, \\n separates lines")
var size = flag.Int("size", 16, "character size in pixels")
var posX = flag.Int("x", 0, "text left edge")
var posY = flag.Int("y", 0, "text top edge")
var fg = flag.String("fg", "ffffff", "text color, rrggbb")
var bg = flag.String("bg", "000000", "background color, rrggbb")
var snapshot = flag.String("snapshot", "snapshots", "where the virtual bus saves its picture")
var debug = flag.Bool("debug", false, "set debug")

func main() {
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	if !*debug {
		logger = logger.WithOptions(zap.IncreaseLevel(zap.InfoLevel))
	}

	if err := run(logger); err != nil {
		logger.With(zap.Error(err)).Fatal("lcdtext failed")
	}
}

func run(logger *zap.Logger) error {
	var dev proto.Control
	var opened *device.Display

	if strings.Contains(*bus, ":") {
		client, err := remote.New(*bus)
		if err != nil {
			return fmt.Errorf("dial render: %w", err)
		}
		defer client.Close()
		dev = client
	} else {
		d, err := device.Open(device.Config{
			Bus:    *bus,
			SPI:    *spiPort,
			DC:     *dcPin,
			Reset:  *rstPin,
			Serial: *serial,
			Width:  *width,
			Height: *height,
		}, logger)
		if err != nil {
			return fmt.Errorf("open display: %w", err)
		}
		defer d.Close()

		if err := d.Reset(); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		dev, opened = d, d
	}

	if err := dev.Init(); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if err := dev.SetRotation(drivers.Rotation(*rotation)); err != nil {
		return fmt.Errorf("rotation %d: %w", *rotation, err)
	}

	w, h := dev.Size()
	if *clearColor != "" {
		c, err := parseColor(*clearColor)
		if err != nil {
			return err
		}
		screen := bitmap.NewRGB565(image.Rect(0, 0, w, h))
		screen.Fill(c)
		if err := dev.Blit(screen.Pix, 0, 0, w, h); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
	}

	if *img != "" {
		src, err := imaging.Open(*img, imaging.AutoOrientation(true))
		if err != nil {
			return fmt.Errorf("open image: %w", err)
		}
		if err := dev.Blit(bitmap.Encode(imaging.Fill(src, w, h, imaging.Center, imaging.Lanczos)), 0, 0, w, h); err != nil {
			return fmt.Errorf("draw image: %w", err)
		}
	}

	if *scroll != 0 {
		if err := dev.Scroll(*scroll); err != nil {
			return fmt.Errorf("scroll: %w", err)
		}
	}

	if *msg != "" {
		fgc, err := parseColor(*fg)
		if err != nil {
			return err
		}
		bgc, err := parseColor(*bg)
		if err != nil {
			return err
		}

		r := text.New(text.WithLogger(logger.Named("text")))
		if err := r.Draw(dev, strings.ReplaceAll(*msg, `\n`, "\n"), *posX, *posY, *size, fgc, bgc); err != nil {
			return fmt.Errorf("draw text: %w", err)
		}
	}

	if opened != nil && opened.Panel != nil {
		file, err := opened.Panel.Save(afero.NewOsFs(), *snapshot)
		if err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		logger.With(zap.String("file", file)).Info("snapshot saved")
	}

	return nil
}

func parseColor(s string) (bitmap.Color, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil || len(strings.TrimPrefix(s, "#")) != 6 {
		return 0, fmt.Errorf("bad color %q, want rrggbb", s)
	}
	return bitmap.Color565(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}
