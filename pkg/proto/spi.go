package proto

import (
	"fmt"
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// DefaultSpeed is conservative; most ILI9341 modules accept far more for writes.
const DefaultSpeed = 10 * physic.MegaHertz

const defaultMaxTx = 4096

// NewSPI connects to the port in mode 0 with 8 bit words. dc selects between
// command (low) and data (high) bytes.
func NewSPI(p spi.Port, dc gpio.PinOut, speed physic.Frequency, logger *zap.Logger) (*SPI, error) {
	if speed == 0 {
		speed = DefaultSpeed
	}
	c, err := p.Connect(speed, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}
	return NewSPIConn(c, dc, logger), nil
}

func NewSPIConn(c spi.Conn, dc gpio.PinOut, logger *zap.Logger) *SPI {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxTx := defaultMaxTx
	if l, ok := c.(conn.Limits); ok && l.MaxTxSize() > 0 {
		maxTx = l.MaxTxSize()
	}

	return &SPI{c: c, dc: dc, maxTx: maxTx, logger: logger}
}

type SPI struct {
	c      spi.Conn
	dc     gpio.PinOut
	maxTx  int
	logger *zap.Logger
}

func (s *SPI) WriteCommand(cmd byte) error {
	if err := s.dc.Out(gpio.Low); err != nil {
		return err
	}
	return s.c.Tx([]byte{cmd}, nil)
}

func (s *SPI) WriteData(data []byte) error {
	if err := s.dc.Out(gpio.High); err != nil {
		return err
	}

	start := time.Now()
	for _, chunk := range lo.Chunk(data, s.maxTx) {
		if err := s.c.Tx(chunk, nil); err != nil {
			return err
		}
	}

	ext := ""
	if len(data) <= 16 {
		ext = fmt.Sprintf("%x", data)
	}

	s.logger.With(
		zap.String("sent", bytesize.New(float64(len(data))).String()),
		zap.String("cost", time.Since(start).String()),
		zap.String("data", ext),
	).Debug("transfer")

	return nil
}

func (s *SPI) String() string {
	return fmt.Sprintf("proto.SPI{%s}", s.c)
}
