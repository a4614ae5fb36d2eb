package proto

import (
	"encoding/binary"
	"io"
	"strings"

	"github.com/pkg/errors"
	"go.bug.st/serial"
	"go.uber.org/zap"
)

// Frame kinds understood by the USB-to-SPI bridge firmware.
const (
	FrameCommand = 0x01
	FrameData    = 0x02

	maxFramePayload = 0xFFFF
)

type Options struct {
	DTR      bool
	RTS      bool
	BaudRate int
}

func NewSerial(name string, logger *zap.Logger) *Serial {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Serial{name: name, logger: logger}
}

// Serial drives the controller through a bridge attached to a serial port.
// Every bus call becomes one frame: kind, big-endian payload length, payload.
type Serial struct {
	name   string
	port   io.WriteCloser
	logger *zap.Logger
}

func (s *Serial) Ports() ([]string, error) {
	return serial.GetPortsList()
}

func (s *Serial) Open(opts *Options) error {
	ports, err := s.Ports()
	if err != nil {
		return err
	}

	var matched string
	for _, name := range ports {
		if strings.Contains(name, s.name) {
			matched = name
			break
		}
	}
	if matched == "" {
		return errors.New("USB port not found")
	}

	port, err := serial.Open(matched, &serial.Mode{BaudRate: opts.BaudRate})
	if err != nil {
		return err
	}

	if err := port.SetDTR(opts.DTR); err != nil {
		return err
	}

	if err := port.SetRTS(opts.RTS); err != nil {
		return err
	}

	s.port = port
	s.logger.With(zap.String("port", matched), zap.Int("baud", opts.BaudRate)).Debug("serial opened")
	return nil
}

func (s *Serial) Close() error {
	if s.port == nil {
		return nil
	}
	return s.port.Close()
}

func (s *Serial) WriteCommand(cmd byte) error {
	return s.frame(FrameCommand, []byte{cmd})
}

func (s *Serial) WriteData(data []byte) error {
	for len(data) > maxFramePayload {
		if err := s.frame(FrameData, data[:maxFramePayload]); err != nil {
			return err
		}
		data = data[maxFramePayload:]
	}
	return s.frame(FrameData, data)
}

func (s *Serial) frame(kind byte, payload []byte) error {
	if s.port == nil {
		return errors.New("serial port not opened")
	}

	buf := make([]byte, 3, 3+len(payload))
	buf[0] = kind
	binary.BigEndian.PutUint16(buf[1:], uint16(len(payload)))
	buf = append(buf, payload...)

	if _, err := s.port.Write(buf); err != nil {
		return errors.Wrap(err, "serial write")
	}
	return nil
}
