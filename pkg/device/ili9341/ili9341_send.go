package ili9341

import (
	"fmt"
	"time"

	"github.com/inhies/go-bytesize"
	"go.uber.org/zap"
)

// write issues op and, unless data is nil, its parameter bytes.
func (d *Device) write(op byte, data []byte) error {
	start := time.Now()

	if err := d.bus.WriteCommand(op); err != nil {
		return err
	}

	if data != nil {
		if err := d.bus.WriteData(data); err != nil {
			return err
		}
	}

	if ce := d.logger.Check(zap.DebugLevel, "command"); ce != nil {
		ext := ""
		if len(data) <= 16 {
			ext = fmt.Sprintf("%x", data)
		}
		ce.Write(
			zap.String("op", fmt.Sprintf("%#02x", op)),
			zap.String("sent", bytesize.New(float64(len(data))).String()),
			zap.String("cost", time.Since(start).String()),
			zap.String("data", ext),
		)
	}

	return nil
}
