package proto

import (
	"github.com/pkg/errors"
	"tinygo.org/x/drivers"
)

// ErrInvalidArgument is the root of every rejected-input error in this module.
var ErrInvalidArgument = errors.New("invalid argument")

// Bus is the transport a controller is driven through. Commands and their
// parameters travel separately, in the order they are issued.
type Bus interface {
	WriteCommand(cmd byte) error
	WriteData(data []byte) error
}

type Control interface {
	Init() error

	Size() (width, height int)
	SetRotation(rotation drivers.Rotation) error
	Scroll(dy int) error
	ScrollOffset() int

	Blit(buf []byte, x, y, w, h int) error
}
