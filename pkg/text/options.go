package text

import (
	"go.uber.org/zap"
	"tinygo.org/x/tinyfont"
)

type Option func(r *Renderer)

// WithFont replaces the built-in 8x8 font. native is the square cell size of
// f in pixels and becomes the line stride of the glyph buffer.
func WithFont(f tinyfont.Fonter, native int) Option {
	return func(r *Renderer) {
		r.font = f
		r.native = native
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}
