//go:build !linux

package headless

import (
	"github.com/richinsley/gomandelbulb/graphics"
)

func NewHeadless(width, height int) (graphics.Context, error) {
	return nil, ErrUnsupported
}
