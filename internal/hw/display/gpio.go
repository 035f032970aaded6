package display

import (
	"fmt"

	"github.com/cjeanneret/PreviewGo/internal/debug"
	"github.com/cjeanneret/PreviewGo/internal/hw/gpio"
	"github.com/cjeanneret/PreviewGo/internal/logic/geometry"
)

// GPIO is a display whose rotation is read from a two-bit rotary/tilt
// switch wired to two GPIO inputs:
// - each switch contact pulls its pin to GND when closed (active LOW)
// - pin0 carries bit 0, pin1 carries bit 1
// - the two bits give the quarter-turn count (0..3)
type GPIO struct {
	gpio gpio.Driver
	pin0 int
	pin1 int
	size geometry.Size
}

// NewGPIO configures pin0 and pin1 as pulled-up inputs.
func NewGPIO(g gpio.Driver, pin0, pin1 int, size geometry.Size) (*GPIO, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("%w: display %v", geometry.ErrInvalidDimensions, size)
	}
	if pin0 == pin1 {
		return nil, fmt.Errorf("rotation pins must differ, both are %d", pin0)
	}
	if err := g.SetupPin(pin0, gpio.InputPullUp); err != nil {
		return nil, fmt.Errorf("setup rotation pin %d: %w", pin0, err)
	}
	if err := g.SetupPin(pin1, gpio.InputPullUp); err != nil {
		return nil, fmt.Errorf("setup rotation pin %d: %w", pin1, err)
	}
	return &GPIO{gpio: g, pin0: pin0, pin1: pin1, size: size}, nil
}

func (d *GPIO) Rotation() (geometry.Rotation, error) {
	b0, err := d.gpio.ReadPin(d.pin0)
	if err != nil {
		return geometry.Rotation0, fmt.Errorf("read rotation pin %d: %w", d.pin0, err)
	}
	b1, err := d.gpio.ReadPin(d.pin1)
	if err != nil {
		return geometry.Rotation0, fmt.Errorf("read rotation pin %d: %w", d.pin1, err)
	}

	quarter := 0
	if b0 == gpio.Low {
		quarter |= 1
	}
	if b1 == gpio.Low {
		quarter |= 2
	}
	r := geometry.Rotation(quarter)
	debug.Trace("Display: rotation switch pin%d=%v pin%d=%v -> %v", d.pin0, b0, d.pin1, b1, r)
	return r, nil
}

func (d *GPIO) PhysicalSize() geometry.Size {
	return d.size
}
