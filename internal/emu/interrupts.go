package emu

import "fmt"

type (
	interruptRequest struct {
		vector     uint8
		autovector bool
	}

	// InterruptController merges interrupt requests from several devices into
	// the CPU's IPL input and answers interrupt acknowledge cycles.
	InterruptController struct {
		requests [8]*interruptRequest
		maxLevel uint8
		onChange func(level uint8)
	}
)

func NewInterruptController() *InterruptController {
	return &InterruptController{}
}

// Connect drives the CPU's IPL input from the controller. The controller is
// also attached to bus for acknowledge cycles when bus is a DeviceBus.
func (ic *InterruptController) Connect(cpu *CPU, bus Bus) {
	ic.onChange = func(level uint8) {
		_ = cpu.SetIPL(level)
	}
	if b, ok := bus.(*DeviceBus); ok {
		b.AttachInterrupts(ic)
	}
	ic.onChange(ic.maxLevel)
}

// Request raises level. A nil vector asks for an autovector on acknowledge.
func (ic *InterruptController) Request(level uint8, vector *uint8) error {
	if level > 7 {
		return fmt.Errorf("invalid interrupt level %d", level)
	}
	if level == 0 {
		return nil
	}

	if vector == nil {
		ic.requests[level] = &interruptRequest{autovector: true}
	} else {
		ic.requests[level] = &interruptRequest{vector: *vector}
	}
	ic.update()
	return nil
}

// Clear withdraws the request at level.
func (ic *InterruptController) Clear(level uint8) {
	if level > 7 {
		return
	}
	ic.requests[level] = nil
	ic.update()
}

// Level is the highest requested level.
func (ic *InterruptController) Level() uint8 {
	return ic.maxLevel
}

// Acknowledge consumes the request at level and returns its vector.
// Acknowledging a level nobody requests yields the spurious interrupt vector.
func (ic *InterruptController) Acknowledge(level uint8) (uint8, bool) {
	if level > 7 {
		return VectorSpuriousInterrupt, false
	}
	req := ic.requests[level]
	if req == nil {
		return VectorSpuriousInterrupt, false
	}

	ic.requests[level] = nil
	ic.update()

	if req.autovector {
		return 0, true
	}
	return req.vector, false
}

func (ic *InterruptController) update() {
	previous := ic.maxLevel
	ic.maxLevel = 0
	for l := uint8(7); l > 0; l-- {
		if ic.requests[l] != nil {
			ic.maxLevel = l
			break
		}
	}
	if ic.maxLevel != previous && ic.onChange != nil {
		ic.onChange(ic.maxLevel)
	}
}
